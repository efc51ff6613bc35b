package pty

import (
	"io"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRead struct {
	data []byte
	err  error
}

// fakePty scripts a sequence of reads and reports EOF once exhausted.
type fakePty struct {
	mu     sync.Mutex
	reads  []fakeRead
	writes [][]byte
	closed bool
}

func (p *fakePty) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.reads) == 0 {
		return 0, io.EOF
	}
	r := p.reads[0]
	p.reads = p.reads[1:]
	return copy(buf, r.data), r.err
}

func (p *fakePty) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	chunk := make([]byte, len(data))
	copy(chunk, data)
	p.writes = append(p.writes, chunk)
	return len(data), nil
}

func (p *fakePty) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePty) Resize(cols, rows uint16) error {
	return nil
}

// startFakePump wires a session to a scripted pty without any OS
// resources, mirroring what Start does after a successful spawn.
func startFakePump(s *Session, p Pty) {
	s.stopc = make(chan struct{})
	s.pumped = make(chan struct{})
	s.running.Store(true)
	go s.pump(p, s.output, s.stopc, s.pumped)
}

func TestPumpForwardsChunksInOrder(t *testing.T) {
	fake := &fakePty{reads: []fakeRead{
		{data: []byte("foo")},
		{data: []byte("bar")},
		{data: []byte("baz")},
	}}

	s := New()
	startFakePump(s, fake)

	select {
	case <-s.pumped:
	case <-time.After(5 * time.Second):
		t.Fatal("pump did not terminate on EOF")
	}

	assert.False(t, s.IsRunning())
	assert.Equal(t, []byte("foobarbaz"), s.DrainOutput())
}

func TestPumpEOFFlipsFlag(t *testing.T) {
	fake := &fakePty{}

	s := New()
	startFakePump(s, fake)

	require.Eventually(t, func() bool { return !s.IsRunning() },
		5*time.Second, 10*time.Millisecond)
}

func TestPumpRetriesWouldBlock(t *testing.T) {
	fake := &fakePty{reads: []fakeRead{
		{err: syscall.EAGAIN},
		{err: syscall.EAGAIN},
		{data: []byte("late")},
	}}

	s := New()
	startFakePump(s, fake)

	select {
	case <-s.pumped:
	case <-time.After(5 * time.Second):
		t.Fatal("pump did not terminate on EOF")
	}

	assert.Equal(t, []byte("late"), s.DrainOutput())
}

func TestPumpStopsWhenFlagCleared(t *testing.T) {
	// An endless would-block script keeps the pump looping until the
	// flag drops.
	reads := make([]fakeRead, 10000)
	for i := range reads {
		reads[i] = fakeRead{err: syscall.EAGAIN}
	}
	fake := &fakePty{reads: reads}

	s := New()
	startFakePump(s, fake)

	s.running.Store(false)

	select {
	case <-s.pumped:
	case <-time.After(5 * time.Second):
		t.Fatal("pump did not notice the cleared flag")
	}
}

func TestPumpSilentStopOnReadError(t *testing.T) {
	fake := &fakePty{reads: []fakeRead{
		{data: []byte("partial")},
		{err: syscall.EIO},
	}}

	s := New()
	startFakePump(s, fake)

	select {
	case <-s.pumped:
	case <-time.After(5 * time.Second):
		t.Fatal("pump did not terminate on read error")
	}

	assert.False(t, s.IsRunning())
	assert.Equal(t, []byte("partial"), s.DrainOutput())
}
