package pty

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Default terminal size.
const (
	DefaultCols uint16 = 80
	DefaultRows uint16 = 24
)

// outputChanCapacity bounds the chunks buffered between the pump and the
// consumer. On a full channel the pump blocks rather than growing an
// unbounded queue, but it stays responsive to Stop.
const outputChanCapacity = 1024

// Session owns one pseudo-terminal pair and the shell attached to it.
// Builder methods configure it before Start; Write, Resize and the
// polling methods operate on a running session. Construct with New.
//
// One control goroutine drives a session and exactly one pump goroutine
// exists while it is running. The running flag is the only state shared
// between them; everything else stays on the control side.
type Session struct {
	mu sync.Mutex

	shell      string
	workingDir string
	cols       uint16
	rows       uint16
	logger     *zap.Logger

	pty     Pty
	running atomic.Bool
	output  chan []byte
	stopc   chan struct{} // signals the pump to abandon a pending send
	pumped  chan struct{} // closed by the pump on exit
}

// New returns an unstarted session with the platform default shell, the
// current working directory, and an 80x24 terminal.
func New() *Session {
	wd, err := os.Getwd()
	if err != nil {
		wd = "/"
	}
	return &Session{
		shell:      DefaultShell(),
		workingDir: wd,
		cols:       DefaultCols,
		rows:       DefaultRows,
		logger:     zap.NewNop(),
		output:     make(chan []byte, outputChanCapacity),
	}
}

// WithWorkingDirectory sets the child's working directory. Pre-start
// configuration; it touches no OS state.
func (s *Session) WithWorkingDirectory(path string) *Session {
	s.workingDir = path
	return s
}

// WithSize sets the initial terminal dimensions.
func (s *Session) WithSize(cols, rows uint16) *Session {
	s.cols = cols
	s.rows = rows
	return s
}

// WithShell overrides the launcher's shell choice, e.g. to attach a
// specific program to the slave side.
func (s *Session) WithShell(path string) *Session {
	s.shell = path
	return s
}

// WithLogger attaches a logger for lifecycle events. The default is a
// nop logger.
func (s *Session) WithLogger(logger *zap.Logger) *Session {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Start allocates the pty pair, spawns the shell attached to the slave
// side, and launches the output pump. Starting a running session is a
// no-op. On failure nothing is left running: the pair is released, no
// goroutine is spawned, and the running flag stays false.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return nil
	}

	// Release resources from a run that ended on its own (EOF or read
	// failure) before allocating a new pair.
	s.reset()

	env := os.Environ()
	if os.Getenv("TERM") == "" {
		env = append(env, "TERM=xterm-256color")
	}

	p, cmd, err := startPty(startOptions{
		shell: s.shell,
		dir:   s.workingDir,
		env:   env,
		cols:  s.cols,
		rows:  s.rows,
	})
	if err != nil {
		return err
	}

	s.pty = p
	s.stopc = make(chan struct{})
	s.pumped = make(chan struct{})
	s.running.Store(true)

	go s.pump(p, s.output, s.stopc, s.pumped)

	// Reap the child whenever it exits so it never lingers as a zombie.
	go func() { _ = cmd.Wait() }()

	s.logger.Debug("pty session started",
		zap.String("shell", s.shell),
		zap.String("working_dir", s.workingDir),
		zap.Uint16("cols", s.cols),
		zap.Uint16("rows", s.rows),
	)
	return nil
}

// Stop tears the session down: flips the running flag, closes the pty
// pair (an EOF-equivalent for the child), and joins the pump goroutine.
// Best-effort and idempotent; stopping an unstarted or already stopped
// session does nothing observable.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running.Store(false)
	s.reset()
}

// reset releases the current run's resources and joins the pump. The
// caller holds s.mu and has already cleared the running flag (or the
// pump cleared it itself).
func (s *Session) reset() {
	if s.stopc != nil {
		close(s.stopc)
		s.stopc = nil
	}
	if s.pty != nil {
		// Unblocks a pump stuck in Read.
		_ = s.pty.Close()
		s.pty = nil
	}
	if s.pumped != nil {
		<-s.pumped
		s.pumped = nil
		s.logger.Debug("pty session stopped")
	}
}

// Close implements io.Closer so sessions can be deferred. Equivalent to
// Stop.
func (s *Session) Close() error {
	s.Stop()
	return nil
}

// Write sends bytes to the child's stdin through the pty. It fails with
// ErrNotRunning when the session is not started.
func (s *Session) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pty == nil {
		return ErrNotRunning
	}
	n, err := s.pty.Write(data)
	if err != nil {
		return newError(CodeWriteFailed, err)
	}
	if n < len(data) {
		return newError(CodeWriteFailed, io.ErrShortWrite)
	}
	return nil
}

// WriteString sends a string to the child's stdin.
func (s *Session) WriteString(text string) error {
	return s.Write([]byte(text))
}

// Resize updates the stored terminal dimensions and, when running,
// resizes the pty.
func (s *Session) Resize(cols, rows uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cols = cols
	s.rows = rows

	if s.pty == nil {
		return nil
	}
	if err := s.pty.Resize(cols, rows); err != nil {
		return newError(CodeResizeFailed, err)
	}
	return nil
}

// IsRunning reports whether the child and pump are presumed active. It
// turns false after Stop, or on its own once the pump observes EOF or a
// read failure.
func (s *Session) IsRunning() bool {
	return s.running.Load()
}

// TryRecv returns one queued output chunk without blocking. The second
// return is false when no output is queued.
func (s *Session) TryRecv() ([]byte, bool) {
	select {
	case chunk := <-s.output:
		return chunk, true
	default:
		return nil, false
	}
}

// DrainOutput concatenates every queued chunk in arrival order. It never
// blocks; the result is empty when no output is queued.
func (s *Session) DrainOutput() []byte {
	var out []byte
	for {
		chunk, ok := s.TryRecv()
		if !ok {
			return out
		}
		out = append(out, chunk...)
	}
}

// Output returns the receiving end of the output channel for event-loop
// integration. A session expects a single logical consumer; competing
// receivers would interleave chunks. The channel is never closed, so
// consumers detect end-of-stream via IsRunning.
func (s *Session) Output() <-chan []byte {
	return s.output
}

// WorkingDirectory returns the configured working directory.
func (s *Session) WorkingDirectory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workingDir
}

// Shell returns the program attached to the slave side.
func (s *Session) Shell() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shell
}

// Size returns the current terminal dimensions.
func (s *Session) Size() (cols, rows uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

var _ io.Closer = (*Session)(nil)
