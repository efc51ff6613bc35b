package pty

import (
	"errors"
	"io"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// readChunkSize is the per-read buffer for draining pty output.
const readChunkSize = 4096

// wouldBlockBackoff paces the loop when the descriptor reports EAGAIN,
// so a non-blocking master never busy-spins.
const wouldBlockBackoff = 5 * time.Millisecond

// pump drains the pty until EOF, a read failure, or Stop, forwarding
// chunks on out in read order. Read failures are not surfaced; they flip
// the running flag, which callers observe via IsRunning. done is closed
// on exit so Stop can join exactly once.
func (s *Session) pump(p Pty, out chan<- []byte, stopc <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	buf := make([]byte, readChunkSize)
	for {
		if !s.running.Load() {
			return
		}

		n, err := p.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case out <- chunk:
			case <-stopc:
				return
			}
		}

		switch {
		case err == nil && n == 0:
			// EOF reads as (0, nil) on some platforms.
			s.running.Store(false)
			s.logger.Debug("pty closed (EOF)")
			return
		case err == nil:
		case isWouldBlock(err):
			time.Sleep(wouldBlockBackoff)
		case errors.Is(err, io.EOF):
			s.running.Store(false)
			s.logger.Debug("pty closed (EOF)")
			return
		default:
			// Covers the descriptor closed by Stop and the EIO a Linux
			// master reports once the child exits.
			s.running.Store(false)
			s.logger.Debug("pty read ended", zap.Error(err))
			return
		}
	}
}

func isWouldBlock(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}
