package pty

// Pty is the master side of an allocated pseudo-terminal pair.
type Pty interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	Resize(cols, rows uint16) error
}

// startOptions describes the child attached to the slave side of a new
// pty pair.
type startOptions struct {
	shell string
	dir   string
	env   []string
	cols  uint16
	rows  uint16
}
