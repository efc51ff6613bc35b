//go:build !windows

package pty

import (
	"os"
	"os/exec"
	"syscall"

	ptylib "github.com/creack/pty"
)

type filePty struct {
	file *os.File
}

func (p *filePty) Read(data []byte) (int, error) {
	return p.file.Read(data)
}

func (p *filePty) Write(data []byte) (int, error) {
	return p.file.Write(data)
}

func (p *filePty) Close() error {
	return p.file.Close()
}

func (p *filePty) Resize(cols, rows uint16) error {
	return ptylib.Setsize(p.file, &ptylib.Winsize{Cols: cols, Rows: rows})
}

// startPty allocates a sized pty pair and spawns the child attached to
// the slave side as its controlling terminal. The parent closes its copy
// of the slave descriptor once the child holds it.
func startPty(opts startOptions) (Pty, *exec.Cmd, error) {
	ptmx, tty, err := ptylib.Open()
	if err != nil {
		return nil, nil, newError(CodeCreateFailed, err)
	}

	if err := ptylib.Setsize(ptmx, &ptylib.Winsize{Cols: opts.cols, Rows: opts.rows}); err != nil {
		ptmx.Close()
		tty.Close()
		return nil, nil, newError(CodeCreateFailed, err)
	}

	cmd := exec.Command(opts.shell)
	cmd.Dir = opts.dir
	cmd.Env = opts.env
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}

	if err := cmd.Start(); err != nil {
		ptmx.Close()
		tty.Close()
		return nil, nil, newError(CodeSpawnFailed, err)
	}
	tty.Close()

	return &filePty{file: ptmx}, cmd, nil
}
