//go:build windows

package pty

import (
	"errors"
	"os/exec"
)

// creack/pty has no Windows backend; a ConPTY implementation would slot
// in behind the same Pty interface.
func startPty(opts startOptions) (Pty, *exec.Cmd, error) {
	return nil, nil, newError(CodeCreateFailed, errors.New("pty is not supported on windows"))
}
