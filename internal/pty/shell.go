package pty

import (
	"os"
	"runtime"
)

// DefaultShell returns the default interactive shell for the host
// platform. It never fails: when the relevant environment variable is
// unset it falls back to a per-platform default.
func DefaultShell() string {
	switch runtime.GOOS {
	case "windows":
		if shell := os.Getenv("COMSPEC"); shell != "" {
			return shell
		}
		return "cmd.exe"
	case "darwin":
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell
		}
		return "/bin/zsh"
	case "linux":
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell
		}
		return "/bin/bash"
	default:
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell
		}
		return "/bin/sh"
	}
}
