package pty

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultShellUsesEnvironment(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("SHELL is not consulted on windows")
	}

	t.Setenv("SHELL", "/opt/bin/fish")
	assert.Equal(t, "/opt/bin/fish", DefaultShell())
}

func TestDefaultShellFallback(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("SHELL is not consulted on windows")
	}

	t.Setenv("SHELL", "")
	shell := DefaultShell()
	assert.NotEmpty(t, shell)
	assert.True(t, strings.HasPrefix(shell, "/bin/"), "fallback shell %q should live in /bin", shell)
}

func TestDefaultShellWindowsComspec(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("COMSPEC is only consulted on windows")
	}

	t.Setenv("COMSPEC", `C:\Windows\System32\cmd.exe`)
	assert.Equal(t, `C:\Windows\System32\cmd.exe`, DefaultShell())

	t.Setenv("COMSPEC", "")
	assert.Equal(t, "cmd.exe", DefaultShell())
}
