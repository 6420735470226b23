//go:build darwin || linux
// +build darwin linux

package diag

import (
	"os"

	"golang.org/x/sys/unix"
)

// TerminalWidth queries the controlling terminal's column count via
// TIOCGWINSZ. Returns 0 (no wrapping) for a non-terminal, such as
// redirected stderr in CI.
func TerminalWidth(file *os.File) int {
	w, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(w.Col)
}
