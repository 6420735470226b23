//go:build !darwin && !linux
// +build !darwin,!linux

package diag

import "os"

// TerminalWidth has no portable implementation outside darwin/linux in this
// backend (no Windows console API use here — this is only a cosmetic wrap
// width, not load-bearing). Disabling wrapping is always correct.
func TerminalWidth(*os.File) int {
	return 0
}
