//go:build darwin

package main

import "golang.org/x/sys/unix"

// isTerminal reports whether fd refers to a terminal.
//
// macOS has no TCGETS; TIOCGETA reads the same termios structure.
func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TIOCGETA)
	return err == nil
}
