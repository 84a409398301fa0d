//go:build !linux && !darwin && !windows

package main

// isTerminal reports false: color is only enabled where the terminal can be
// detected.
func isTerminal(fd uintptr) bool {
	return false
}
