// Command memsim drives the best-fit allocator simulation from scripts, a
// numbered menu or an interactive terminal UI.
package main

func main() {
	execute()
}
