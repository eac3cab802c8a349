// Command mixcore is the CLI entry point: it wires the top-level cobra
// command tree in cmd and hands control to it.
package main

import "github.com/mixcore/mixcore/cmd"

func main() {
	cmd.Execute()
}
