// Command holdgroundctl is the headless command-line driver for a
// holdground simulation kernel: one subcommand per embedding-API command,
// plus an interactive repl for chaining several together against the same
// live state.
package main

import (
	"fmt"
	"os"

	"holdground/cmd/holdgroundctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
