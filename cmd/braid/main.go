// Command braid is the Braid language driver: run scripts, drop into
// a REPL, or inspect the lexer/reader pipeline directly.
package main

import (
	"fmt"
	"os"

	"github.com/braidlang/braid/cmd/braid/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		// spec.md §6: exit code 0 on normal exit (including explicit
		// quit), -1 on any fatal error.
		os.Exit(-1)
	}
}
