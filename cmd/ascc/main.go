// Command ascc is the CLI front end for the AngelScript-family compiler
// middle end: it reads a JSON AST fixture, runs the checker over it, and
// reports diagnostics or (with disasm) the resulting bytecode.
package main

import (
	"os"

	"github.com/ascript-lang/ascc/cmd/ascc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
