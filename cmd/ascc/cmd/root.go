package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ascc",
	Short: "AngelScript-family compiler middle end",
	Long: `ascc checks and compiles an AngelScript-family script AST into bytecode.

It runs the compiler's middle end over an already-parsed AST:
  - Symbol registration for types, functions, and globals
  - Reference resolution and type completion (inheritance, mixins, interfaces)
  - Overload resolution and expression/statement checking
  - Bytecode emission

Lexing, parsing, and execution are handled elsewhere; this tool consumes
a JSON AST fixture and reports diagnostics or emits bytecode.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
