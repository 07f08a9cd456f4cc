package cmd

import (
	"fmt"
	"os"

	"github.com/ascript-lang/ascc/internal/astjson"
	"github.com/ascript-lang/ascc/internal/compiler"
	"github.com/spf13/cobra"
)

var (
	allowUnsafeReferences bool
	checkVerbose          bool
)

var checkCmd = &cobra.Command{
	Use:   "check [fixture]",
	Short: "Run the middle end over a JSON AST fixture and report diagnostics",
	Long: `check reads a JSON AST fixture (see internal/astjson) and runs symbol
registration, reference resolution, type completion, and per-function
checking over it.

Examples:
  # Check a fixture, printing any diagnostics
  ascc check program.json

  # Check and print a summary of the registered symbol table
  ascc check program.json -v`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&allowUnsafeReferences, "allow-unsafe-references", false, "skip the safety check on values returned by reference")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "print a summary of the registered symbol table")
}

func runCheck(_ *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", filename, err)
	}

	prog, err := astjson.DecodeProgram(data)
	if err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", filename, err)
	}

	out := compiler.Compile(prog, compiler.Options{AllowUnsafeReferences: allowUnsafeReferences})

	if out.Completion != nil && checkVerbose {
		fmt.Fprintf(os.Stderr, "Classes completed:    %d\n", out.Completion.ClassesCompleted)
		fmt.Fprintf(os.Stderr, "Methods inherited:    %d\n", out.Completion.MethodsInherited)
		fmt.Fprintf(os.Stderr, "Properties inherited: %d\n", out.Completion.PropertiesInherited)
		fmt.Fprintf(os.Stderr, "Vtables built:        %d\n", out.Completion.VTablesBuilt)
		fmt.Fprintf(os.Stderr, "Itables built:        %d\n", out.Completion.ITablesBuilt)
		fmt.Fprintf(os.Stderr, "Functions compiled:   %d\n", len(out.Chunks))
		fmt.Fprintln(os.Stderr)
	}

	if checkVerbose && out.Registry != nil {
		fmt.Fprintln(os.Stderr, out.Registry.Dump())
	}

	if !out.Succeeded() {
		for _, e := range out.Errors.Errors {
			fmt.Fprintln(os.Stderr, e.Format(string(data)))
			fmt.Fprintln(os.Stderr)
		}
		return fmt.Errorf("check failed with %d error(s)", len(out.Errors.Errors))
	}

	fmt.Printf("%s: OK (%d function(s) compiled)\n", filename, len(out.Chunks))
	return nil
}
