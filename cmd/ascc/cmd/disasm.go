package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/ascript-lang/ascc/internal/astjson"
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/compiler"
	"github.com/spf13/cobra"
)

var disasmFunction string

var disasmCmd = &cobra.Command{
	Use:   "disasm [fixture]",
	Short: "Check a JSON AST fixture and disassemble its compiled bytecode",
	Long: `disasm runs the same pipeline as "check" and additionally prints the
disassembled bytecode for every checked function, or just one function
when --function is given.

Examples:
  # Disassemble every function in a fixture
  ascc disasm program.json

  # Disassemble a single function by its qualified name
  ascc disasm program.json --function Main`,
	Args: cobra.ExactArgs(1),
	RunE: runDisasm,
}

func init() {
	rootCmd.AddCommand(disasmCmd)

	disasmCmd.Flags().StringVar(&disasmFunction, "function", "", "only disassemble the named function")
}

func runDisasm(_ *cobra.Command, args []string) error {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", filename, err)
	}

	prog, err := astjson.DecodeProgram(data)
	if err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", filename, err)
	}

	out := compiler.Compile(prog, compiler.Options{})

	if !out.Succeeded() {
		for _, e := range out.Errors.Errors {
			fmt.Fprintln(os.Stderr, e.Format(string(data)))
		}
		return fmt.Errorf("disasm failed: check found %d error(s)", len(out.Errors.Errors))
	}

	chunks := make([]*bytecode.Chunk, 0, len(out.Chunks))
	for _, chunk := range out.Chunks {
		if disasmFunction != "" && chunk.Name != disasmFunction {
			continue
		}
		chunks = append(chunks, chunk)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Name < chunks[j].Name })

	if disasmFunction != "" && len(chunks) == 0 {
		return fmt.Errorf("no compiled function named %q", disasmFunction)
	}

	for _, chunk := range chunks {
		fmt.Printf("== %s ==\n", chunk.Name)
		bytecode.NewDisassembler(os.Stdout, chunk).Disassemble()
		fmt.Println()
	}

	return nil
}
