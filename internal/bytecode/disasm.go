package bytecode

import (
	"fmt"
	"io"

	"github.com/ascript-lang/ascc/internal/types"
)

// Disassembler renders a Chunk's constant pool and instruction stream as
// human-readable text, for debugging and golden-test output.
type Disassembler struct {
	w io.Writer
	c *Chunk
}

// NewDisassembler creates a Disassembler writing to w for the given chunk.
func NewDisassembler(w io.Writer, c *Chunk) *Disassembler {
	return &Disassembler{w: w, c: c}
}

// Disassemble prints the chunk's name, constant pool, and every
// instruction in order.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.w, "== %s ==\n", d.c.Name)
	if len(d.c.Constants) > 0 {
		fmt.Fprintln(d.w, "-- constants --")
		for i, k := range d.c.Constants {
			fmt.Fprintf(d.w, "%4d %s\n", i, formatConstant(k))
		}
	}
	fmt.Fprintln(d.w, "-- code --")
	for offset := range d.c.Code {
		d.DisassembleInstruction(offset)
	}
}

// DisassembleInstruction prints the instruction at offset: its source
// line, mnemonic, and any operand in a form appropriate to its opcode.
func (d *Disassembler) DisassembleInstruction(offset int) {
	in := d.c.Code[offset]
	fmt.Fprintf(d.w, "%04d %4d %-16s", offset, in.Line, in.Mnemonic())

	switch {
	case in.Op == OpConstant:
		fmt.Fprintf(d.w, " #%d", in.Arg)
		if int(in.Arg) < len(d.c.Constants) {
			fmt.Fprintf(d.w, " (%s)", formatConstant(d.c.Constants[in.Arg]))
		}
	case in.Op == OpGetLocal, in.Op == OpSetLocal, in.Op == OpGetField, in.Op == OpSetField, in.Op == OpPick:
		fmt.Fprintf(d.w, " %d", in.Arg)
	case in.Op == OpGetGlobal, in.Op == OpSetGlobal:
		fmt.Fprintf(d.w, " @%016x", uint64(in.Hash))
	case in.Op == OpCallMethod, in.Op == OpCallFunction:
		fmt.Fprintf(d.w, " fn=%016x argc=%d", uint64(in.Hash), in.Arg)
	case in.Op.IsJump():
		fmt.Fprintf(d.w, " -> %d", d.c.JumpTarget(offset))
	}
	fmt.Fprintln(d.w)
}

func formatConstant(c Constant) string {
	switch {
	case c.Kind == types.Void:
		return "void"
	case c.Kind == types.Bool:
		return fmt.Sprintf("%t", c.Bool)
	case c.Kind == types.String:
		return fmt.Sprintf("%q", c.String)
	case c.Kind.IsFloat():
		return fmt.Sprintf("%g", c.Float)
	default:
		return fmt.Sprintf("%d", c.Int)
	}
}
