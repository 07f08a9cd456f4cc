package bytecode

import (
	"bytes"
	"testing"

	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/types"
	"github.com/gkampitakis/go-snaps/snaps"
)

func TestChunkAddConstantDeduplicates(t *testing.T) {
	c := NewChunk("test")
	i1 := c.AddConstant(IntConstant(types.Int32, 42))
	i2 := c.AddConstant(IntConstant(types.Int32, 42))
	if i1 != i2 {
		t.Errorf("expected equal constants to share an index, got %d and %d", i1, i2)
	}
	i3 := c.AddConstant(IntConstant(types.Int32, 7))
	if i3 == i1 {
		t.Error("expected a distinct constant to get a distinct index")
	}
	if len(c.Constants) != 2 {
		t.Errorf("expected 2 pooled constants, got %d", len(c.Constants))
	}
}

func TestChunkPatchJumpComputesForwardDisplacement(t *testing.T) {
	c := NewChunk("test")
	jump := c.EmitJump(OpJumpIfFalse, 1)
	c.Write(Simple(OpPop, 1))
	c.Write(Simple(OpPop, 1))
	if err := c.PatchJump(jump); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Code[jump].Offset != 2 {
		t.Errorf("expected displacement 2, got %d", c.Code[jump].Offset)
	}
}

func TestChunkPatchJumpRejectsOutOfRangeOffset(t *testing.T) {
	c := NewChunk("test")
	jump := c.EmitJump(OpJump, 1)
	for i := 0; i < maxJumpOffset+1; i++ {
		c.Write(Simple(OpPop, 1))
	}
	if err := c.PatchJump(jump); err == nil {
		t.Fatal("expected an error for an out-of-range jump offset")
	}
}

func TestChunkEmitLoopComputesBackwardDisplacement(t *testing.T) {
	c := NewChunk("test")
	loopStart := len(c.Code)
	c.Write(Simple(OpPop, 1))
	c.Write(Simple(OpPop, 1))
	if err := c.EmitLoop(loopStart, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := c.Code[len(c.Code)-1]
	if last.Op != OpLoop {
		t.Fatalf("expected the last instruction to be OpLoop, got %v", last.Op)
	}
	if last.Offset >= 0 {
		t.Errorf("expected a negative (backward) offset, got %d", last.Offset)
	}
}

func TestInstructionMnemonicUntyped(t *testing.T) {
	in := Simple(OpPop, 1)
	if got := in.Mnemonic(); got != "Pop" {
		t.Errorf("expected %q, got %q", "Pop", got)
	}
}

func TestInstructionMnemonicTypedArithmetic(t *testing.T) {
	in := Typed(OpAdd, types.Int32, 1)
	if got := in.Mnemonic(); got != "AddI32" {
		t.Errorf("expected %q, got %q", "AddI32", got)
	}
}

func TestInstructionMnemonicConvert(t *testing.T) {
	in := Convert(types.Int32, types.Float64, 1)
	if got := in.Mnemonic(); got != "ConvertI32F64" {
		t.Errorf("expected %q, got %q", "ConvertI32F64", got)
	}
}

func TestDisassembleOutput(t *testing.T) {
	c := NewChunk("fib")
	idx := c.AddConstant(IntConstant(types.Int32, 1))
	c.Write(WithArg(OpConstant, idx, 3))
	c.Write(WithArg(OpGetLocal, 0, 3))
	c.Write(Typed(OpAdd, types.Int32, 3))
	jump := c.EmitJump(OpJumpIfFalse, 4)
	c.Write(Simple(OpPop, 4))
	_ = c.PatchJump(jump)
	c.Write(WithHash(OpCallFunction, ids.FunctionId(0xdeadbeef), 2, 5))
	c.Write(Simple(OpReturn, 6))

	var buf bytes.Buffer
	NewDisassembler(&buf, c).Disassemble()

	snaps.MatchSnapshot(t, "fib_disassembly", buf.String())
}
