package bytecode

import (
	"fmt"

	"github.com/ascript-lang/ascc/internal/types"
)

// maxJumpOffset is the largest displacement a jump-family instruction can
// encode; offsets are range-checked against it rather than silently
// truncated.
const maxJumpOffset = 1<<15 - 1

// Constant is one entry in a Chunk's constant pool.
type Constant struct {
	Kind   types.PrimitiveKind
	Int    int64
	Float  float64
	String string
	Bool   bool
}

// IntConstant, FloatConstant, StringConstant, and BoolConstant build
// Constant values of the matching kind.
func IntConstant(kind types.PrimitiveKind, v int64) Constant { return Constant{Kind: kind, Int: v} }
func FloatConstant(kind types.PrimitiveKind, v float64) Constant {
	return Constant{Kind: kind, Float: v}
}
func StringConstant(v string) Constant { return Constant{Kind: types.String, String: v} }
func BoolConstant(v bool) Constant     { return Constant{Kind: types.Bool, Bool: v} }

// Equal reports whether two constants represent the same literal value,
// used by Chunk.AddConstant to deduplicate the pool.
func (c Constant) Equal(other Constant) bool {
	return c == other
}

// Chunk is a single function's compiled instruction stream: the code
// array, its constant pool, and line-number bookkeeping for diagnostics.
type Chunk struct {
	Name       string
	Code       []Instruction
	Constants  []Constant
	LocalCount int
}

// NewChunk creates an empty chunk for the named function.
func NewChunk(name string) *Chunk {
	return &Chunk{Name: name}
}

// Write appends an instruction and returns its offset.
func (c *Chunk) Write(in Instruction) int {
	c.Code = append(c.Code, in)
	return len(c.Code) - 1
}

// AddConstant appends v to the constant pool, reusing an existing entry of
// equal value, and returns its index.
func (c *Chunk) AddConstant(v Constant) int32 {
	for i, existing := range c.Constants {
		if existing.Equal(v) {
			return int32(i)
		}
	}
	c.Constants = append(c.Constants, v)
	return int32(len(c.Constants) - 1)
}

// EmitJump writes a jump-family instruction with a placeholder offset and
// returns its code offset, to be resolved later by PatchJump.
func (c *Chunk) EmitJump(op OpCode, line int) int {
	return c.Write(Instruction{Op: op, Line: line})
}

// PatchJump fills in the jump instruction at offset so that it lands just
// past the current end of the code array. It returns an error if the
// resulting displacement does not fit a signed 16-bit offset.
func (c *Chunk) PatchJump(offset int) error {
	displacement := len(c.Code) - offset - 1
	if displacement > maxJumpOffset {
		return fmt.Errorf("bytecode: jump offset %d exceeds maximum %d", displacement, maxJumpOffset)
	}
	c.Code[offset].Offset = int32(displacement)
	return nil
}

// EmitLoop writes a backward Loop instruction jumping to loopStart, the
// code offset the loop condition begins at.
func (c *Chunk) EmitLoop(loopStart int, line int) error {
	displacement := len(c.Code) - loopStart + 1
	if displacement > maxJumpOffset {
		return fmt.Errorf("bytecode: loop offset %d exceeds maximum %d", displacement, maxJumpOffset)
	}
	c.Write(Instruction{Op: OpLoop, Offset: -int32(displacement), Line: line})
	return nil
}

// JumpTarget returns the absolute code offset a jump-family instruction at
// offset lands on, for disassembly.
func (c *Chunk) JumpTarget(offset int) int {
	return offset + 1 + int(c.Code[offset].Offset)
}
