package bytecode

import (
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/types"
)

// Instruction is one decoded stack-machine operation. Unlike the teacher's
// packed 32-bit encoding ([8-bit opcode][8-bit A][16-bit B]), Instruction
// keeps its operands as separate typed fields: function_id and global-hash
// operands are full 64-bit ids.TypeHash values that do not fit a 16-bit
// slot, and every call site in the checker/emitter builds instructions
// through the constructors below rather than packing bitfields by hand.
type Instruction struct {
	Op OpCode

	// Arg carries a slot index, local/field index, or call argument count,
	// depending on Op.
	Arg int32

	// Offset carries a signed jump displacement (in instruction count) for
	// jump-family opcodes, range-checked to fit an int16 at emission time.
	Offset int32

	// Hash carries a function_id (for CallMethod/CallFunction) or a global
	// variable's hash (for GetGlobal/SetGlobal).
	Hash ids.FunctionId

	// Type is the concrete primitive operand type for typed arithmetic,
	// bitwise, and comparison opcodes, and the conversion source type for
	// OpConvert.
	Type types.PrimitiveKind

	// ToType is the conversion target type; only meaningful for OpConvert.
	ToType types.PrimitiveKind

	// Line is the source line this instruction was emitted for, used by
	// the disassembler and by runtime error reporting.
	Line int
}

// Simple builds a zero-operand instruction (Pop, Dup, Swap, Return, ...).
func Simple(op OpCode, line int) Instruction {
	return Instruction{Op: op, Line: line}
}

// WithArg builds an instruction carrying an integer operand (GetLocal,
// SetLocal, GetField, SetField, Pick, CallFunction's argc, ...).
func WithArg(op OpCode, arg int32, line int) Instruction {
	return Instruction{Op: op, Arg: arg, Line: line}
}

// WithHash builds an instruction carrying a function_id or global hash
// (GetGlobal, SetGlobal, CallMethod, CallFunction).
func WithHash(op OpCode, hash ids.FunctionId, arg int32, line int) Instruction {
	return Instruction{Op: op, Hash: hash, Arg: arg, Line: line}
}

// WithOffset builds a jump-family instruction. The offset is filled in
// later by Chunk.PatchJump; callers emit with a placeholder (0) first.
func WithOffset(op OpCode, line int) Instruction {
	return Instruction{Op: op, Line: line}
}

// Typed builds a typed arithmetic, bitwise, or comparison instruction.
func Typed(op OpCode, kind types.PrimitiveKind, line int) Instruction {
	return Instruction{Op: op, Type: kind, Line: line}
}

// Convert builds an OpConvert instruction from one primitive kind to
// another.
func Convert(from, to types.PrimitiveKind, line int) Instruction {
	return Instruction{Op: OpConvert, Type: from, ToType: to, Line: line}
}

var shortCodes = map[types.PrimitiveKind]string{
	types.Bool:    "Bool",
	types.Int8:    "I8",
	types.Int16:   "I16",
	types.Int32:   "I32",
	types.Int64:   "I64",
	types.UInt8:   "U8",
	types.UInt16:  "U16",
	types.UInt32:  "U32",
	types.UInt64:  "U64",
	types.Float32: "F32",
	types.Float64: "F64",
	types.String:  "Str",
}

func shortCode(kind types.PrimitiveKind) string {
	if s, ok := shortCodes[kind]; ok {
		return s
	}
	return "?"
}

// Mnemonic renders the instruction's spec-style name, e.g. "AddI32" or
// "ConvertI32F64", by combining the opcode's base name with its operand
// type(s). Untyped opcodes render their bare name.
func (in Instruction) Mnemonic() string {
	switch {
	case in.Op == OpConvert:
		return in.Op.String() + shortCode(in.Type) + shortCode(in.ToType)
	case in.Op.IsTyped():
		return in.Op.String() + shortCode(in.Type)
	default:
		return in.Op.String()
	}
}
