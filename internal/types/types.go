// Package types models the primitive value types of the scripting language
// and the DataType descriptor used for parameters, fields, properties, and
// return types throughout the registry and checker.
package types

import "fmt"

// PrimitiveKind enumerates the built-in value types. Width and signedness
// matter for the implicit-conversion table in the registry.
type PrimitiveKind int

const (
	Void PrimitiveKind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	String
)

var primitiveNames = map[PrimitiveKind]string{
	Void:    "void",
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int",
	Int64:   "int64",
	UInt8:   "uint8",
	UInt16:  "uint16",
	UInt32:  "uint",
	UInt64:  "uint64",
	Float32: "float",
	Float64: "double",
	String:  "string",
}

func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsInteger reports whether the kind is any signed or unsigned integer width.
func (k PrimitiveKind) IsInteger() bool {
	switch k {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether the kind is an unsigned integer width.
func (k PrimitiveKind) IsUnsigned() bool {
	switch k {
	case UInt8, UInt16, UInt32, UInt64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the kind is a floating-point width.
func (k PrimitiveKind) IsFloat() bool {
	return k == Float32 || k == Float64
}

// Width returns the bit width of an integer or float kind, 0 otherwise.
func (k PrimitiveKind) Width() int {
	switch k {
	case Int8, UInt8:
		return 8
	case Int16, UInt16:
		return 16
	case Int32, UInt32, Float32:
		return 32
	case Int64, UInt64, Float64:
		return 64
	default:
		return 0
	}
}

// Flag bits attached to a DataType beyond its underlying kind.
type Flag uint8

const (
	FlagHandle Flag = 1 << iota
	FlagConstHandle
	FlagArray
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// Ref is a reference to the underlying type: either a built-in primitive or
// a registry entry identified by hash. Exactly one of Primitive/Hash is
// meaningful, distinguished by IsPrimitive.
type Ref struct {
	Hash        uint64 // valid when !IsPrimitive; an ids.TypeHash value
	Primitive   PrimitiveKind
	IsPrimitive bool
}

// PrimitiveRef builds a Ref to a built-in primitive kind.
func PrimitiveRef(kind PrimitiveKind) Ref {
	return Ref{Primitive: kind, IsPrimitive: true}
}

// EntryRef builds a Ref to a registry type entry by hash.
func EntryRef(hash uint64) Ref {
	return Ref{Hash: hash, IsPrimitive: false}
}

func (r Ref) Equals(other Ref) bool {
	if r.IsPrimitive != other.IsPrimitive {
		return false
	}
	if r.IsPrimitive {
		return r.Primitive == other.Primitive
	}
	return r.Hash == other.Hash
}

func (r Ref) String() string {
	if r.IsPrimitive {
		return r.Primitive.String()
	}
	return fmt.Sprintf("#%x", r.Hash)
}

// DataType is the full descriptor carried on parameters, fields,
// properties, locals and return types: an underlying Ref plus the
// const/handle/array bits the spec's data model names on §3.
type DataType struct {
	Ref     Ref
	IsConst bool
	Flags   Flag
}

// New builds a plain (non-const, non-handle, non-array) DataType over ref.
func New(ref Ref) DataType {
	return DataType{Ref: ref}
}

// WithConst returns a copy of d marked const.
func (d DataType) WithConst() DataType {
	d.IsConst = true
	return d
}

// WithHandle returns a copy of d marked as a handle.
func (d DataType) WithHandle() DataType {
	d.Flags |= FlagHandle
	return d
}

// WithConstHandle returns a copy of d marked as a const handle.
func (d DataType) WithConstHandle() DataType {
	d.Flags |= FlagHandle | FlagConstHandle
	return d
}

// WithArray returns a copy of d marked as an array of its Ref element type.
func (d DataType) WithArray() DataType {
	d.Flags |= FlagArray
	return d
}

// IsHandle reports whether d denotes a handle to a reference type.
func (d DataType) IsHandle() bool { return d.Flags.Has(FlagHandle) }

// IsConstHandle reports whether d denotes a const handle.
func (d DataType) IsConstHandle() bool { return d.Flags.Has(FlagConstHandle) }

// IsArray reports whether d denotes an array type.
func (d DataType) IsArray() bool { return d.Flags.Has(FlagArray) }

// Equals performs a structural comparison of two DataTypes, ignoring
// nothing: identical Ref, const-ness, and flags are all required.
func (d DataType) Equals(other DataType) bool {
	return d.Ref.Equals(other.Ref) && d.IsConst == other.IsConst && d.Flags == other.Flags
}

func (d DataType) String() string {
	s := d.Ref.String()
	if d.IsArray() {
		s = "array<" + s + ">"
	}
	if d.IsHandle() {
		s += "@"
	}
	if d.IsConst {
		s = "const " + s
	}
	return s
}

// Direction is the passing convention of a parameter.
type Direction int

const (
	In Direction = iota
	Out
	InOut
)

func (d Direction) String() string {
	switch d {
	case Out:
		return "out"
	case InOut:
		return "inout"
	default:
		return "in"
	}
}
