// Package registry implements the Symbol Registry (C1): the authoritative
// catalogue of types, functions, properties, globals, vtables, and
// interface dispatch tables produced and consumed by the rest of the
// compiler.
package registry

import (
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/token"
	"github.com/ascript-lang/ascc/internal/types"
)

// TypeKind classifies a TypeEntry.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindFuncdef
	KindTypedef
	KindPrimitive
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindFuncdef:
		return "funcdef"
	case KindTypedef:
		return "typedef"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Source distinguishes script-declared types from host-registered
// (foreign/FFI) ones. Inheriting from a foreign class is forbidden.
type Source int

const (
	SourceScript Source = iota
	SourceForeign
)

// TypeFlags is the bitmask of type-level attributes from the data model.
type TypeFlags uint16

const (
	FlagValueType TypeFlags = 1 << iota
	FlagRefType
	FlagPOD
	FlagNoHandle
	FlagNoInherit
	FlagAbstract
	FlagFinal
	FlagScoped
	FlagNoCount
	FlagMixin
)

func (f TypeFlags) Has(bit TypeFlags) bool { return f&bit != 0 }

// BehaviourKind names an engine-defined class operation.
type BehaviourKind string

const (
	BehaviourConstruct  BehaviourKind = "construct"
	BehaviourAddRef     BehaviourKind = "addref"
	BehaviourRelease    BehaviourKind = "release"
	BehaviourOpIndex    BehaviourKind = "opIndex"
	BehaviourOpIndexSet BehaviourKind = "opIndexSet"
)

// Visibility is the access level of a member.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// EnumMember is one constant of an enum type, supplementing the spec's
// distilled enum coverage per SPEC_FULL.md §8.
type EnumMember struct {
	Name  string
	Value int64
}

// SlotIndex is a vtable/itable position, bounded to 255 entries.
type SlotIndex uint8

// VTable is the per-class ordered dispatch table, indexed by signature
// hash so that overrides occupy the same slot as the method they replace.
type VTable struct {
	Slots       []ids.FunctionId
	Index       map[ids.TypeHash]SlotIndex
	SlotsByName map[string][]SlotIndex
}

// NewVTable creates an empty vtable.
func NewVTable() *VTable {
	return &VTable{
		Index:       make(map[ids.TypeHash]SlotIndex),
		SlotsByName: make(map[string][]SlotIndex),
	}
}

// Clone returns a deep-enough copy of v suitable as a starting point for a
// derived class's vtable (slot identity is preserved, slices are copied so
// mutating the clone never mutates the base).
func (v *VTable) Clone() *VTable {
	c := NewVTable()
	c.Slots = append(c.Slots, v.Slots...)
	for k, val := range v.Index {
		c.Index[k] = val
	}
	for k, val := range v.SlotsByName {
		c.SlotsByName[k] = append([]SlotIndex(nil), val...)
	}
	return c
}

// Assign writes fn into the slot for signatureHash, overwriting an
// existing override or appending a new slot. Returns the slot used.
func (v *VTable) Assign(signatureHash ids.TypeHash, name string, fn ids.FunctionId) SlotIndex {
	if slot, ok := v.Index[signatureHash]; ok {
		v.Slots[slot] = fn
		return slot
	}
	slot := SlotIndex(len(v.Slots))
	v.Slots = append(v.Slots, fn)
	v.Index[signatureHash] = slot
	v.SlotsByName[name] = append(v.SlotsByName[name], slot)
	return slot
}

// ITable is the per-(class,interface) dispatch table translating an
// interface's slot indices to concrete FunctionIds on the implementing
// class.
type ITable struct {
	Slots []ids.FunctionId
}

// NewITable allocates an itable of the given length, every slot initially
// ids.Empty.
func NewITable(length int) *ITable {
	slots := make([]ids.FunctionId, length)
	for i := range slots {
		slots[i] = ids.Empty
	}
	return &ITable{Slots: slots}
}

// Property is a class or record member: a direct field when both Getter
// and Setter are nil, otherwise a virtual property.
type Property struct {
	Getter     *ids.FunctionId
	Setter     *ids.FunctionId
	Name       string
	Type       types.DataType
	Visibility Visibility
}

// IsVirtual reports whether the property has a getter or setter rather
// than being a direct field.
func (p *Property) IsVirtual() bool {
	return p.Getter != nil || p.Setter != nil
}

// IsReadOnly reports whether the property has a getter but no setter.
func (p *Property) IsReadOnly() bool {
	return p.IsVirtual() && p.Getter != nil && p.Setter == nil
}

// IsWriteOnly reports whether the property has a setter but no getter.
func (p *Property) IsWriteOnly() bool {
	return p.IsVirtual() && p.Setter != nil && p.Getter == nil
}

// TypeEntry is one declared class, interface, enum, funcdef, typedef, or
// registered native type.
type TypeEntry struct {
	Hash          ids.TypeHash
	Name          string
	Namespace     string
	QualifiedName string
	Kind          TypeKind
	Flags         TypeFlags
	Source        Source

	HasBase bool
	Base    ids.TypeHash

	Interfaces []ids.TypeHash
	Mixins     []ids.TypeHash

	Properties []*Property
	Methods    map[string][]ids.FunctionId
	Behaviours map[BehaviourKind]ids.FunctionId

	VTable  *VTable
	ITables map[ids.TypeHash]*ITable

	// Interface-only: the interface's own slot table, built by completion
	// phase D and consumed when classes build their itables.
	InterfaceSlots []ids.FunctionId
	InterfaceIndex map[ids.TypeHash]SlotIndex

	// Enum-only.
	EnumMembers []EnumMember
	EnumBacking types.PrimitiveKind

	// Funcdef/typedef-only: the aliased or described type.
	Aliased types.DataType

	Span token.Span
}

// NewTypeEntry creates a TypeEntry with its maps initialised.
func NewTypeEntry(name, namespace string, kind TypeKind) *TypeEntry {
	qualified := name
	if namespace != "" {
		qualified = namespace + "::" + name
	}
	return &TypeEntry{
		Name:          name,
		Namespace:     namespace,
		QualifiedName: qualified,
		Kind:          kind,
		Methods:       make(map[string][]ids.FunctionId),
		Behaviours:    make(map[BehaviourKind]ids.FunctionId),
		ITables:       make(map[ids.TypeHash]*ITable),
	}
}

// AddMethod appends fn to the named overload set.
func (t *TypeEntry) AddMethod(name string, fn ids.FunctionId) {
	t.Methods[name] = append(t.Methods[name], fn)
}

// Parameter is one function parameter.
type Parameter struct {
	Default   any // constant-expression AST node, nil if none
	Name      string
	Type      types.DataType
	Direction types.Direction
	IsConst   bool
}

// ReturnFlags carries the return-value modifiers of a function.
type ReturnFlags uint8

const (
	ReturnRef ReturnFlags = 1 << iota
	ReturnConstRef
	ReturnAutoHandle
)

func (f ReturnFlags) Has(bit ReturnFlags) bool { return f&bit != 0 }

// Traits carries the boolean method attributes of a function.
type Traits struct {
	IsConst  bool
	Virtual  bool
	Override bool
	Final    bool
	Abstract bool
}

// Impl is the implementation location of a function: either a script
// bytecode offset, or a native handler identifier supplied by the
// out-of-scope host-registration layer.
type Impl struct {
	NativeID       string
	BytecodeOffset int
	IsNative       bool
}

// LocalVar describes one local variable or parameter slot within a
// compiled function body.
type LocalVar struct {
	Name    string
	Type    types.DataType
	Slot    int
	IsParam bool
	IsConst bool
}

// FunctionEntry is one declared function, method, or behaviour.
type FunctionEntry struct {
	Hash          ids.FunctionId
	Name          string
	Namespace     string
	QualifiedName string

	// seq is the order RegisterFunction assigned this entry, used to make
	// OverloadsOf's result order reproducible across runs.
	seq int

	HasOwner bool
	Owner    ids.TypeHash

	Params      []Parameter
	ReturnType  types.DataType
	ReturnFlags ReturnFlags
	Traits      Traits
	Visibility  Visibility
	Impl        Impl
	Locals      []LocalVar

	Span token.Span
}

// ParamTypeHashes returns the signature-relevant type refs of each
// parameter, used to derive hashes and to compare signatures.
func (f *FunctionEntry) ParamTypeHashes() []ids.TypeHash {
	out := make([]ids.TypeHash, len(f.Params))
	for i, p := range f.Params {
		out[i] = refHash(p.Type)
	}
	return out
}

// refHash folds a DataType into a single hash suitable as a signature
// component: primitives hash their kind name, entry refs use their hash
// directly, and the const/handle/array bits are folded in so `T` and `T@`,
// or `int` and `const int`, are distinct signature components. Parameter
// direction (in/out/inout) is not part of a DataType and is not folded in.
func refHash(dt types.DataType) ids.TypeHash {
	if dt.Ref.IsPrimitive {
		return ids.HashQualifiedName(dt.String())
	}
	base := ids.TypeHash(dt.Ref.Hash)
	if dt.Flags == 0 && !dt.IsConst {
		return base
	}
	return ids.HashQualifiedName(dt.String())
}

// GlobalEntry is one script-level global variable.
type GlobalEntry struct {
	Name    string
	Type    types.DataType
	IsConst bool
	Address int
}
