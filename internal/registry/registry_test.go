package registry

import (
	"testing"

	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/token"
	"github.com/ascript-lang/ascc/internal/types"
)

func TestRegisterTypeDuplicate(t *testing.T) {
	r := New()
	span := token.Span{Start: token.Position{Line: 1, Column: 1}}

	first := NewTypeEntry("TSprite", "", KindClass)
	if err := r.RegisterType(first, span); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}

	second := NewTypeEntry("TSprite", "", KindClass)
	err := r.RegisterType(second, span)
	if err == nil {
		t.Fatal("expected duplicate definition error, got nil")
	}
	ce, ok := err.(*errors.CompilerError)
	if !ok {
		t.Fatalf("expected *errors.CompilerError, got %T", err)
	}
	if ce.Kind != errors.DuplicateDefinition {
		t.Errorf("expected kind %s, got %s", errors.DuplicateDefinition, ce.Kind)
	}
}

func TestRegisterFunctionOverloadsCoexist(t *testing.T) {
	r := New()
	span := token.Span{}

	intParam := Parameter{Name: "x", Type: types.New(types.PrimitiveRef(types.Int32))}
	floatParam := Parameter{Name: "x", Type: types.New(types.PrimitiveRef(types.Float32))}

	withInt := &FunctionEntry{Name: "Scale", Params: []Parameter{intParam}}
	withFloat := &FunctionEntry{Name: "Scale", Params: []Parameter{floatParam}}

	if err := r.RegisterFunction(withInt, span); err != nil {
		t.Fatalf("unexpected error registering int overload: %v", err)
	}
	if err := r.RegisterFunction(withFloat, span); err != nil {
		t.Fatalf("unexpected error registering float overload: %v", err)
	}

	overloads := r.OverloadsOf(0, "Scale")
	if len(overloads) != 2 {
		t.Fatalf("expected 2 overloads, got %d", len(overloads))
	}
}

func TestRegisterFunctionExactDuplicateRejected(t *testing.T) {
	r := New()
	span := token.Span{}

	param := Parameter{Name: "x", Type: types.New(types.PrimitiveRef(types.Int32))}
	first := &FunctionEntry{Name: "Scale", Params: []Parameter{param}}
	second := &FunctionEntry{Name: "Scale", Params: []Parameter{param}}

	if err := r.RegisterFunction(first, span); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}
	if err := r.RegisterFunction(second, span); err == nil {
		t.Fatal("expected duplicate definition error for identical signature")
	}
}

func TestRegisterFunctionConstQualificationDistinguishesOverloads(t *testing.T) {
	r := New()
	span := token.Span{}

	param := Parameter{Name: "x", Type: types.New(types.PrimitiveRef(types.Int32))}
	plain := &FunctionEntry{Name: "Get", Params: []Parameter{param}}
	constMethod := &FunctionEntry{Name: "Get", Params: []Parameter{param}, Traits: Traits{IsConst: true}}

	if err := r.RegisterFunction(plain, span); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.RegisterFunction(constMethod, span); err != nil {
		t.Fatalf("const-qualified overload should not collide with non-const: %v", err)
	}
}

func TestLookupTypeNamespaceSearchOrder(t *testing.T) {
	r := New()
	span := token.Span{}
	r.AddImport("Engine")

	global := NewTypeEntry("TObject", "", KindClass)
	namespaced := NewTypeEntry("TObject", "Engine", KindClass)

	if err := r.RegisterType(namespaced, span); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.RegisterType(global, span); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, ok := r.LookupType("TObject", "")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if found.QualifiedName != "Engine::TObject" {
		t.Errorf("expected imported namespace to be searched before global, got %s", found.QualifiedName)
	}
}

func TestResolveTypedefDetectsCycle(t *testing.T) {
	r := New()
	span := token.Span{}

	a := NewTypeEntry("TA", "", KindTypedef)
	b := NewTypeEntry("TB", "", KindTypedef)
	if err := r.RegisterType(a, span); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterType(b, span); err != nil {
		t.Fatal(err)
	}
	a.Aliased = types.New(types.EntryRef(uint64(b.Hash)))
	b.Aliased = types.New(types.EntryRef(uint64(a.Hash)))

	if _, ok := r.ResolveTypedef(a.Hash); ok {
		t.Fatal("expected cycle detection to fail resolution")
	}
}

func TestResolveTypedefChain(t *testing.T) {
	r := New()
	span := token.Span{}

	alias := NewTypeEntry("TCount", "", KindTypedef)
	if err := r.RegisterType(alias, span); err != nil {
		t.Fatal(err)
	}
	alias.Aliased = types.New(types.PrimitiveRef(types.Int32))

	resolved, ok := r.ResolveTypedef(alias.Hash)
	if !ok {
		t.Fatal("expected successful resolution")
	}
	if !resolved.Equals(types.New(types.PrimitiveRef(types.Int32))) {
		t.Errorf("expected int32, got %s", resolved)
	}
}

func TestCanImplicitlyConvertIntegerWidening(t *testing.T) {
	r := New()

	tests := []struct {
		name string
		from types.PrimitiveKind
		to   types.PrimitiveKind
		want bool
	}{
		{"int8 to int32 widens", types.Int8, types.Int32, true},
		{"int32 to int8 narrows, rejected", types.Int32, types.Int8, false},
		{"uint8 to uint32 widens", types.UInt8, types.UInt32, true},
		{"uint16 to int32 widens (strictly contains)", types.UInt16, types.Int32, true},
		{"uint32 to int32 rejected (same width, not strictly contained)", types.UInt32, types.Int32, false},
		{"int32 to float32", types.Int32, types.Float32, true},
		{"float32 to float64", types.Float32, types.Float64, true},
		{"float64 to float32 rejected", types.Float64, types.Float32, false},
		{"bool to int rejected", types.Bool, types.Int32, false},
		{"int to bool rejected", types.Int32, types.Bool, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := types.New(types.PrimitiveRef(tt.from))
			to := types.New(types.PrimitiveRef(tt.to))
			if got := r.CanImplicitlyConvert(from, to); got != tt.want {
				t.Errorf("CanImplicitlyConvert(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanImplicitlyConvertClassToBaseAndInterface(t *testing.T) {
	r := New()
	span := token.Span{}

	base := NewTypeEntry("TObject", "", KindClass)
	iface := NewTypeEntry("ISerializable", "", KindInterface)
	derived := NewTypeEntry("TSprite", "", KindClass)

	if err := r.RegisterType(base, span); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterType(iface, span); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterType(derived, span); err != nil {
		t.Fatal(err)
	}
	derived.HasBase = true
	derived.Base = base.Hash
	derived.Interfaces = []ids.TypeHash{iface.Hash}

	derivedType := types.New(types.EntryRef(uint64(derived.Hash)))
	baseType := types.New(types.EntryRef(uint64(base.Hash)))
	ifaceType := types.New(types.EntryRef(uint64(iface.Hash)))

	if !r.CanImplicitlyConvert(derivedType, baseType) {
		t.Error("expected class-to-base to be implicit")
	}
	if !r.CanImplicitlyConvert(derivedType, ifaceType) {
		t.Error("expected class-to-interface to be implicit")
	}
	if r.CanImplicitlyConvert(baseType, derivedType) {
		t.Error("expected base-to-derived (downcast) to require an explicit cast")
	}
}

func TestVTableAssignReusesSlotForOverride(t *testing.T) {
	v := NewVTable()
	baseHash := ids.HashSlot("Draw", nil, false)

	baseSlot := v.Assign(baseHash, "Draw", ids.FunctionId(1))
	overrideSlot := v.Assign(baseHash, "Draw", ids.FunctionId(2))

	if baseSlot != overrideSlot {
		t.Errorf("expected override to reuse slot %d, got %d", baseSlot, overrideSlot)
	}
	if v.Slots[baseSlot] != ids.FunctionId(2) {
		t.Errorf("expected slot to hold the override, got %d", v.Slots[baseSlot])
	}
}

func TestVTableCloneIsIndependent(t *testing.T) {
	base := NewVTable()
	hash := ids.HashSlot("Draw", nil, false)
	base.Assign(hash, "Draw", ids.FunctionId(1))

	derived := base.Clone()
	derived.Assign(hash, "Draw", ids.FunctionId(2))

	if base.Slots[0] != ids.FunctionId(1) {
		t.Error("cloning a vtable must not mutate the base")
	}
	if derived.Slots[0] != ids.FunctionId(2) {
		t.Error("expected the clone to carry the override")
	}
}
