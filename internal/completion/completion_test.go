package completion

import (
	"testing"

	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/resolver"
)

func build(t *testing.T, prog *ast.Program) (*registry.Registry, *Result) {
	t.Helper()
	reg := registry.New()
	r := resolver.New(reg)
	if errs := r.Declare(prog); errs.HasErrors() {
		t.Fatalf("declare errors: %v", errs)
	}
	if errs := r.Resolve(prog); errs.HasErrors() {
		t.Fatalf("resolve errors: %v", errs)
	}
	if errs := r.ResolveMembers(prog); errs.HasErrors() {
		t.Fatalf("member errors: %v", errs)
	}
	result := Run(reg)
	return reg, result
}

func intParam(name string) *ast.Param {
	return &ast.Param{Name: name, Type: &ast.TypeName{Name: "int"}}
}

func TestCompleteClassInheritsPublicMethod(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{
				Name: "TBase",
				Methods: []*ast.FuncDecl{
					{Name: "speak", Visibility: "public"},
				},
			},
			&ast.ClassDecl{
				Name: "TDerived",
				Base: &ast.TypeName{Name: "TBase"},
			},
		},
	}

	reg, result := build(t, prog)
	if result.Errors.HasErrors() {
		t.Fatalf("unexpected completion errors: %v", result.Errors)
	}

	derived, _ := reg.LookupType("TDerived", "")
	if len(derived.Methods["speak"]) != 1 {
		t.Fatalf("expected TDerived to inherit speak, got %v", derived.Methods["speak"])
	}
	if result.MethodsInherited != 1 {
		t.Errorf("expected 1 method inherited, got %d", result.MethodsInherited)
	}
}

func TestCompleteClassOverrideCollapsesBaseSlot(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{
				Name: "TBase",
				Methods: []*ast.FuncDecl{
					{Name: "speak", Visibility: "public", IsVirtual: true},
				},
			},
			&ast.ClassDecl{
				Name: "TDerived",
				Base: &ast.TypeName{Name: "TBase"},
				Methods: []*ast.FuncDecl{
					{Name: "speak", Visibility: "public", IsVirtual: true, IsOverride: true},
				},
			},
		},
	}

	reg, result := build(t, prog)
	if result.Errors.HasErrors() {
		t.Fatalf("unexpected completion errors: %v", result.Errors)
	}

	derived, _ := reg.LookupType("TDerived", "")
	if len(derived.Methods["speak"]) != 1 {
		t.Fatalf("expected exactly one speak slot after override collapse, got %d", len(derived.Methods["speak"]))
	}

	ownSpeak := derived.Methods["speak"][0]
	fn, _ := reg.GetFunction(ownSpeak)
	if fn.Owner != derived.Hash {
		t.Error("expected the surviving speak method to be TDerived's own declaration")
	}

	if len(derived.VTable.Slots) != 1 {
		t.Fatalf("expected a single-slot vtable, got %d slots", len(derived.VTable.Slots))
	}
	if derived.VTable.Slots[0] != ownSpeak {
		t.Error("expected the vtable slot to hold the override, not the base method")
	}
}

func TestCompletePrivateBaseMethodNotInherited(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{
				Name: "TBase",
				Methods: []*ast.FuncDecl{
					{Name: "secret", Visibility: "private"},
				},
			},
			&ast.ClassDecl{
				Name: "TDerived",
				Base: &ast.TypeName{Name: "TBase"},
			},
		},
	}

	reg, result := build(t, prog)
	if result.Errors.HasErrors() {
		t.Fatalf("unexpected completion errors: %v", result.Errors)
	}

	derived, _ := reg.LookupType("TDerived", "")
	if len(derived.Methods["secret"]) != 0 {
		t.Error("expected a private base method not to be inherited")
	}
}

func TestCompleteMixinMethodsRetargetOwner(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.MixinDecl{
				Name: "MCounting",
				Methods: []*ast.FuncDecl{
					{Name: "increment", Visibility: "public"},
				},
			},
			&ast.ClassDecl{
				Name:   "TWidget",
				Mixins: []*ast.TypeName{{Name: "MCounting"}},
			},
		},
	}

	reg, result := build(t, prog)
	if result.Errors.HasErrors() {
		t.Fatalf("unexpected completion errors: %v", result.Errors)
	}

	widget, _ := reg.LookupType("TWidget", "")
	ids := widget.Methods["increment"]
	if len(ids) != 1 {
		t.Fatalf("expected TWidget to gain one increment method from its mixin, got %d", len(ids))
	}
	fn, ok := reg.GetFunction(ids[0])
	if !ok {
		t.Fatal("expected the retargeted method to be registered under its new id")
	}
	if fn.Owner != widget.Hash {
		t.Error("expected the mixin method's owner to be retargeted to TWidget")
	}

	mixin, _ := reg.LookupType("MCounting", "")
	mixinIDs := mixin.Methods["increment"]
	if len(mixinIDs) != 1 || mixinIDs[0] == ids[0] {
		t.Error("expected the mixin's own method id to remain distinct from the clone")
	}
}

func TestCompleteInterfaceComplianceReportsMissingMethod(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.InterfaceDecl{
				Name: "IGreeter",
				Methods: []*ast.FuncDecl{
					{Name: "greet"},
				},
			},
			&ast.ClassDecl{
				Name:       "TSilent",
				Interfaces: []*ast.TypeName{{Name: "IGreeter"}},
			},
		},
	}

	reg, result := build(t, prog)
	_ = reg
	if !result.Errors.HasErrors() {
		t.Fatal("expected a missing-interface-method error")
	}
}

func TestCompleteInterfaceComplianceSatisfiedBuildsITable(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.InterfaceDecl{
				Name: "IGreeter",
				Methods: []*ast.FuncDecl{
					{Name: "greet"},
				},
			},
			&ast.ClassDecl{
				Name:       "TPerson",
				Interfaces: []*ast.TypeName{{Name: "IGreeter"}},
				Methods: []*ast.FuncDecl{
					{Name: "greet", Visibility: "public"},
				},
			},
		},
	}

	reg, result := build(t, prog)
	if result.Errors.HasErrors() {
		t.Fatalf("unexpected completion errors: %v", result.Errors)
	}

	person, _ := reg.LookupType("TPerson", "")
	iface, _ := reg.LookupType("IGreeter", "")

	itable, ok := person.ITables[iface.Hash]
	if !ok {
		t.Fatal("expected TPerson to have an itable for IGreeter")
	}
	if len(itable.Slots) != 1 {
		t.Fatalf("expected a single-slot itable, got %d", len(itable.Slots))
	}

	greetIDs := person.Methods["greet"]
	if len(greetIDs) != 1 || itable.Slots[0] != greetIDs[0] {
		t.Error("expected the itable slot to point at TPerson's greet method")
	}
}

func TestCompleteCircularInheritanceStopsProcessing(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{Name: "TA", Base: &ast.TypeName{Name: "TB"}},
			&ast.ClassDecl{Name: "TB", Base: &ast.TypeName{Name: "TA"}},
		},
	}

	reg := registry.New()
	r := resolver.New(reg)
	if errs := r.Declare(prog); errs.HasErrors() {
		t.Fatalf("declare errors: %v", errs)
	}
	if errs := r.Resolve(prog); errs.HasErrors() {
		t.Fatalf("resolve errors: %v", errs)
	}
	if errs := r.ResolveMembers(prog); errs.HasErrors() {
		t.Fatalf("member errors: %v", errs)
	}

	result := Run(reg)
	if !result.Errors.HasErrors() {
		t.Fatal("expected a circular-inheritance error")
	}
	if result.ClassesCompleted != 0 {
		t.Error("expected completion to stop before completing any class")
	}
}
