package resolver

import (
	"testing"

	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/registry"
)

func TestResolveClassHierarchy(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{Name: "TBase"},
			&ast.ClassDecl{Name: "TDerived", Base: &ast.TypeName{Name: "TBase"}},
		},
	}

	reg := registry.New()
	r := New(reg)

	if errs := r.Declare(prog); errs.HasErrors() {
		t.Fatalf("unexpected declare errors: %v", errs)
	}
	if errs := r.Resolve(prog); errs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}

	base, ok := reg.LookupType("TBase", "")
	if !ok {
		t.Fatal("expected TBase to be registered")
	}
	derived, ok := reg.LookupType("TDerived", "")
	if !ok {
		t.Fatal("expected TDerived to be registered")
	}
	if !derived.HasBase || derived.Base != base.Hash {
		t.Error("expected TDerived.Base to resolve to TBase's hash")
	}
}

func TestResolveUndefinedBaseReportsError(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{Name: "TDerived", Base: &ast.TypeName{Name: "TMissing"}},
		},
	}

	reg := registry.New()
	r := New(reg)

	if errs := r.Declare(prog); errs.HasErrors() {
		t.Fatalf("unexpected declare errors: %v", errs)
	}
	errs := r.Resolve(prog)
	if !errs.HasErrors() {
		t.Fatal("expected an undefined-type error")
	}
}

func TestResolveFinalBaseRejected(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{Name: "TBase", IsFinal: true},
			&ast.ClassDecl{Name: "TDerived", Base: &ast.TypeName{Name: "TBase"}},
		},
	}

	reg := registry.New()
	r := New(reg)

	if errs := r.Declare(prog); errs.HasErrors() {
		t.Fatalf("unexpected declare errors: %v", errs)
	}
	errs := r.Resolve(prog)
	if !errs.HasErrors() {
		t.Fatal("expected inheriting from a final class to be rejected")
	}

	derived, ok := reg.LookupType("TDerived", "")
	if !ok {
		t.Fatal("expected TDerived to be registered")
	}
	if derived.HasBase {
		t.Error("expected TDerived.HasBase to remain false after a rejected final base")
	}
}

func TestResolveInterfaceKeepsDirectImplementsList(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.InterfaceDecl{Name: "IBase"},
			&ast.InterfaceDecl{Name: "IDerived", Extends: []*ast.TypeName{{Name: "IBase"}}},
			&ast.ClassDecl{Name: "TImpl", Interfaces: []*ast.TypeName{{Name: "IDerived"}}},
		},
	}

	reg := registry.New()
	r := New(reg)

	if errs := r.Declare(prog); errs.HasErrors() {
		t.Fatalf("unexpected declare errors: %v", errs)
	}
	if errs := r.Resolve(prog); errs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}

	impl, ok := reg.LookupType("TImpl", "")
	if !ok {
		t.Fatal("expected TImpl to be registered")
	}
	iDerived, _ := reg.LookupType("IDerived", "")

	// Resolve only fills in the directly-implemented interface list;
	// expanding it to the transitive closure over interface inheritance
	// (IDerived -> IBase) is the Type Completion Pass's job, not C2's.
	if len(impl.Interfaces) != 1 || impl.Interfaces[0] != iDerived.Hash {
		t.Errorf("expected TImpl.Interfaces to be the direct list [IDerived], got %v", impl.Interfaces)
	}
}

func TestResolveClassComposesMixin(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.MixinDecl{Name: "MCounting"},
			&ast.ClassDecl{Name: "TWidget", Mixins: []*ast.TypeName{{Name: "MCounting"}}},
		},
	}

	reg := registry.New()
	r := New(reg)

	if errs := r.Declare(prog); errs.HasErrors() {
		t.Fatalf("unexpected declare errors: %v", errs)
	}
	if errs := r.Resolve(prog); errs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}

	widget, _ := reg.LookupType("TWidget", "")
	if len(widget.Mixins) != 1 {
		t.Fatalf("expected TWidget to have one mixin, got %d", len(widget.Mixins))
	}
}

func TestResolveMixinRejectedAsInterface(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.MixinDecl{Name: "MCounting"},
			&ast.ClassDecl{Name: "TWidget", Interfaces: []*ast.TypeName{{Name: "MCounting"}}},
		},
	}

	reg := registry.New()
	r := New(reg)

	if errs := r.Declare(prog); errs.HasErrors() {
		t.Fatalf("unexpected declare errors: %v", errs)
	}
	errs := r.Resolve(prog)
	if !errs.HasErrors() {
		t.Fatal("expected an error: a mixin is not an interface")
	}
}
