package resolver

import (
	"testing"

	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/registry"
)

func TestResolveMembersRegistersFieldsMethodsAndProperties(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{
				Name: "TWidget",
				Fields: []*ast.FieldDecl{
					{Name: "count", Type: &ast.TypeName{Name: "int"}},
				},
				Methods: []*ast.FuncDecl{
					{Name: "getCount", ReturnType: &ast.TypeName{Name: "int"}},
					{Name: "setCount", Params: []*ast.Param{{Name: "v", Type: &ast.TypeName{Name: "int"}}}},
				},
				Properties: []*ast.PropertyDecl{
					{Name: "Count", Type: &ast.TypeName{Name: "int"}, Getter: "getCount", Setter: "setCount"},
				},
			},
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
	if errs := r.ResolveMembers(prog); errs.HasErrors() {
		t.Fatalf("unexpected member errors: %v", errs)
	}

	widget, ok := reg.LookupType("TWidget", "")
	if !ok {
		t.Fatal("expected TWidget to be registered")
	}

	if len(widget.Properties) != 2 {
		t.Fatalf("expected 2 properties (1 field + 1 virtual), got %d", len(widget.Properties))
	}

	field := widget.Properties[0]
	if field.Name != "count" || field.IsVirtual() {
		t.Errorf("expected a direct field named count, got %+v", field)
	}

	prop := widget.Properties[1]
	if prop.Name != "Count" || !prop.IsVirtual() {
		t.Errorf("expected a virtual property named Count, got %+v", prop)
	}
	if prop.Getter == nil || prop.Setter == nil {
		t.Fatal("expected Count to have both a getter and a setter wired")
	}

	getters := widget.Methods["getCount"]
	if len(getters) != 1 || *prop.Getter != getters[0] {
		t.Errorf("expected Count's getter to match the registered getCount method")
	}

	fn, ok := reg.GetFunction(getters[0])
	if !ok {
		t.Fatal("expected getCount to be retrievable by its FunctionId")
	}
	if !fn.HasOwner || fn.Owner != widget.Hash {
		t.Error("expected getCount's owner to be TWidget's hash")
	}
	if fn.ReturnType.Ref.Primitive.String() != "int" {
		t.Errorf("expected getCount to return int, got %v", fn.ReturnType)
	}
}

func TestResolveMembersReportsMissingGetter(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{
				Name: "TWidget",
				Properties: []*ast.PropertyDecl{
					{Name: "Count", Type: &ast.TypeName{Name: "int"}, Getter: "missingGetter"},
				},
			},
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
	errs := r.ResolveMembers(prog)
	if !errs.HasErrors() {
		t.Fatal("expected an error: getter method does not exist")
	}
}

func TestResolveMembersMethodsCoexistAsOverloads(t *testing.T) {
	prog := &ast.Program{
		Decls: []ast.Decl{
			&ast.ClassDecl{
				Name: "TWidget",
				Methods: []*ast.FuncDecl{
					{Name: "resize", Params: []*ast.Param{{Name: "w", Type: &ast.TypeName{Name: "int"}}}},
					{Name: "resize", Params: []*ast.Param{
						{Name: "w", Type: &ast.TypeName{Name: "int"}},
						{Name: "h", Type: &ast.TypeName{Name: "int"}},
					}},
				},
			},
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
	if errs := r.ResolveMembers(prog); errs.HasErrors() {
		t.Fatalf("unexpected member errors: %v", errs)
	}

	widget, _ := reg.LookupType("TWidget", "")
	if len(widget.Methods["resize"]) != 2 {
		t.Fatalf("expected 2 coexisting resize overloads, got %d", len(widget.Methods["resize"]))
	}
}

func resolveOneFunction(t *testing.T, fn *ast.FuncDecl) *errors.List {
	t.Helper()
	prog := &ast.Program{Decls: []ast.Decl{fn}}
	reg := registry.New()
	r := New(reg)
	if errs := r.Declare(prog); errs.HasErrors() {
		t.Fatalf("unexpected declare errors: %v", errs)
	}
	if errs := r.Resolve(prog); errs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
	return r.ResolveMembers(prog)
}

func TestRegisterFreeFunctionAcceptsConstantDefaults(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "Clamp",
		Params: []*ast.Param{
			{Name: "x", Type: &ast.TypeName{Name: "int"}},
			{Name: "lo", Type: &ast.TypeName{Name: "int"}, Default: &ast.UnaryExpr{Op: "-", Operand: &ast.IntLiteral{Value: 1}}},
			{Name: "hi", Type: &ast.TypeName{Name: "int"}, Default: &ast.BinaryExpr{Op: "+", Left: &ast.IntLiteral{Value: 1}, Right: &ast.IntLiteral{Value: 2}}},
			{Name: "mode", Type: &ast.TypeName{Name: "int"}, Default: &ast.TernaryExpr{
				Cond: &ast.BoolLiteral{Value: true},
				Then: &ast.IntLiteral{Value: 0},
				Else: &ast.IntLiteral{Value: 1},
			}},
		},
	}

	if errs := resolveOneFunction(t, fn); errs.HasErrors() {
		t.Fatalf("expected constant defaults to be accepted, got: %v", errs)
	}
}

func TestRegisterFreeFunctionRejectsNonConstantDefault(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "F",
		Params: []*ast.Param{
			{Name: "x", Type: &ast.TypeName{Name: "int"}, Default: &ast.Identifier{Name: "someGlobal"}},
		},
	}

	errs := resolveOneFunction(t, fn)
	if !errs.HasErrors() {
		t.Fatal("expected a non-constant default expression to be rejected")
	}
}

func TestRegisterFreeFunctionRejectsDefaultAfterNonDefault(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "F",
		Params: []*ast.Param{
			{Name: "a", Type: &ast.TypeName{Name: "int"}, Default: &ast.IntLiteral{Value: 1}},
			{Name: "b", Type: &ast.TypeName{Name: "int"}},
		},
	}

	errs := resolveOneFunction(t, fn)
	if !errs.HasErrors() {
		t.Fatal("expected a parameter following a defaulted one to require its own default")
	}
}

func TestRegisterFreeFunctionRejectsInconvertibleDefault(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "F",
		Params: []*ast.Param{
			{Name: "s", Type: &ast.TypeName{Name: "string"}, Default: &ast.IntLiteral{Value: 1}},
		},
	}

	errs := resolveOneFunction(t, fn)
	if !errs.HasErrors() {
		t.Fatal("expected an int default for a string parameter to be rejected")
	}
}
