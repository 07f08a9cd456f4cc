package astjson

import (
	"testing"

	"github.com/ascript-lang/ascc/internal/compiler"
)

func TestDecodeProgramLocalAssignmentScenario(t *testing.T) {
	src := `{
		"decls": [
			{
				"kind": "FuncDecl",
				"name": "Main",
				"body": {
					"kind": "BlockStmt",
					"statements": [
						{
							"kind": "VarDecl",
							"name": "x",
							"type": {"name": "int"},
							"init": {"kind": "IntLiteral", "value": 0}
						},
						{
							"kind": "ExprStmt",
							"expr": {
								"kind": "AssignExpr",
								"target": {"kind": "Identifier", "name": "x"},
								"value": {"kind": "IntLiteral", "value": 42}
							}
						}
					]
				}
			}
		]
	}`

	prog, err := DecodeProgram([]byte(src))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	out := compiler.Compile(prog, compiler.Options{})
	if !out.Succeeded() {
		t.Fatalf("expected a clean compile, got errors: %v", out.Errors.Errors)
	}
	if len(out.Chunks) != 1 {
		t.Fatalf("expected one compiled function, got %d", len(out.Chunks))
	}
}

func TestDecodeProgramClassWithInterfaceScenario(t *testing.T) {
	src := `{
		"decls": [
			{"kind": "InterfaceDecl", "name": "IDrawable", "methods": [{"kind": "FuncDecl", "name": "draw"}]},
			{"kind": "ClassDecl", "name": "Sprite", "interfaces": [{"name": "IDrawable"}]}
		]
	}`

	prog, err := DecodeProgram([]byte(src))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	out := compiler.Compile(prog, compiler.Options{})
	if out.Succeeded() {
		t.Fatal("expected interface non-compliance to fail the compile")
	}
}

func TestDecodeProgramRejectsUnknownExpressionKind(t *testing.T) {
	src := `{
		"decls": [
			{"kind": "FuncDecl", "name": "Main", "body": {"kind": "BlockStmt", "statements": [
				{"kind": "ExprStmt", "expr": {"kind": "Mystery"}}
			]}}
		]
	}`

	if _, err := DecodeProgram([]byte(src)); err == nil {
		t.Fatal("expected an error for an unrecognised expression kind")
	}
}
