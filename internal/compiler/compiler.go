// Package compiler orchestrates the middle-end phases over a parsed
// Program: symbol declaration and reference resolution (C1/C2), type
// completion (C3), and per-function expression/statement checking and
// bytecode emission (C4/C5/C6), in that fixed order.
//
// No phase here re-implements anything: it is pure sequencing glue, the
// way the teacher's cmd-level driver sequences parse→analyze→compile.
package compiler

import (
	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/checker"
	"github.com/ascript-lang/ascc/internal/completion"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/resolver"
)

// Options configures engine-wide switches that affect checking but not
// the declared language surface.
type Options struct {
	// AllowUnsafeReferences disables the reference-return locality check
	// of spec.md §4.4.7 / §8 property 8.
	AllowUnsafeReferences bool
}

// Output is everything a compilation produced: the populated registry,
// the completion pass's counters, one bytecode chunk per checked
// function body, and every diagnostic gathered along the way.
type Output struct {
	Registry   *registry.Registry
	Completion *completion.Result
	Chunks     map[ids.FunctionId]*bytecode.Chunk
	Errors     *errors.List
}

// Succeeded reports whether Output has no diagnostics, per spec.md §7's
// "a non-empty error list suppresses emission of an executable module".
func (o *Output) Succeeded() bool {
	return !o.Errors.HasErrors()
}

// Compile runs the full middle-end over prog. Declaration, reference
// resolution, and member registration run first so that completion sees
// every class's own member set; completion then builds vtables/itables
// before any function body is checked, since a method body may call
// through a vtable slot that completion is responsible for building.
// Unrelated failures do not abort the run: an error in one phase or one
// function is recorded and the rest of the unit is still processed, so
// a single compilation surfaces as many diagnostics as possible.
func Compile(prog *ast.Program, opts Options) *Output {
	reg := registry.New()
	res := resolver.New(reg)
	errs := &errors.List{}

	collect := func(l *errors.List) {
		errs.Errors = append(errs.Errors, l.Errors...)
	}

	collect(res.Declare(prog))
	collect(res.Resolve(prog))
	collect(res.ResolveMembers(prog))

	completionResult := completion.Run(reg)
	collect(completionResult.Errors)

	chunks := make(map[ids.FunctionId]*bytecode.Chunk)
	for _, binding := range res.FuncBindings() {
		if binding.Decl.Body == nil {
			// Abstract and interface methods declare a signature but no
			// body; there is nothing to check or emit.
			continue
		}
		chunk := bytecode.NewChunk(binding.Entry.QualifiedName)
		fc := checker.NewChecker(reg, chunk, binding.Entry)
		fc.AllowUnsafeReferences = opts.AllowUnsafeReferences
		fc.CheckBody(binding.Decl.Body)
		collect(fc.Errs)
		chunks[binding.Entry.Hash] = chunk
	}

	return &Output{
		Registry:   reg,
		Completion: completionResult,
		Chunks:     chunks,
		Errors:     errs,
	}
}
