package checker

import (
	"github.com/ascript-lang/ascc/internal/bytecode"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/overload"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/token"
	"github.com/ascript-lang/ascc/internal/types"
)

// local is one declared name in the current function's scope chain.
type local struct {
	name    string
	typ     types.DataType
	slot    int32
	depth   int
	isConst bool
}

// loopContext tracks the break/continue patch sites of one enclosing
// loop or switch, mirroring the teacher's loopContext shape.
type loopContext struct {
	breakJumps    []int
	continueJumps []int
	isLoop        bool // false for a bare switch, which accepts break only
}

// Checker walks one function body, type-checking every expression and
// statement and emitting bytecode onto Chunk.
type Checker struct {
	Reg   *registry.Registry
	Chunk *bytecode.Chunk
	Errs  *errors.List

	// Function is the function entry being compiled: its Owner (if any),
	// parameters, return type, and const-ness govern `this` field access,
	// default-argument checks, and reference-return safety.
	Function *registry.FunctionEntry

	// AllowUnsafeReferences disables the reference-return safety check of
	// spec §4.4.7 when the engine-wide property is set.
	AllowUnsafeReferences bool

	locals     []local
	scopeDepth int
	nextSlot   int32
	maxSlot    int32

	loopStack []*loopContext
}

// NewChecker creates a Checker for fn's body, targeting chunk.
func NewChecker(reg *registry.Registry, chunk *bytecode.Chunk, fn *registry.FunctionEntry) *Checker {
	c := &Checker{
		Reg:      reg,
		Chunk:    chunk,
		Errs:     &errors.List{},
		Function: fn,
	}
	if fn.HasOwner {
		c.declareParam("this", types.New(types.EntryRef(uint64(fn.Owner))), fn.Traits.IsConst)
	}
	for _, p := range fn.Params {
		c.declareParam(p.Name, p.Type, p.IsConst)
	}
	return c
}

func (c *Checker) declareParam(name string, typ types.DataType, isConst bool) {
	c.locals = append(c.locals, local{name: name, typ: typ, slot: c.nextSlot, depth: 0, isConst: isConst})
	c.nextSlot++
	c.maxSlot = max32(c.maxSlot, c.nextSlot)
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// BeginScope pushes a new lexical scope.
func (c *Checker) BeginScope() {
	c.scopeDepth++
}

// EndScope pops the current lexical scope, releasing the slots of any
// local declared within it.
func (c *Checker) EndScope() {
	depth := c.scopeDepth
	c.scopeDepth--
	n := len(c.locals)
	for n > 0 && c.locals[n-1].depth == depth {
		n--
	}
	if n < len(c.locals) {
		c.nextSlot = c.locals[n].slot
	}
	c.locals = c.locals[:n]
}

// DeclareLocal registers name as a new local in the current scope,
// reporting DuplicateDefinition if it already exists at this depth. It
// returns the slot assigned.
func (c *Checker) DeclareLocal(name string, typ types.DataType, isConst bool, span token.Span) int32 {
	for i := len(c.locals) - 1; i >= 0 && c.locals[i].depth == c.scopeDepth; i-- {
		if c.locals[i].name == name {
			c.Errs.Addf(errors.DuplicateDefinition, span, "local variable %q is already declared in this scope", name)
			return c.locals[i].slot
		}
	}
	slot := c.nextSlot
	c.locals = append(c.locals, local{name: name, typ: typ, slot: slot, depth: c.scopeDepth, isConst: isConst})
	c.nextSlot++
	c.maxSlot = max32(c.maxSlot, c.nextSlot)
	c.Chunk.LocalCount = int(c.maxSlot)
	return slot
}

// lookupLocal finds the innermost local named name, nil if none.
func (c *Checker) lookupLocal(name string) *local {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return &c.locals[i]
		}
	}
	return nil
}

// thisConst reports whether `this` is const: Function has an owner and is
// a const method.
func (c *Checker) thisConst() bool {
	return c.Function.HasOwner && c.Function.Traits.IsConst
}

func (c *Checker) pushLoop(isLoop bool) *loopContext {
	lc := &loopContext{isLoop: isLoop}
	c.loopStack = append(c.loopStack, lc)
	return lc
}

func (c *Checker) popLoop() *loopContext {
	lc := c.loopStack[len(c.loopStack)-1]
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	return lc
}

// resolveOverload is a thin wrapper around the overload resolver package,
// kept here so call sites read as a Checker method.
func (c *Checker) resolveOverload(candidates []*registry.FunctionEntry, argTypes []types.DataType, constReceiver bool) overload.Result {
	return overload.Resolve(c.Reg, candidates, argTypes, constReceiver)
}
