// Package resolver implements the AST Reference Resolver (C2): it
// declares every class, interface, mixin, enum, funcdef, and typedef as a
// stub TypeEntry in the registry, then resolves the type names appearing
// in inheritance, mixin-inclusion, and interface-implementation clauses
// against namespace context and imports, writing the resolved hashes back
// onto the stub entries.
//
// Declare and Resolve do not register a type's own members; ResolveMembers
// (members.go) does that in a third step, turning each class/mixin/
// interface's fields, methods, and properties into registry Property and
// FunctionEntry objects. None of these three steps orders or validates the
// resulting graph (no cycle detection, no inherited-member merging, no
// vtable/itable construction) — that is the Type Completion Pass's job
// (C3). This package's output is: every class/interface/mixin stub has
// its Base/Interfaces/Mixins hashes filled in and its own member set
// registered, or an error was recorded for each name that failed to
// resolve.
package resolver

import (
	"github.com/ascript-lang/ascc/internal/ast"
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/types"
)

// Resolver walks a Program's declarations against a Registry.
type Resolver struct {
	reg      *registry.Registry
	bindings []FuncBinding
}

// FuncBinding pairs a function/method declaration with the registry
// entry ResolveMembers built for it, so a later compilation stage can
// find the body to check without recomputing the entry's hash.
type FuncBinding struct {
	Decl  *ast.FuncDecl
	Entry *registry.FunctionEntry
}

// New creates a Resolver over reg.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// FuncBindings returns every function/method declaration ResolveMembers
// registered, paired with its FunctionEntry. Entries whose registration
// failed (a duplicate signature, say) are omitted, since there is
// nothing meaningful to check their body against.
func (r *Resolver) FuncBindings() []FuncBinding {
	return r.bindings
}

func (r *Resolver) bind(decl *ast.FuncDecl, entry *registry.FunctionEntry) {
	if entry == nil {
		return
	}
	r.bindings = append(r.bindings, FuncBinding{Decl: decl, Entry: entry})
}

// Declare registers a stub TypeEntry for every class, interface, mixin,
// enum, funcdef, and typedef declaration in prog, so that forward
// references (a class referencing a base declared later in the same
// unit) resolve correctly in Resolve. Duplicate names are reported as
// DuplicateDefinition and the later declaration is skipped.
func (r *Resolver) Declare(prog *ast.Program) *errors.List {
	list := &errors.List{}
	for _, decl := range prog.Decls {
		r.declareOne(decl, list)
	}
	return list
}

func (r *Resolver) declareOne(decl ast.Decl, list *errors.List) {
	add := func(err error) {
		if err != nil {
			list.Add(err.(*errors.CompilerError))
		}
	}
	switch d := decl.(type) {
	case *ast.ClassDecl:
		entry := registry.NewTypeEntry(d.Name, d.Namespace, registry.KindClass)
		entry.Span = d.Span
		if d.IsAbstract {
			entry.Flags |= registry.FlagAbstract
		}
		if d.IsFinal {
			entry.Flags |= registry.FlagFinal
		}
		add(r.reg.RegisterType(entry, d.Span))
	case *ast.InterfaceDecl:
		entry := registry.NewTypeEntry(d.Name, d.Namespace, registry.KindInterface)
		entry.Span = d.Span
		add(r.reg.RegisterType(entry, d.Span))
	case *ast.MixinDecl:
		entry := registry.NewTypeEntry(d.Name, d.Namespace, registry.KindClass)
		entry.Span = d.Span
		entry.Flags |= registry.FlagMixin
		add(r.reg.RegisterType(entry, d.Span))
	case *ast.EnumDecl:
		entry := registry.NewTypeEntry(d.Name, d.Namespace, registry.KindEnum)
		entry.Span = d.Span
		entry.EnumBacking = types.Int32
		add(r.reg.RegisterType(entry, d.Span))
	case *ast.FuncdefDecl:
		entry := registry.NewTypeEntry(d.Name, d.Namespace, registry.KindFuncdef)
		entry.Span = d.Span
		add(r.reg.RegisterType(entry, d.Span))
	case *ast.TypedefDecl:
		entry := registry.NewTypeEntry(d.Name, d.Namespace, registry.KindTypedef)
		entry.Span = d.Span
		add(r.reg.RegisterType(entry, d.Span))
	}
}

// Resolve fills in Base/Interfaces/Mixins on every stub class/interface/
// mixin entry, and Aliased on every funcdef/typedef stub, by resolving
// each TypeName against the registry's namespace search order. Every
// name that fails to resolve is reported as UndefinedType; resolution
// continues for the rest so a single bad reference does not mask others.
func (r *Resolver) Resolve(prog *ast.Program) *errors.List {
	list := &errors.List{}
	for _, decl := range prog.Decls {
		r.resolveOne(decl, list)
	}
	return list
}

func (r *Resolver) resolveOne(decl ast.Decl, list *errors.List) {
	switch d := decl.(type) {
	case *ast.ClassDecl:
		r.resolveClass(d, list)
	case *ast.InterfaceDecl:
		r.resolveInterface(d, list)
	case *ast.MixinDecl:
		r.resolveMixin(d, list)
	case *ast.FuncdefDecl:
		r.resolveFuncdef(d, list)
	case *ast.TypedefDecl:
		r.resolveTypedef(d, list)
	}
}

func (r *Resolver) entryFor(name, namespace string) *registry.TypeEntry {
	entry, ok := r.reg.LookupType(name, namespace)
	if !ok {
		return nil
	}
	return entry
}

func (r *Resolver) resolveClass(d *ast.ClassDecl, list *errors.List) {
	self := r.entryFor(d.Name, d.Namespace)
	if self == nil {
		return
	}

	if d.Base != nil {
		if baseEntry, ok := r.ResolveTypeName(d.Base, d.Namespace, list); ok {
			if baseEntry.Source == registry.SourceForeign {
				list.Addf(errors.InvalidOperation, d.Base.Span,
					"cannot inherit from foreign type %q", baseEntry.QualifiedName)
			} else if baseEntry.Flags.Has(registry.FlagFinal) {
				list.Addf(errors.InvalidOperation, d.Base.Span,
					"cannot inherit from final type %q", baseEntry.QualifiedName)
			} else {
				self.HasBase = true
				self.Base = baseEntry.Hash
			}
		}
	}

	for _, ifaceName := range d.Interfaces {
		if ifaceEntry, ok := r.ResolveTypeName(ifaceName, d.Namespace, list); ok {
			if ifaceEntry.Kind != registry.KindInterface {
				list.Addf(errors.InvalidOperation, ifaceName.Span,
					"%q is not an interface", ifaceEntry.QualifiedName)
				continue
			}
			self.Interfaces = append(self.Interfaces, ifaceEntry.Hash)
		}
	}

	for _, mixinName := range d.Mixins {
		if mixinEntry, ok := r.ResolveTypeName(mixinName, d.Namespace, list); ok {
			if !mixinEntry.Flags.Has(registry.FlagMixin) {
				list.Addf(errors.InvalidOperation, mixinName.Span,
					"%q is not a mixin", mixinEntry.QualifiedName)
				continue
			}
			self.Mixins = append(self.Mixins, mixinEntry.Hash)
		}
	}
}

func (r *Resolver) resolveInterface(d *ast.InterfaceDecl, list *errors.List) {
	self := r.entryFor(d.Name, d.Namespace)
	if self == nil {
		return
	}
	for _, parentName := range d.Extends {
		if parentEntry, ok := r.ResolveTypeName(parentName, d.Namespace, list); ok {
			if parentEntry.Kind != registry.KindInterface {
				list.Addf(errors.InvalidOperation, parentName.Span,
					"%q is not an interface", parentEntry.QualifiedName)
				continue
			}
			self.Interfaces = append(self.Interfaces, parentEntry.Hash)
		}
	}
}

// resolveMixin resolves the interfaces a mixin declares. A mixin may
// never name a base class (the grammar has no such field on MixinDecl),
// satisfying the invariant that mixins inherit only interfaces.
func (r *Resolver) resolveMixin(d *ast.MixinDecl, list *errors.List) {
	self := r.entryFor(d.Name, d.Namespace)
	if self == nil {
		return
	}
	for _, ifaceName := range d.Interfaces {
		if ifaceEntry, ok := r.ResolveTypeName(ifaceName, d.Namespace, list); ok {
			if ifaceEntry.Kind != registry.KindInterface {
				list.Addf(errors.InvalidOperation, ifaceName.Span,
					"%q is not an interface", ifaceEntry.QualifiedName)
				continue
			}
			self.Interfaces = append(self.Interfaces, ifaceEntry.Hash)
		}
	}
}

func (r *Resolver) resolveFuncdef(d *ast.FuncdefDecl, list *errors.List) {
	self := r.entryFor(d.Name, d.Namespace)
	if self == nil {
		return
	}
	ret := r.ResolveDataType(d.ReturnType, d.Namespace, list)
	self.Aliased = ret
}

func (r *Resolver) resolveTypedef(d *ast.TypedefDecl, list *errors.List) {
	self := r.entryFor(d.Name, d.Namespace)
	if self == nil {
		return
	}
	self.Aliased = r.ResolveDataType(d.Aliased, d.Namespace, list)
}

// ResolveTypeName resolves a *ast.TypeName to its TypeEntry, reporting
// UndefinedType on failure. Exported for reuse by C3.
func (r *Resolver) ResolveTypeName(name *ast.TypeName, namespace string, list *errors.List) (*registry.TypeEntry, bool) {
	ns := namespace
	if name.Namespace != "" {
		ns = name.Namespace
	}
	lookupName := name.Name
	if name.Namespace != "" {
		lookupName = name.Namespace + "::" + name.Name
	}
	entry, ok := r.reg.LookupType(lookupName, ns)
	if !ok {
		list.Addf(errors.UndefinedType, name.Span, "undefined type %q", name.Qualified())
		return nil, false
	}
	return entry, true
}

// ResolveDataType resolves a TypeName (which may denote a primitive or a
// registry entry) into a types.DataType, applying its handle/const/array
// modifiers. Returns the zero DataType on failure; the caller has already
// had an error recorded by ResolveTypeName or the primitive lookup. Used
// by both this package and the completion pass (C3) for field/parameter/
// return types.
func (r *Resolver) ResolveDataType(name *ast.TypeName, namespace string, list *errors.List) types.DataType {
	if prim, ok := primitiveByName(name.Name); ok && name.Namespace == "" {
		dt := types.New(types.PrimitiveRef(prim))
		return applyModifiers(dt, name)
	}
	entry, ok := r.ResolveTypeName(name, namespace, list)
	if !ok {
		return types.DataType{}
	}
	dt := types.New(types.EntryRef(uint64(entry.Hash)))
	return applyModifiers(dt, name)
}

func applyModifiers(dt types.DataType, name *ast.TypeName) types.DataType {
	if name.IsConst {
		dt = dt.WithConst()
	}
	if name.IsHandle {
		dt = dt.WithHandle()
	}
	if name.IsArray {
		dt = dt.WithArray()
	}
	return dt
}

var primitiveNamesByToken = map[string]types.PrimitiveKind{
	"void":   types.Void,
	"bool":   types.Bool,
	"int8":   types.Int8,
	"int16":  types.Int16,
	"int":    types.Int32,
	"int32":  types.Int32,
	"int64":  types.Int64,
	"uint8":  types.UInt8,
	"uint16": types.UInt16,
	"uint":   types.UInt32,
	"uint32": types.UInt32,
	"uint64": types.UInt64,
	"float":  types.Float32,
	"double": types.Float64,
	"string": types.String,
}

func primitiveByName(name string) (types.PrimitiveKind, bool) {
	kind, ok := primitiveNamesByToken[name]
	return kind, ok
}
