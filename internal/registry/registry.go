package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/token"
	"github.com/ascript-lang/ascc/internal/types"
)

// conversionRule is one entry of the fixed implicit-conversion table: from
// may convert to to without an explicit cast.
type conversionRule struct {
	from types.PrimitiveKind
	to   types.PrimitiveKind
}

// Registry is the Symbol Registry (C1): the single source of truth for
// every type, function, and global declared or imported into a
// compilation, plus the vtables and itables completion builds on top of
// them.
//
// A Registry is built by one compilation and is not safe for concurrent
// mutation; see SPEC_FULL.md's concurrency section for the rationale
// (one registry per compilation, no internal locking).
type Registry struct {
	types     map[ids.TypeHash]*TypeEntry
	functions map[ids.FunctionId]*FunctionEntry
	globals   map[string]*GlobalEntry

	// byQualifiedName supports namespace-aware lookup independent of hash
	// derivation, keyed by the exact qualified name string.
	byQualifiedName map[string]ids.TypeHash

	// namespaceOrder is the list of imported namespaces, in import order.
	// LookupType searches them after the current namespace and its
	// enclosing namespaces, and before the global namespace.
	namespaceOrder []string

	widening []conversionRule

	// nextFuncSeq stamps each registered FunctionEntry with its
	// registration order, since FunctionId is a content hash and carries
	// none.
	nextFuncSeq int
}

// New creates an empty Registry with the default namespace search order
// (global namespace only; call AddImport to extend it).
func New() *Registry {
	return &Registry{
		types:           make(map[ids.TypeHash]*TypeEntry),
		functions:       make(map[ids.FunctionId]*FunctionEntry),
		globals:         make(map[string]*GlobalEntry),
		byQualifiedName: make(map[string]ids.TypeHash),
		widening:        defaultWidening(),
	}
}

// defaultWidening builds the fixed implicit-integer-widening rules: every
// narrower-or-equal-width same-signedness pair, plus unsigned-to-signed
// widening only when the signed type strictly contains the unsigned
// type's range (narrower unsigned into wider signed).
func defaultWidening() []conversionRule {
	signed := []types.PrimitiveKind{types.Int8, types.Int16, types.Int32, types.Int64}
	unsigned := []types.PrimitiveKind{types.UInt8, types.UInt16, types.UInt32, types.UInt64}

	var rules []conversionRule
	for _, from := range signed {
		for _, to := range signed {
			if to.Width() >= from.Width() {
				rules = append(rules, conversionRule{from, to})
			}
		}
	}
	for _, from := range unsigned {
		for _, to := range unsigned {
			if to.Width() >= from.Width() {
				rules = append(rules, conversionRule{from, to})
			}
		}
	}
	for _, from := range unsigned {
		for _, to := range signed {
			if to.Width() > from.Width() {
				rules = append(rules, conversionRule{from, to})
			}
		}
	}
	return rules
}

// AddImport appends a namespace to the search order, most-recently-added
// last (so the first import shadows later ones on ambiguity, matching
// declaration order).
func (r *Registry) AddImport(namespace string) {
	r.namespaceOrder = append(r.namespaceOrder, namespace)
}

// RegisterType inserts a TypeEntry, computing its hash from its qualified
// name. Returns a DuplicateDefinition error if the qualified name or the
// resulting hash already exists.
func (r *Registry) RegisterType(entry *TypeEntry, span token.Span) error {
	hash := ids.HashQualifiedName(entry.QualifiedName)
	if _, exists := r.byQualifiedName[entry.QualifiedName]; exists {
		return errors.New(errors.DuplicateDefinition, span,
			"type %q is already defined", entry.QualifiedName)
	}
	if _, exists := r.types[hash]; exists {
		return errors.New(errors.DuplicateDefinition, span,
			"type %q collides with the hash of an existing type", entry.QualifiedName)
	}
	entry.Hash = hash
	r.types[hash] = entry
	r.byQualifiedName[entry.QualifiedName] = hash
	return nil
}

// RegisterFunction inserts a FunctionEntry, deriving its FunctionId from
// (owner, name, parameter type hashes, const-qualification) per the
// duplicate-identity tuple. Overloads that differ in any of those
// components coexist; an exact match is a DuplicateDefinition.
func (r *Registry) RegisterFunction(entry *FunctionEntry, span token.Span) error {
	owner := ids.TypeHash(0)
	if entry.HasOwner {
		owner = entry.Owner
	}
	hash := ids.HashMethod(owner, entry.Name, entry.ParamTypeHashes(), entry.Traits.IsConst)
	if _, exists := r.functions[hash]; exists {
		return errors.New(errors.DuplicateDefinition, span,
			"function %q is already defined with this signature", entry.QualifiedName)
	}
	entry.Hash = hash
	entry.seq = r.nextFuncSeq
	r.nextFuncSeq++
	r.functions[hash] = entry

	if entry.HasOwner {
		if owner := r.types[entry.Owner]; owner != nil {
			owner.AddMethod(entry.Name, hash)
		}
	}
	return nil
}

// RegisterGlobal inserts a GlobalEntry under its unqualified name. Globals
// are not namespace-searched in this model; callers key them by the name
// visible at the point of declaration.
func (r *Registry) RegisterGlobal(entry *GlobalEntry, span token.Span) error {
	if _, exists := r.globals[entry.Name]; exists {
		return errors.New(errors.DuplicateDefinition, span,
			"global variable %q is already defined", entry.Name)
	}
	r.globals[entry.Name] = entry
	return nil
}

// GetType looks up a TypeEntry by hash. ok is false if no such type was
// registered.
func (r *Registry) GetType(hash ids.TypeHash) (*TypeEntry, bool) {
	t, ok := r.types[hash]
	return t, ok
}

// GetFunction looks up a FunctionEntry by FunctionId.
func (r *Registry) GetFunction(id ids.FunctionId) (*FunctionEntry, bool) {
	f, ok := r.functions[id]
	return f, ok
}

// GetGlobal looks up a GlobalEntry by its unqualified name.
func (r *Registry) GetGlobal(name string) (*GlobalEntry, bool) {
	g, ok := r.globals[name]
	return g, ok
}

// OverloadsOf returns every FunctionEntry registered under name on owner
// (the zero hash for free functions), in registration order. Callers that
// need a specific resolution order (C4) operate on this slice.
func (r *Registry) OverloadsOf(owner ids.TypeHash, name string) []*FunctionEntry {
	var out []*FunctionEntry
	for _, f := range r.functions {
		entryOwner := ids.TypeHash(0)
		if f.HasOwner {
			entryOwner = f.Owner
		}
		if entryOwner == owner && f.Name == name {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// LookupType resolves an unqualified or qualified name, stopping at the
// first hit in order: (a) if name already contains "::", a direct
// qualified lookup; (b) otherwise each truncation of currentNamespace
// from innermost to outermost, excluding the empty (global) prefix; (c)
// each import, in import order, as a namespace prefix; (d) finally the
// global namespace. Ties are not detected here: the resolver (C2) is
// responsible for ensuring a name is unambiguous before treating this as
// a final answer.
func (r *Registry) LookupType(name, currentNamespace string) (*TypeEntry, bool) {
	if strings.Contains(name, "::") {
		if hash, ok := r.byQualifiedName[name]; ok {
			return r.types[hash], true
		}
		return nil, false
	}

	for _, prefix := range namespacePrefixes(currentNamespace) {
		if hash, ok := r.byQualifiedName[prefix+"::"+name]; ok {
			return r.types[hash], true
		}
	}
	for _, ns := range r.namespaceOrder {
		if hash, ok := r.byQualifiedName[ns+"::"+name]; ok {
			return r.types[hash], true
		}
	}
	if hash, ok := r.byQualifiedName[name]; ok {
		return r.types[hash], true
	}
	return nil, false
}

// namespacePrefixes returns ns and each of its ancestor namespaces,
// innermost first, e.g. "A::B::C" -> ["A::B::C", "A::B", "A"]. An empty
// ns yields no prefixes (the caller falls through to imports/global).
func namespacePrefixes(ns string) []string {
	if ns == "" {
		return nil
	}
	parts := strings.Split(ns, "::")
	prefixes := make([]string, len(parts))
	for i := range parts {
		prefixes[i] = strings.Join(parts[:len(parts)-i], "::")
	}
	return prefixes
}

// ResolveTypedef follows a chain of typedef TypeEntries to the underlying
// non-typedef DataType, detecting cycles. A cycle returns the zero
// DataType and ok=false; callers report CircularInheritance (typedef
// cycles share the same failure class as inheritance cycles: a reference
// loop the registry cannot resolve to a concrete layout).
func (r *Registry) ResolveTypedef(hash ids.TypeHash) (types.DataType, bool) {
	visited := make(map[ids.TypeHash]bool)
	cur := hash
	for {
		entry, ok := r.types[cur]
		if !ok || entry.Kind != KindTypedef {
			return types.New(types.EntryRef(uint64(cur))), true
		}
		if visited[cur] {
			return types.DataType{}, false
		}
		visited[cur] = true
		if entry.Aliased.Ref.IsPrimitive {
			return entry.Aliased, true
		}
		cur = ids.TypeHash(entry.Aliased.Ref.Hash)
	}
}

// CanImplicitlyConvert reports whether a value of type from may be used
// where a value of type to is expected without an explicit cast, per the
// fixed conversion table: identity, integer widening (same signedness, or
// unsigned-into-strictly-wider-signed), int-to-float, float32-to-float64,
// and class-to-base / class-to-interface. No narrowing conversion and no
// bool<->int conversion is ever implicit.
func (r *Registry) CanImplicitlyConvert(from, to types.DataType) bool {
	if from.Equals(to) {
		return true
	}

	if from.Ref.IsPrimitive && to.Ref.IsPrimitive {
		return r.canConvertPrimitive(from.Ref.Primitive, to.Ref.Primitive)
	}

	if !from.Ref.IsPrimitive && !to.Ref.IsPrimitive {
		return r.canConvertClass(ids.TypeHash(from.Ref.Hash), ids.TypeHash(to.Ref.Hash))
	}

	return false
}

func (r *Registry) canConvertPrimitive(from, to types.PrimitiveKind) bool {
	if from == to {
		return true
	}
	if from == types.Bool || to == types.Bool {
		return false
	}
	for _, rule := range r.widening {
		if rule.from == from && rule.to == to {
			return true
		}
	}
	if from.IsInteger() && to.IsFloat() {
		return true
	}
	if from == types.Float32 && to == types.Float64 {
		return true
	}
	return false
}

// canConvertClass walks from's base-class chain looking for to (handles
// class-to-base), and from's interface closure looking for to (handles
// class-to-interface).
func (r *Registry) canConvertClass(from, to ids.TypeHash) bool {
	cur := from
	for {
		entry, ok := r.types[cur]
		if !ok {
			return false
		}
		if cur == to {
			return true
		}
		for _, iface := range entry.Interfaces {
			if iface == to || r.interfaceExtends(iface, to) {
				return true
			}
		}
		if !entry.HasBase {
			return false
		}
		cur = entry.Base
	}
}

func (r *Registry) interfaceExtends(iface, target ids.TypeHash) bool {
	entry, ok := r.types[iface]
	if !ok {
		return false
	}
	for _, parent := range entry.Interfaces {
		if parent == target || r.interfaceExtends(parent, target) {
			return true
		}
	}
	return false
}

// AllTypes returns every registered TypeEntry. Order is unspecified;
// callers that need determinism (e.g. golden-test dumps) sort by
// QualifiedName.
func (r *Registry) AllTypes() []*TypeEntry {
	out := make([]*TypeEntry, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	return out
}

// Dump renders a deterministic, human-readable summary of every
// registered type (its kind and qualified name, sorted by qualified
// name). Functions are not listed.
func (r *Registry) Dump() string {
	var sb strings.Builder
	names := make([]string, 0, len(r.types))
	for name := range r.byQualifiedName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := r.types[r.byQualifiedName[name]]
		fmt.Fprintf(&sb, "%s %s\n", entry.Kind, entry.QualifiedName)
	}
	return sb.String()
}
