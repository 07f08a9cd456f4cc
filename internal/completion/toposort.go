package completion

import (
	"sort"

	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
)

type color int

const (
	white color = iota
	gray
	black
)

// topoSortClasses runs completion Phase B: a depth-first search with
// three-colour marking over script classes (foreign classes are always
// treated as pre-completed leaves, never visited), ordering each class
// after its base. A back edge — a gray node reached again — is
// CircularInheritance; processing stops immediately and nil is returned.
func topoSortClasses(reg *registry.Registry, errs *errors.List) []*registry.TypeEntry {
	classes := scriptClasses(reg)

	colors := make(map[ids.TypeHash]color, len(classes))
	var order []*registry.TypeEntry
	var circular bool

	var visit func(entry *registry.TypeEntry)
	visit = func(entry *registry.TypeEntry) {
		if circular {
			return
		}
		switch colors[entry.Hash] {
		case black:
			return
		case gray:
			errs.Addf(errors.CircularInheritance, entry.Span,
				"circular inheritance involving %q", entry.QualifiedName)
			circular = true
			return
		}
		colors[entry.Hash] = gray
		if entry.HasBase {
			if base, ok := reg.GetType(entry.Base); ok && base.Source == registry.SourceScript {
				visit(base)
			}
		}
		colors[entry.Hash] = black
		order = append(order, entry)
	}

	for _, entry := range classes {
		visit(entry)
		if circular {
			return nil
		}
	}
	return order
}

func scriptClasses(reg *registry.Registry) []*registry.TypeEntry {
	var out []*registry.TypeEntry
	for _, t := range reg.AllTypes() {
		if t.Kind == registry.KindClass && t.Source == registry.SourceScript && !t.Flags.Has(registry.FlagMixin) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QualifiedName < out[j].QualifiedName })
	return out
}

// topoSortInterfaces orders interfaces after everything they extend, using
// the same three-colour approach. Interface "inheritance" (extends) has no
// concept of a foreign boundary, so every interface participates.
func topoSortInterfaces(reg *registry.Registry) []*registry.TypeEntry {
	var ifaces []*registry.TypeEntry
	for _, t := range reg.AllTypes() {
		if t.Kind == registry.KindInterface {
			ifaces = append(ifaces, t)
		}
	}
	sort.Slice(ifaces, func(i, j int) bool { return ifaces[i].QualifiedName < ifaces[j].QualifiedName })

	colors := make(map[ids.TypeHash]color, len(ifaces))
	var order []*registry.TypeEntry

	var visit func(entry *registry.TypeEntry)
	visit = func(entry *registry.TypeEntry) {
		if colors[entry.Hash] == black {
			return
		}
		colors[entry.Hash] = gray
		for _, parentHash := range entry.Interfaces {
			if parent, ok := reg.GetType(parentHash); ok {
				visit(parent)
			}
		}
		colors[entry.Hash] = black
		order = append(order, entry)
	}
	for _, iface := range ifaces {
		visit(iface)
	}
	return order
}
