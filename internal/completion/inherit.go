package completion

import (
	"strconv"
	"strings"

	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
)

// completeClass runs Phase C for one class, already visited in topo order
// so its base (if any) is fully completed: snapshot its own member
// signatures, inherit surviving base members, compose mixins, expand its
// interface set to the transitive closure, and check interface compliance
// unless the class is itself abstract.
func (p *pass) completeClass(entry *registry.TypeEntry) {
	own := ownSignatures(p.reg, entry)

	if entry.HasBase {
		if base, ok := p.reg.GetType(entry.Base); ok {
			p.inheritFrom(entry, base, own)
		}
	}

	for _, mixinHash := range entry.Mixins {
		if mixin, ok := p.reg.GetType(mixinHash); ok {
			p.applyMixin(entry, mixin, own)
		}
	}

	entry.Interfaces = dedupeHashes(entry.Interfaces)
	entry.Interfaces = closeInterfaces(p.reg, entry.Interfaces)

	if !entry.Flags.Has(registry.FlagAbstract) {
		p.checkInterfaceCompliance(entry)
	}

	p.classesCompleted++
}

// ownSignatures snapshots a class's own declared method signatures before
// inheritance appends anything else into its method map, so override
// collapse can tell an inherited base method from one the class itself
// redeclares.
func ownSignatures(reg *registry.Registry, entry *registry.TypeEntry) map[string]bool {
	keys := make(map[string]bool)
	for _, fnIDs := range entry.Methods {
		for _, id := range fnIDs {
			if fn, ok := reg.GetFunction(id); ok {
				keys[signatureKey(fn.Name, fn.ParamTypeHashes())] = true
			}
		}
	}
	return keys
}

func signatureKey(name string, paramHashes []ids.TypeHash) string {
	parts := make([]string, 0, len(paramHashes)+1)
	parts = append(parts, name)
	for _, h := range paramHashes {
		parts = append(parts, strconv.FormatUint(uint64(h), 16))
	}
	return strings.Join(parts, "|")
}

// inheritFrom copies base's public and protected methods and properties
// into entry, dropping any method whose (name, parameter-type-hashes)
// matches one of entry's own declarations — the derived declaration
// overrides rather than coexisting as a second overload.
func (p *pass) inheritFrom(entry, base *registry.TypeEntry, own map[string]bool) {
	for name, fnIDs := range base.Methods {
		for _, id := range fnIDs {
			fn, ok := p.reg.GetFunction(id)
			if !ok || fn.Visibility == registry.Private {
				continue
			}
			if own[signatureKey(fn.Name, fn.ParamTypeHashes())] {
				continue
			}
			entry.AddMethod(name, id)
			p.methodsInherited++
		}
	}

	for _, prop := range base.Properties {
		if prop.Visibility == registry.Private {
			continue
		}
		entry.Properties = append(entry.Properties, prop)
		p.propertiesInherited++
	}

	entry.Interfaces = append(entry.Interfaces, base.Interfaces...)
}

// applyMixin clones each of the mixin's methods with its owner retargeted
// to entry (and its FunctionId recomputed from the new owner, per
// RegisterFunction's identity tuple), then copies mixin properties that
// entry does not already declare under the same name.
func (p *pass) applyMixin(entry, mixin *registry.TypeEntry, own map[string]bool) {
	for _, fnIDs := range mixin.Methods {
		for _, id := range fnIDs {
			fn, ok := p.reg.GetFunction(id)
			if !ok {
				continue
			}
			if own[signatureKey(fn.Name, fn.ParamTypeHashes())] {
				continue
			}
			clone := *fn
			clone.HasOwner = true
			clone.Owner = entry.Hash
			clone.QualifiedName = entry.QualifiedName + "." + fn.Name
			// RegisterFunction adds the clone to entry's method map itself,
			// since the clone's owner is entry.
			if err := p.reg.RegisterFunction(&clone, fn.Span); err != nil {
				continue
			}
			p.methodsInherited++
		}
	}

	existing := make(map[string]bool, len(entry.Properties))
	for _, prop := range entry.Properties {
		existing[prop.Name] = true
	}
	for _, prop := range mixin.Properties {
		if existing[prop.Name] {
			continue
		}
		entry.Properties = append(entry.Properties, prop)
		existing[prop.Name] = true
		p.propertiesInherited++
	}

	entry.Interfaces = append(entry.Interfaces, mixin.Interfaces...)
}

func dedupeHashes(hashes []ids.TypeHash) []ids.TypeHash {
	seen := make(map[ids.TypeHash]bool, len(hashes))
	out := hashes[:0]
	for _, h := range hashes {
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

// closeInterfaces expands direct to its transitive closure over interface
// inheritance, without importing the resolver package: the DFS is small
// enough to keep local rather than create a dependency in the wrong
// direction (resolver already depends on nothing completion needs).
func closeInterfaces(reg *registry.Registry, direct []ids.TypeHash) []ids.TypeHash {
	seen := make(map[ids.TypeHash]bool)
	var order []ids.TypeHash
	var visit func(h ids.TypeHash)
	visit = func(h ids.TypeHash) {
		if seen[h] {
			return
		}
		seen[h] = true
		order = append(order, h)
		entry, ok := reg.GetType(h)
		if !ok {
			return
		}
		for _, parent := range entry.Interfaces {
			visit(parent)
		}
	}
	for _, h := range direct {
		visit(h)
	}
	return order
}

// checkInterfaceCompliance reports one error per method required by any of
// entry's (transitively closed) interfaces that entry has no matching
// method for.
func (p *pass) checkInterfaceCompliance(entry *registry.TypeEntry) {
	for _, ifaceHash := range entry.Interfaces {
		iface, ok := p.reg.GetType(ifaceHash)
		if !ok {
			continue
		}
		for name, fnIDs := range iface.Methods {
			for _, id := range fnIDs {
				required, ok := p.reg.GetFunction(id)
				if !ok {
					continue
				}
				if !p.hasMatchingMethod(entry, required) {
					p.errs.Addf(errors.InvalidOperation, entry.Span,
						"class %q does not implement method %q required by interface %q",
						entry.QualifiedName, name, iface.QualifiedName)
				}
			}
		}
	}
}

func (p *pass) hasMatchingMethod(entry *registry.TypeEntry, required *registry.FunctionEntry) bool {
	_, ok := p.findMatchingMethod(entry, required)
	return ok
}
