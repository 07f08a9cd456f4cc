package completion

import (
	"sort"

	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
)

// buildVTable runs Phase E's vtable half for one class, visited in topo
// order so its base's vtable is already complete: clone the base's vtable
// (or start empty for a root class), then let each of the class's own
// methods — including mixin methods cloned with their owner retargeted to
// this class — claim or override a slot by signature hash.
func (p *pass) buildVTable(entry *registry.TypeEntry) {
	if entry.HasBase {
		if base, ok := p.reg.GetType(entry.Base); ok && base.VTable != nil {
			entry.VTable = base.VTable.Clone()
		}
	}
	if entry.VTable == nil {
		entry.VTable = registry.NewVTable()
	}

	for _, name := range sortedMethodNames(entry) {
		for _, id := range entry.Methods[name] {
			fn, ok := p.reg.GetFunction(id)
			if !ok || !fn.HasOwner || fn.Owner != entry.Hash {
				continue
			}
			sigHash := ids.HashSlot(fn.Name, fn.ParamTypeHashes(), fn.Traits.IsConst)
			entry.VTable.Assign(sigHash, fn.Name, fn.Hash)
		}
	}
	p.vtablesBuilt++
}

// buildClassITables runs Phase E's itable half: for every interface the
// class implements, allocate a slot table the length of that interface's
// own slot count and fill each slot with the class method matching that
// slot's signature, leaving unmatched slots EMPTY (a non-abstract class
// with an unmatched slot already failed compliance checking in Phase C).
func (p *pass) buildClassITables(entry *registry.TypeEntry) {
	for _, ifaceHash := range entry.Interfaces {
		iface, ok := p.reg.GetType(ifaceHash)
		if !ok {
			continue
		}
		itable := registry.NewITable(len(iface.InterfaceSlots))
		for i, slotID := range iface.InterfaceSlots {
			required, ok := p.reg.GetFunction(slotID)
			if !ok {
				continue
			}
			if candidate, ok := p.findMatchingMethod(entry, required); ok {
				itable.Slots[i] = candidate.Hash
			}
		}
		entry.ITables[ifaceHash] = itable
		p.itablesBuilt++
	}
}

func (p *pass) findMatchingMethod(entry *registry.TypeEntry, required *registry.FunctionEntry) (*registry.FunctionEntry, bool) {
	for _, id := range entry.Methods[required.Name] {
		candidate, ok := p.reg.GetFunction(id)
		if !ok {
			continue
		}
		if candidate.Traits.IsConst == required.Traits.IsConst &&
			candidate.ReturnType.Equals(required.ReturnType) &&
			signatureKey(candidate.Name, candidate.ParamTypeHashes()) == signatureKey(required.Name, required.ParamTypeHashes()) {
			return candidate, true
		}
	}
	return nil, false
}

func sortedMethodNames(entry *registry.TypeEntry) []string {
	names := make([]string, 0, len(entry.Methods))
	for name := range entry.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
