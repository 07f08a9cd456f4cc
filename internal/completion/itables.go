package completion

import (
	"sort"

	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
)

// buildInterfaceSlots runs Phase D: topo-sort interfaces by extension, then
// give each one a flat slot table built by inheriting its base interfaces'
// slots (deduplicated by signature hash) and appending its own declared
// methods. Slot indices are assigned in insertion order.
func (p *pass) buildInterfaceSlots() {
	for _, iface := range topoSortInterfaces(p.reg) {
		seen := make(map[ids.TypeHash]bool)

		for _, parentHash := range iface.Interfaces {
			parent, ok := p.reg.GetType(parentHash)
			if !ok {
				continue
			}
			for _, slotID := range parent.InterfaceSlots {
				p.appendSlot(iface, slotID, seen)
			}
		}

		names := make([]string, 0, len(iface.Methods))
		for name := range iface.Methods {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, slotID := range iface.Methods[name] {
				p.appendSlot(iface, slotID, seen)
			}
		}
	}
}

func (p *pass) appendSlot(iface *registry.TypeEntry, slotID ids.FunctionId, seen map[ids.TypeHash]bool) {
	fn, ok := p.reg.GetFunction(slotID)
	if !ok {
		return
	}
	sigHash := ids.HashSlot(fn.Name, fn.ParamTypeHashes(), fn.Traits.IsConst)
	if seen[sigHash] {
		return
	}
	seen[sigHash] = true
	if iface.InterfaceIndex == nil {
		iface.InterfaceIndex = make(map[ids.TypeHash]registry.SlotIndex)
	}
	iface.InterfaceIndex[sigHash] = registry.SlotIndex(len(iface.InterfaceSlots))
	iface.InterfaceSlots = append(iface.InterfaceSlots, slotID)
}
