// Package completion implements the Type Completion Pass (C3): it
// topologically orders script classes, copies each class's inherited
// members down from its base (respecting visibility and override
// collapse), composes mixins by retargeting their methods to the
// including class, expands each class's interface set to its transitive
// closure, validates interface compliance, and builds the vtables and
// itables the emitter (C5/C6) dispatches through.
package completion

import (
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/registry"
)

// Result mirrors the specification's CompletionOutput contract: counts of
// what completion did, plus any diagnostics gathered along the way.
type Result struct {
	ClassesCompleted    int
	MethodsInherited    int
	PropertiesInherited int
	VTablesBuilt        int
	ITablesBuilt        int
	Errors              *errors.List
}

type pass struct {
	reg  *registry.Registry
	errs *errors.List

	classesCompleted    int
	methodsInherited    int
	propertiesInherited int
	vtablesBuilt        int
	itablesBuilt        int
}

// Run executes completion phases B through E against reg. Phase A —
// classifying each resolved base reference as a base class, an interface,
// or a mixin — is folded into the Reference Resolver (C2): by the time Run
// is called, every class/interface/mixin stub's Base/Interfaces/Mixins
// fields are already populated, so completion starts from the topological
// sort.
//
// Circular inheritance aborts immediately, before any class is completed.
// Every other failure (a missing interface method, an unresolvable base)
// is recorded and processing continues, so one bad class never masks
// errors in the rest of the unit.
func Run(reg *registry.Registry) *Result {
	p := &pass{reg: reg, errs: &errors.List{}}

	classes := topoSortClasses(reg, p.errs)
	if p.errs.HasErrors() {
		return p.result()
	}

	for _, entry := range classes {
		p.completeClass(entry)
	}

	p.buildInterfaceSlots()

	for _, entry := range classes {
		p.buildVTable(entry)
		p.buildClassITables(entry)
	}

	return p.result()
}

func (p *pass) result() *Result {
	return &Result{
		ClassesCompleted:    p.classesCompleted,
		MethodsInherited:    p.methodsInherited,
		PropertiesInherited: p.propertiesInherited,
		VTablesBuilt:        p.vtablesBuilt,
		ITablesBuilt:        p.itablesBuilt,
		Errors:              p.errs,
	}
}
