package checker

import (
	"github.com/ascript-lang/ascc/internal/errors"
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/token"
	"github.com/ascript-lang/ascc/internal/types"
)

// TypeRole names the context a type is validated against in
// CheckTypeUsage, per spec.md §4.4.8.
type TypeRole int

const (
	AsHandle TypeRole = iota
	AsBaseClass
	AsVariable
	InAssignment
)

// CheckTypeUsage validates dt against role's rules, reporting the
// corresponding error kind and returning false if the type is not
// permitted in that role. Primitive types are always permitted in every
// role.
func (c *Checker) CheckTypeUsage(dt types.DataType, role TypeRole, span token.Span) bool {
	if dt.Ref.IsPrimitive {
		return true
	}
	entry, ok := c.Reg.GetType(ids.TypeHash(dt.Ref.Hash))
	if !ok {
		return true
	}
	switch role {
	case AsHandle:
		if entry.Flags.Has(registry.FlagNoHandle) {
			c.Errs.Addf(errors.InvalidHandle, span, "type %q is declared nohandle", entry.Name)
			return false
		}
	case AsBaseClass:
		if entry.Flags.Has(registry.FlagFinal) {
			c.Errs.Addf(errors.InvalidOperation, span, "type %q is declared final and cannot be a base class", entry.Name)
			return false
		}
	case AsVariable:
		if entry.Flags.Has(registry.FlagAbstract) {
			c.Errs.Addf(errors.InstantiateAbstract, span, "type %q is abstract and cannot be used as a variable type", entry.Name)
			return false
		}
	case InAssignment:
		if entry.Flags.Has(registry.FlagScoped) {
			c.Errs.Addf(errors.InvalidAssignment, span, "type %q is scoped and cannot appear on the left of an assignment", entry.Name)
			return false
		}
	}
	return true
}

// CheckConstructible validates that dt, used as a construction target, has
// the behaviours a reference type needs: construct always, and — unless
// the type opted out with nocount — addref and release as well.
func (c *Checker) CheckConstructible(dt types.DataType, span token.Span) bool {
	if dt.Ref.IsPrimitive {
		return true
	}
	entry, ok := c.Reg.GetType(ids.TypeHash(dt.Ref.Hash))
	if !ok {
		return true
	}
	if entry.Flags.Has(registry.FlagValueType) {
		return true
	}
	ok = true
	if _, has := entry.Behaviours[registry.BehaviourConstruct]; !has {
		c.Errs.Addf(errors.InvalidOperation, span, "type %q has no construct behaviour", entry.Name)
		ok = false
	}
	if !entry.Flags.Has(registry.FlagNoCount) {
		if _, has := entry.Behaviours[registry.BehaviourAddRef]; !has {
			c.Errs.Addf(errors.InvalidOperation, span, "reference type %q has no addref behaviour", entry.Name)
			ok = false
		}
		if _, has := entry.Behaviours[registry.BehaviourRelease]; !has {
			c.Errs.Addf(errors.InvalidOperation, span, "reference type %q has no release behaviour", entry.Name)
			ok = false
		}
	}
	return ok
}
