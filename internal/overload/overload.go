// Package overload implements the Overload Resolver (C4): given a set of
// candidate functions sharing a name and the argument types at a call
// site, it picks the one candidate that matches, or reports why none (or
// more than one) does.
//
// Resolution is exact-then-implicit-conversion, never distance-ranked: the
// teacher's analyzer scores candidates by a conversion-distance sum and
// picks the lowest, but the specification calls for two strict phases
// instead (see DESIGN.md's Open Question decisions) — an exact match wins
// outright, and if none exists, any number of equally-valid conversion
// candidates is ambiguity, never a tiebreak.
package overload

import (
	"github.com/ascript-lang/ascc/internal/ids"
	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/types"
)

// Status classifies the outcome of Resolve.
type Status int

const (
	// Resolved means exactly one candidate matched; Result.Function is set.
	Resolved Status = iota
	// NoMatch means no candidate's signature accepts the given arguments.
	NoMatch
	// Ambiguous means more than one candidate matched equally well;
	// Result.Candidates lists the survivors.
	Ambiguous
)

// Result is the outcome of a single Resolve call.
type Result struct {
	Status     Status
	Function   *registry.FunctionEntry
	Candidates []*registry.FunctionEntry
}

// Resolve picks the single candidate matching name, argTypes, and (for a
// method call on a const receiver) constReceiver, per the specification's
// four-step algorithm: parameter-count filtering, const-receiver
// filtering, an exact-match phase, and — only if no exact match exists —
// an implicit-conversion phase. No third, looser phase exists: a tie in
// either phase is ambiguity, not a tiebreak.
func Resolve(reg *registry.Registry, candidates []*registry.FunctionEntry, argTypes []types.DataType, constReceiver bool) Result {
	pool := filterByArity(candidates, len(argTypes))
	if constReceiver {
		pool = filterByConstReceiver(pool)
	}

	if exact := matching(reg, pool, argTypes, exactOnly); len(exact) > 0 {
		return resultFrom(exact)
	}

	converted := matching(reg, pool, argTypes, exactOrConvert)
	return resultFrom(converted)
}

func resultFrom(survivors []*registry.FunctionEntry) Result {
	switch len(survivors) {
	case 0:
		return Result{Status: NoMatch}
	case 1:
		return Result{Status: Resolved, Function: survivors[0]}
	default:
		return Result{Status: Ambiguous, Candidates: survivors}
	}
}

// filterByArity keeps candidates whose parameter count range
// [minRequired, len(params)] contains argCount, where minRequired
// excludes trailing parameters carrying a default value.
func filterByArity(candidates []*registry.FunctionEntry, argCount int) []*registry.FunctionEntry {
	var out []*registry.FunctionEntry
	for _, c := range candidates {
		min := minRequiredParams(c.Params)
		max := len(c.Params)
		if argCount >= min && argCount <= max {
			out = append(out, c)
		}
	}
	return out
}

func minRequiredParams(params []registry.Parameter) int {
	n := len(params)
	for n > 0 && params[n-1].Default != nil {
		n--
	}
	return n
}

func filterByConstReceiver(candidates []*registry.FunctionEntry) []*registry.FunctionEntry {
	var out []*registry.FunctionEntry
	for _, c := range candidates {
		if c.Traits.IsConst {
			out = append(out, c)
		}
	}
	return out
}

type matchMode int

const (
	exactOnly matchMode = iota
	exactOrConvert
)

func matching(reg *registry.Registry, candidates []*registry.FunctionEntry, argTypes []types.DataType, mode matchMode) []*registry.FunctionEntry {
	var out []*registry.FunctionEntry
	for _, c := range candidates {
		if signatureMatches(reg, c, argTypes, mode) {
			out = append(out, c)
		}
	}
	return out
}

func signatureMatches(reg *registry.Registry, c *registry.FunctionEntry, argTypes []types.DataType, mode matchMode) bool {
	for i, arg := range argTypes {
		param := resolveTypedef(reg, c.Params[i].Type)
		resolvedArg := resolveTypedef(reg, arg)

		if resolvedArg.Equals(param) {
			continue
		}
		if mode == exactOnly {
			return false
		}
		if !reg.CanImplicitlyConvert(resolvedArg, param) {
			return false
		}
	}
	return true
}

// resolveTypedef follows dt's Ref through any typedef chain, preserving
// the const/handle/array modifiers of the use site (those belong to the
// reference, not to the aliased type).
func resolveTypedef(reg *registry.Registry, dt types.DataType) types.DataType {
	if dt.Ref.IsPrimitive {
		return dt
	}
	resolved, ok := reg.ResolveTypedef(ids.TypeHash(dt.Ref.Hash))
	if !ok {
		return dt
	}
	out := dt
	out.Ref = resolved.Ref
	return out
}
