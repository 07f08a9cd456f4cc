package overload

import (
	"testing"

	"github.com/ascript-lang/ascc/internal/registry"
	"github.com/ascript-lang/ascc/internal/types"
)

func intType() types.DataType    { return types.New(types.PrimitiveRef(types.Int32)) }
func floatType() types.DataType  { return types.New(types.PrimitiveRef(types.Float32)) }
func stringType() types.DataType { return types.New(types.PrimitiveRef(types.String)) }

func fn(name string, params ...types.DataType) *registry.FunctionEntry {
	ps := make([]registry.Parameter, len(params))
	for i, p := range params {
		ps[i] = registry.Parameter{Name: "a", Type: p}
	}
	return &registry.FunctionEntry{Name: name, Params: ps}
}

func TestResolveExactMatchWins(t *testing.T) {
	reg := registry.New()
	candidates := []*registry.FunctionEntry{
		fn("f", intType()),
		fn("f", floatType()),
	}

	result := Resolve(reg, candidates, []types.DataType{intType()}, false)
	if result.Status != Resolved {
		t.Fatalf("expected Resolved, got %v", result.Status)
	}
	if !result.Function.Params[0].Type.Equals(intType()) {
		t.Error("expected the int overload to win exactly")
	}
}

func TestResolveConversionPhaseUsedWhenNoExactMatch(t *testing.T) {
	reg := registry.New()
	candidates := []*registry.FunctionEntry{
		fn("f", floatType()),
	}

	result := Resolve(reg, candidates, []types.DataType{intType()}, false)
	if result.Status != Resolved {
		t.Fatalf("expected int->float widening to resolve, got %v", result.Status)
	}
}

func TestResolveAmbiguousConversionCandidates(t *testing.T) {
	reg := registry.New()
	candidates := []*registry.FunctionEntry{
		fn("f", types.New(types.PrimitiveRef(types.Int64))),
		fn("f", types.New(types.PrimitiveRef(types.Float64))),
	}

	result := Resolve(reg, candidates, []types.DataType{intType()}, false)
	if result.Status != Ambiguous {
		t.Fatalf("expected Ambiguous (int->int64 and int->float64 both valid), got %v", result.Status)
	}
	if len(result.Candidates) != 2 {
		t.Errorf("expected 2 ambiguous candidates, got %d", len(result.Candidates))
	}
}

func TestResolveNoMatch(t *testing.T) {
	reg := registry.New()
	candidates := []*registry.FunctionEntry{
		fn("f", stringType()),
	}

	result := Resolve(reg, candidates, []types.DataType{intType()}, false)
	if result.Status != NoMatch {
		t.Fatalf("expected NoMatch (no implicit int->string conversion), got %v", result.Status)
	}
}

func TestResolveFiltersByArityRespectingDefaults(t *testing.T) {
	reg := registry.New()
	withDefault := fn("f", intType(), intType())
	withDefault.Params[1].Default = "const-expr-placeholder"

	result := Resolve(reg, []*registry.FunctionEntry{withDefault}, []types.DataType{intType()}, false)
	if result.Status != Resolved {
		t.Fatalf("expected a one-arg call to satisfy a 2-param function with a trailing default, got %v", result.Status)
	}
}

func TestResolveFiltersByConstReceiver(t *testing.T) {
	reg := registry.New()
	nonConst := fn("f", intType())
	isConst := fn("f", intType())
	isConst.Traits.IsConst = true

	result := Resolve(reg, []*registry.FunctionEntry{nonConst, isConst}, []types.DataType{intType()}, true)
	if result.Status != Resolved {
		t.Fatalf("expected the const overload to be the sole survivor under a const receiver, got %v", result.Status)
	}
	if !result.Function.Traits.IsConst {
		t.Error("expected the resolved function to be the const-qualified overload")
	}
}
