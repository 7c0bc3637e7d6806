package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwgrep/zwerg/pkg/zwerg/constant"
	"github.com/dwgrep/zwerg/pkg/zwerg/value"
)

// runAll drives q against seed to exhaustion and returns the Show(full)
// of each result's top value.
func runAll(t *testing.T, src string, seed ...value.Value) []string {
	t.Helper()
	q, err := Parse(src, Core())
	require.NoError(t, err)
	r := NewResult(q, seed...)
	defer r.Close()

	var out []string
	for {
		stk, ok := r.Next()
		if !ok {
			break
		}
		require.Greater(t, stk.Size(), 0, "result stack should not be empty for %q", src)
		out = append(out, stk.Top().Show(false))
	}
	return out
}

func TestEngineConstArithmetic(t *testing.T) {
	out := runAll(t, "1 2 add")
	assert.Equal(t, []string{"3"}, out)
}

func TestEngineHexMinusYieldsNegativeHex(t *testing.T) {
	out := runAll(t, "0x3 0x8 sub")
	assert.Equal(t, []string{"-0x5"}, out)
}

func TestEngineDivModSkipsArithmeticErrorAndContinues(t *testing.T) {
	out := runAll(t, "(10, 0) (2, 0) div")
	// 10/2=5, 10/0 errors+skips, 0/2=0, 0/0 errors+skips.
	assert.Equal(t, []string{"5", "0"}, out)
}

func TestEngineBitEnumeratesSetBits(t *testing.T) {
	out := runAll(t, "0x37 bit")
	assert.Equal(t, []string{"0x1", "0x2", "0x4", "0x10", "0x20"}, out)
}

func TestEngineLengthOfString(t *testing.T) {
	out := runAll(t, `"hello" length`)
	assert.Equal(t, []string{"5"}, out)
}

func TestEngineStringConcat(t *testing.T) {
	out := runAll(t, `"foo" "bar" add`)
	assert.Equal(t, []string{`"foobar"`}, out)
}

func TestEngineAltBranches(t *testing.T) {
	out := runAll(t, "(1, 2, 3)")
	assert.ElementsMatch(t, []string{"1", "2", "3"}, out)
}

func TestEngineLetBinding(t *testing.T) {
	out := runAll(t, "let x := 5; x x add")
	assert.Equal(t, []string{"10"}, out)
}

func TestEngineLetShadowsOuter(t *testing.T) {
	out := runAll(t, "let x := 1; let x := 2; x")
	assert.Equal(t, []string{"2"}, out)
}

func TestEngineNamedPredicateAssert(t *testing.T) {
	out := runAll(t, "(1, 2, 3) ?(dup 2 ?eq)")
	assert.Equal(t, []string{"2"}, out)
}

func TestEngineNegatedPredicateAssert(t *testing.T) {
	out := runAll(t, "(1, 2, 3) !(dup 2 ?eq)")
	assert.ElementsMatch(t, []string{"1", "3"}, out)
}

func TestEngineIfElse(t *testing.T) {
	out := runAll(t, "1 if ?(dup 1 eq) then drop 100 else drop 200 end")
	assert.Equal(t, []string{"100"}, out)
}

func TestEngineClosureApply(t *testing.T) {
	out := runAll(t, "let f := {1 add}; 4 f apply")
	assert.Equal(t, []string{"5"}, out)
}

func TestEngineNestedClosureCapturesOuterLet(t *testing.T) {
	// A closure nested two levels deep captures a let bound at the
	// outermost level, via the layer/materialize chain.
	out := runAll(t, "let x := 10; let f := { let g := { x add }; 1 g apply }; 0 f apply")
	assert.Equal(t, []string{"10"}, out)
}

func TestEngineClosureCapturesByValueAtCreationTime(t *testing.T) {
	out := runAll(t, "let x := 1; let f := {x add}; let x := 99; 0 f apply")
	assert.Equal(t, []string{"1"}, out)
}

func TestEngineTransitiveClosureStar(t *testing.T) {
	// 0 -> 1 -> 2 -> 0 (mod 3): a closed cycle, so the visited-set dedup
	// guard actually terminates the closure instead of counting forever.
	out := runAll(t, "0 (1 add 3 mod)*")
	assert.ElementsMatch(t, []string{"0", "1", "2"}, out)
}

func TestEngineRegexMatch(t *testing.T) {
	out := runAll(t, `"hello world" "wor" match`)
	assert.Equal(t, []string{"true"}, out)
}

func TestEngineComparisonSymbolicAliases(t *testing.T) {
	out := runAll(t, "1 2 <")
	assert.Equal(t, []string{"true"}, out)
}

func TestEngineSeedInitialStack(t *testing.T) {
	out := runAll(t, "1 add", value.NewConst(constant.New(constant.FromInt64(41), constant.Decimal), 0))
	assert.Equal(t, []string{"42"}, out)
}

func TestEngineParseErrorSurfacesAsError(t *testing.T) {
	_, err := Parse("(1, 2", Core())
	assert.Error(t, err)
}

func TestEngineCompileErrorUnknownName(t *testing.T) {
	_, err := Parse("frobnicate", Core())
	assert.Error(t, err)
}

func TestEngineDiagnosticsAccumulateOnTypeError(t *testing.T) {
	q, err := Parse(`1 "x" add`, Core())
	require.NoError(t, err)
	r := NewResult(q)
	defer r.Close()

	_, ok := r.Next()
	assert.False(t, ok)
	assert.Contains(t, r.Diagnostics(), "type error")
}
