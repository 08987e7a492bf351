package compiler_test

import (
	"testing"

	"github.com/mna/tacit/lang/ast"
	"github.com/mna/tacit/lang/compiler"
	"github.com/mna/tacit/lang/span"
	"github.com/mna/tacit/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopEnv() compiler.Env {
	return compiler.Env{
		Resolve:            func(string) (value.Value, bool) { return value.Value{}, false },
		PrimInfo:           func(string) (int, int, bool) { return 0, 0, false },
		IsInverse:          func(string, string) bool { return false },
		DecomposeMultiname: func(string) ([]string, bool) { return nil, false },
	}
}

func numberWord(n float64) ast.Word { return ast.Word{Kind: ast.Number, Number: n} }

// S1: a bare numeric literal compiles to a single Push instruction.
func TestCompile_NumberLiteral(t *testing.T) {
	instrs, err := compiler.Compile([]ast.Word{numberWord(42)}, noopEnv())
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.Equal(t, value.OpPush, instrs[0].Op)
	e, ok := instrs[0].Value.IntoScalar()
	require.True(t, ok)
	assert.Equal(t, value.Num(42), e)
}

// S2: a strand of two numbers followed by a call-position primitive
// compiles to BeginArray, two pushes, EndArray, Prim — in that order,
// despite being written "+ 1 2" (right-to-left emission).
func TestCompile_StrandThenPrimitive(t *testing.T) {
	words := []ast.Word{
		{Kind: ast.Primitive, Name: "+"},
		{Kind: ast.Strand, Children: []ast.Word{numberWord(1), numberWord(2)}},
	}
	instrs, err := compiler.Compile(words, noopEnv())
	require.NoError(t, err)
	require.Len(t, instrs, 5)
	assert.Equal(t, value.OpBeginArray, instrs[0].Op)
	assert.Equal(t, value.OpPush, instrs[1].Op)
	assert.Equal(t, value.OpPush, instrs[2].Op)
	assert.Equal(t, value.OpEndArray, instrs[3].Op)
	assert.Equal(t, value.OpPrim, instrs[4].Op)
}

func funcWordPushingNumber(n float64) ast.Word {
	return ast.Word{Kind: ast.Func, Body: []ast.Word{numberWord(n)}}
}

// S3: the If-fusion trigger pattern collapses to a single If instruction.
func TestCompile_IfFusion(t *testing.T) {
	env := noopEnv()
	env.PrimInfo = func(name string) (int, int, bool) {
		switch name {
		case "flip":
			return 2, 2, true
		case "pick":
			return 2, 1, true
		}
		return 0, 0, false
	}

	words := []ast.Word{
		{Kind: ast.Primitive, Name: "call"},
		{Kind: ast.Primitive, Name: "pick"},
		{Kind: ast.Primitive, Name: "flip"},
		{Kind: ast.Array, Children: []ast.Word{
			funcWordPushingNumber(10),
			funcWordPushingNumber(20),
		}},
		numberWord(1),
	}
	instrs, err := compiler.Compile(words, env)
	require.NoError(t, err)
	require.Len(t, instrs, 2)
	assert.Equal(t, value.OpPush, instrs[0].Op)
	require.Equal(t, value.OpIf, instrs[1].Op)
	require.NotNil(t, instrs[1].ThenFn)
	require.NotNil(t, instrs[1].ElseFn)
}

// Reverse+First fuses to Last, and Reverse+Last fuses to First.
func TestCompile_ReverseFusion(t *testing.T) {
	words := []ast.Word{
		{Kind: ast.Primitive, Name: "first"},
		{Kind: ast.Primitive, Name: "reverse"},
	}
	instrs, err := compiler.Compile(words, noopEnv())
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.Equal(t, "last", instrs[0].PrimName)

	words = []ast.Word{
		{Kind: ast.Primitive, Name: "last"},
		{Kind: ast.Primitive, Name: "reverse"},
	}
	instrs, err = compiler.Compile(words, noopEnv())
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.Equal(t, "first", instrs[0].PrimName)
}

// Inverse annihilation: appending a primitive whose inverse was just
// emitted, with matching arity, pops both instead of emitting either.
func TestCompile_InverseAnnihilation(t *testing.T) {
	env := noopEnv()
	env.PrimInfo = func(name string) (int, int, bool) {
		if name == "neg" {
			return 1, 1, true
		}
		return 0, 0, false
	}
	env.IsInverse = func(a, b string) bool { return a == "neg" && b == "neg" }

	words := []ast.Word{
		{Kind: ast.Primitive, Name: "neg"},
		{Kind: ast.Primitive, Name: "neg"},
		numberWord(5),
	}
	instrs, err := compiler.Compile(words, env)
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.Equal(t, value.OpPush, instrs[0].Op)
}

// Appending a Noop primitive is always elided.
func TestCompile_NoopElision(t *testing.T) {
	words := []ast.Word{
		{Kind: ast.Primitive, Name: "noop"},
		numberWord(1),
	}
	instrs, err := compiler.Compile(words, noopEnv())
	require.NoError(t, err)
	require.Len(t, instrs, 1)
	assert.Equal(t, value.OpPush, instrs[0].Op)
}

// Unresolved identifiers that are neither bound names, primitive multiname
// runs, nor (outside a dfn) single-letter parameters fail to compile.
func TestCompile_UnknownIdentifier(t *testing.T) {
	words := []ast.Word{{Kind: ast.Identifier, Name: "bogus"}}
	_, err := compiler.Compile(words, noopEnv())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown identifier")
}

// Inside a dfn body, single ASCII lowercase letters resolve to DfnVal
// instructions, and the dfn's DfnArgs is 1 + the maximum index used.
func TestCompileDfn_ParameterCapture(t *testing.T) {
	env := noopEnv()
	body := []ast.Word{
		{Kind: ast.Primitive, Name: "+"},
		{Kind: ast.Identifier, Name: "a"},
		{Kind: ast.Identifier, Name: "b"},
	}
	fn, err := compiler.CompileDfn(body, span.Span{}, env)
	require.NoError(t, err)
	assert.Equal(t, 2, fn.DfnArgs)
	require.Len(t, fn.Instrs, 3)
	assert.Equal(t, value.OpDfnVal, fn.Instrs[0].Op)
	assert.Equal(t, 1, fn.Instrs[0].DfnIndex)
	assert.Equal(t, value.OpDfnVal, fn.Instrs[1].Op)
	assert.Equal(t, 0, fn.Instrs[1].DfnIndex)
	assert.Equal(t, value.OpPrim, fn.Instrs[2].Op)
}
