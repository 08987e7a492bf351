package machine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/tacit/lang/ast"
	"github.com/mna/tacit/lang/machine"
	"github.com/mna/tacit/lang/value"
)

func numWord(n float64) ast.Word { return ast.Word{Kind: ast.Number, Number: n} }

// S1: a bare numeric literal leaves it on the stack.
func TestRunWords_NumberLiteral(t *testing.T) {
	ex := machine.New()
	sc := ex.NewScope()
	items := []ast.Item{{Kind: ast.Words, WordsOf: []ast.Word{numWord(42)}}}
	require.NoError(t, ex.RunFile(sc, items, machine.Watch))
	require.Len(t, sc.Value, 1)
	e, ok := sc.Value[0].IntoScalar()
	require.True(t, ok)
	assert.Equal(t, value.Num(42), e)
}

// S2: "+ 1 2" reduces the two pushed numbers to one value.
func TestRunWords_NumbersThenPrimitive(t *testing.T) {
	ex := machine.New()
	sc := ex.NewScope()
	items := []ast.Item{{Kind: ast.Words, WordsOf: []ast.Word{
		{Kind: ast.Primitive, Name: "+"},
		numWord(1),
		numWord(2),
	}}}
	require.NoError(t, ex.RunFile(sc, items, machine.Watch))
	require.Len(t, sc.Value, 1)
	e, ok := sc.Value[0].IntoScalar()
	require.True(t, ok)
	assert.Equal(t, value.Num(3), e)
}

func dfnBody(op string) []ast.Word {
	return []ast.Word{
		{Kind: ast.Primitive, Name: op},
		{Kind: ast.Identifier, Name: "a"},
		{Kind: ast.Identifier, Name: "b"},
	}
}

// S4: a dfn captures its positional arguments in reverse-drain order, and
// reports the exact shortage message when called with too few.
func TestRunWords_DfnCapture(t *testing.T) {
	ex := machine.New()
	sc := ex.NewScope()
	items := []ast.Item{{Kind: ast.Words, WordsOf: []ast.Word{
		{Kind: ast.Primitive, Name: "call"},
		{Kind: ast.Dfn, Body: dfnBody("+")},
		numWord(3),
		numWord(4),
	}}}
	require.NoError(t, ex.RunFile(sc, items, machine.Watch))
	require.Len(t, sc.Value, 1)
	e, ok := sc.Value[0].IntoScalar()
	require.True(t, ok)
	assert.Equal(t, value.Num(7), e)
}

func TestRunWords_DfnCapture_NotEnoughArguments(t *testing.T) {
	ex := machine.New()
	sc := ex.NewScope()
	items := []ast.Item{{Kind: ast.Words, WordsOf: []ast.Word{
		{Kind: ast.Primitive, Name: "call"},
		{Kind: ast.Dfn, Body: []ast.Word{
			{Kind: ast.Primitive, Name: "+"},
			{Kind: ast.Identifier, Name: "a"},
			{Kind: ast.Identifier, Name: "b"},
		}},
		numWord(1),
	}}}
	err := ex.RunFile(sc, items, machine.Watch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough arguments for dfn of 2 values")
}

// S6: a scoped binding does not leak into the outer scope's names map, but
// the bound value remains reachable through the globals table.
func TestRunItems_ScopedBindingIsolation(t *testing.T) {
	ex := machine.New()
	sc := ex.NewScope()
	globalsBefore := ex.Globals.Len()

	items := []ast.Item{{Kind: ast.Scoped, Scoped: &ast.ScopedItems{Items: []ast.Item{
		{Kind: ast.BindingItem, Binding: &ast.Binding{
			Name:  ast.Ident{Name: "x"},
			Words: []ast.Word{numWord(5)},
		}},
	}}}}

	require.NoError(t, ex.RunFile(sc, items, machine.Watch))

	_, ok := sc.Names.Get("x")
	assert.False(t, ok, "outer scope must not see the scoped binding")
	assert.Equal(t, globalsBefore+1, ex.Globals.Len(), "the bound value must remain in globals")
}

// S5: a cycle importing A -> B -> A fails with the exact cycle message.
func TestImport_CycleDetection(t *testing.T) {
	ex := machine.New()
	sc := ex.NewScope()

	loader := func(path string) ([]ast.Item, error) {
		switch path {
		case "A.ua":
			return []ast.Item{{Kind: ast.Words, WordsOf: []ast.Word{
				{Kind: ast.Primitive, Name: "import"},
				{Kind: ast.String, Str: "B.ua"},
			}}}, nil
		case "B.ua":
			return []ast.Item{{Kind: ast.Words, WordsOf: []ast.Word{
				{Kind: ast.Primitive, Name: "import"},
				{Kind: ast.String, Str: "A.ua"},
			}}}, nil
		}
		return nil, fmt.Errorf("no such file %s", path)
	}
	ex.Loader = loader
	ex.RootPath = "A.ua"

	err := ex.Import(sc, "", "A.ua", loader)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected importing")
	assert.Contains(t, err.Error(), "A.ua")
}

// P3: exec only returns when the call stack returns to its entry height,
// even when an error is raised deep in a nested call.
func TestExec_CallStackBalanceOnError(t *testing.T) {
	ex := machine.New()
	sc := ex.NewScope()
	// A block body invoking "+" with an empty stack fails mid-call, two
	// frames deep (the Words line calls the block via Call, which runs "+").
	items := []ast.Item{{Kind: ast.Words, WordsOf: []ast.Word{
		{Kind: ast.Primitive, Name: "call"},
		{Kind: ast.Dfn, Body: []ast.Word{{Kind: ast.Primitive, Name: "+"}}},
	}}}
	err := ex.RunFile(sc, items, machine.Watch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stack was empty")
	assert.Equal(t, 0, sc.CallHeight())
}
