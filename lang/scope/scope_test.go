package scope_test

import (
	"testing"

	"github.com/dolthub/swiss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/tacit/lang/scope"
	"github.com/mna/tacit/lang/value"
)

func TestScope_ValueStack(t *testing.T) {
	s := scope.New(swiss.NewMap[string, uint32](0))
	s.PushValue(value.Scalar(value.Num(1)))
	s.PushValue(value.Scalar(value.Num(2)))

	v, err := s.PopValue("x")
	require.NoError(t, err)
	e, _ := v.IntoScalar()
	assert.Equal(t, value.Num(2), e)

	_, err = s.PopValue("y")
	require.NoError(t, err)

	_, err = s.PopValue("z")
	require.EqualError(t, err, "Stack was empty when evaluating z")
}

func TestScope_Antistack(t *testing.T) {
	s := scope.New(swiss.NewMap[string, uint32](0))
	_, err := s.PopAnti("w")
	require.EqualError(t, err, "Antistack was empty when evaluating w")
}

func TestScope_ArrayMarkAndDrain(t *testing.T) {
	s := scope.New(swiss.NewMap[string, uint32](0))
	s.PushValue(value.Scalar(value.Num(1)))
	s.PushArrayMark()
	s.PushValue(value.Scalar(value.Num(2)))
	s.PushValue(value.Scalar(value.Num(3)))

	mark := s.PopArrayMark()
	drained, err := s.DrainValuesFrom(mark)
	require.NoError(t, err)
	require.Len(t, drained, 2)
	require.Len(t, s.Value, 1)
}

func TestScope_DrainValuesFrom_RemovedElements(t *testing.T) {
	s := scope.New(swiss.NewMap[string, uint32](0))
	_, err := s.DrainValuesFrom(5)
	require.EqualError(t, err, "Array removed elements")
}

func TestScope_CallAndDfnLockstep(t *testing.T) {
	s := scope.New(swiss.NewMap[string, uint32](0))
	s.PushDfn(&scope.DfnFrame{Args: []value.Value{value.Scalar(value.Num(1))}})
	s.PushCall(&scope.CallFrame{Dfn: true})

	assert.Equal(t, 1, s.CallHeight())
	f := s.PopCall()
	assert.True(t, f.Dfn)
	_, ok := s.CurrentDfn()
	assert.False(t, ok, "popping a dfn-bearing call frame must pop the dfn stack in lock-step")
}

// InScope must not leak bindings back into the parent's names map (P2).
func TestInScope_Transparency(t *testing.T) {
	initial := swiss.NewMap[string, uint32](0)
	initial.Put("+", 0)

	child, err := scope.InScope(initial, func(c *scope.Scope) error {
		c.Bind("x", 1)
		return nil
	})
	require.NoError(t, err)

	_, ok := child.Names.Get("x")
	assert.True(t, ok)
	_, ok = initial.Get("x")
	assert.False(t, ok, "child binding must not leak into the parent names map")
}
