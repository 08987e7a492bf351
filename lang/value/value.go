// Package value implements the runtime value and bytecode data model shared
// by the compiler and the executor (core spec §3 Data Model). The full
// array/value library is an external collaborator out of scope for this
// repository; this package provides the minimal faithful subset the core
// needs to compile and run programs: a shaped array of scalars, with one
// scalar variant holding a Function.
package value

import (
	"fmt"
	"strings"
)

// Elem is a single scalar element of an Array's data buffer.
type Elem interface {
	isElem()
	String() string
}

// Num is a numeric scalar.
type Num float64

func (Num) isElem()          {}
func (n Num) String() string { return fmt.Sprintf("%g", float64(n)) }

// Char is a character scalar.
type Char rune

func (Char) isElem()           {}
func (c Char) String() string { return string(rune(c)) }

// FuncElem is a scalar holding a Function value (the Func variant of Value).
type FuncElem struct{ Fn *Function }

func (FuncElem) isElem()          {}
func (f FuncElem) String() string { return f.Fn.String() }

// Value is a tagged, shaped array. Values are shared by copy of handle
// (Go's garbage collector stands in for the reference counting the core
// specification describes — see DESIGN.md); mutation requires first
// obtaining a private copy via Clone.
type Value struct {
	Shape []int
	Data  []Elem
}

// Scalar returns a rank-0 value wrapping a single element.
func Scalar(e Elem) Value {
	return Value{Data: []Elem{e}}
}

// IsScalar reports whether v has rank 0 (a single element, empty shape).
func (v Value) IsScalar() bool {
	return len(v.Shape) == 0 && len(v.Data) == 1
}

// IntoScalar projects the single element of a rank-0 value.
func (v Value) IntoScalar() (Elem, bool) {
	if !v.IsScalar() {
		return nil, false
	}
	return v.Data[0], true
}

// IntoFunc projects v as a scalar Function, if it is one.
func (v Value) IntoFunc() (*Function, bool) {
	e, ok := v.IntoScalar()
	if !ok {
		return nil, false
	}
	fe, ok := e.(FuncElem)
	if !ok {
		return nil, false
	}
	return fe.Fn, true
}

// Len returns the number of rows along the leading axis (Shape[0]); for a
// rank-0 value it is 1.
func (v Value) Len() int {
	if len(v.Shape) == 0 {
		return 1
	}
	return v.Shape[0]
}

func (v Value) String() string {
	if v.IsScalar() {
		return v.Data[0].String()
	}
	parts := make([]string, len(v.Data))
	for i, e := range v.Data {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Clone returns a deep copy of v's shape and data. The core model treats
// every Value as copy-on-write; since this implementation relies on Go's
// GC rather than hand-rolled refcounts (see DESIGN.md), there is no cheap
// uniqueness check to skip the copy — callers that need to mutate a value
// in place must Clone it first.
func (v Value) Clone() Value {
	data := make([]Elem, len(v.Data))
	copy(data, v.Data)
	shape := make([]int, len(v.Shape))
	copy(shape, v.Shape)
	return Value{Shape: shape, Data: data}
}

// FromRowValues combines a sequence of values into one array by stacking
// rows, matching the value library's from_row_values contract (core spec
// §6). Scalars are stacked as a rank-1 array; arrays of matching shape
// (ignoring the leading axis) are stacked into a higher-rank array. It
// fails when shapes do not conform.
func FromRowValues(values []Value) (Value, error) {
	if len(values) == 0 {
		return Value{Shape: []int{0}}, nil
	}

	rowShape := values[0].Shape
	for _, v := range values[1:] {
		if !shapeEq(v.Shape, rowShape) {
			return Value{}, fmt.Errorf("Array removed elements: shapes %v and %v do not conform", rowShape, v.Shape)
		}
	}

	shape := append([]int{len(values)}, rowShape...)
	data := make([]Elem, 0, len(values)*rowLen(rowShape))
	for _, v := range values {
		data = append(data, v.Data...)
	}
	return Value{Shape: shape, Data: data}, nil
}

func rowLen(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func shapeEq(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
