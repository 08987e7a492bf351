// Package scope implements the reified activation context of core spec §3
// "Scope" and the scoped-execution semantics of §4.3: a value stack, an
// antistack, an array-builder depth stack, a dfn-argument stack, a call
// frame stack, and a name-to-global-index map. A nested scope (InScope)
// runs in a separate fresh Scope, so the enclosing one is left untouched.
package scope

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/mna/tacit/lang/value"
)

// DfnFrame is one activation of a dfn: the captured, in-order argument
// vector the body's DfnVal instructions index into.
type DfnFrame struct {
	Args []value.Value
}

// SpanEntry is one entered-but-not-yet-exited primitive or array-build
// invocation recorded on a call frame's span stack (core spec §3 "Call
// frame", §4.2 trace_error, §9 "Error tracing"). SpanIdx indexes the
// executor's span.Table rather than embedding a span.Span.
type SpanEntry struct {
	SpanIdx   int
	Primitive string // empty for an EndArray-recorded span
}

// CallFrame is one activation record on the call stack (core spec §3).
type CallFrame struct {
	Function    *value.Function
	CallSpanIdx int
	PC          int
	Spans       []SpanEntry
	Dfn         bool // true iff this frame owns an entry on the dfn stack
}

// Scope is the full reified activation context described in core spec §3.
// A fresh Scope's Names is seeded with the primitive bindings only; it
// grows independently of its parent (see InScope and P2 scope
// transparency).
type Scope struct {
	Value []value.Value
	Anti  []value.Value
	Array []int
	Dfn   []*DfnFrame
	Call  []*CallFrame
	Names *swiss.Map[string, uint32]
}

// New returns an empty scope whose Names map is initialNames itself (the
// primitive-seeded map from lang/globals); the map is not copied, so callers
// pass one the scope may own.
func New(initialNames *swiss.Map[string, uint32]) *Scope {
	return &Scope{Names: initialNames}
}

// PushValue appends v to the value stack.
func (s *Scope) PushValue(v value.Value) { s.Value = append(s.Value, v) }

// PopValue removes and returns the top of the value stack. argName is used
// to format the empty-stack error per core spec §7.
func (s *Scope) PopValue(argName string) (value.Value, error) {
	if len(s.Value) == 0 {
		return value.Value{}, fmt.Errorf("Stack was empty when evaluating %s", argName)
	}
	v := s.Value[len(s.Value)-1]
	s.Value = s.Value[:len(s.Value)-1]
	return v, nil
}

// PushAnti appends v to the antistack.
func (s *Scope) PushAnti(v value.Value) { s.Anti = append(s.Anti, v) }

// PopAnti removes and returns the top of the antistack.
func (s *Scope) PopAnti(argName string) (value.Value, error) {
	if len(s.Anti) == 0 {
		return value.Value{}, fmt.Errorf("Antistack was empty when evaluating %s", argName)
	}
	v := s.Anti[len(s.Anti)-1]
	s.Anti = s.Anti[:len(s.Anti)-1]
	return v, nil
}

// PushArrayMark records the current value-stack depth, opening an
// array-literal boundary (core spec §4.1 BeginArray).
func (s *Scope) PushArrayMark() { s.Array = append(s.Array, len(s.Value)) }

// PopArrayMark pops and returns the most recently recorded depth. It
// panics if Array is empty, which per I2 can only indicate an internal bug
// (EndArray without a matching BeginArray).
func (s *Scope) PopArrayMark() int {
	n := len(s.Array) - 1
	mark := s.Array[n]
	s.Array = s.Array[:n]
	return mark
}

// DrainValuesFrom removes and returns every value from depth mark to the
// top of the value stack, in the order they were pushed.
func (s *Scope) DrainValuesFrom(mark int) ([]value.Value, error) {
	if mark > len(s.Value) {
		return nil, fmt.Errorf("Array removed elements")
	}
	drained := append([]value.Value(nil), s.Value[mark:]...)
	s.Value = s.Value[:mark]
	return drained, nil
}

// PushDfn pushes a new dfn activation frame.
func (s *Scope) PushDfn(f *DfnFrame) { s.Dfn = append(s.Dfn, f) }

// PopDfn pops the innermost dfn activation frame.
func (s *Scope) PopDfn() {
	s.Dfn = s.Dfn[:len(s.Dfn)-1]
}

// CurrentDfn returns the innermost dfn activation frame.
func (s *Scope) CurrentDfn() (*DfnFrame, bool) {
	if len(s.Dfn) == 0 {
		return nil, false
	}
	return s.Dfn[len(s.Dfn)-1], true
}

// PushCall pushes a new call frame.
func (s *Scope) PushCall(f *CallFrame) { s.Call = append(s.Call, f) }

// PopCall pops the top call frame, also popping the dfn stack in lock-step
// if the frame owned a dfn entry (I3).
func (s *Scope) PopCall() *CallFrame {
	n := len(s.Call) - 1
	f := s.Call[n]
	s.Call = s.Call[:n]
	if f.Dfn {
		s.PopDfn()
	}
	return f
}

// TopCall returns the innermost call frame.
func (s *Scope) TopCall() (*CallFrame, bool) {
	if len(s.Call) == 0 {
		return nil, false
	}
	return s.Call[len(s.Call)-1], true
}

// CallHeight returns the current depth of the call stack.
func (s *Scope) CallHeight() int { return len(s.Call) }

// Resolve looks up name in the scope's names map against the supplied
// globals accessor, matching the compiler.Env.Resolve contract.
func (s *Scope) Resolve(get func(idx uint32) value.Value, name string) (value.Value, bool) {
	idx, ok := s.Names.Get(name)
	if !ok {
		return value.Value{}, false
	}
	return get(idx), true
}

// Bind records that name maps to idx in this scope's names map.
func (s *Scope) Bind(name string, idx uint32) {
	s.Names.Put(name, idx)
}

// InScope runs f against a fresh child scope seeded only with a copy of
// initialNames (no inherited user bindings). The caller's scope is never
// handed to f, so it is left unchanged (P2 scope transparency). The child
// scope is returned so its bindings remain reachable (core spec §4.3
// "Importing").
func InScope(initialNames *swiss.Map[string, uint32], f func(child *Scope) error) (*Scope, error) {
	child := New(cloneNames(initialNames))
	err := f(child)
	return child, err
}

func cloneNames(m *swiss.Map[string, uint32]) *swiss.Map[string, uint32] {
	out := swiss.NewMap[string, uint32](uint32(m.Count()))
	m.Iter(func(k string, v uint32) bool {
		out.Put(k, v)
		return false
	})
	return out
}
