// Package globals implements the append-only globals table (core spec §2,
// §3 "Globals table", invariants I1/I5, property P1): a list of values
// addressed by small indices, pre-seeded with one entry per nameable
// primitive, that only ever grows.
package globals

import (
	"github.com/dolthub/swiss"

	"github.com/mna/tacit/lang/primitive"
	"github.com/mna/tacit/lang/value"
)

// Table is the append-only globals list plus the name-to-index map that
// seeds every fresh Scope (lang/scope).
type Table struct {
	values []value.Value
	names  *swiss.Map[string, uint32]
}

// New returns a globals table pre-populated with one Value::Func entry per
// registered primitive, addressable both by index and by name.
func New() *Table {
	prims := primitive.All()
	t := &Table{
		values: make([]value.Value, 0, len(prims)),
		names:  swiss.NewMap[string, uint32](uint32(len(prims))),
	}
	for _, p := range prims {
		t.seedPrimitive(p)
	}
	return t
}

func (t *Table) seedPrimitive(p primitive.Primitive) uint32 {
	fn := &value.Function{
		ID:      value.FuncID{Kind: value.FuncPrimitive, Name: p.Name()},
		Instrs:  []value.Instr{{Op: value.OpPrim, PrimName: p.Name()}},
		DfnArgs: value.NoDfn,
	}
	idx := t.Append(value.FuncValue(fn))
	t.names.Put(p.Name(), idx)
	return idx
}

// Len returns the number of entries in the table.
func (t *Table) Len() int { return len(t.values) }

// Append adds v to the table and returns its index. Per I5, the returned
// index remains valid for the life of the table.
func (t *Table) Append(v value.Value) uint32 {
	idx := uint32(len(t.values))
	t.values = append(t.values, v)
	return idx
}

// Get returns the value at idx. It panics if idx is out of range, which can
// only indicate an internal bug, since indices are never invalidated (I5).
func (t *Table) Get(idx uint32) value.Value {
	return t.values[idx]
}

// Bind records that name now maps to idx in the initial (primitive-seeded)
// names map used to construct fresh scopes; user bindings layer their own
// names map on top of this one (see lang/scope).
func (t *Table) Bind(name string, idx uint32) {
	t.names.Put(name, idx)
}

// InitialNames returns a copy of the primitive-seeded name-to-index map, for
// installing into a fresh Scope. A copy is returned so a scope's local
// mutations never affect this table's own bookkeeping.
func (t *Table) InitialNames() *swiss.Map[string, uint32] {
	m := swiss.NewMap[string, uint32](uint32(t.names.Count()))
	t.names.Iter(func(k string, v uint32) bool {
		m.Put(k, v)
		return false
	})
	return m
}

// Lookup resolves name against the table's own name map (not a scope's).
// The compiler Env does not use it; it resolves names through the scope.
func (t *Table) Lookup(name string) (value.Value, bool) {
	idx, ok := t.names.Get(name)
	if !ok {
		return value.Value{}, false
	}
	return t.values[idx], true
}
