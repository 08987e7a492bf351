// Package span implements the append-only source-span table. All runtime
// references to source locations are small integer indices into a Table;
// this keeps instructions, values and errors cheap to copy while still
// letting error formatting recover an exact source range on demand.
package span

import (
	"fmt"

	"github.com/mna/tacit/lang/token"
)

// Span is a half-open source range, expressed as compact line/col positions.
type Span struct {
	Start, End token.Pos
}

// String renders the span as "line:col-line:col", or "<builtin>" when
// either end is unknown (synthesized code with no corresponding source).
func (s Span) String() string {
	if s.Start.Unknown() || s.End.Unknown() {
		return "<builtin>"
	}
	sl, sc := s.Start.LineCol()
	el, ec := s.End.LineCol()
	return fmt.Sprintf("%d:%d-%d:%d", sl, sc, el, ec)
}

// Builtin is the span recorded for compiler-synthesized code that has no
// corresponding source text (e.g. the synthesized If instruction).
var Builtin = Span{}

// BuiltinIndex is the table index at which Builtin always lives.
const BuiltinIndex = 0

// A Table is an append-only list of spans, addressed by index. Index 0 is
// always Builtin.
type Table struct {
	spans []Span
}

// NewTable returns a table pre-seeded with Builtin at index 0.
func NewTable() *Table {
	return &Table{spans: []Span{Builtin}}
}

// Add appends s to the table and returns its index.
func (t *Table) Add(s Span) int {
	t.spans = append(t.spans, s)
	return len(t.spans) - 1
}

// Get returns the span at idx. It panics if idx is out of range, which
// indicates an internal compiler error (an instruction referencing a span
// that was never recorded).
func (t *Table) Get(idx int) Span {
	return t.spans[idx]
}

// Len returns the number of spans recorded, including Builtin.
func (t *Table) Len() int {
	return len(t.spans)
}
