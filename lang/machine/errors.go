package machine

import (
	"fmt"
	"strings"

	"github.com/mna/tacit/lang/scope"
	"github.com/mna/tacit/lang/span"
	"github.com/mna/tacit/lang/value"
)

// LoadError reports that a source file could not be read (core spec §7).
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("loading %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// ParseError bundles the syntactic errors reported by the external parser
// for one source unit (core spec §7).
type ParseError struct {
	Errs []error
}

func (e *ParseError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "parse errors: " + strings.Join(msgs, "; ")
}

// BreakError is a control-flow escape requested by a primitive; it is not
// an error to users but propagates through the executor as one until a
// catching call site decrements N (core spec §7 Break(n, span)).
type BreakError struct {
	N       int
	SpanIdx int
}

func (e *BreakError) Error() string { return fmt.Sprintf("break(%d)", e.N) }

// TraceFrame is one entry of a TracedError's frame-ordered stack trace
// (core spec §4.2 trace_error). SpanIdx indexes the Spans table carried by
// the enclosing TracedError.
type TraceFrame struct {
	ID      value.FuncID
	SpanIdx int
}

// TracedError is a runtime error with an attached, frame-ordered trace
// (core spec §7 "Traced"). Entries accumulate innermost-first as frames
// unwind. Spans resolves each frame's SpanIdx back to source text for
// Error(); it is nil only for traces built in tests that don't care about
// formatted output.
type TracedError struct {
	Err   error
	Trace []TraceFrame
	Spans *span.Table
}

func (e *TracedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	for _, f := range e.Trace {
		fmt.Fprintf(&sb, "\n  in %s", f.ID)
		if e.Spans != nil {
			fmt.Fprintf(&sb, " at %s", e.Spans.Get(f.SpanIdx))
		}
	}
	return sb.String()
}

func (e *TracedError) Unwrap() error { return e.Err }

// traceError appends frame's entered-but-not-exited primitive spans (in
// deepest-first order), then the frame's own identity, to err's trace,
// wrapping err in a TracedError if it isn't one already (core spec §4.2,
// §9 "Error tracing"). spans is attached so Error() can resolve indices to
// source text via Table.Get.
func traceError(spans *span.Table, frame *scope.CallFrame, err error) error {
	te, ok := err.(*TracedError)
	if !ok {
		te = &TracedError{Err: err, Spans: spans}
	}
	for i := len(frame.Spans) - 1; i >= 0; i-- {
		se := frame.Spans[i]
		id := value.FuncID{Kind: value.Anonymous, SpanIdx: se.SpanIdx}
		if se.Primitive != "" {
			id = value.FuncID{Kind: value.FuncPrimitive, Name: se.Primitive}
		}
		te.Trace = append(te.Trace, TraceFrame{ID: id, SpanIdx: se.SpanIdx})
	}
	te.Trace = append(te.Trace, TraceFrame{ID: frame.Function.ID, SpanIdx: frame.CallSpanIdx})
	return te
}
