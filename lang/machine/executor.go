// Package machine implements the fetch-decode-execute loop of core spec
// §4.2, the per-frame span-stack error tracing of §4.2/§7/§9, and the
// import/binding/run-mode machinery of §4.3. It is the only package that
// imports lang/compiler, lang/globals, lang/primitive, lang/scope, and
// lang/value together, wiring the leaf packages into a running
// interpreter.
package machine

import (
	"fmt"

	"github.com/mna/tacit/lang/compiler"
	"github.com/mna/tacit/lang/globals"
	"github.com/mna/tacit/lang/primitive"
	"github.com/mna/tacit/lang/scope"
	"github.com/mna/tacit/lang/span"
	"github.com/mna/tacit/lang/value"
)

// Executor owns the globals table and the import cache/cycle-detection
// state; it is otherwise stateless with respect to any one run (all
// per-run state lives in a Scope).
type Executor struct {
	Globals *globals.Table
	Spans   *span.Table

	// ResolvePath resolves a relative import path against the path of the
	// importing file. Defaults to DefaultResolvePath, which joins path onto
	// the importing file's directory.
	ResolvePath func(base, path string) string

	// Loader reads and parses a source unit, supplied by the front-end (the
	// lexer/parser is an external collaborator, out of scope per §1).
	Loader Loader

	// RootPath is the path of the outermost file being run, used as the
	// import base when no import is currently in progress.
	RootPath string

	importCache map[string]*scope.Scope
	importStack []string
}

func (ex *Executor) currentBase() string {
	if n := len(ex.importStack); n > 0 {
		return ex.importStack[n-1]
	}
	return ex.RootPath
}

// RunPath loads and runs the source unit at path as the outermost file,
// via the executor's configured Loader.
func (ex *Executor) RunPath(sc *scope.Scope, path string) error {
	if ex.Loader == nil {
		return fmt.Errorf("machine: no Loader configured")
	}
	items, err := ex.Loader(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	ex.RootPath = path
	return ex.RunFile(sc, items, Normal)
}

// New returns an executor with a freshly seeded globals table.
func New() *Executor {
	return &Executor{
		Globals:     globals.New(),
		Spans:       span.NewTable(),
		ResolvePath: DefaultResolvePath,
		importCache: make(map[string]*scope.Scope),
	}
}

// NewScope returns a fresh scope seeded with the executor's primitive
// bindings only (core spec §3 "Lifecycle").
func (ex *Executor) NewScope() *scope.Scope {
	return scope.New(ex.Globals.InitialNames())
}

// vm adapts one (Executor, Scope) pair to the primitive.VM interface a
// Prim instruction's primitive.Run needs.
type vm struct {
	ex *Executor
	sc *scope.Scope
}

func (v *vm) Push(val value.Value)                    { v.sc.PushValue(val) }
func (v *vm) Pop(name string) (value.Value, error)     { return v.sc.PopValue(name) }
func (v *vm) PushAnti(val value.Value)                 { v.sc.PushAnti(val) }
func (v *vm) PopAnti(name string) (value.Value, error) { return v.sc.PopAnti(name) }
func (v *vm) Call(fn *value.Function) error            { return v.ex.Call(v.sc, fn, span.BuiltinIndex) }
func (v *vm) Import(path string) error {
	return v.ex.Import(v.sc, v.ex.currentBase(), path, v.ex.Loader)
}

// RunMain runs fn to completion against sc, starting at sc's current call
// height (normally 0 for a freshly built scope).
func (ex *Executor) RunMain(sc *scope.Scope, fn *value.Function) error {
	return ex.Call(sc, fn, span.BuiltinIndex)
}

// Call is the recursive, reentrant entry point used by primitives (via the
// vm adapter) and by the If instruction: it pushes a call frame for fn and
// runs the fetch loop synchronously until the call stack returns to the
// height observed on entry (core spec §5 "synchronous recursive entry").
func (ex *Executor) Call(sc *scope.Scope, fn *value.Function, callSpanIdx int) error {
	entryHeight := sc.CallHeight()
	if err := ex.enterCall(sc, fn, callSpanIdx); err != nil {
		return err
	}
	return ex.run(sc, entryHeight)
}

// enterCall pushes a call frame for fn, draining and reversing dfn
// arguments from the value stack first if fn is a dfn (core spec §4.2
// Call(span) semantics).
func (ex *Executor) enterCall(sc *scope.Scope, fn *value.Function, callSpanIdx int) error {
	frame := &scope.CallFrame{Function: fn, CallSpanIdx: callSpanIdx}
	if fn.IsDfn() {
		n := fn.DfnArgs
		if len(sc.Value) < n {
			return fmt.Errorf("not enough arguments for dfn of %d values", n)
		}
		raw, err := sc.DrainValuesFrom(len(sc.Value) - n)
		if err != nil {
			return err
		}
		args := make([]value.Value, n)
		for i, v := range raw {
			args[n-1-i] = v
		}
		sc.PushDfn(&scope.DfnFrame{Args: args})
		frame.Dfn = true
	}
	sc.PushCall(frame)
	return nil
}

// run is the fetch-decode-execute loop of core spec §4.2. It returns once
// the call stack height returns to entryHeight, whether by normal
// completion or by an error unwound down to that height (P3).
func (ex *Executor) run(sc *scope.Scope, entryHeight int) error {
	for {
		if sc.CallHeight() <= entryHeight {
			return nil
		}
		frame, _ := sc.TopCall()
		if frame.PC >= len(frame.Function.Instrs) {
			sc.PopCall()
			continue
		}
		instr := frame.Function.Instrs[frame.PC]
		if err := ex.exec(sc, frame, instr); err != nil {
			return ex.unwind(sc, entryHeight, err)
		}
		frame.PC++
	}
}

// unwind pops frames down to entryHeight, threading err through
// traceError for each one, and returns the composed, traced error.
func (ex *Executor) unwind(sc *scope.Scope, entryHeight int, err error) error {
	for sc.CallHeight() > entryHeight {
		frame := sc.PopCall()
		err = traceError(ex.Spans, frame, err)
	}
	return err
}

func (ex *Executor) exec(sc *scope.Scope, frame *scope.CallFrame, instr value.Instr) error {
	switch instr.Op {
	case value.OpPush:
		sc.PushValue(instr.Value)
		return nil
	case value.OpBeginArray:
		sc.PushArrayMark()
		return nil
	case value.OpEndArray:
		return ex.execEndArray(sc, frame, instr)
	case value.OpPrim:
		return ex.execPrim(sc, frame, instr)
	case value.OpCall:
		return ex.execCall(sc, instr)
	case value.OpDfnVal:
		return ex.execDfnVal(sc, instr)
	case value.OpIf:
		return ex.execIf(sc, instr)
	default:
		return fmt.Errorf("unknown instruction op %v", instr.Op)
	}
}

func (ex *Executor) execEndArray(sc *scope.Scope, frame *scope.CallFrame, instr value.Instr) error {
	mark := sc.PopArrayMark()
	drained, err := sc.DrainValuesFrom(mark)
	if err != nil {
		return err
	}
	for i, j := 0, len(drained)-1; i < j; i, j = i+1, j-1 {
		drained[i], drained[j] = drained[j], drained[i]
	}
	frame.Spans = append(frame.Spans, scope.SpanEntry{SpanIdx: instr.SpanIdx})
	result, err := value.FromRowValues(drained)
	if err != nil {
		return err
	}
	frame.Spans = frame.Spans[:len(frame.Spans)-1]
	sc.PushValue(result)
	return nil
}

func (ex *Executor) execPrim(sc *scope.Scope, frame *scope.CallFrame, instr value.Instr) error {
	p, ok := primitive.ByName(instr.PrimName)
	if !ok {
		return fmt.Errorf("unknown primitive %q", instr.PrimName)
	}
	frame.Spans = append(frame.Spans, scope.SpanEntry{SpanIdx: instr.SpanIdx, Primitive: instr.PrimName})
	if err := p.Run(&vm{ex: ex, sc: sc}); err != nil {
		return err
	}
	frame.Spans = frame.Spans[:len(frame.Spans)-1]
	return nil
}

// execCall implements call_with_span (core spec §4.2, §9 open question):
// pop the top value; if it is a scalar function, enter it; otherwise the
// non-function branch pops then re-pushes the examined value, per the
// literal wording carried over from the open question.
func (ex *Executor) execCall(sc *scope.Scope, instr value.Instr) error {
	v, err := sc.PopValue("call")
	if err != nil {
		return err
	}
	fn, ok := v.IntoFunc()
	if !ok {
		sc.PushValue(v)
		return nil
	}
	return ex.enterCall(sc, fn, instr.SpanIdx)
}

func (ex *Executor) execDfnVal(sc *scope.Scope, instr value.Instr) error {
	df, ok := sc.CurrentDfn()
	if !ok {
		return fmt.Errorf("dfn_val: no active dfn frame")
	}
	if instr.DfnIndex < 0 || instr.DfnIndex >= len(df.Args) {
		return fmt.Errorf("dfn_val: index %d out of range of %d arguments", instr.DfnIndex, len(df.Args))
	}
	sc.PushValue(df.Args[instr.DfnIndex])
	return nil
}

// execIf implements the compiler-synthesized If instruction (core spec
// §4.1 "Control-flow as data", §4.2 If semantics): unlike the plain Call
// instruction, If invokes the recursive call() helper directly, since it
// is dispatched by the fetch loop rather than by a primitive's Run.
func (ex *Executor) execIf(sc *scope.Scope, instr value.Instr) error {
	cond, err := sc.PopValue("Index")
	if err != nil {
		return err
	}
	e, ok := cond.IntoScalar()
	if !ok {
		return fmt.Errorf("Index is out of bounds of length 2 (dimension 1) in shape [2]")
	}
	n, ok := e.(value.Num)
	if !ok || n < 0 || float64(int(n)) != float64(n) {
		return fmt.Errorf("Index %s is out of bounds of length 2 (dimension 1) in shape [2]", e)
	}
	var fn *value.Function
	switch int(n) {
	case 0:
		fn = instr.ElseFn
	case 1:
		fn = instr.ThenFn
	default:
		return fmt.Errorf("Index %d is out of bounds of length 2 (dimension 1) in shape [2]", int(n))
	}
	return ex.Call(sc, fn, instr.SpanIdx)
}

// Env returns a compiler.Env that resolves identifiers and primitive
// metadata against sc and the executor's primitive registry.
func (ex *Executor) Env(sc *scope.Scope) compiler.Env {
	return compiler.Env{
		Resolve: func(name string) (value.Value, bool) {
			return sc.Resolve(ex.Globals.Get, name)
		},
		PrimInfo: func(name string) (int, int, bool) {
			p, ok := primitive.ByName(name)
			if !ok {
				return 0, 0, false
			}
			return p.Args(), p.Outputs(), true
		},
		IsInverse: func(a, b string) bool {
			pa, ok := primitive.ByName(a)
			if !ok {
				return false
			}
			inv, ok := pa.Inverse()
			return ok && inv.Name() == b
		},
		DecomposeMultiname: func(name string) ([]string, bool) {
			prims, ok := primitive.Decompose(name)
			if !ok || len(prims) == 0 {
				return nil, false
			}
			names := make([]string, len(prims))
			for i, p := range prims {
				names[i] = p.Name()
			}
			return names, true
		},
		InternSpan: ex.Spans.Add,
	}
}
