package value

import "fmt"

// Op enumerates the instruction variants of the bytecode (core spec §3).
type Op int

const (
	// OpPush pushes a literal value onto the value stack.
	OpPush Op = iota
	// OpBeginArray records the current value-stack depth.
	OpBeginArray
	// OpEndArray pops back to the recorded depth, reverses, and row-stacks.
	OpEndArray
	// OpPrim invokes a named primitive.
	OpPrim
	// OpCall pops a value and, if it is a scalar function, enters it.
	OpCall
	// OpDfnVal pushes the i-th argument of the innermost dfn frame.
	OpDfnVal
	// OpIf is the compiler-synthesized fusion of a two-armed branch; it never
	// appears as source syntax (see DESIGN.md on If-fusion).
	OpIf
)

func (op Op) String() string {
	switch op {
	case OpPush:
		return "push"
	case OpBeginArray:
		return "begin_array"
	case OpEndArray:
		return "end_array"
	case OpPrim:
		return "prim"
	case OpCall:
		return "call"
	case OpDfnVal:
		return "dfn_val"
	case OpIf:
		return "if"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// Instr is a single bytecode instruction. Only the fields relevant to Op are
// populated; this mirrors the ast.Word tagged-struct convention rather than
// a byte-packed encoding, since nothing in the core specification mandates
// a binary representation (see DESIGN.md). SpanIdx is an index into the
// executor's span.Table rather than an embedded span.Span, per core spec
// §2/§3: source locations are interned once and referenced by integer index
// everywhere in the bytecode.
type Instr struct {
	Op      Op
	SpanIdx int // EndArray, Prim, Call

	Value Value // Push

	PrimName string // Prim: canonical primitive name, resolved at run time

	DfnIndex int // DfnVal

	ThenFn *Function // If
	ElseFn *Function // If
}

func (i Instr) String() string {
	switch i.Op {
	case OpPush:
		return fmt.Sprintf("push %s", i.Value)
	case OpPrim:
		return fmt.Sprintf("prim %s", i.PrimName)
	case OpDfnVal:
		return fmt.Sprintf("dfn_val %d", i.DfnIndex)
	case OpIf:
		return fmt.Sprintf("if %s %s", i.ThenFn, i.ElseFn)
	default:
		return i.Op.String()
	}
}

// FuncKind discriminates the identity a Function carries (core spec §3).
type FuncKind int

const (
	// Main identifies the top-level entry function of a run.
	Main FuncKind = iota
	// Named identifies a user binding, by name.
	Named
	// Anonymous identifies a function block or dfn with no binding, by the
	// span where it was written.
	Anonymous
	// FuncPrimitive identifies a primitive wrapped as a first-class function
	// (one Prim instruction), by the primitive's canonical name.
	FuncPrimitive
)

// FuncID is a Function's identity, used in naming and error traces. Like
// Instr, it carries a span table index rather than an embedded span.Span.
type FuncID struct {
	Kind    FuncKind
	Name    string // Named, FuncPrimitive
	SpanIdx int    // Anonymous
}

func (id FuncID) String() string {
	switch id.Kind {
	case Main:
		return "main"
	case Named:
		return id.Name
	case FuncPrimitive:
		return id.Name
	case Anonymous:
		return fmt.Sprintf("<anonymous@span#%d>", id.SpanIdx)
	default:
		return "<func>"
	}
}

// NoDfn is the DfnArgs sentinel meaning "not a dfn".
const NoDfn = -1

// Function is an immutable compiled function: an identity, an instruction
// stream, and an optional dfn-argument count (core spec §3).
type Function struct {
	ID      FuncID
	Instrs  []Instr
	DfnArgs int // NoDfn, or the number of positional arguments expected
}

// IsDfn reports whether the function expects positional dfn arguments.
func (f *Function) IsDfn() bool { return f.DfnArgs != NoDfn }

func (f *Function) String() string {
	if f == nil {
		return "<nil func>"
	}
	return fmt.Sprintf("<func %s>", f.ID)
}

// FuncValue wraps fn as a scalar Value (the Func variant).
func FuncValue(fn *Function) Value {
	return Scalar(FuncElem{Fn: fn})
}
