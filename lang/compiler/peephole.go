package compiler

import "github.com/mna/tacit/lang/value"

// push appends instr to the buffer, applying the four peephole rewrites of
// §4.1 against the exact trailing pattern. Each rule only looks at the
// buffer's immediate tail; there is no backward motion beyond it.
func (b *buffer) push(instr value.Instr) {
	if instr.Op == value.OpPrim && instr.PrimName == "noop" {
		// Rule 4: Noop elision.
		return
	}

	if instr.Op == value.OpCall && b.tryIfFusion() {
		return
	}

	if instr.Op == value.OpPrim && b.tryReverseFusion(instr.PrimName) {
		return
	}

	if instr.Op == value.OpPrim && b.tryInverseAnnihilation(instr.PrimName) {
		return
	}

	b.instrs = append(b.instrs, instr)
}

// tryIfFusion implements rule 1: appending Call after the exact trailing
// pattern BeginArray, Push(f1), Push(f2), EndArray, Prim(flip), Prim(pick)
// replaces those six instructions with a single If(f2, f1).
func (b *buffer) tryIfFusion() bool {
	n := len(b.instrs)
	if n < 6 {
		return false
	}
	tail := b.instrs[n-6:]
	if tail[0].Op != value.OpBeginArray ||
		tail[1].Op != value.OpPush ||
		tail[2].Op != value.OpPush ||
		tail[3].Op != value.OpEndArray ||
		tail[4].Op != value.OpPrim || tail[4].PrimName != "flip" ||
		tail[5].Op != value.OpPrim || tail[5].PrimName != "pick" {
		return false
	}
	f1, ok1 := tail[1].Value.IntoFunc()
	f2, ok2 := tail[2].Value.IntoFunc()
	if !ok1 || !ok2 {
		return false
	}
	b.instrs = append(b.instrs[:n-6], value.Instr{Op: value.OpIf, ThenFn: f2, ElseFn: f1})
	return true
}

// tryReverseFusion implements rule 2: Reverse+First fuses to Last, and
// Reverse+Last fuses to First, when the new primitive immediately follows a
// trailing Prim(reverse).
func (b *buffer) tryReverseFusion(name string) bool {
	if name != "first" && name != "last" {
		return false
	}
	n := len(b.instrs)
	if n < 1 {
		return false
	}
	last := b.instrs[n-1]
	if last.Op != value.OpPrim || last.PrimName != "reverse" {
		return false
	}
	fused := "last"
	if name == "last" {
		fused = "first"
	}
	b.instrs[n-1] = value.Instr{Op: value.OpPrim, PrimName: fused, SpanIdx: last.SpanIdx}
	return true
}

// tryInverseAnnihilation implements rule 3: if the last emitted primitive
// has equal input/output arity, the newly appended primitive does too, and
// one is the other's declared inverse, both are popped rather than either
// being appended.
func (b *buffer) tryInverseAnnihilation(name string) bool {
	n := len(b.instrs)
	if n < 1 {
		return false
	}
	last := b.instrs[n-1]
	if last.Op != value.OpPrim {
		return false
	}
	if b.env.PrimInfo == nil || b.env.IsInverse == nil {
		return false
	}
	lastArgs, lastOut, ok := b.env.PrimInfo(last.PrimName)
	if !ok || lastArgs != lastOut {
		return false
	}
	newArgs, newOut, ok := b.env.PrimInfo(name)
	if !ok || newArgs != newOut {
		return false
	}
	if !b.env.IsInverse(last.PrimName, name) && !b.env.IsInverse(name, last.PrimName) {
		return false
	}
	b.instrs = b.instrs[:n-1]
	return true
}
