// Package primitive declares the interface to the primitive-function
// library, an external collaborator (out of scope for this repository):
// each primitive exposes a fixed input/output arity, an optional declared
// inverse, and a run method that operates on the machine's value stack.
//
// A small concrete set is provided here — enough to drive the compiler's
// peephole optimizations and the end-to-end scenarios in the core
// specification — standing in for the full library.
package primitive

import (
	"fmt"

	"github.com/mna/tacit/lang/value"
)

// VM is the surface a Primitive's Run method needs from the executor. It is
// implemented by the machine package.
type VM interface {
	// Push appends a value to the value stack.
	Push(v value.Value)
	// Pop removes and returns the top of the value stack, or an error
	// ("Stack was empty when evaluating {name}") if it is empty.
	Pop(name string) (value.Value, error)
	// PushAnti and PopAnti are the antistack equivalents.
	PushAnti(v value.Value)
	PopAnti(name string) (value.Value, error)
	// Call invokes fn synchronously (a recursive, reentrant call into the
	// executor's fetch loop) so that by the time Call returns, fn has run to
	// completion (or failed) and any values it left are on the value stack.
	Call(fn *value.Function) error
	// Import runs the source unit at path (resolved against the currently
	// executing file) in a fresh inner scope, caching the result, and pushes
	// its bindings onto the value stack. Used by the "import" primitive.
	Import(path string) error
}

// Primitive is a built-in function of the language core.
type Primitive interface {
	// Name is the canonical identifier used to look up the primitive and to
	// reference it from compiled code.
	Name() string
	// FormatName is the human-readable form of the name (e.g. "add" for
	// "+"). Error traces show Name, not FormatName.
	FormatName() string
	// Args is the number of values the primitive pops from the value stack.
	Args() int
	// Outputs is the number of values the primitive pushes.
	Outputs() int
	// Inverse returns the primitive's declared inverse, if any. The relation
	// is not necessarily symmetric.
	Inverse() (Primitive, bool)
	// Run executes the primitive against vm.
	Run(vm VM) error
}

var (
	byName   = map[string]Primitive{}
	allByOrd []Primitive
)

// register adds p to the global registry. Called from init() in
// builtins.go for each concrete primitive.
func register(p Primitive) {
	if _, ok := byName[p.Name()]; ok {
		panic(fmt.Sprintf("primitive: duplicate name %q", p.Name()))
	}
	byName[p.Name()] = p
	allByOrd = append(allByOrd, p)
}

// All returns every registered primitive, in registration order.
func All() []Primitive {
	out := make([]Primitive, len(allByOrd))
	copy(out, allByOrd)
	return out
}

// ByName looks up a primitive by its exact canonical name.
func ByName(name string) (Primitive, bool) {
	p, ok := byName[name]
	return p, ok
}

// FromMultiname greedily matches the longest registered primitive name that
// is a prefix of s, returning that primitive and the unmatched remainder.
// It is used to resolve an identifier that is a run of concatenated
// primitive shorthand names (core spec §4.1, identifier resolution rule 2).
func FromMultiname(s string) (p Primitive, tail string, ok bool) {
	best := -1
	for name, prim := range byName {
		if len(name) > best && len(name) <= len(s) && s[:len(name)] == name {
			best = len(name)
			p = prim
		}
	}
	if best < 0 {
		return nil, s, false
	}
	return p, s[best:], true
}

// Decompose fully decomposes s into a run of primitive names, in left-to-
// right source order. It fails if any remaining suffix does not match a
// registered primitive.
func Decompose(s string) ([]Primitive, bool) {
	var out []Primitive
	for s != "" {
		p, tail, ok := FromMultiname(s)
		if !ok {
			return nil, false
		}
		out = append(out, p)
		s = tail
	}
	return out, true
}
