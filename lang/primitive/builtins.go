package primitive

import (
	"fmt"

	"github.com/mna/tacit/lang/value"
)

func init() {
	register(addPrim{})
	register(subPrim{})
	register(negPrim{})
	register(dupPrim{})
	register(popPrim{})
	register(flipPrim{})
	register(pickPrim{})
	register(reversePrim{})
	register(firstPrim{})
	register(lastPrim{})
	register(noopPrim{})
	register(importPrim{})
}

func popNum(vm VM, name string) (float64, error) {
	v, err := vm.Pop(name)
	if err != nil {
		return 0, err
	}
	e, ok := v.IntoScalar()
	if !ok {
		return 0, fmt.Errorf("%s: expected a scalar number", name)
	}
	n, ok := e.(value.Num)
	if !ok {
		return 0, fmt.Errorf("%s: expected a number, got %s", name, e)
	}
	return float64(n), nil
}

// addPrim is dyadic addition: "+".
type addPrim struct{}

func (addPrim) Name() string       { return "+" }
func (addPrim) FormatName() string { return "add" }
func (addPrim) Args() int          { return 2 }
func (addPrim) Outputs() int       { return 1 }
func (addPrim) Inverse() (Primitive, bool) { return nil, false }
func (p addPrim) Run(vm VM) error {
	b, err := popNum(vm, "+")
	if err != nil {
		return err
	}
	a, err := popNum(vm, "+")
	if err != nil {
		return err
	}
	vm.Push(value.Scalar(value.Num(a + b)))
	return nil
}

// subPrim is dyadic subtraction: "-". It declares no inverse; with arity
// 2/1 it never takes part in inverse annihilation.
type subPrim struct{}

func (subPrim) Name() string       { return "-" }
func (subPrim) FormatName() string { return "sub" }
func (subPrim) Args() int          { return 2 }
func (subPrim) Outputs() int       { return 1 }
func (subPrim) Inverse() (Primitive, bool) { return nil, false }
func (p subPrim) Run(vm VM) error {
	b, err := popNum(vm, "-")
	if err != nil {
		return err
	}
	a, err := popNum(vm, "-")
	if err != nil {
		return err
	}
	vm.Push(value.Scalar(value.Num(a - b)))
	return nil
}

// negPrim is monadic negation: "neg". It is its own inverse (arity 1/1).
type negPrim struct{}

func (negPrim) Name() string       { return "neg" }
func (negPrim) FormatName() string { return "negate" }
func (negPrim) Args() int          { return 1 }
func (negPrim) Outputs() int       { return 1 }
func (p negPrim) Inverse() (Primitive, bool) { return p, true }
func (p negPrim) Run(vm VM) error {
	a, err := popNum(vm, "neg")
	if err != nil {
		return err
	}
	vm.Push(value.Scalar(value.Num(-a)))
	return nil
}

// dupPrim duplicates the top of the value stack: "dup".
type dupPrim struct{}

func (dupPrim) Name() string       { return "dup" }
func (dupPrim) FormatName() string { return "dup" }
func (dupPrim) Args() int          { return 1 }
func (dupPrim) Outputs() int       { return 2 }
func (dupPrim) Inverse() (Primitive, bool) { return nil, false }
func (p dupPrim) Run(vm VM) error {
	v, err := vm.Pop("dup")
	if err != nil {
		return err
	}
	vm.Push(v)
	vm.Push(v.Clone())
	return nil
}

// popPrim discards the top of the value stack: "pop".
type popPrim struct{}

func (popPrim) Name() string       { return "pop" }
func (popPrim) FormatName() string { return "pop" }
func (popPrim) Args() int          { return 1 }
func (popPrim) Outputs() int       { return 0 }
func (popPrim) Inverse() (Primitive, bool) { return nil, false }
func (p popPrim) Run(vm VM) error {
	_, err := vm.Pop("pop")
	return err
}

// flipPrim swaps the top two values of the value stack: "flip". It is its
// own inverse.
type flipPrim struct{}

func (flipPrim) Name() string       { return "flip" }
func (flipPrim) FormatName() string { return "flip" }
func (flipPrim) Args() int          { return 2 }
func (flipPrim) Outputs() int       { return 2 }
func (p flipPrim) Inverse() (Primitive, bool) { return p, true }
func (p flipPrim) Run(vm VM) error {
	b, err := vm.Pop("flip")
	if err != nil {
		return err
	}
	a, err := vm.Pop("flip")
	if err != nil {
		return err
	}
	vm.Push(b)
	vm.Push(a)
	return nil
}

// pickPrim indexes into a two-element array with an integer index: "pick".
// Used by the compiler's If-fusion trigger pattern (BeginArray, Push,
// Push, EndArray, Prim(flip), Prim(pick)).
type pickPrim struct{}

func (pickPrim) Name() string       { return "pick" }
func (pickPrim) FormatName() string { return "pick" }
func (pickPrim) Args() int          { return 2 }
func (pickPrim) Outputs() int       { return 1 }
func (pickPrim) Inverse() (Primitive, bool) { return nil, false }
func (p pickPrim) Run(vm VM) error {
	idxVal, err := vm.Pop("pick")
	if err != nil {
		return err
	}
	arr, err := vm.Pop("pick")
	if err != nil {
		return err
	}
	idxE, ok := idxVal.IntoScalar()
	if !ok {
		return fmt.Errorf("pick: expected a scalar index")
	}
	idxN, ok := idxE.(value.Num)
	if !ok {
		return fmt.Errorf("pick: expected a numeric index")
	}
	i := int(idxN)
	if i < 0 || i >= len(arr.Data) {
		return fmt.Errorf("Index %d is out of bounds of length %d (dimension 1) in shape %v", i, len(arr.Data), arr.Shape)
	}
	vm.Push(value.Scalar(arr.Data[i]))
	return nil
}

// reversePrim reverses the rows of the top array: "reverse". It is its own
// inverse, and participates in the Reverse+First/Reverse+Last peephole
// fusions.
type reversePrim struct{}

func (reversePrim) Name() string       { return "reverse" }
func (reversePrim) FormatName() string { return "reverse" }
func (reversePrim) Args() int          { return 1 }
func (reversePrim) Outputs() int       { return 1 }
func (p reversePrim) Inverse() (Primitive, bool) { return p, true }
func (p reversePrim) Run(vm VM) error {
	v, err := vm.Pop("reverse")
	if err != nil {
		return err
	}
	rev := v.Clone()
	for i, j := 0, len(rev.Data)-1; i < j; i, j = i+1, j-1 {
		rev.Data[i], rev.Data[j] = rev.Data[j], rev.Data[i]
	}
	vm.Push(rev)
	return nil
}

// firstPrim extracts the first row of an array: "first".
type firstPrim struct{}

func (firstPrim) Name() string       { return "first" }
func (firstPrim) FormatName() string { return "first" }
func (firstPrim) Args() int          { return 1 }
func (firstPrim) Outputs() int       { return 1 }
func (firstPrim) Inverse() (Primitive, bool) { return nil, false }
func (p firstPrim) Run(vm VM) error {
	v, err := vm.Pop("first")
	if err != nil {
		return err
	}
	if len(v.Data) == 0 {
		return fmt.Errorf("first: array is empty")
	}
	vm.Push(value.Scalar(v.Data[0]))
	return nil
}

// lastPrim extracts the last row of an array: "last".
type lastPrim struct{}

func (lastPrim) Name() string       { return "last" }
func (lastPrim) FormatName() string { return "last" }
func (lastPrim) Args() int          { return 1 }
func (lastPrim) Outputs() int       { return 1 }
func (lastPrim) Inverse() (Primitive, bool) { return nil, false }
func (p lastPrim) Run(vm VM) error {
	v, err := vm.Pop("last")
	if err != nil {
		return err
	}
	if len(v.Data) == 0 {
		return fmt.Errorf("last: array is empty")
	}
	vm.Push(value.Scalar(v.Data[len(v.Data)-1]))
	return nil
}

// noopPrim does nothing: "noop". Appending it is elided by the compiler's
// peephole pass rather than emitted.
type noopPrim struct{}

func (noopPrim) Name() string       { return "noop" }
func (noopPrim) FormatName() string { return "noop" }
func (noopPrim) Args() int          { return 0 }
func (noopPrim) Outputs() int       { return 0 }
func (noopPrim) Inverse() (Primitive, bool) { return nil, false }
func (noopPrim) Run(VM) error               { return nil }

// importPrim pops a string path and imports the source unit it names:
// "import". Under run mode Normal any line mentioning it is forced to run,
// and under Test a top-level binding mentioning it runs (see lang/machine's
// line-gating rules).
type importPrim struct{}

func (importPrim) Name() string       { return "import" }
func (importPrim) FormatName() string { return "import" }
func (importPrim) Args() int          { return 1 }
func (importPrim) Outputs() int       { return 0 }
func (importPrim) Inverse() (Primitive, bool) { return nil, false }
func (p importPrim) Run(vm VM) error {
	v, err := vm.Pop("import")
	if err != nil {
		return err
	}
	path, ok := stringValue(v)
	if !ok {
		return fmt.Errorf("import: expected a string path")
	}
	return vm.Import(path)
}

func stringValue(v value.Value) (string, bool) {
	runes := make([]rune, 0, len(v.Data))
	for _, e := range v.Data {
		c, ok := e.(value.Char)
		if !ok {
			return "", false
		}
		runes = append(runes, rune(c))
	}
	return string(runes), true
}
