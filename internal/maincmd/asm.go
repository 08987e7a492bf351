package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/tacit/lang/ast"
	"github.com/mna/tacit/lang/compiler"
	"github.com/mna/tacit/lang/machine"
)

// Asm compiles each listed pseudo-assembly file and prints the resulting
// instruction stream for every top-level Words or binding line, without
// executing it.
func (c *Cmd) Asm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DumpInstructions(stdio, true, args...)
}

// Bytecode is the flat variant of Asm: the same compiled instructions, with
// no per-line item headers.
func (c *Cmd) Bytecode(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DumpInstructions(stdio, false, args...)
}

func DumpInstructions(stdio mainer.Stdio, withHeaders bool, files ...string) error {
	for _, f := range files {
		if err := dumpFile(stdio, withHeaders, f); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}

func dumpFile(stdio mainer.Stdio, withHeaders bool, path string) error {
	items, err := loadAsmFile(path)
	if err != nil {
		return err
	}
	ex := machine.New()
	sc := ex.NewScope()
	env := ex.Env(sc)

	n := 0
	for _, it := range items {
		words, ok := wordsOfItem(it)
		if !ok {
			continue
		}
		instrs, err := compiler.Compile(words, env)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if withHeaders {
			fmt.Fprintf(stdio.Stdout, "; line %d\n", n)
		}
		fmt.Fprint(stdio.Stdout, compiler.Disassemble(instrs))
		n++
	}
	return nil
}

// wordsOfItem extracts the words to compile from a top-level item, skipping
// items with no executable content (blank lines, comments, scoped blocks —
// the latter would need a recursive dump, not attempted by this thin tool).
func wordsOfItem(it ast.Item) ([]ast.Word, bool) {
	switch it.Kind {
	case ast.Words:
		return it.WordsOf, true
	case ast.BindingItem:
		return it.Binding.Words, true
	default:
		return nil, false
	}
}
