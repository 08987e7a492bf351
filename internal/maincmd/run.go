package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/tacit/lang/ast"
	"github.com/mna/tacit/lang/compiler"
	"github.com/mna/tacit/lang/machine"
)

// Run assembles and runs each listed pseudo-assembly file in its own fresh
// scope, printing the resulting value stack.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	mode := machine.Normal
	if c.Watch {
		mode = machine.Watch
	}
	return RunFiles(stdio, mode, args...)
}

func RunFiles(stdio mainer.Stdio, mode machine.RunMode, files ...string) error {
	for _, f := range files {
		if err := runFile(stdio, mode, f); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}

func runFile(stdio mainer.Stdio, mode machine.RunMode, path string) error {
	items, err := loadAsmFile(path)
	if err != nil {
		return err
	}
	ex := machine.New()
	sc := ex.NewScope()
	if err := ex.RunFile(sc, items, mode); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, v := range sc.Value {
		fmt.Fprintln(stdio.Stdout, v)
	}
	return nil
}

func loadAsmFile(path string) ([]ast.Item, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return compiler.Assemble(string(src))
}
