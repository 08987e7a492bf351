package machine

import (
	"github.com/mna/tacit/lang/ast"
	"github.com/mna/tacit/lang/compiler"
	"github.com/mna/tacit/lang/scope"
	"github.com/mna/tacit/lang/value"
)

// RunFile executes every top-level item of a parsed source unit against
// sc under mode's line-gating rules (core spec §4.3).
func (ex *Executor) RunFile(sc *scope.Scope, items []ast.Item, mode RunMode) error {
	return ex.runItems(sc, items, mode, false)
}

func (ex *Executor) runItems(sc *scope.Scope, items []ast.Item, mode RunMode, forced bool) error {
	for _, it := range items {
		if !forced && !shouldRun(it, mode) {
			continue
		}
		if err := ex.runItem(sc, it, mode); err != nil {
			return err
		}
	}
	return nil
}

func (ex *Executor) runItem(sc *scope.Scope, it ast.Item, mode RunMode) error {
	switch it.Kind {
	case ast.Newlines, ast.CommentItem:
		return nil

	case ast.Scoped:
		_, err := scope.InScope(ex.Globals.InitialNames(), func(child *scope.Scope) error {
			return ex.runItems(child, it.Scoped.Items, mode, true)
		})
		return err

	case ast.Words:
		instrs, err := compiler.Compile(it.WordsOf, ex.Env(sc))
		if err != nil {
			return err
		}
		fn := &value.Function{
			ID:      value.FuncID{Kind: value.Anonymous, SpanIdx: ex.Spans.Add(it.Span)},
			Instrs:  instrs,
			DfnArgs: value.NoDfn,
		}
		return ex.RunMain(sc, fn)

	case ast.BindingItem:
		return ex.Bind(sc, it.Binding.Name.Name, it.Binding.FuncLike, it.Binding.Words)

	default:
		return nil
	}
}
