package machine

import (
	"github.com/mna/tacit/lang/ast"
	"github.com/mna/tacit/lang/compiler"
	"github.com/mna/tacit/lang/scope"
	"github.com/mna/tacit/lang/value"
)

// Bind implements `name <- expression` (core spec §4.3 "Binding"). A
// function-y name (the lexer's syntactic classification, carried on
// ast.Binding.FuncLike) compiles its expression as a Function and stores
// it directly; otherwise the expression is compiled, executed at global
// scope, and the one value it leaves is stored (or a default value if it
// left none). Either way, globals grows by exactly one entry (I5) and the
// name is bound in sc's names map.
func (ex *Executor) Bind(sc *scope.Scope, name string, funcLike bool, words []ast.Word) error {
	instrs, err := compiler.Compile(words, ex.Env(sc))
	if err != nil {
		return err
	}

	if funcLike {
		fn := &value.Function{
			ID:      value.FuncID{Kind: value.Named, Name: name},
			Instrs:  instrs,
			DfnArgs: value.NoDfn,
		}
		idx := ex.Globals.Append(value.FuncValue(fn))
		sc.Bind(name, idx)
		return nil
	}

	anon := &value.Function{
		ID:      value.FuncID{Kind: value.Anonymous},
		Instrs:  instrs,
		DfnArgs: value.NoDfn,
	}
	if err := ex.RunMain(sc, anon); err != nil {
		return err
	}
	v, err := sc.PopValue(name)
	if err != nil {
		v = value.Value{} // default value when the expression left nothing
	}
	idx := ex.Globals.Append(v)
	sc.Bind(name, idx)
	return nil
}
