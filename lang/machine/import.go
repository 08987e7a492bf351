package machine

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/mna/tacit/lang/ast"
	"github.com/mna/tacit/lang/scope"
	"github.com/mna/tacit/lang/value"
)

// DefaultResolvePath resolves a relative import path against the
// directory of the importing file, the default behavior per SPEC_FULL's
// supplement #2 (canonicalized-path import cache keys).
func DefaultResolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(filepath.Dir(base), path)
}

// Loader reads and parses one source unit. It is an external collaborator
// (the lexer/parser, out of scope per core spec §1); Import takes it as a
// parameter rather than hardcoding file access, so callers may supply a
// virtual filesystem.
type Loader func(path string) ([]ast.Item, error)

// Import implements `import(source, path)` (core spec §4.3): cycle
// detection against the in-progress import stack, a cache keyed by
// resolved path, and pushing the imported scope's bindings onto sc's
// value stack (core spec §9 "push_scope_imports").
func (ex *Executor) Import(sc *scope.Scope, basePath, path string, load Loader) error {
	resolve := ex.ResolvePath
	if resolve == nil {
		resolve = DefaultResolvePath
	}
	resolved := resolve(basePath, path)

	for _, p := range ex.importStack {
		if p == resolved {
			return fmt.Errorf("cycle detected importing %s", resolved)
		}
	}

	cached, ok := ex.importCache[resolved]
	if !ok {
		ex.importStack = append(ex.importStack, resolved)
		items, err := load(resolved)
		if err != nil {
			ex.importStack = ex.importStack[:len(ex.importStack)-1]
			return &LoadError{Path: resolved, Err: err}
		}

		child, runErr := scope.InScope(ex.Globals.InitialNames(), func(c *scope.Scope) error {
			return ex.RunFile(c, items, Normal)
		})
		ex.importStack = ex.importStack[:len(ex.importStack)-1]
		if runErr != nil {
			return runErr
		}
		ex.importCache[resolved] = child
		cached = child
	}

	ex.pushScopeImports(sc, cached)
	return nil
}

// pushScopeImports pushes one value per binding of imported onto sc's
// value stack, in insertion-index order (the Open Question resolution
// recorded in DESIGN.md): a Func binding is pushed as its underlying
// Function, and any other value is wrapped in a synthetic named function
// that simply pushes the captured value.
func (ex *Executor) pushScopeImports(sc *scope.Scope, imported *scope.Scope) {
	type entry struct {
		name string
		idx  uint32
	}
	var entries []entry
	imported.Names.Iter(func(k string, v uint32) bool {
		entries = append(entries, entry{k, v})
		return false
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })

	for _, e := range entries {
		v := ex.Globals.Get(e.idx)
		if fn, ok := v.IntoFunc(); ok {
			sc.PushValue(value.FuncValue(fn))
			continue
		}
		captured := v
		synth := &value.Function{
			ID:      value.FuncID{Kind: value.Named, Name: e.name},
			Instrs:  []value.Instr{{Op: value.OpPush, Value: captured}},
			DfnArgs: value.NoDfn,
		}
		sc.PushValue(value.FuncValue(synth))
	}
}
