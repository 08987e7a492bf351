package machine

import "github.com/mna/tacit/lang/ast"

// RunMode selects which top-level items of a source unit execute (core
// spec §4.3 "Line gating").
type RunMode int

const (
	// Normal runs every non-test line; any line containing an import
	// primitive is forced to run regardless.
	Normal RunMode = iota
	// Test runs only test-block lines (bindings inside them included);
	// top-level bindings run only if they contain an import.
	Test
	// Watch runs everything.
	Watch
)

// shouldRun reports whether it should execute at the top level under mode.
// Once an item is running (forced), every item nested inside it runs
// unconditionally — see runItems.
func shouldRun(it ast.Item, mode RunMode) bool {
	switch mode {
	case Watch:
		return true
	case Normal:
		if isTestBlock(it) {
			return containsImport(it)
		}
		return true
	case Test:
		if isTestBlock(it) {
			return true
		}
		if it.Kind == ast.BindingItem {
			return containsImport(it)
		}
		return false
	default:
		return false
	}
}

func isTestBlock(it ast.Item) bool {
	return it.Kind == ast.Scoped && it.Scoped != nil && it.Scoped.Test
}

// containsImport reports whether it references the "import" primitive
// anywhere in its words, recursively through nested constructs.
func containsImport(it ast.Item) bool {
	switch it.Kind {
	case ast.Words:
		return wordsContainImport(it.WordsOf)
	case ast.BindingItem:
		return it.Binding != nil && wordsContainImport(it.Binding.Words)
	case ast.Scoped:
		if it.Scoped == nil {
			return false
		}
		for _, sub := range it.Scoped.Items {
			if containsImport(sub) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func wordsContainImport(words []ast.Word) bool {
	for _, w := range words {
		if w.Kind == ast.Primitive && w.Name == "import" {
			return true
		}
		if wordsContainImport(w.Children) || wordsContainImport(w.Body) || wordsContainImport(w.Operands) {
			return true
		}
	}
	return false
}
