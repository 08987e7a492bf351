// Package ast holds the data shape produced by the lexer/parser, which is an
// external collaborator named by interface only (out of scope for this
// repository, per the core specification). The compiler consumes these
// types; nothing in this package performs any lexing or parsing.
package ast

import "github.com/mna/tacit/lang/span"

// Ident is a spanned identifier, as found in a Binding's name or a Word of
// kind Identifier.
type Ident struct {
	Name string
	Span span.Span
}

// WordKind enumerates the syntactic forms a Word may take, per the core
// specification's compiler word-handling rules.
type WordKind int

const (
	// Number is a numeric literal, parsed by the compiler as a 64-bit float.
	Number WordKind = iota
	// Char is a single-character literal.
	Char
	// String is a string literal.
	String
	// Identifier names a binding, a primitive shorthand run, or (inside a dfn
	// body) a positional dfn parameter.
	Identifier
	// Strand is a compact tuple literal; its Children are compiled in
	// non-call position.
	Strand
	// Array is an array literal; its Children are compiled in call position.
	Array
	// Func is an explicit function block; its Body is compiled as a function.
	Func
	// Dfn is an anonymous function block with positional a..z parameters.
	Dfn
	// Primitive names a primitive directly (e.g. a glyph or its ASCII name).
	Primitive
	// Modifier names a primitive that consumes the following Operands (each a
	// function-producing Word) to build a new function.
	Modifier
)

// Word is a single spanned syntactic unit, as produced by the parser. Only
// the fields relevant to Kind are populated.
type Word struct {
	Kind WordKind
	Span span.Span

	Number float64 // Number
	Char   rune    // Char
	Str    string  // String
	Name   string  // Identifier, Primitive, Modifier (primitive/modifier name)

	Children []Word // Strand, Array
	Body     []Word // Func, Dfn (source order, left-to-right)
	Operands []Word // Modifier (the function(s) it consumes)
}

// Binding is a top-level `name <- expression` declaration.
type Binding struct {
	Name     Ident
	FuncLike bool // syntactic classification from the lexer (e.g. capitalized)
	Words    []Word
}

// ItemKind enumerates the top-level productions a source unit is made of.
type ItemKind int

const (
	// Scoped is a `~ ... ~`-style nested scope, optionally a test block.
	Scoped ItemKind = iota
	// Words is a bare line of words, executed for its stack effect.
	Words
	// BindingItem declares a new name.
	BindingItem
	// Newlines is a blank-line run, kept only for source-faithful tooling.
	Newlines
	// CommentItem is a source comment.
	CommentItem
)

// Item is one top-level production of a parsed source unit.
type Item struct {
	Kind ItemKind
	Span span.Span

	Scoped  *ScopedItems // Scoped
	WordsOf []Word       // Words
	Binding *Binding     // BindingItem
	Comment string       // CommentItem
}

// ScopedItems is the payload of a Scoped item: a nested list of items that
// run in a fresh scope, optionally gated as a test block (see run modes).
type ScopedItems struct {
	Items []Item
	Test  bool
}
