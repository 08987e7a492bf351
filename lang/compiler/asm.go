package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mna/tacit/lang/ast"
	"github.com/mna/tacit/lang/span"
	"github.com/mna/tacit/lang/token"
)

// Assemble parses a small pseudo-assembly notation into ast.Items, standing
// in for the lexer/parser that is out of scope for this repository (core
// spec §1). It exists purely to exercise the compiler and executor from the
// `run`, `asm` and `bytecode` CLI commands without a real front end.
//
// Each non-blank, non-comment line is one top-level Words item, written in
// ordinary left-to-right source order (the compiler itself performs the
// right-to-left emission per §4.1). A `name <- words...` line is a binding;
// name is function-y (FuncLike) when its first rune is uppercase. A line
// starting with "#" is a comment.
//
// Word tokens:
//
//	123, -4.5        Number
//	'c'              Char
//	"abc"            String
//	%name            Primitive
//	!name(ops...)    Modifier, ops is a parenthesized run of Words
//	(a b ...)        Strand
//	[a b ...]        Array
//	fn{words...}     Func block
//	dfn{words...}    Dfn block
//	bareword         Identifier
func Assemble(src string) ([]ast.Item, error) {
	var items []ast.Item
	lines := strings.Split(src, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			items = append(items, ast.Item{Kind: ast.Newlines})
		case strings.HasPrefix(trimmed, "#"):
			items = append(items, ast.Item{Kind: ast.CommentItem, Comment: strings.TrimSpace(trimmed[1:])})
		default:
			it, err := assembleLine(trimmed)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
	}
	return items, nil
}

func assembleLine(line string) (ast.Item, error) {
	if name, rest, ok := splitBinding(line); ok {
		words, err := tokenizeWords(rest)
		if err != nil {
			return ast.Item{}, err
		}
		funcLike := len(name) > 0 && unicode.IsUpper(rune(name[0]))
		return ast.Item{Kind: ast.BindingItem, Binding: &ast.Binding{
			Name:     ast.Ident{Name: name},
			FuncLike: funcLike,
			Words:    words,
		}}, nil
	}
	words, err := tokenizeWords(line)
	if err != nil {
		return ast.Item{}, err
	}
	return ast.Item{Kind: ast.Words, WordsOf: words}, nil
}

func splitBinding(line string) (name, rest string, ok bool) {
	idx := strings.Index(line, "<-")
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:idx])
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", "", false
	}
	return name, strings.TrimSpace(line[idx+2:]), true
}

// tokenizer splits a word-list source string into ast.Words, respecting
// nested ( ), [ ], { }, and quoted strings/chars.
type tokenizer struct {
	s   string
	pos int
}

func tokenizeWords(s string) ([]ast.Word, error) {
	t := &tokenizer{s: s}
	return t.words()
}

func (t *tokenizer) words() ([]ast.Word, error) {
	var out []ast.Word
	for {
		t.skipSpace()
		if t.atEnd() || t.peekIsClose() {
			return out, nil
		}
		w, err := t.word()
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
}

func (t *tokenizer) atEnd() bool { return t.pos >= len(t.s) }

func (t *tokenizer) peekIsClose() bool {
	if t.atEnd() {
		return false
	}
	switch t.s[t.pos] {
	case ')', ']', '}':
		return true
	}
	return false
}

func (t *tokenizer) skipSpace() {
	for !t.atEnd() && (t.s[t.pos] == ' ' || t.s[t.pos] == '\t') {
		t.pos++
	}
}

func (t *tokenizer) word() (ast.Word, error) {
	sp := span.Span{Start: token.Pos(t.pos)}
	c := t.s[t.pos]
	switch {
	case c == '(':
		t.pos++
		children, err := t.words()
		if err != nil {
			return ast.Word{}, err
		}
		if err := t.expect(')'); err != nil {
			return ast.Word{}, err
		}
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.Strand, Children: children, Span: sp}, nil

	case c == '[':
		t.pos++
		children, err := t.words()
		if err != nil {
			return ast.Word{}, err
		}
		if err := t.expect(']'); err != nil {
			return ast.Word{}, err
		}
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.Array, Children: children, Span: sp}, nil

	case c == '"':
		str, err := t.quoted('"')
		if err != nil {
			return ast.Word{}, err
		}
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.String, Str: str, Span: sp}, nil

	case c == '\'':
		str, err := t.quoted('\'')
		if err != nil {
			return ast.Word{}, err
		}
		if len(str) != 1 {
			return ast.Word{}, fmt.Errorf("asm: char literal must be one rune, got %q", str)
		}
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.Char, Char: rune(str[0]), Span: sp}, nil

	case c == '%':
		t.pos++
		name := t.bareword()
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.Primitive, Name: name, Span: sp}, nil

	case c == '!':
		t.pos++
		name := t.bareword()
		t.skipSpace()
		if t.atEnd() || t.s[t.pos] != '(' {
			return ast.Word{}, fmt.Errorf("asm: modifier %q expects (operands)", name)
		}
		t.pos++
		ops, err := t.words()
		if err != nil {
			return ast.Word{}, err
		}
		if err := t.expect(')'); err != nil {
			return ast.Word{}, err
		}
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.Modifier, Name: name, Operands: ops, Span: sp}, nil

	case strings.HasPrefix(t.s[t.pos:], "fn{"):
		t.pos += len("fn{")
		body, err := t.words()
		if err != nil {
			return ast.Word{}, err
		}
		if err := t.expect('}'); err != nil {
			return ast.Word{}, err
		}
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.Func, Body: body, Span: sp}, nil

	case strings.HasPrefix(t.s[t.pos:], "dfn{"):
		t.pos += len("dfn{")
		body, err := t.words()
		if err != nil {
			return ast.Word{}, err
		}
		if err := t.expect('}'); err != nil {
			return ast.Word{}, err
		}
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.Dfn, Body: body, Span: sp}, nil

	case c == '-' || (c >= '0' && c <= '9'):
		start := t.pos
		if c == '-' {
			t.pos++
		}
		for !t.atEnd() && (isDigit(t.s[t.pos]) || t.s[t.pos] == '.') {
			t.pos++
		}
		lit := t.s[start:t.pos]
		n, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return ast.Word{}, fmt.Errorf("asm: invalid number literal %q", lit)
		}
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.Number, Number: n, Span: sp}, nil

	default:
		name := t.bareword()
		if name == "" {
			return ast.Word{}, fmt.Errorf("asm: unexpected character %q at %d", c, t.pos)
		}
		sp.End = token.Pos(t.pos)
		return ast.Word{Kind: ast.Identifier, Name: name, Span: sp}, nil
	}
}

func (t *tokenizer) bareword() string {
	start := t.pos
	for !t.atEnd() {
		c := t.s[t.pos]
		if c == ' ' || c == '\t' || c == '(' || c == ')' || c == '[' || c == ']' || c == '{' || c == '}' {
			break
		}
		t.pos++
	}
	return t.s[start:t.pos]
}

func (t *tokenizer) quoted(delim byte) (string, error) {
	t.pos++ // opening delim
	start := t.pos
	for !t.atEnd() && t.s[t.pos] != delim {
		t.pos++
	}
	if t.atEnd() {
		return "", fmt.Errorf("asm: unterminated %c-quoted literal", delim)
	}
	str := t.s[start:t.pos]
	t.pos++ // closing delim
	return str, nil
}

func (t *tokenizer) expect(c byte) error {
	if t.atEnd() || t.s[t.pos] != c {
		return fmt.Errorf("asm: expected %q at position %d", c, t.pos)
	}
	t.pos++
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
