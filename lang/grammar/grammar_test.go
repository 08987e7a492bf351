// Package grammar keeps a self-validating EBNF sketch of the word grammar
// the external parser produces. It is documentation only: nothing in this
// repository parses source text against it.
package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

func TestEBNF(t *testing.T) {
	f, err := os.Open("word.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("word.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Line"); err != nil {
		t.Fatal(err)
	}
}
