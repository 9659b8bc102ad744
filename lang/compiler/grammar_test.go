package compiler

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestGrammar checks that grammar.ebnf — the reference grammar the Pratt
// table and statement parser in this package implement by hand — is itself
// a well-formed, fully-defined EBNF grammar reachable from Program.
func TestGrammar(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Program"); err != nil {
		t.Fatal(err)
	}
}
