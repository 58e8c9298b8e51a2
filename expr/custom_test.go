package expr_test

import (
	"testing"

	"github.com/oakmoss/peg/charclass"
	"github.com/oakmoss/peg/expr"
)

// Exercises expr.NewCustom(name, charclass.MustParse("0-9").Matcher()) as a
// full runnable example: a Custom expression wrapping a charclass matcher,
// quantified like any other atom.
func TestCustomWrapsCharClassMatcher(t *testing.T) {
	digit := expr.NewCustom("digit", charclass.MustParse("0-9").Matcher())
	digits := expr.NewOneOrMore(digit)

	node, newPos, ok, _ := expr.Run(digits, expr.NewTextSource("42a"), 0)
	if !ok {
		t.Fatalf("Run(%q) = ok=false, want true", "42a")
	}
	if newPos != 2 {
		t.Errorf("Run(%q) newPos = %d, want 2", "42a", newPos)
	}
	if node.Span() != "42" {
		t.Errorf("Run(%q) span = %q, want %q", "42a", node.Span(), "42")
	}

	_, _, ok, _ = expr.Run(digits, expr.NewTextSource("a42"), 0)
	if ok {
		t.Errorf("Run(%q) = ok=true, want false (no leading digit)", "a42")
	}
}

func TestCustomRejectsOutsideClass(t *testing.T) {
	lower := expr.NewCustom("lower", charclass.MustParse("a-z").Matcher())
	_, _, ok, _ := expr.Run(lower, expr.NewTextSource("A"), 0)
	if ok {
		t.Errorf("Run over %q matched outside [a-z], want false", "A")
	}
}

func TestCustomStringUsesLabel(t *testing.T) {
	c := expr.NewCustom("digit", charclass.MustParse("0-9").Matcher())
	if got, want := c.String(), "<digit>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCustomHasNoChildren(t *testing.T) {
	c := expr.NewCustom("digit", charclass.MustParse("0-9").Matcher())
	if len(c.Children()) != 0 {
		t.Errorf("Children() = %v, want empty", c.Children())
	}
}
