package meta

import (
	"errors"
	"testing"

	"github.com/oakmoss/peg/expr"
	"github.com/oakmoss/peg/internal/pegtest"
)

func matchFull(e expr.Expression, text string) bool {
	_, newPos, ok, _ := expr.Run(e, expr.NewTextSource(text), 0)
	return ok && newPos == len(text)
}

func TestCompileRejectsInvalidGrammars(t *testing.T) {
	for _, tt := range pegtest.Invalid {
		t.Run(tt.Name, func(t *testing.T) {
			if _, err := Compile(tt.Grammar, nil, false); err == nil {
				t.Errorf("Compile(%q) returns success, want error", tt.Grammar)
			}
		})
	}
}

func TestCompileAcceptsPositiveGrammars(t *testing.T) {
	for _, test := range pegtest.Positive {
		t.Run(test.Name, func(t *testing.T) {
			result, err := Compile(test.Grammar, nil, false)
			if err != nil {
				t.Fatalf("Compile(%q) returns error %v, want success", test.Grammar, err)
			}
			top, ok := result.Rules[result.DefaultRule]
			if !ok {
				t.Fatalf("Compile(%q) has no rule %q", test.Grammar, result.DefaultRule)
			}
			for _, o := range test.Outcomes {
				got := matchFull(top, o.Input)
				if got != o.Ok {
					t.Errorf("rule %q matching %q = %v, want %v", result.DefaultRule, o.Input, got, o.Ok)
				}
			}
		})
	}
}

func TestCompileCaptureSpans(t *testing.T) {
	for _, test := range pegtest.Capture {
		t.Run(test.Name, func(t *testing.T) {
			result, err := Compile(test.Grammar, nil, false)
			if err != nil {
				t.Fatalf("Compile(%q) returns error %v, want success", test.Grammar, err)
			}
			top := result.Rules[result.DefaultRule]
			for _, o := range test.Outcomes {
				node, newPos, ok, _ := expr.Run(top, expr.NewTextSource(o.Input), 0)
				got := ok && newPos == len(o.Input)
				if got != o.Ok {
					t.Errorf("rule %q matching %q = %v, want %v", result.DefaultRule, o.Input, got, o.Ok)
					continue
				}
				if !ok {
					continue
				}
				if node.Span() != o.Result {
					t.Errorf("rule %q matching %q captured %q, want %q", result.DefaultRule, o.Input, node.Span(), o.Result)
				}
			}
		})
	}
}

func TestCompileUndefinedReferenceRaisesUndefinedLabel(t *testing.T) {
	_, err := Compile("A = B", nil, false)
	if err == nil {
		t.Fatalf("Compile(%q) returns success, want error", "A = B")
	}
	var undef *UndefinedLabel
	if !errors.As(err, &undef) {
		t.Fatalf("Compile(%q) returns error %v (%T), want *UndefinedLabel", "A = B", err, err)
	}
	if undef.Ref != "B" {
		t.Errorf("UndefinedLabel.Ref = %q, want %q", undef.Ref, "B")
	}
}

func TestCompileTransitiveUndefinedReference(t *testing.T) {
	_, err := Compile("A = B \nB = C", nil, false)
	var undef *UndefinedLabel
	if !errors.As(err, &undef) {
		t.Fatalf("Compile(%q) returns error %v (%T), want *UndefinedLabel", "A = B\\nB = C", err, err)
	}
	if undef.Ref != "C" {
		t.Errorf("UndefinedLabel.Ref = %q, want %q", undef.Ref, "C")
	}
}

func TestCompileEmptyGrammarYieldsNoDefaultRule(t *testing.T) {
	result, err := Compile("# just a comment\n", nil, false)
	if err != nil {
		t.Fatalf("Compile(%q) returns error %v, want success", "# just a comment", err)
	}
	if len(result.Rules) != 0 {
		t.Errorf("Compile(%q) has %d rules, want 0", "# just a comment", len(result.Rules))
	}
	if result.DefaultRule != "" {
		t.Errorf("Compile(%q).DefaultRule = %q, want %q", "# just a comment", result.DefaultRule, "")
	}
}

func TestCompileCustomRuleOverridesSourceRule(t *testing.T) {
	always := expr.NewLiteral("z")
	result, err := Compile("A = \"x\"", map[string]expr.Expression{"A": always}, false)
	if err != nil {
		t.Fatalf("Compile returns error %v, want success", err)
	}
	if result.Rules["A"] != expr.Expression(always) {
		t.Errorf("custom rule %q was not installed in place of the source rule", "A")
	}
	if !matchFull(result.Rules["A"], "z") {
		t.Errorf("custom rule for %q did not match %q", "A", "z")
	}
	if matchFull(result.Rules["A"], "x") {
		t.Errorf("custom rule for %q unexpectedly matched the overridden source body %q", "A", "x")
	}
}

func TestCompileTokenGrammarRejectsRegexAtoms(t *testing.T) {
	if _, err := Compile(`A = ~"x"`, nil, true); err == nil {
		t.Errorf("Compile(%q, tokenMode=true) returns success, want error rejecting the regex atom", `A = ~"x"`)
	}
}

func TestCompileBareReferenceRuleResolves(t *testing.T) {
	result, err := Compile("A = B\nB = \"x\"\n", nil, false)
	if err != nil {
		t.Fatalf("Compile returns error %v, want success", err)
	}
	if !matchFull(result.Rules["A"], "x") {
		t.Errorf("rule %q (a bare reference to %q) did not match %q", "A", "B", "x")
	}
}

func TestCompileOrderTracksFirstTextualOccurrence(t *testing.T) {
	result, err := Compile("B = \"y\"\nA = \"x\"\nB = \"z\"\n", nil, false)
	if err != nil {
		t.Fatalf("Compile returns error %v, want success", err)
	}
	want := []string{"B", "A"}
	if len(result.Order) != len(want) {
		t.Fatalf("Order = %v, want %v", result.Order, want)
	}
	for i, name := range want {
		if result.Order[i] != name {
			t.Errorf("Order[%d] = %q, want %q", i, result.Order[i], name)
		}
	}
	// The later "B" redefinition wins.
	if !matchFull(result.Rules["B"], "z") {
		t.Errorf("rule %q did not take its last definition (%q)", "B", "z")
	}
}

func TestRootIsStableAcrossCalls(t *testing.T) {
	r1, err := Root()
	if err != nil {
		t.Fatalf("Root() returns error %v, want success", err)
	}
	r2, err := Root()
	if err != nil {
		t.Fatalf("Root() returns error %v, want success", err)
	}
	if r1 != r2 {
		t.Errorf("Root() returned different expressions across calls, want the same cached instance")
	}
}
