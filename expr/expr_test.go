package expr

import "testing"

func parseAt(e Expression, text string, pos int) (int, bool) {
	_, newPos, ok, _ := Run(e, NewTextSource(text), pos)
	return newPos, ok
}

func TestLiteral(t *testing.T) {
	lit := NewLiteral("foo")
	if _, ok := parseAt(lit, "foobar", 0); !ok {
		t.Errorf("Literal(%q).match(%q, 0) = failure, want success", "foo", "foobar")
	}
	if _, ok := parseAt(lit, "barfoo", 0); ok {
		t.Errorf("Literal(%q).match(%q, 0) = success, want failure", "foo", "barfoo")
	}
	newPos, ok := parseAt(lit, "barfoo", 3)
	if !ok || newPos != 6 {
		t.Errorf("Literal(%q).match(%q, 3) = (%d, %v), want (6, true)", "foo", "barfoo", newPos, ok)
	}
}

func TestSequenceFailsOnFirstChildFailure(t *testing.T) {
	seq := NewSequence(NewLiteral("a"), NewLiteral("b"))
	if _, ok := parseAt(seq, "ac", 0); ok {
		t.Errorf("Sequence(a,b).match(%q, 0) = success, want failure", "ac")
	}
	if newPos, ok := parseAt(seq, "ab", 0); !ok || newPos != 2 {
		t.Errorf("Sequence(a,b).match(%q, 0) = (%d, %v), want (2, true)", "ab", newPos, ok)
	}
}

func TestOneOfPrioritizedChoice(t *testing.T) {
	// Both alternatives could match "ab"; OneOf must take the first.
	oo := NewOneOf(NewLiteral("ab"), NewLiteral("a"))
	node, newPos, ok, _ := Run(oo, NewTextSource("ab"), 0)
	if !ok || newPos != 2 {
		t.Fatalf("OneOf(ab,a).match(%q, 0) = (%d, %v), want (2, true)", "ab", newPos, ok)
	}
	if node.Span() != "ab" {
		t.Errorf("OneOf(ab,a).match(%q, 0).Span() = %q, want %q", "ab", node.Span(), "ab")
	}

	oo2 := NewOneOf(NewLiteral("a"), NewLiteral("ab"))
	node2, newPos2, ok2, _ := Run(oo2, NewTextSource("ab"), 0)
	if !ok2 || newPos2 != 1 {
		t.Fatalf("OneOf(a,ab).match(%q, 0) = (%d, %v), want (1, true)", "ab", newPos2, ok2)
	}
	if node2.Span() != "a" {
		t.Errorf("OneOf(a,ab).match(%q, 0).Span() = %q, want %q", "ab", node2.Span(), "a")
	}
}

func TestOptionalAlwaysSucceeds(t *testing.T) {
	opt := NewOptional(NewLiteral("x"))
	if newPos, ok := parseAt(opt, "x", 0); !ok || newPos != 1 {
		t.Errorf("Optional(x).match(%q, 0) = (%d, %v), want (1, true)", "x", newPos, ok)
	}
	if newPos, ok := parseAt(opt, "y", 0); !ok || newPos != 0 {
		t.Errorf("Optional(x).match(%q, 0) = (%d, %v), want (0, true)", "y", newPos, ok)
	}
}

func TestZeroOrMoreStopsOnZeroWidthMatch(t *testing.T) {
	// A ZeroOrMore over an expression that can succeed with an empty match
	// (here, Optional(literal that never matches)) must not loop forever.
	zom := NewZeroOrMore(NewOptional(NewLiteral("never")))
	newPos, ok := parseAt(zom, "abc", 0)
	if !ok || newPos != 0 {
		t.Errorf("ZeroOrMore(Optional(never)).match(%q, 0) = (%d, %v), want (0, true)", "abc", newPos, ok)
	}
}

func TestOneOrMoreRequiresFirstMatch(t *testing.T) {
	oom := NewOneOrMore(NewLiteral("a"))
	if _, ok := parseAt(oom, "bbb", 0); ok {
		t.Errorf("OneOrMore(a).match(%q, 0) = success, want failure", "bbb")
	}
	if newPos, ok := parseAt(oom, "aaab", 0); !ok || newPos != 3 {
		t.Errorf("OneOrMore(a).match(%q, 0) = (%d, %v), want (3, true)", "aaab", newPos, ok)
	}
}

func TestLookaheadConsumesNoInput(t *testing.T) {
	la := NewLookahead(NewLiteral("a"))
	newPos, ok := parseAt(la, "abc", 0)
	if !ok || newPos != 0 {
		t.Errorf("Lookahead(a).match(%q, 0) = (%d, %v), want (0, true)", "abc", newPos, ok)
	}
	if _, ok := parseAt(la, "xbc", 0); ok {
		t.Errorf("Lookahead(a).match(%q, 0) = success, want failure", "xbc")
	}
}

func TestNotConsumesNoInput(t *testing.T) {
	not := NewNot(NewLiteral("a"))
	newPos, ok := parseAt(not, "xbc", 0)
	if !ok || newPos != 0 {
		t.Errorf("Not(a).match(%q, 0) = (%d, %v), want (0, true)", "xbc", newPos, ok)
	}
	if _, ok := parseAt(not, "abc", 0); ok {
		t.Errorf("Not(a).match(%q, 0) = success, want failure", "abc")
	}
}

func TestRegexAnchoredAtPosition(t *testing.T) {
	re, err := NewRegex(`[0-9]+`, "")
	if err != nil {
		t.Fatalf("NewRegex returns error %v, want success", err)
	}
	node, newPos, ok, _ := Run(re, NewTextSource("ab123cd"), 2)
	if !ok || newPos != 5 {
		t.Fatalf("Regex([0-9]+).match(%q, 2) = (%d, %v), want (5, true)", "ab123cd", newPos, ok)
	}
	if node.Span() != "123" {
		t.Errorf("Regex([0-9]+).match(%q, 2).Span() = %q, want %q", "ab123cd", node.Span(), "123")
	}
	if _, ok := parseAt(re, "ab123cd", 0); ok {
		t.Errorf("Regex([0-9]+).match(%q, 0) = success, want failure (not anchored at 0)", "ab123cd")
	}
}

func TestRegexUnknownFlagRejected(t *testing.T) {
	if _, err := NewRegex("a", "z"); err == nil {
		t.Errorf("NewRegex(%q, %q) returns success, want error for unknown flag", "a", "z")
	}
}

func TestMemoizationCachesByIdentityAndPosition(t *testing.T) {
	re, err := NewRegex(`a`, "")
	if err != nil {
		t.Fatalf("NewRegex returns error %v", err)
	}
	ctx := NewContext(NewTextSource("aaa"))
	for pos := 0; pos < 3; pos++ {
		if _, _, ok := Match(re, ctx, pos); !ok {
			t.Fatalf("Match(re, ctx, %d) = failure, want success", pos)
		}
	}
	if got, want := ctx.CacheEntries(), 3; got != want {
		t.Errorf("CacheEntries() = %d, want %d (one per distinct position)", got, want)
	}
	// A second probe at an already-recorded position must not add an entry.
	if _, _, ok := Match(re, ctx, 1); !ok {
		t.Fatalf("Match(re, ctx, 1) (cached) = failure, want success")
	}
	if got, want := ctx.CacheEntries(), 3; got != want {
		t.Errorf("CacheEntries() after cache hit = %d, want %d", got, want)
	}
}

func TestFailureTrackerRecordsRightmostConcreteFailure(t *testing.T) {
	seq := NewSequence(NewLiteral("ab"), NewLiteral("cd"))
	_, _, ok, failure := Run(seq, NewTextSource("abxy"), 0)
	if ok {
		t.Fatalf("Sequence(ab,cd).match(%q, 0) = success, want failure", "abxy")
	}
	if failure.Rightmost != 2 {
		t.Errorf("FailureTracker.Rightmost = %d, want 2", failure.Rightmost)
	}
	if len(failure.Exprs) != 1 {
		t.Errorf("len(FailureTracker.Exprs) = %d, want 1", len(failure.Exprs))
	}
}

func TestLazyReferenceMustNotSurviveUnresolved(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("matchAt on an unresolved LazyReference did not panic, want panic")
		}
	}()
	ref := NewLazyReference("missing")
	Run(ref, NewTextSource("x"), 0)
}

func TestTokenSourceMatchesByType(t *testing.T) {
	tokens := []Token{{Type: "NUM", Text: "1"}, {Type: "PLUS", Text: "+"}, {Type: "NUM", Text: "2"}}
	src := NewTokenSource(tokens)
	num := NewLiteral("NUM")
	if newPos, ok := src.MatchLiteral(0, "NUM"); !ok || newPos != 1 {
		t.Errorf("TokenSource.MatchLiteral(0, NUM) = (%d, %v), want (1, true)", newPos, ok)
	}
	seq := NewSequence(num, NewLiteral("PLUS"), NewLiteral("NUM"))
	node, newPos, ok, _ := Run(seq, src, 0)
	if !ok || newPos != 3 {
		t.Fatalf("Sequence(NUM,PLUS,NUM).match(tokens, 0) = (%d, %v), want (3, true)", newPos, ok)
	}
	if node.Span() != "1+2" {
		t.Errorf("Sequence(NUM,PLUS,NUM).match(tokens, 0).Span() = %q, want %q", node.Span(), "1+2")
	}
}
