// Package meta implements the bootstrap meta-grammar that parses the
// grammar notation and the rule compiler/resolver that turns its parse tree
// into a user-facing expr.Expression graph.
//
// The meta-grammar itself is a small, hand-constructed expression graph —
// built directly out of expr's combinators, the same way a grammar authored
// in the notation would compile to one — rather than a separate hand-rolled
// scanner. It is built once, lazily, and reused for every Grammar a host
// constructs; it is the only process-wide state this package keeps.
package meta

import (
	"fmt"
	"sync"

	"github.com/oakmoss/peg/expr"
)

// metaRoot is the meta-grammar's own top-level expression: a full grammar
// source file.
var (
	metaOnce sync.Once
	metaRoot expr.Expression
	metaErr  error
)

// Root returns the bootstrap meta-grammar's top-level expression,
// building it on first use.
func Root() (expr.Expression, error) {
	metaOnce.Do(func() {
		metaRoot, metaErr = buildMetaGrammar()
	})
	return metaRoot, metaErr
}

func mustRegex(pattern, flags string) *expr.Regex {
	re, err := expr.NewRegex(pattern, flags)
	if err != nil {
		panic(fmt.Sprintf("meta: invalid built-in pattern %q: %v", pattern, err))
	}
	return re
}

// named is a tiny local helper: set an expression's rule name and return it,
// so the construction below can read top-to-bottom instead of repeating
// three-line "x := ...; x.SetName(...)" blocks.
func named(name string, e expr.Expression) expr.Expression {
	e.SetName(name)
	return e
}

// buildMetaGrammar constructs the expression graph for the grammar
// notation. Only one cycle exists (atom -> expression, via a parenthesized
// group), broken with a LazyReference and rewired by the same resolver the
// rule compiler uses on user grammars (resolveReferences, in compile.go).
func buildMetaGrammar() (expr.Expression, error) {
	inlineSpace := named("_", expr.NewZeroOrMore(expr.NewOneOf(
		mustRegex(`[ \t]+`, ""),
		expr.NewSequence(expr.NewLiteral("#"), expr.NewZeroOrMore(mustRegex(`[^\n]`, ""))),
	)))
	newline := mustRegex(`\r?\n`, "")
	eof := named("eof", expr.NewNot(mustRegex(`.`, "s")))
	lineEnd := expr.NewOneOf(newline, eof)
	blankLine := expr.NewSequence(inlineSpace, lineEnd)

	ruleName := named("rulename", mustRegex(`[A-Za-z_][A-Za-z0-9_]*`, ""))
	reference := named("reference", mustRegex(`[A-Za-z_][A-Za-z0-9_]*`, ""))

	literal := named("literal", expr.NewOneOf(
		mustRegex(`[ubr]{0,3}"(?:[^"\\]|\\.)*"`, ""),
		mustRegex(`[ubr]{0,3}'(?:[^'\\]|\\.)*'`, ""),
	))

	regexFlags := named("flags", mustRegex(`[ilmsux]+`, ""))
	regexAtom := named("regex", expr.NewSequence(
		expr.NewLiteral("~"), literal, expr.NewOptional(regexFlags),
	))

	expressionPlaceholder := expr.NewLazyReference("expression")
	parens := named("parens", expr.NewSequence(
		expr.NewLiteral("("), inlineSpace, expressionPlaceholder, inlineSpace, expr.NewLiteral(")"),
	))

	atom := named("atom", expr.NewOneOf(literal, regexAtom, reference, parens))

	prefixOp := named("prefixop", mustRegex(`[!&]`, ""))
	prefixed := named("prefixed", expr.NewSequence(expr.NewOptional(prefixOp), atom))

	quantOp := named("quantop", mustRegex(`[?*+]`, ""))
	quantified := named("quantified", expr.NewSequence(prefixed, expr.NewOptional(expr.NewSequence(inlineSpace, quantOp))))

	sequence := named("sequence", expr.NewSequence(
		quantified, expr.NewZeroOrMore(expr.NewSequence(inlineSpace, quantified)),
	))

	ored := named("expression", expr.NewSequence(
		sequence, expr.NewZeroOrMore(expr.NewSequence(
			inlineSpace, expr.NewLiteral("/"), inlineSpace, sequence,
		)),
	))

	rule := named("rule", expr.NewSequence(
		inlineSpace, ruleName, inlineSpace, expr.NewLiteral("="), inlineSpace, ored, inlineSpace, lineEnd,
	))

	grammarFile := named("grammarFile", expr.NewZeroOrMore(expr.NewOneOf(rule, blankLine)))

	table := map[string]expr.Expression{"expression": ored}
	if err := resolveReferences(table); err != nil {
		return nil, fmt.Errorf("meta: internal error building bootstrap grammar: %w", err)
	}
	return grammarFile, nil
}
