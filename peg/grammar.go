// Package peg is the public API: compiling a grammar source into a Grammar,
// matching and parsing against it, and walking the resulting tree with a
// NodeVisitor.
package peg

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/golang/glog"

	"github.com/oakmoss/peg/ast"
	"github.com/oakmoss/peg/expr"
	"github.com/oakmoss/peg/meta"
	"github.com/oakmoss/peg/pegsource"
)

// Grammar is an immutable, compiled rule set. Once built it holds no
// mutable state: every Parse/Match call runs over a fresh expr.Context, so
// a *Grammar is safe to share and call concurrently from multiple
// goroutines.
type Grammar struct {
	source      string
	rules       map[string]expr.Expression
	order       []string
	defaultRule string
	tokenMode   bool
	opts        *ParserOptions
}

// New compiles source into a Grammar. custom supplies host-defined
// expr.Expression rules; a rule of the same name in source is overridden by
// the entry in custom. opts may be nil.
func New(source string, custom map[string]expr.Expression, opts *ParserOptions) (*Grammar, error) {
	result, err := meta.Compile(source, custom, opts.tokenGrammar())
	if err != nil {
		return nil, err
	}
	log.V(2).Infof("peg: compiled grammar with %d rule(s), default %q", len(result.Rules), result.DefaultRule)
	return &Grammar{
		source:      source,
		rules:       result.Rules,
		order:       result.Order,
		defaultRule: result.DefaultRule,
		tokenMode:   opts.tokenGrammar(),
		opts:        opts,
	}, nil
}

// Default returns a shallow copy of g whose default rule is name instead of
// the first textually-defined rule — the same compiled expression graph,
// just a different starting point.
func (g *Grammar) Default(name string) (*Grammar, error) {
	if _, ok := g.rules[name]; !ok {
		return nil, &UndefinedLabel{Ref: name}
	}
	ng := *g
	ng.defaultRule = name
	return &ng, nil
}

// Rule returns the compiled expression for name, if any.
func (g *Grammar) Rule(name string) (expr.Expression, bool) {
	e, ok := g.rules[name]
	return e, ok
}

// ruleFor resolves which rule a Parse/Match call should use: the named rule
// if ruleName is non-empty, else the grammar's default.
func (g *Grammar) ruleFor(ruleName string) (string, expr.Expression, error) {
	name := ruleName
	if name == "" {
		name = g.defaultRule
	}
	if name == "" {
		return "", nil, fmt.Errorf("peg: grammar has no default rule and none was given")
	}
	e, ok := g.rules[name]
	if !ok {
		return "", nil, &UndefinedLabel{Ref: name}
	}
	return name, e, nil
}

func (g *Grammar) runMatch(ruleName string, src expr.Source, pos int) (string, *ast.Node, int, bool, expr.FailureTracker, error) {
	name, top, err := g.ruleFor(ruleName)
	if err != nil {
		return "", nil, pos, false, expr.FailureTracker{}, err
	}
	ctx := expr.NewContext(src)
	node, newPos, ok := expr.Match(top, ctx, pos)
	if max := g.opts.maxCacheEntries(); max > 0 && ctx.CacheEntries() > max {
		log.V(1).Infof("peg: grammar rule %q grew the packrat cache past MaxCacheEntries (%d > %d)", name, ctx.CacheEntries(), max)
	}
	if ok && g.opts.skipEmptyNodes() {
		node = pruneEmpty(node)
	}
	return name, node, newPos, ok, ctx.Failure, nil
}

// Match runs rule (or the grammar's default rule) against text starting at
// pos and returns however much of the input it consumed, without requiring
// it to reach the end. The matched span is node.Start/node.End; there is no
// separate "new position" return because node.End already is one.
func (g *Grammar) Match(text string, pos int) (*ast.Node, error) {
	return g.MatchRule("", text, pos)
}

// MatchRule is Match against a specific named rule instead of the grammar's
// default.
func (g *Grammar) MatchRule(ruleName, text string, pos int) (*ast.Node, error) {
	name, node, _, ok, failure, err := g.runMatch(ruleName, expr.NewTextSource(text), pos)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newParseError(name, text, failure)
	}
	return node, nil
}

// Parse is Match but additionally requires the match to consume the whole
// input, raising IncompleteParseError otherwise.
func (g *Grammar) Parse(text string, pos int) (*ast.Node, error) {
	return g.ParseRule("", text, pos)
}

// ParseRule is Parse against a specific named rule instead of the grammar's
// default.
func (g *Grammar) ParseRule(ruleName, text string, pos int) (*ast.Node, error) {
	name, node, newPos, ok, failure, err := g.runMatch(ruleName, expr.NewTextSource(text), pos)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newParseError(name, text, failure)
	}
	if newPos != len(text) {
		return nil, newIncompleteParseError(name, text, newPos)
	}
	return node, nil
}

// MatchTokens and ParseTokens are Match/Parse for a TokenGrammar: the
// grammar's Literal atoms compare token types rather than bytes. Calling
// these against a text-mode Grammar returns an error.
func (g *Grammar) MatchTokens(tokens []expr.Token, pos int) (*ast.Node, error) {
	if !g.tokenMode {
		return nil, fmt.Errorf("peg: MatchTokens called on a text grammar, not a TokenGrammar")
	}
	name, node, _, ok, failure, err := g.runMatch("", expr.NewTokenSource(tokens), pos)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newParseError(name, tokensText(tokens), failure)
	}
	return node, nil
}

func (g *Grammar) ParseTokens(tokens []expr.Token) (*ast.Node, error) {
	if !g.tokenMode {
		return nil, fmt.Errorf("peg: ParseTokens called on a text grammar, not a TokenGrammar")
	}
	name, node, newPos, ok, failure, err := g.runMatch("", expr.NewTokenSource(tokens), 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newParseError(name, tokensText(tokens), failure)
	}
	if newPos != len(tokens) {
		return nil, newIncompleteParseError(name, tokensText(tokens), newPos)
	}
	return node, nil
}

func tokensText(tokens []expr.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// String renders g back into grammar notation. Rule order follows source
// order for textually-defined rules, then any custom (host-supplied) rules
// not present in source, sorted by name for determinism — so the output can
// be fed straight back into New and produce an equivalent rule set. An
// expr.Custom rule prints as "<label>", which the notation cannot parse, so a
// grammar holding one does not round-trip.
func (g *Grammar) String() string {
	seen := make(map[string]bool, len(g.order))
	var b strings.Builder
	for _, name := range g.order {
		seen[name] = true
		fmt.Fprintf(&b, "%s = %s\n", name, g.rules[name].String())
	}
	var extra []string
	for name := range g.rules {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		fmt.Fprintf(&b, "%s = %s\n", name, g.rules[name].String())
	}
	return b.String()
}

// SaveSource writes g's grammar source (as originally compiled — not the
// possibly-reordered output of String()) to uri via pegsource.
func (g *Grammar) SaveSource(uri string) error {
	return pegsource.WriteGrammarSource(uri, g.source)
}

// Reload re-reads the grammar source at uri and recompiles it with the same
// options given, exercising the round-trip path: a host that previously
// wrote g.String() to uri with pegsource.WriteGrammarSource gets back a
// Grammar whose rule set is equivalent to g's.
func Reload(uri string, custom map[string]expr.Expression, opts *ParserOptions) (*Grammar, error) {
	source, err := pegsource.ReadGrammarSource(uri)
	if err != nil {
		return nil, err
	}
	return New(source, custom, opts)
}

// pruneEmpty removes unnamed, zero-width, childless structural nodes from a
// finished tree (ParserOptions.SkipEmptyNodes) — an unmatched Optional or an
// empty ZeroOrMore, which carry no useful information for a NodeVisitor that
// only cares about named rule matches.
func pruneEmpty(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	kept := make([]*ast.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Name == "" && c.Start == c.End && len(c.Children) == 0 {
			continue
		}
		kept = append(kept, pruneEmpty(c))
	}
	cp := *n
	cp.Children = kept
	return &cp
}
