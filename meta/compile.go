package meta

import (
	"fmt"

	"github.com/oakmoss/peg/ast"
	"github.com/oakmoss/peg/expr"
)

// UndefinedLabel reports a rule reference with no matching definition,
// raised at compile time rather than match time.
type UndefinedLabel struct {
	Ref string
}

func (e *UndefinedLabel) Error() string {
	return fmt.Sprintf("peg: undefined rule %q", e.Ref)
}

// BadGrammar wraps any other structural problem the compiler finds in a
// grammar source — a parse failure in the notation itself, or (in
// TokenGrammar mode) a Regex atom, which that mode rejects at compile time
// rather than matching it against tokens.
type BadGrammar struct {
	Msg string
	Err error
}

func (e *BadGrammar) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("peg: bad grammar: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("peg: bad grammar: %s", e.Msg)
}

func (e *BadGrammar) Unwrap() error { return e.Err }

// Result is the compiled output of a grammar source: its full rule table and
// the name of the rule a bare Grammar.Parse/Match should use when the host
// doesn't name one explicitly.
type Result struct {
	Rules       map[string]expr.Expression
	DefaultRule string
	// Order lists the textually-defined rule names in source order, each
	// once — used to print a grammar back out deterministically, so it
	// round-trips through source.
	Order []string
}

// Compile parses source with the bootstrap meta-grammar, builds one
// expr.Expression per rule, merges in any host-supplied custom rules, and
// resolves every LazyReference against the combined table. tokenMode
// rejects Regex atoms, since token-mode grammars match token types rather
// than input text.
func Compile(source string, custom map[string]expr.Expression, tokenMode bool) (*Result, error) {
	root, err := Root()
	if err != nil {
		return nil, err
	}
	src := expr.NewTextSource(source)
	node, newPos, ok, failure := expr.Run(root, src, 0)
	if !ok || newPos != len(source) {
		return nil, &BadGrammar{Msg: describeGrammarFailure(source, failure)}
	}

	rules := make(map[string]expr.Expression)
	var order []string
	for _, lineNode := range node.Children {
		// grammarFile is a ZeroOrMore(OneOf(rule, blankLine)); each child is
		// the OneOf's unnamed wrapper around whichever branch matched.
		ruleNode := lineNode
		if ruleNode.Name == "" && len(ruleNode.Children) == 1 {
			ruleNode = ruleNode.Children[0]
		}
		if ruleNode.Name != "rule" {
			continue // a blank/comment-only line
		}
		name, body, err := buildRule(ruleNode, tokenMode)
		if err != nil {
			return nil, err
		}
		if _, exists := rules[name]; !exists {
			order = append(order, name)
		}
		rules[name] = body
	}

	for name, e := range custom {
		rules[name] = e
		e.SetName(name)
	}

	if err := resolveReferences(rules); err != nil {
		return nil, err
	}

	defaultRule := ""
	if len(order) > 0 {
		defaultRule = order[0]
	}
	return &Result{Rules: rules, DefaultRule: defaultRule, Order: order}, nil
}

// describeGrammarFailure renders a short, human-readable message pointing at
// the rightmost position the meta-grammar failed to make progress past —
// the grammar-source equivalent of a peg.ParseError.
func describeGrammarFailure(source string, failure expr.FailureTracker) string {
	pos := failure.Rightmost
	if pos < 0 {
		pos = 0
	}
	line, col := 1, 1
	for i := 0; i < pos && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return fmt.Sprintf("could not parse grammar source at line %d, column %d", line, col)
}

// buildRule converts one "rule" meta parse node into its (name, body) pair.
func buildRule(ruleNode *ast.Node, tokenMode bool) (string, expr.Expression, error) {
	var name string
	var exprNode *ast.Node
	for _, c := range ruleNode.Children {
		switch c.Name {
		case "rulename":
			name = c.Span()
		case "expression":
			exprNode = c
		}
	}
	if name == "" || exprNode == nil {
		return "", nil, &BadGrammar{Msg: "malformed rule"}
	}
	body, err := buildExpression(exprNode, tokenMode)
	if err != nil {
		return "", nil, err
	}
	if _, bare := body.(*expr.LazyReference); bare {
		// A rule whose whole body is a single bare reference ("A = B") would
		// otherwise make body itself the unresolved LazyReference: nothing
		// ever visits a table entry as somebody else's child, so
		// resolveReferences would never see it and rules[name] would stay
		// unresolved instead of raising UndefinedLabel. Wrapping it gives the
		// rule its own node, parallel to every other rule shape.
		body = expr.NewSequence(body)
	}
	body.SetName(name)
	return name, body, nil
}

// buildExpression is the bottom-up tree-to-graph conversion at the heart of
// the compiler: a direct recursive walk keyed on the meta-grammar's node
// names, expressed as a plain Go switch since every shape here is known
// statically.
func buildExpression(n *ast.Node, tokenMode bool) (expr.Expression, error) {
	switch n.Name {
	case "expression":
		return buildOred(n, tokenMode)
	case "sequence":
		return buildSequence(n, tokenMode)
	case "quantified":
		return buildQuantified(n, tokenMode)
	case "prefixed":
		return buildPrefixed(n, tokenMode)
	case "atom":
		return buildAtom(n, tokenMode)
	default:
		return nil, &BadGrammar{Msg: fmt.Sprintf("internal error: unexpected node %q in expression tree", n.Name)}
	}
}

// childrenNamed collects every direct child of n named want, plus every
// node named want nested one level inside an unnamed wrapper child — the
// shape produced by "head (sep rest)*" repetitions in the meta-grammar
// (buildOred over "expression"/"sequence", buildSequence over "sequence"),
// where each repeated tail element arrives wrapped in the unnamed
// ZeroOrMore/Sequence structural nodes that express the repetition itself.
func childrenNamed(n *ast.Node, want string) []*ast.Node {
	var out []*ast.Node
	var walk func(*ast.Node)
	walk = func(node *ast.Node) {
		for _, c := range node.Children {
			if c.Name == want {
				out = append(out, c)
				continue
			}
			if c.Name == "" {
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

func buildOred(n *ast.Node, tokenMode bool) (expr.Expression, error) {
	var alternatives []expr.Expression
	for _, c := range childrenNamed(n, "sequence") {
		e, err := buildSequence(c, tokenMode)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, e)
	}
	if len(alternatives) == 1 {
		return alternatives[0], nil
	}
	return expr.NewOneOf(alternatives...), nil
}

func buildSequence(n *ast.Node, tokenMode bool) (expr.Expression, error) {
	var items []expr.Expression
	for _, c := range childrenNamed(n, "quantified") {
		e, err := buildQuantified(c, tokenMode)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return expr.NewSequence(items...), nil
}

func buildQuantified(n *ast.Node, tokenMode bool) (expr.Expression, error) {
	prefixedNodes := childrenNamed(n, "prefixed")
	if len(prefixedNodes) != 1 {
		return nil, &BadGrammar{Msg: "internal error: malformed quantified node"}
	}
	suffix := ""
	if ops := childrenNamed(n, "quantop"); len(ops) == 1 {
		suffix = ops[0].Span()
	}
	e, err := buildPrefixed(prefixedNodes[0], tokenMode)
	if err != nil {
		return nil, err
	}
	switch suffix {
	case "?":
		return expr.NewOptional(e), nil
	case "*":
		return expr.NewZeroOrMore(e), nil
	case "+":
		return expr.NewOneOrMore(e), nil
	default:
		return e, nil
	}
}

func buildPrefixed(n *ast.Node, tokenMode bool) (expr.Expression, error) {
	atomNodes := childrenNamed(n, "atom")
	if len(atomNodes) != 1 {
		return nil, &BadGrammar{Msg: "internal error: malformed prefixed node"}
	}
	prefix := ""
	if ops := childrenNamed(n, "prefixop"); len(ops) == 1 {
		prefix = ops[0].Span()
	}
	e, err := buildAtom(atomNodes[0], tokenMode)
	if err != nil {
		return nil, err
	}
	switch prefix {
	case "!":
		return expr.NewNot(e), nil
	case "&":
		return expr.NewLookahead(e), nil
	default:
		return e, nil
	}
}

func buildAtom(n *ast.Node, tokenMode bool) (expr.Expression, error) {
	if len(n.Children) != 1 {
		return nil, &BadGrammar{Msg: "internal error: atom with no branch"}
	}
	branch := n.Children[0]
	switch branch.Name {
	case "literal":
		return buildLiteral(branch)
	case "regex":
		if tokenMode {
			return nil, &BadGrammar{Msg: "regex atoms are not allowed in a token grammar"}
		}
		return buildRegex(branch)
	case "reference":
		return expr.NewLazyReference(branch.Span()), nil
	case "parens":
		for _, c := range branch.Children {
			if c.Name == "expression" {
				return buildExpression(c, tokenMode)
			}
		}
		return nil, &BadGrammar{Msg: "internal error: parens with no inner expression"}
	default:
		return nil, &BadGrammar{Msg: fmt.Sprintf("internal error: unexpected atom branch %q", branch.Name)}
	}
}

func buildLiteral(n *ast.Node) (expr.Expression, error) {
	value, err := unquoteGrammarLiteral(n.Span())
	if err != nil {
		return nil, &BadGrammar{Msg: "invalid string literal", Err: err}
	}
	return expr.NewLiteral(value), nil
}

func buildRegex(n *ast.Node) (expr.Expression, error) {
	var patternNode *ast.Node
	for _, c := range n.Children {
		if c.Name == "literal" {
			patternNode = c
		}
	}
	if patternNode == nil {
		return nil, &BadGrammar{Msg: "internal error: malformed regex node"}
	}
	pattern, err := unquoteGrammarLiteral(patternNode.Span())
	if err != nil {
		return nil, &BadGrammar{Msg: "invalid regex literal", Err: err}
	}
	flags := ""
	if flagNodes := childrenNamed(n, "flags"); len(flagNodes) == 1 {
		flags = flagNodes[0].Span()
	}
	re, err := expr.NewRegex(pattern, flags)
	if err != nil {
		return nil, &BadGrammar{Msg: "invalid regex", Err: err}
	}
	return re, nil
}

// resolveReferences rewrites every LazyReference reachable from any
// expression in table to point at its target, in place, via SetChild. A
// visited set keyed on expression identity — Go's native interface equality
// over (type, pointer), the same trick the packrat cache relies on — makes
// this safe over self-referential and mutually cyclic rule graphs.
func resolveReferences(table map[string]expr.Expression) error {
	visited := make(map[expr.Expression]bool)
	var walk func(e expr.Expression) error
	walk = func(e expr.Expression) error {
		if visited[e] {
			return nil
		}
		visited[e] = true
		children := e.Children()
		for i, c := range children {
			if ref, isRef := c.(*expr.LazyReference); isRef {
				target, ok := table[ref.Ref]
				if !ok {
					return &UndefinedLabel{Ref: ref.Ref}
				}
				e.SetChild(i, target)
				if err := walk(target); err != nil {
					return err
				}
				continue
			}
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, e := range table {
		if err := walk(e); err != nil {
			return err
		}
	}
	return nil
}
