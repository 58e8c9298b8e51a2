package peg

import (
	"fmt"
	"strings"

	"github.com/oakmoss/peg/ast"
)

// VisitFunc handles one node during a visit, given the already-visited
// values of its children in left-to-right order.
type VisitFunc func(n *ast.Node, children []interface{}) (interface{}, error)

// NodeVisitor is the dispatch surface Visit drives: a handler lookup keyed
// by rule name, a generic fallback for unhandled names, and a hook deciding
// which error kinds propagate unwrapped instead of being folded into a
// VisitationError.
//
// It is a single dispatch point fed one node label at a time, shaped as a
// small interface so a host can register handlers incrementally
// (VisitorBase.On) instead of writing one big switch.
type NodeVisitor interface {
	Dispatch(name string) (VisitFunc, bool)
	GenericVisit(n *ast.Node, children []interface{}) (interface{}, error)
	IsUnwrapped(err error) bool
}

// VisitorBase is an embeddable NodeVisitor implementation: a host embeds it,
// registers per-rule handlers with On, and optionally overrides GenericVisit
// or IsUnwrapped by defining a method of the same name on the embedding
// type (ordinary Go method promotion/shadowing, since NodeVisitor is
// satisfied through the embedding type).
type VisitorBase struct {
	handlers map[string]VisitFunc
}

// On registers the handler for nodes named name. Calling On again for the
// same name replaces the previous handler.
func (b *VisitorBase) On(name string, fn VisitFunc) {
	if b.handlers == nil {
		b.handlers = make(map[string]VisitFunc)
	}
	b.handlers[name] = fn
}

func (b *VisitorBase) Dispatch(name string) (VisitFunc, bool) {
	fn, ok := b.handlers[name]
	return fn, ok
}

// GenericVisit is the default fallback: a genuinely named rule with no
// registered handler means the visitor is missing a case, which is a
// configuration error. Structural nodes — the Sequence/ZeroOrMore/OneOf
// wrapper nodes a compiled grammar's matchAt produces between named rules —
// never reach here at all: visit splices their children straight into their
// parent's child list before dispatch ever looks at a name, since they have
// no rule name of their own to dispatch on. A host wanting different
// fallback behavior overrides this by defining its own GenericVisit method.
func (b *VisitorBase) GenericVisit(n *ast.Node, children []interface{}) (interface{}, error) {
	return nil, fmt.Errorf("peg: no visitor handler registered for node %q", nodeLabel(n))
}

// IsUnwrapped reports false for everything by default; a host wanting
// specific error kinds to propagate unwrapped overrides this method.
func (b *VisitorBase) IsUnwrapped(err error) bool {
	return false
}

// Visit performs a depth-first post-order dispatch over n, using v to
// resolve and invoke handlers.
func Visit(v NodeVisitor, n *ast.Node) (interface{}, error) {
	if n.Name == "" {
		// An unnamed root has no rule of its own to dispatch on; fall back to
		// GenericVisit directly rather than splicing it into a nonexistent
		// parent. Real grammars never hand Visit such a root, since a
		// Grammar.Parse/Match result is always a named rule node.
		children, err := visitChildren(v, n, n.Children)
		if err != nil {
			return nil, err
		}
		return dispatch(v, n, n, children)
	}
	return visit(v, n, n)
}

func visit(v NodeVisitor, root, n *ast.Node) (interface{}, error) {
	children, err := visitChildren(v, root, n.Children)
	if err != nil {
		return nil, err
	}
	return dispatch(v, root, n, children)
}

// visitChildren visits each of nodes in order, splicing an unnamed
// (structural) child's own visited children directly into the result
// instead of recursing through dispatch for it — a Sequence/ZeroOrMore/OneOf
// wrapper node is plumbing the matcher introduced to express composition,
// never a rule production a host could register a handler for, so it is
// never itself a value; only the named nodes underneath it are.
func visitChildren(v NodeVisitor, root *ast.Node, nodes []*ast.Node) ([]interface{}, error) {
	children := make([]interface{}, 0, len(nodes))
	for _, c := range nodes {
		if c.Name == "" {
			spliced, err := visitChildren(v, root, c.Children)
			if err != nil {
				return nil, err
			}
			children = append(children, spliced...)
			continue
		}
		val, err := visit(v, root, c)
		if err != nil {
			return nil, err
		}
		children = append(children, val)
	}
	return children, nil
}

func dispatch(v NodeVisitor, root, n *ast.Node, children []interface{}) (interface{}, error) {
	handler, ok := v.Dispatch(n.Name)
	var (
		val interface{}
		err error
	)
	if ok {
		val, err = handler(n, children)
	} else {
		val, err = v.GenericVisit(n, children)
	}
	if err == nil {
		return val, nil
	}
	if _, alreadyWrapped := err.(*VisitationError); alreadyWrapped {
		return nil, err
	}
	if v.IsUnwrapped(err) {
		return nil, err
	}
	return nil, &VisitationError{Node: n, Root: root, Cause: err}
}

// VisitAndParse parses text with g and visits the result with v — the
// visitor's "parse(text)" convenience method.
func VisitAndParse(v NodeVisitor, g *Grammar, text string) (interface{}, error) {
	node, err := g.Parse(text, 0)
	if err != nil {
		return nil, err
	}
	return Visit(v, node)
}

// VisitAndMatch is VisitAndParse using g.Match instead of g.Parse — the
// visitor's "match(text)" convenience method.
func VisitAndMatch(v NodeVisitor, g *Grammar, text string) (interface{}, error) {
	node, err := g.Match(text, 0)
	if err != nil {
		return nil, err
	}
	return Visit(v, node)
}

// RuleDef attaches a grammar-rule source fragment to a name, for use with
// NewVisitorGrammar. Go has no method decorators, so the binding happens at
// a constructor call instead of at method-definition time.
type RuleDef struct {
	Name   string
	Source string
}

// Rule builds a RuleDef. source may be a full "name = expression" line or
// just the right-hand side, in which case "name = " is prefixed
// automatically.
func Rule(name, source string) RuleDef {
	return RuleDef{Name: name, Source: source}
}

// NewVisitorGrammar assembles rules into a single grammar source and
// compiles it, defaulting to the first rule's name as the start rule.
func NewVisitorGrammar(rules ...RuleDef) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("peg: NewVisitorGrammar requires at least one rule")
	}
	var b strings.Builder
	for _, r := range rules {
		src := strings.TrimSpace(r.Source)
		if !strings.Contains(strings.SplitN(src, "\n", 2)[0], "=") {
			src = fmt.Sprintf("%s = %s", r.Name, src)
		}
		b.WriteString(src)
		b.WriteByte('\n')
	}
	g, err := New(b.String(), nil, nil)
	if err != nil {
		return nil, err
	}
	return g.Default(rules[0].Name)
}
