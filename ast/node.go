// Package ast holds the concrete syntax tree produced by a packrat parse.
//
// Nodes are immutable once built: a matcher only ever appends children while
// a rule is being assembled on the stack, and the finished tree is handed to
// callers (and to the NodeVisitor framework) without further mutation.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is one record of the concrete syntax tree. A node with a non-empty
// Name is "named" — it corresponds to the right-hand side of a grammar rule.
// Unnamed nodes exist for purely structural composition: the branch an OneOf
// picked, the concatenation under a Sequence, one iteration of a quantifier.
type Node struct {
	// Name is the rule name this node was produced for, or "" for a
	// structural node with no rule of its own.
	Name string
	// Text is the full input the parse ran over; Start/End index into it.
	Text string
	Start int
	End   int
	// Children are in left-to-right match order. A node's span equals the
	// concatenation of its children's spans whenever it has children that
	// fully cover it; a zero-width Lookahead/Not match appears as a child
	// with an empty span.
	Children []*Node
	// Groups holds the regex capture groups when this node was produced by
	// a Regex expression (spec's "RegexNode" variant) — keyed by group name
	// for named groups and by decimal index (as a string) for positional
	// ones. Nil for every other expression kind.
	Groups map[string]string
}

// New builds a leaf or interior node spanning [start,end) of text.
func New(name, text string, start, end int, children ...*Node) *Node {
	return &Node{Name: name, Text: text, Start: start, End: end, Children: children}
}

// NewRegex builds a node carrying regex capture groups.
func NewRegex(name, text string, start, end int, groups map[string]string) *Node {
	return &Node{Name: name, Text: text, Start: start, End: end, Groups: groups}
}

// Span returns the matched substring.
func (n *Node) Span() string {
	if n == nil {
		return ""
	}
	return n.Text[n.Start:n.End]
}

// IsRegexNode reports whether n carries regex capture groups.
func (n *Node) IsRegexNode() bool {
	return n != nil && n.Groups != nil
}

// Walk performs a pre-order traversal, calling visit on n and then each
// descendant. When visit returns false for a node, that node's descendants
// are skipped; its siblings are still visited.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// String renders a compact s-expression form:
// (name "span" child...). Structural (unnamed) nodes print as (_ ...).
func (n *Node) String() string {
	return n.dump("", false)
}

// Dump renders the same s-expression form but additionally annotates each
// node with its byte span, for debugging and for VisitationError messages.
func (n *Node) Dump() string {
	return n.dump("", true)
}

// DumpMarking is Dump but prefixes the marked node with "*" so a reader can
// find the offending node inside a large tree — used by VisitationError.
func (n *Node) DumpMarking(marked *Node) string {
	var b strings.Builder
	n.dumpMarking(&b, "", marked)
	return b.String()
}

func (n *Node) dump(indent string, withSpan bool) string {
	var b strings.Builder
	n.writeDump(&b, indent, withSpan, nil)
	return b.String()
}

func (n *Node) dumpMarking(b *strings.Builder, indent string, marked *Node) {
	n.writeDump(b, indent, true, marked)
}

func (n *Node) writeDump(b *strings.Builder, indent string, withSpan bool, marked *Node) {
	if n == nil {
		b.WriteString("(nil)")
		return
	}
	if n == marked {
		b.WriteByte('*')
	}
	b.WriteByte('(')
	name := n.Name
	if name == "" {
		name = "_"
	}
	b.WriteString(name)
	if withSpan {
		fmt.Fprintf(b, " pos(%d,%d)", n.Start, n.End)
	}
	if len(n.Groups) > 0 {
		b.WriteString(" groups(")
		first := true
		for k, v := range n.Groups {
			if !first {
				b.WriteByte(' ')
			}
			first = false
			fmt.Fprintf(b, "%s=%s", k, strconv.Quote(v))
		}
		b.WriteByte(')')
	}
	if len(n.Children) == 0 {
		fmt.Fprintf(b, " %s", strconv.Quote(n.Span()))
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.writeDump(b, indent+"  ", withSpan, marked)
	}
	b.WriteByte(')')
}
