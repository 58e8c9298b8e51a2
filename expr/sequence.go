package expr

import (
	"strings"

	"github.com/oakmoss/peg/ast"
)

// Sequence matches each child in order, concatenating their spans. Any
// child failure fails the whole sequence.
type Sequence struct {
	named
	items []Expression
}

// NewSequence builds a Sequence over items, matched left to right.
func NewSequence(items ...Expression) *Sequence {
	return &Sequence{items: items}
}

func (s *Sequence) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	cur := pos
	children := make([]*ast.Node, 0, len(s.items))
	for _, it := range s.items {
		node, newPos, ok := Match(it, ctx, cur)
		if !ok {
			return nil, pos, false
		}
		children = append(children, node)
		cur = newPos
	}
	bs, be := ctx.Source.NodeSpan(pos, cur)
	return &ast.Node{Name: s.name, Text: ctx.Source.FullText(), Start: bs, End: be, Children: children}, cur, true
}

func (s *Sequence) Children() []Expression { return s.items }

func (s *Sequence) SetChild(i int, e Expression) { s.items[i] = e }

func (s *Sequence) String() string {
	parts := make([]string, len(s.items))
	for i, it := range s.items {
		parts[i] = seqItemString(it)
	}
	return strings.Join(parts, " ")
}
