package expr

import (
	"strings"

	"github.com/oakmoss/peg/ast"
)

// OneOf tries each child in order and returns the first success
// (prioritized choice). The chosen child's node becomes the OneOf node's
// sole child.
type OneOf struct {
	named
	items []Expression
}

// NewOneOf builds a OneOf over items, tried left to right.
func NewOneOf(items ...Expression) *OneOf {
	return &OneOf{items: items}
}

func (o *OneOf) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	for _, it := range o.items {
		node, newPos, ok := Match(it, ctx, pos)
		if ok {
			bs, be := ctx.Source.NodeSpan(pos, newPos)
			return &ast.Node{
				Name: o.name, Text: ctx.Source.FullText(), Start: bs, End: be,
				Children: []*ast.Node{node},
			}, newPos, true
		}
	}
	return nil, pos, false
}

func (o *OneOf) Children() []Expression { return o.items }

func (o *OneOf) SetChild(i int, e Expression) { o.items[i] = e }

func (o *OneOf) String() string {
	parts := make([]string, len(o.items))
	for i, it := range o.items {
		parts[i] = choiceItemString(it)
	}
	return strings.Join(parts, " / ")
}
