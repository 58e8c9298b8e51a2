package expr

import "github.com/oakmoss/peg/ast"

// MatchFunc is a host-supplied matcher with the same contract as a built-in
// expression's inner match step: given a position, consume zero or more
// input units and report the new position, or fail.
type MatchFunc func(ctx *Context, pos int) (newPos int, ok bool)

// Custom wraps a host-supplied MatchFunc as an Expression — the mechanism a
// host uses to bolt on a matcher the grammar notation has no syntax for,
// such as a charclass matcher (see the charclass package).
type Custom struct {
	named
	label string
	fn    MatchFunc
}

// NewCustom wraps fn as an Expression. label is used only for String(),
// since the callable itself has no printable grammar-notation form.
func NewCustom(label string, fn MatchFunc) *Custom {
	return &Custom{label: label, fn: fn}
}

func (c *Custom) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	newPos, ok := c.fn(ctx, pos)
	if !ok {
		return nil, pos, false
	}
	bs, be := ctx.Source.NodeSpan(pos, newPos)
	return ast.New(c.name, ctx.Source.FullText(), bs, be), newPos, true
}

func (c *Custom) Children() []Expression   { return nil }
func (c *Custom) SetChild(int, Expression) {}
func (c *Custom) String() string           { return "<" + c.label + ">" }
