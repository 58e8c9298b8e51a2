package expr

import (
	"strconv"

	"github.com/oakmoss/peg/ast"
)

// Literal matches an exact string (text mode) or a single token whose Type
// equals Value (token mode).
type Literal struct {
	named
	Value string
}

// NewLiteral constructs a Literal expression for s.
func NewLiteral(s string) *Literal {
	return &Literal{Value: s}
}

func (l *Literal) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	newPos, ok := ctx.Source.MatchLiteral(pos, l.Value)
	if !ok {
		return nil, pos, false
	}
	bs, be := ctx.Source.NodeSpan(pos, newPos)
	return ast.New(l.name, ctx.Source.FullText(), bs, be), newPos, true
}

func (l *Literal) Children() []Expression     { return nil }
func (l *Literal) SetChild(int, Expression)   {}

func (l *Literal) String() string { return strconv.Quote(l.Value) }
