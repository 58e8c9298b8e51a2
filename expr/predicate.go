package expr

import "github.com/oakmoss/peg/ast"

// Lookahead succeeds iff child matches here, consuming no input.
type Lookahead struct {
	named
	child Expression
}

// NewLookahead builds an "&child" positive lookahead.
func NewLookahead(child Expression) *Lookahead { return &Lookahead{child: child} }

func (p *Lookahead) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	if _, _, ok := Match(p.child, ctx, pos); !ok {
		return nil, pos, false
	}
	bs, be := ctx.Source.NodeSpan(pos, pos)
	return ast.New(p.name, ctx.Source.FullText(), bs, be), pos, true
}

func (p *Lookahead) Children() []Expression       { return []Expression{p.child} }
func (p *Lookahead) SetChild(i int, e Expression) { p.child = e }
func (p *Lookahead) String() string               { return "&" + atomItemString(p.child) }

// Not succeeds iff child fails here, consuming no input.
type Not struct {
	named
	child Expression
}

// NewNot builds a "!child" negative lookahead.
func NewNot(child Expression) *Not { return &Not{child: child} }

func (p *Not) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	if _, _, ok := Match(p.child, ctx, pos); ok {
		return nil, pos, false
	}
	bs, be := ctx.Source.NodeSpan(pos, pos)
	return ast.New(p.name, ctx.Source.FullText(), bs, be), pos, true
}

func (p *Not) Children() []Expression       { return []Expression{p.child} }
func (p *Not) SetChild(i int, e Expression) { p.child = e }
func (p *Not) String() string               { return "!" + atomItemString(p.child) }
