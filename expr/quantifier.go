package expr

import "github.com/oakmoss/peg/ast"

// Optional always succeeds; it consumes child's match if any, else zero
// input.
type Optional struct {
	named
	child Expression
}

// NewOptional builds a "child?" expression.
func NewOptional(child Expression) *Optional { return &Optional{child: child} }

func (q *Optional) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	node, newPos, ok := Match(q.child, ctx, pos)
	if !ok {
		bs, be := ctx.Source.NodeSpan(pos, pos)
		return ast.New(q.name, ctx.Source.FullText(), bs, be), pos, true
	}
	bs, be := ctx.Source.NodeSpan(pos, newPos)
	return &ast.Node{
		Name: q.name, Text: ctx.Source.FullText(), Start: bs, End: be,
		Children: []*ast.Node{node},
	}, newPos, true
}

func (q *Optional) Children() []Expression       { return []Expression{q.child} }
func (q *Optional) SetChild(i int, e Expression) { q.child = e }
func (q *Optional) String() string               { return atomItemString(q.child) + "?" }

// ZeroOrMore greedily matches child until it fails, always succeeding
// (possibly with zero matches). A zero-width match stops the loop, to avoid
// looping forever.
type ZeroOrMore struct {
	named
	child Expression
}

// NewZeroOrMore builds a "child*" expression.
func NewZeroOrMore(child Expression) *ZeroOrMore { return &ZeroOrMore{child: child} }

func (q *ZeroOrMore) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	cur := pos
	var children []*ast.Node
	for {
		node, newPos, ok := Match(q.child, ctx, cur)
		if !ok || newPos == cur {
			break
		}
		children = append(children, node)
		cur = newPos
	}
	bs, be := ctx.Source.NodeSpan(pos, cur)
	return &ast.Node{Name: q.name, Text: ctx.Source.FullText(), Start: bs, End: be, Children: children}, cur, true
}

func (q *ZeroOrMore) Children() []Expression       { return []Expression{q.child} }
func (q *ZeroOrMore) SetChild(i int, e Expression) { q.child = e }
func (q *ZeroOrMore) String() string               { return atomItemString(q.child) + "*" }

// OneOrMore is ZeroOrMore but fails if the first iteration fails.
type OneOrMore struct {
	named
	child Expression
}

// NewOneOrMore builds a "child+" expression.
func NewOneOrMore(child Expression) *OneOrMore { return &OneOrMore{child: child} }

func (q *OneOrMore) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	first, cur, ok := Match(q.child, ctx, pos)
	if !ok {
		return nil, pos, false
	}
	children := []*ast.Node{first}
	for {
		node, next, ok := Match(q.child, ctx, cur)
		if !ok || next == cur {
			break
		}
		children = append(children, node)
		cur = next
	}
	bs, be := ctx.Source.NodeSpan(pos, cur)
	return &ast.Node{Name: q.name, Text: ctx.Source.FullText(), Start: bs, End: be, Children: children}, cur, true
}

func (q *OneOrMore) Children() []Expression       { return []Expression{q.child} }
func (q *OneOrMore) SetChild(i int, e Expression) { q.child = e }
func (q *OneOrMore) String() string               { return atomItemString(q.child) + "+" }
