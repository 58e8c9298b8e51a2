// Package expr implements the compiled expression graph and the packrat
// matcher that drives it.
//
// Every node kind implements the same match contract: given a position,
// either produce a parse tree node and a new position, or fail. The uniform
// cache-probe/dispatch/record/failure-tracking wrapper around that contract
// lives once, in Match, rather than being repeated by each kind — only the
// per-kind matchAt differs.
package expr

import (
	log "github.com/golang/glog"

	"github.com/oakmoss/peg/ast"
)

// Expression is a node in the compiled grammar graph. It is a closed sum
// type: matchAt is unexported, so only the kinds in this package can
// implement it.
type Expression interface {
	// Name is the grammar rule name this expression is the right-hand side
	// of, or "" when the expression exists only for structural composition.
	Name() string
	// SetName binds the expression to a rule name. Called at most once per
	// expression by the grammar compiler, when a rule's RHS is registered.
	SetName(name string)
	// String renders the expression in grammar notation, for Grammar.String.
	String() string
	// Children returns this expression's direct sub-expressions in match
	// order, or nil for a leaf. The slice is shared with the expression's
	// internal storage: callers that need to rewrite a child (only the
	// compiler's reference resolver does) use SetChild rather than mutating
	// this slice.
	Children() []Expression
	// SetChild replaces the i'th child in place. Used exclusively by the
	// compiler to rewire LazyReference placeholders post-parse; a no-op on
	// leaf kinds.
	SetChild(i int, e Expression)

	matchAt(ctx *Context, pos int) (*ast.Node, int, bool)
}

// named is embedded by every concrete Expression kind to provide Name/SetName.
type named struct {
	name string
}

func (n *named) Name() string      { return n.name }
func (n *named) SetName(s string)  { n.name = s }

// Match applies the uniform matching contract: probe the cache, dispatch to
// the variant on a miss, record the outcome, and on failure update the
// failure tracker. This is the only place cache reads
// and writes happen — per-kind matchAt functions are never called directly
// by anything other than Match.
func Match(e Expression, ctx *Context, pos int) (*ast.Node, int, bool) {
	if byPos, ok := ctx.cache[e]; ok {
		if res, ok := byPos[pos]; ok {
			log.V(6).Infof("cache hit: %s at %d -> ok=%v", e.Name(), pos, res.ok)
			return res.node, res.newPos, res.ok
		}
	}
	node, newPos, ok := e.matchAt(ctx, pos)
	if !ok {
		log.V(6).Infof("fail: %s at %d", e.Name(), pos)
		ctx.Failure.record(e, pos)
	}
	if ctx.cache[e] == nil {
		ctx.cache[e] = make(map[int]matchResult, 1)
	}
	ctx.cache[e][pos] = matchResult{ok: ok, node: node, newPos: newPos}
	return node, newPos, ok
}

type matchResult struct {
	ok     bool
	node   *ast.Node
	newPos int
}
