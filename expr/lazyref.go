package expr

import (
	"fmt"

	"github.com/oakmoss/peg/ast"
)

// LazyReference is a placeholder for a textual rule reference, created
// while the grammar compiler is walking the meta parse tree and before the
// full rule table is known. The compiler's resolver rewrites every reachable
// LazyReference in place; none may survive into a usable grammar.
type LazyReference struct {
	named
	Ref string
}

// NewLazyReference builds a placeholder referencing the rule named ref.
func NewLazyReference(ref string) *LazyReference {
	return &LazyReference{Ref: ref}
}

// matchAt must never run: reaching it means the resolver missed a
// reference, which is a compiler bug rather than a malformed grammar (an
// undefined rule name is caught and reported at compile time instead, as
// UndefinedLabel).
func (l *LazyReference) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	panic(fmt.Sprintf("peg: internal error: unresolved LazyReference(%q) reached during matching", l.Ref))
}

func (l *LazyReference) Children() []Expression     { return nil }
func (l *LazyReference) SetChild(int, Expression)   {}
func (l *LazyReference) String() string             { return l.Ref }
