package expr

import (
	"github.com/dlclark/regexp2"

	"github.com/oakmoss/peg/ast"
)

// Source abstracts over what a grammar matches against: ordinary text, or a
// pre-tokenized sequence (TokenGrammar). Every built-in
// expression kind matches exclusively through this interface, so the same
// Sequence/OneOf/quantifier code serves both modes — only the Literal and
// Regex atoms ask the source to interpret a position.
type Source interface {
	// Len returns the number of matchable units: bytes for TextSource,
	// tokens for TokenSource.
	Len() int
	// MatchLiteral attempts to consume a single literal unit at pos.
	MatchLiteral(pos int, s string) (newPos int, ok bool)
	// MatchRegex attempts an anchored regex match at pos. TokenSource
	// always reports ok=false; TokenGrammar rejects Regex atoms earlier,
	// at compile time.
	MatchRegex(pos int, re *regexp2.Regexp) (newPos int, groups map[string]string, ok bool)
	// NodeSpan converts a [start,end) range expressed in this source's own
	// position units into the byte range to record on an ast.Node.
	NodeSpan(start, end int) (byteStart, byteEnd int)
	// FullText returns the backing text ast.Node.Text should reference.
	FullText() string
}

// FailureTracker records the rightmost position any concrete-input-expecting
// expression (Literal, Regex) failed to match at during one parse, and the
// set of such expressions — used to build the human-readable ParseError
// message.
type FailureTracker struct {
	Rightmost int
	Exprs     map[Expression]bool
}

func newFailureTracker() FailureTracker {
	return FailureTracker{Rightmost: -1}
}

func (f *FailureTracker) record(e Expression, pos int) {
	if !expects(e) {
		return
	}
	switch {
	case pos > f.Rightmost:
		f.Rightmost = pos
		f.Exprs = map[Expression]bool{e: true}
	case pos == f.Rightmost:
		if f.Exprs == nil {
			f.Exprs = make(map[Expression]bool, 1)
		}
		f.Exprs[e] = true
	}
}

// expects reports whether e "expects" concrete input at a failure position —
// only Literal and Regex do; a Sequence's failure is implied by its first
// failing child and adds nothing to a human-readable message.
func expects(e Expression) bool {
	switch e.(type) {
	case *Literal, *Regex:
		return true
	default:
		return false
	}
}

// Context is the per-parse state: the memoization cache and the failure
// tracker. A Context is created fresh for every top-level Parse/Match call
// and discarded at the end of it — consistent with PEG semantics, where a
// parse decision depends only on the input, never on a previous call.
type Context struct {
	Source  Source
	Failure FailureTracker

	cache map[Expression]map[int]matchResult
}

// NewContext allocates a fresh, empty Context over src.
func NewContext(src Source) *Context {
	return &Context{
		Source:  src,
		Failure: newFailureTracker(),
		cache:   make(map[Expression]map[int]matchResult),
	}
}

// CacheEntries reports how many (expression, position) memoization records
// this context's packrat cache holds, for a host's own diagnostics — e.g.
// ParserOptions.MaxCacheEntries in the peg package.
func (c *Context) CacheEntries() int {
	n := 0
	for _, byPos := range c.cache {
		n += len(byPos)
	}
	return n
}

// Run drives top across src starting at pos, the packrat matcher's single
// entry point. It does not enforce full consumption — callers decide
// between Parse (require it) and Match (don't) on top of this.
func Run(top Expression, src Source, pos int) (node *ast.Node, newPos int, ok bool, failure FailureTracker) {
	ctx := NewContext(src)
	node, newPos, ok = Match(top, ctx, pos)
	return node, newPos, ok, ctx.Failure
}
