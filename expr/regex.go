package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/oakmoss/peg/ast"
)

// Regex matches an anchored regular expression at the current position.
// Matching is delegated to github.com/dlclark/regexp2, which — unlike the
// standard library's RE2 engine — supports the \G "contiguous match"
// anchor; prefixing the user's pattern with \G forces
// FindStringMatchStartingAt to either match exactly at the requested offset
// or report no match, giving the anchored-at-position semantics a PEG atom
// needs.
type Regex struct {
	named
	Pattern string
	Flags   string

	re *regexp2.Regexp
}

// knownFlags are the flags the grammar notation accepts. 'l' and 'u' are
// accepted for grammar-source compatibility but are
// no-ops: Go strings are UTF-8 by construction ('u' is always true) and Go
// has no ambient notion of locale-sensitive regex collation ('l') the way
// Python's re module does.
const knownFlags = "ilmsux"

// NewRegex compiles pattern with the given flag letters.
func NewRegex(pattern, flags string) (*Regex, error) {
	var opts regexp2.RegexOptions
	for _, f := range flags {
		if !strings.ContainsRune(knownFlags, f) {
			return nil, fmt.Errorf("peg: unknown regex flag %q in /%s/%s", f, pattern, flags)
		}
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		case 'l', 'u':
			// no-op, documented above.
		}
	}
	re, err := regexp2.Compile(`\G(?:`+pattern+`)`, opts)
	if err != nil {
		return nil, fmt.Errorf("peg: invalid regex %q: %w", pattern, err)
	}
	return &Regex{Pattern: pattern, Flags: flags, re: re}, nil
}

func (r *Regex) matchAt(ctx *Context, pos int) (*ast.Node, int, bool) {
	newPos, groups, ok := ctx.Source.MatchRegex(pos, r.re)
	if !ok {
		return nil, pos, false
	}
	bs, be := ctx.Source.NodeSpan(pos, newPos)
	return ast.NewRegex(r.name, ctx.Source.FullText(), bs, be, groups), newPos, true
}

func (r *Regex) Children() []Expression   { return nil }
func (r *Regex) SetChild(int, Expression) {}

func (r *Regex) String() string {
	return "~" + strconv.Quote(r.Pattern) + r.Flags
}
