package charclass

import (
	"unicode/utf8"

	"github.com/oakmoss/peg/expr"
)

// Matcher returns an expr.MatchFunc that consumes exactly one rune
// belonging to cc. It reads the rune directly out of the source's full
// text at pos — char classes only make sense over text-mode grammars, so
// this does not attempt to support TokenSource.
func (cc *CharClass) Matcher() expr.MatchFunc {
	return func(ctx *expr.Context, pos int) (int, bool) {
		text := ctx.Source.FullText()
		if pos >= len(text) {
			return pos, false
		}
		r, w := utf8.DecodeRuneInString(text[pos:])
		if r == utf8.RuneError && w <= 1 {
			return pos, false
		}
		if !cc.Contains(r) {
			return pos, false
		}
		return pos + w, true
	}
}

// AsCustom wraps cc as a named expr.Custom expression, ready to hand to
// peg.New as a custom rule.
func (cc *CharClass) AsCustom(label string) *expr.Custom {
	return expr.NewCustom(label, cc.Matcher())
}
