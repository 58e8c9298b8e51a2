package expr

import "github.com/dlclark/regexp2"

// TextSource is the ordinary Source: matching proceeds byte by byte over an
// input string.
type TextSource struct {
	text string
}

// NewTextSource wraps text for matching.
func NewTextSource(text string) *TextSource {
	return &TextSource{text: text}
}

func (s *TextSource) Len() int { return len(s.text) }

func (s *TextSource) MatchLiteral(pos int, lit string) (int, bool) {
	if pos < 0 || pos+len(lit) > len(s.text) {
		return pos, false
	}
	if s.text[pos:pos+len(lit)] != lit {
		return pos, false
	}
	return pos + len(lit), true
}

func (s *TextSource) MatchRegex(pos int, re *regexp2.Regexp) (int, map[string]string, bool) {
	if pos < 0 || pos > len(s.text) {
		return pos, nil, false
	}
	m, err := re.FindStringMatchStartingAt(s.text, pos)
	if err != nil || m == nil || m.Index != pos {
		return pos, nil, false
	}
	groups := make(map[string]string, len(m.Groups())-1)
	for _, g := range m.Groups()[1:] {
		if len(g.Captures) == 0 {
			continue
		}
		groups[g.Name] = g.String()
	}
	return pos + m.Length, groups, true
}

func (s *TextSource) NodeSpan(start, end int) (int, int) { return start, end }

func (s *TextSource) FullText() string { return s.text }

// Token is one element of a pre-tokenized input, matched by type identity
// rather than by character content.
type Token struct {
	Type string
	Text string
}

// TokenSource implements Source over a []Token for TokenGrammar. Positions
// are token indices; node spans are translated to byte offsets into the
// concatenation of all token Text values, so ast.Node.Span still yields a
// meaningful substring for debugging and error messages.
type TokenSource struct {
	tokens  []Token
	text    string
	offsets []int // offsets[i] = byte offset of tokens[i] in text; len = len(tokens)+1
}

// NewTokenSource builds a TokenSource from a token sequence.
func NewTokenSource(tokens []Token) *TokenSource {
	offsets := make([]int, len(tokens)+1)
	var b []byte
	for i, t := range tokens {
		offsets[i] = len(b)
		b = append(b, t.Text...)
	}
	offsets[len(tokens)] = len(b)
	return &TokenSource{tokens: tokens, text: string(b), offsets: offsets}
}

func (s *TokenSource) Len() int { return len(s.tokens) }

func (s *TokenSource) MatchLiteral(pos int, typ string) (int, bool) {
	if pos < 0 || pos >= len(s.tokens) {
		return pos, false
	}
	if s.tokens[pos].Type != typ {
		return pos, false
	}
	return pos + 1, true
}

// MatchRegex always fails: regex atoms are rejected for TokenGrammar at
// compile time, so this path should never be taken in practice, but
// returning ok=false rather than panicking keeps Source total over its
// documented contract.
func (s *TokenSource) MatchRegex(pos int, re *regexp2.Regexp) (int, map[string]string, bool) {
	return pos, nil, false
}

func (s *TokenSource) NodeSpan(start, end int) (int, int) {
	return s.offsets[start], s.offsets[end]
}

func (s *TokenSource) FullText() string { return s.text }
