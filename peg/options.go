package peg

// ParserOptions configures how New compiles a grammar source and how the
// resulting Grammar behaves at match time. A nil *ParserOptions is
// equivalent to the zero value.
type ParserOptions struct {
	// TokenGrammar compiles source as a TokenGrammar: the Literal atom
	// matches a token's Type by identity instead of matching bytes, and a
	// Regex atom is rejected at compile time. Use
	// (*Grammar).MatchTokens/ParseTokens against such a grammar.
	TokenGrammar bool

	// SkipEmptyNodes prunes unnamed, zero-width, childless structural nodes
	// (an unmatched Optional, an empty ZeroOrMore) out of a finished parse
	// tree before returning it. Off by default, since some NodeVisitor
	// implementations key off positional child counts and would rather see
	// the tree exactly as matched.
	SkipEmptyNodes bool

	// MaxCacheEntries, when nonzero, is a soft cap: a single Parse/Match
	// call whose packrat cache grows past it logs a V(1) warning through
	// glog rather than failing the call. It exists purely as a diagnostic
	// for hosts tuning unexpectedly large grammars; it never changes match
	// results.
	MaxCacheEntries int
}

func (o *ParserOptions) tokenGrammar() bool {
	return o != nil && o.TokenGrammar
}

func (o *ParserOptions) skipEmptyNodes() bool {
	return o != nil && o.SkipEmptyNodes
}

func (o *ParserOptions) maxCacheEntries() int {
	if o == nil {
		return 0
	}
	return o.MaxCacheEntries
}
