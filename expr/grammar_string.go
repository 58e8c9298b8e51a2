package expr

// namedRef renders e as a reference to its rule name when it has one,
// rather than re-expanding its whole definition — both for readability and
// because a resolved cyclic graph (a rule that reaches itself) would
// otherwise recurse forever. Returns "", false when e has no name (or is
// still an unresolved LazyReference, which carries no binding of its own).
func namedRef(e Expression) (string, bool) {
	if e.Name() == "" {
		return "", false
	}
	if _, isLazy := e.(*LazyReference); isLazy {
		return "", false
	}
	return e.Name(), true
}

// seqItemString renders e as one term of a Sequence. Terms sit at
// prefix/postfix/atom precedence, tighter than both juxtaposition and
// alternation, so any OneOf child must be parenthesized.
func seqItemString(e Expression) string {
	if name, ok := namedRef(e); ok {
		return name
	}
	if _, isChoice := e.(*OneOf); isChoice {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// choiceItemString renders e as one branch of a OneOf. Branches are
// sequences by construction; only a directly nested OneOf needs parens.
func choiceItemString(e Expression) string {
	if name, ok := namedRef(e); ok {
		return name
	}
	if _, isChoice := e.(*OneOf); isChoice {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// atomItemString renders e as the operand of a prefix (!/&) or postfix
// (?/*/+) operator, which bind only to atoms: both Sequence and OneOf
// children must be parenthesized.
func atomItemString(e Expression) string {
	if name, ok := namedRef(e); ok {
		return name
	}
	switch e.(type) {
	case *Sequence, *OneOf:
		return "(" + e.String() + ")"
	default:
		return e.String()
	}
}
