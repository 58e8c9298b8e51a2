package peg

import (
	"fmt"
	"strings"

	"github.com/oakmoss/peg/ast"
	"github.com/oakmoss/peg/expr"
	"github.com/oakmoss/peg/meta"
)

// UndefinedLabel and BadGrammar are raised by the grammar compiler (the meta
// package) and surfaced here under the root package's public error
// vocabulary, so a caller never needs to import meta directly to type-switch
// on New's error.
type UndefinedLabel = meta.UndefinedLabel
type BadGrammar = meta.BadGrammar

// ParseError reports that (*Grammar).Parse could not match the whole input:
// the packrat matcher made no progress past some position. Rule names the
// rule Parse was attempting; Text and Pos are the input and the rightmost
// position the matcher reached. Line/Column are 1-based.
type ParseError struct {
	Rule   string
	Text   string
	Pos    int
	Line   int
	Column int
}

func newParseError(rule, text string, failure expr.FailureTracker) *ParseError {
	pos := failure.Rightmost
	if pos < 0 {
		pos = 0
	}
	line, col := computeRowCol(text, pos)
	return &ParseError{Rule: rule, Text: text, Pos: pos, Line: line, Column: col}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Rule '%s' didn't match at '%s' (line %d, column %d)",
		e.Rule, snippet(e.Text, e.Pos), e.Line, e.Column)
}

// IncompleteParseError reports that a rule matched, but stopped before the
// end of the input: parse() requires full consumption, and this is what it
// raises when a match succeeded but left a tail unconsumed.
type IncompleteParseError struct {
	Rule   string
	Text   string
	Pos    int // the position matching stopped at
	Line   int
	Column int
}

func newIncompleteParseError(rule, text string, pos int) *IncompleteParseError {
	line, col := computeRowCol(text, pos)
	return &IncompleteParseError{Rule: rule, Text: text, Pos: pos, Line: line, Column: col}
}

func (e *IncompleteParseError) Error() string {
	return fmt.Sprintf("Rule '%s' matched but did not consume the whole input, stopping at '%s' (line %d, column %d)",
		e.Rule, snippet(e.Text, e.Pos), e.Line, e.Column)
}

// VisitationError wraps an error raised from inside a NodeVisitor callback
// with the node it was visiting, so the message can show a reader exactly
// where in the tree things went wrong.
type VisitationError struct {
	Node  *ast.Node
	Root  *ast.Node
	Cause error
}

func (e *VisitationError) Error() string {
	return fmt.Sprintf("error visiting %q node: %v\n%s", nodeLabel(e.Node), e.Cause, e.Root.DumpMarking(e.Node))
}

func (e *VisitationError) Unwrap() error { return e.Cause }

func nodeLabel(n *ast.Node) string {
	if n == nil || n.Name == "" {
		return "<anonymous>"
	}
	return n.Name
}

// computeRowCol converts a byte offset into 1-based (line, column).
func computeRowCol(text string, pos int) (line, col int) {
	if pos > len(text) {
		pos = len(text)
	}
	line, col = 1, 1
	for i := 0; i < pos; i++ {
		if text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// snippet renders a short excerpt of text starting at pos, for embedding in
// an error message between single quotes.
func snippet(text string, pos int) string {
	if pos > len(text) {
		pos = len(text)
	}
	const maxLen = 20
	end := pos + maxLen
	if end > len(text) {
		end = len(text)
	}
	s := text[pos:end]
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if end < len(text) {
		s += "..."
	}
	return s
}
