// Package pegtest holds shared test fixtures, used by the meta and root peg
// packages' tests, and a tree-shape Diff helper.
package pegtest

// Outcome is one case within a PositiveTest: an input string and whether the
// grammar's default rule should accept all of it, starting at position 0.
type Outcome struct {
	Input string
	Ok    bool
}

// PositiveTest pairs a grammar source, expected to compile, with a set of
// inputs it should accept or reject.
type PositiveTest struct {
	Name     string
	Grammar  string
	Outcomes []Outcome
}

// InvalidGrammarTest names a grammar source peg.New must reject at compile
// time.
type InvalidGrammarTest struct {
	Name    string
	Grammar string
}

// CaptureOutcome is one case within a CaptureTest: an input, whether it
// should parse, and (if so) the expected span text of the grammar's default
// rule's match.
type CaptureOutcome struct {
	Input  string
	Ok     bool
	Result string
}

// CaptureTest pairs a grammar with inputs whose matched span text is
// checked against Result.
type CaptureTest struct {
	Name     string
	Grammar  string
	Outcomes []CaptureOutcome
}

// Invalid holds grammar sources that must fail to compile — malformed
// notation, undefined rule references, or (for the meta-grammar itself)
// things no valid rule body can express.
var Invalid = []InvalidGrammarTest{
	{"double_equals", "Ident = abc = xyz"},
	{"rule_missing_body", "Ident ="},
	{"unterminated_single_quote", "abc = 'x"},
	{"unterminated_double_quote", `abc = "x`},
	{"bare_quantifier_optional", "I = ?"},
	{"bare_quantifier_star", "I = *"},
	{"unmatched_open_paren", "I = ("},
	{"unmatched_close_paren", "I = )"},
	{"undefined_reference", "A = B"},
	{"undefined_transitive_reference", "A = B \nB = C"},
	{"bare_lookahead", "I = &"},
	{"bare_not", "I = !"},
}

// Positive holds grammars that must compile, with inputs checked from
// position 0 for full-input acceptance.
var Positive = []PositiveTest{
	{
		Name:    "single_space",
		Grammar: `Space1 = " "`,
		Outcomes: []Outcome{
			{" ", true},
			{"", false},
			{"  ", false},
			{"x", false},
		},
	},
	{
		Name:    "any_one_or_more",
		Grammar: `Space4 = ~"."s+`,
		Outcomes: []Outcome{
			{"", false},
			{" ", true},
			{"x", true},
			{"xyz\nabc", true},
		},
	},
	{
		Name:    "escaped_newline_literal",
		Grammar: `Newline1 = "\n"`,
		Outcomes: []Outcome{
			{"", false},
			{"\n", true},
			{"\n\n", false},
		},
	},
	{
		Name:    "quoted_string_body",
		Grammar: `String = '"' ( '\\"' / !'"' ~"." )* '"'`,
		Outcomes: []Outcome{
			{``, false},
			{`"`, false},
			{`""`, true},
			{`"x"`, true},
			{`"xx\"xxx"`, true},
			{`"xx"x"xx"`, false},
		},
	},
	{
		Name:    "optional_then_required",
		Grammar: `Space14 = "x" "y" ? "z"`,
		Outcomes: []Outcome{
			{"", false},
			{"xz", true},
			{"xyz", true},
			{"xyyz", false},
		},
	},
	{
		Name:    "parenthesized_group_star",
		Grammar: `Space17 = "x" ( "y" "z" ) * "t"`,
		Outcomes: []Outcome{
			{"xt", true},
			{"xyzt", true},
			{"xyzyzt", true},
			{"xyzyt", false},
		},
	},
	{
		Name: "cross_rule_reference",
		Grammar: "Ident2 = Space \"a\"+\n" +
			`Space = " "*`,
		Outcomes: []Outcome{
			{"", false},
			{"a", true},
			{"aa", true},
			{"  aaa", true},
			{"  aaa ", false},
		},
	},
	{
		Name: "prioritized_choice",
		Grammar: "Ident3 = Space \"a\"+ / Space \"b\"+\n" +
			`Space = " "*`,
		Outcomes: []Outcome{
			{"", false},
			{"a", true},
			{"b", true},
			{"ab", false},
			{"  bbb", true},
		},
	},
	{
		Name:    "negative_lookahead_then_rest",
		Grammar: `Quoted2 = "a" !"b" ~"."*`,
		Outcomes: []Outcome{
			{"", false},
			{"a", true},
			{"ab", false},
			{"acb", true},
		},
	},
}

// Capture holds grammars checked by matched span text rather than bare
// accept/reject.
var Capture = []CaptureTest{
	{
		Name:    "flanked_literal_run",
		Grammar: `X = "x" ~"y*" "z"`,
		Outcomes: []CaptureOutcome{
			{"", false, ""},
			{"xz", true, "xz"},
			{"xyz", true, "xyz"},
			{"xyyz", true, "xyyz"},
		},
	},
}
