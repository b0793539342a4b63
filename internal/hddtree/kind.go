package hddtree

// Kind identifies which variant of the Node sum type a node is.
type Kind string

const (
	// Rule is an internal node for a grammar rule instance.
	Rule Kind = "RULE"

	// Quantifier is an anonymous internal node introduced when the parser
	// enters an optional/repeating block. Its children are a contiguous
	// span of siblings that may be removed together without violating the
	// parent's grammar.
	Quantifier Kind = "QUANTIFIER"

	// Token is a terminal carrying literal source text.
	Token Kind = "TOKEN"

	// HiddenToken is a terminal on a hidden channel (whitespace, comments).
	// It participates in unparse but is invisible to the reducer's
	// removability decisions by default.
	HiddenToken Kind = "HIDDEN_TOKEN"

	// ErrorToken is inserted for parse-error fragments. Its presence is
	// preserved but it is non-removable and has an empty minimal
	// replacement.
	ErrorToken Kind = "ERROR_TOKEN"
)

func (k Kind) String() string {
	return string(k)
}

// IsTerminal reports whether nodes of this kind are leaves (carry source
// text directly rather than children).
func (k Kind) IsTerminal() bool {
	return k == Token || k == HiddenToken || k == ErrorToken
}
