package hddtree

import "github.com/dekarrin/picireny/internal/hdderrors"

// Builder is the contract for the external tree-construction collaborator
// (spec §6, "Tree builder"). A real implementation wraps a generated ANTLR
// parser's listener callbacks (recursion enter/push/unroll, optional
// enter/exit) and hands back an already-assembled Tree; that machinery is
// out of scope here (spec §9, "dynamic listener callbacks... are a
// consequence of the external parser generator's callback model"). This
// package only consumes the result.
type Builder interface {
	// Build parses input against the named start rule of the given grammar
	// and returns the resulting Tree. GrammarName is the logical name used
	// to look up a bundle entry (spec §6, "grammarName:ruleName"); it may
	// be empty for single-grammar bundles.
	//
	// Build returns a ParseFailed error (via hdderrors) if no tree could be
	// produced at all, or succeeds with a tree containing ErrorToken nodes
	// and a non-fatal ParsedWithErrors error if the input was only
	// partially valid.
	Build(input []byte, grammarName, startRule string) (*Tree, error)
}

// Literal is a reference Builder that does no parsing at all: it treats its
// input as an already-assembled tree description. It exists so that this
// package's own tests (and the CLI's "--literal-tree" debug mode mentioned
// in SPEC_FULL.md) can exercise the reducer without a real grammar
// front-end, the same way the teacher's ictiobus package offers more than
// one concrete Lexer/Parser so callers are never hardwired to just one.
type Literal struct {
	// Tree is returned unchanged by Build, after validating it.
	Tree *builderNode
}

// NewLiteral returns a Builder that always hands back tree.
func NewLiteral(tree *builderNode) Builder {
	return &Literal{Tree: tree}
}

// Build implements Builder. grammarName and startRule are ignored: a
// Literal builder's tree shape already encodes every decision a grammar
// would otherwise make.
func (l *Literal) Build(input []byte, grammarName, startRule string) (*Tree, error) {
	if l.Tree == nil {
		return nil, hdderrors.ParseFailed("literal builder has no tree configured")
	}
	t, err := Build(l.Tree)
	if err != nil {
		return nil, hdderrors.WrapParseFailed(err, "literal tree failed validation")
	}
	return t, nil
}
