package hddtree

import (
	"encoding/json"
	"strings"

	"github.com/dekarrin/picireny/internal/hdderrors"
)

// literalJSON is the on-disk shape a literal tree description is decoded
// from: a small, hand-writable stand-in for what a real grammar-driven
// parser would otherwise produce, used by ParseLiteralJSON.
type literalJSON struct {
	Kind     string        `json:"kind"`
	Name     string        `json:"name,omitempty"`
	Text     string        `json:"text,omitempty"`
	Children []literalJSON `json:"children,omitempty"`
}

// ParseLiteralJSON decodes data as a nested literalJSON description and
// returns a Builder that always hands back the tree it describes,
// regardless of what input bytes Build is later called with. It backs the
// CLI's "--literal-tree" debug mode (SPEC_FULL.md §6): a way to exercise
// the reducer end to end without a real ANTLR-backed front end.
func ParseLiteralJSON(data []byte) (Builder, error) {
	var root literalJSON
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, hdderrors.WrapParseFailed(err, "literal tree description is not valid JSON")
	}
	bn, err := root.toBuilderNode()
	if err != nil {
		return nil, err
	}
	return NewLiteral(bn), nil
}

func (n literalJSON) toBuilderNode() (*builderNode, error) {
	kind := Kind(strings.ToUpper(n.Kind))

	if kind.IsTerminal() {
		if len(n.Children) > 0 {
			return nil, hdderrors.InvariantViolationf("literal tree node %q (%s) is terminal but has children", n.Name, kind)
		}
		return LeafNode(kind, n.Name, n.Text, Span{}), nil
	}

	children := make([]*builderNode, 0, len(n.Children))
	for _, c := range n.Children {
		cb, err := c.toBuilderNode()
		if err != nil {
			return nil, err
		}
		children = append(children, cb)
	}
	return RuleNode(kind, n.Name, Span{}, children...), nil
}
