package transform

import (
	"testing"

	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setReplacement(n *hddtree.Node, rep string) {
	n.Replacement = rep
	n.ReplacementSet = true
}

func Test_HideUnremovable_hidesMandatoryNonEmptyReplacement(t *testing.T) {
	// S -> leaf "x"; the leaf has a non-empty mandatory replacement and no
	// Quantifier parent, so it cannot be removed and must be hidden.
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "x", "x", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	leaf := tree.Children(tree.Root())[0]
	setReplacement(leaf, "0")

	err = HideUnremovable{}.Apply(tree)
	require.NoError(t, err)

	assert.Equal(t, hddtree.Hidden, tree.Node(leaf.ID).State)
}

func Test_HideUnremovable_leavesEmptyReplacementRemovable(t *testing.T) {
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "x", "x", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	leaf := tree.Children(tree.Root())[0]
	setReplacement(leaf, "")

	err = HideUnremovable{}.Apply(tree)
	require.NoError(t, err)

	assert.Equal(t, hddtree.Keep, tree.Node(leaf.ID).State)
}

func Test_HideUnremovable_quantifierChildStaysRemovable(t *testing.T) {
	// S -> Q -> leaf "x"; the leaf has a non-empty replacement but its
	// parent is a Quantifier, so it remains removable.
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.RuleNode(hddtree.Quantifier, "", hddtree.Span{},
			hddtree.LeafNode(hddtree.Token, "x", "x", hddtree.Span{}),
		),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	leaf := tree.Children(tree.Children(tree.Root())[0])[0]
	setReplacement(leaf, "0")

	err = HideUnremovable{}.Apply(tree)
	require.NoError(t, err)

	assert.Equal(t, hddtree.Keep, tree.Node(leaf.ID).State)
}

func Test_HideUnremovable_alwaysHidesHiddenTokens(t *testing.T) {
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.LeafNode(hddtree.HiddenToken, "ws", " ", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	leaf := tree.Children(tree.Root())[0]
	setReplacement(leaf, "")

	err = HideUnremovable{}.Apply(tree)
	require.NoError(t, err)

	assert.Equal(t, hddtree.Hidden, tree.Node(leaf.ID).State)
}

func Test_HideUnremovable_errorTokenAlwaysHidden(t *testing.T) {
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.LeafNode(hddtree.ErrorToken, "err", "?", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	leaf := tree.Children(tree.Root())[0]
	setReplacement(leaf, "")

	err = HideUnremovable{}.Apply(tree)
	require.NoError(t, err)

	assert.Equal(t, hddtree.Hidden, tree.Node(leaf.ID).State)
}

func Test_HideUnremovable_unresolvedReplacementHidden(t *testing.T) {
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "x", "x", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	leaf := tree.Children(tree.Root())[0]
	// ReplacementSet left false.

	err = HideUnremovable{}.Apply(tree)
	require.NoError(t, err)

	assert.Equal(t, hddtree.Hidden, tree.Node(leaf.ID).State)
}

func Test_HideUnremovable_neverHidesRoot(t *testing.T) {
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "x", "x", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	err = HideUnremovable{}.Apply(tree)
	require.NoError(t, err)

	assert.Equal(t, hddtree.Keep, tree.Root().State)
}
