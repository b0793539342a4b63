package transform

import (
	"testing"

	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/unparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Squeeze_collapsesUnaryChain(t *testing.T) {
	// S -> A -> B -> C(leaf "x")
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.RuleNode(hddtree.Rule, "A", hddtree.Span{},
			hddtree.RuleNode(hddtree.Rule, "B", hddtree.Span{},
				hddtree.RuleNode(hddtree.Rule, "C", hddtree.Span{},
					hddtree.LeafNode(hddtree.Token, "x", "x", hddtree.Span{}),
				),
			),
		),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	rootID := tree.RootID()
	before := unparse.Default(tree)

	err = Squeeze{}.Apply(tree)
	require.NoError(t, err)

	root := tree.Node(rootID)
	assert.Equal(t, rootID, root.ID, "root id preserved")
	assert.Equal(t, "C", root.Name, "renamed to innermost rule")
	assert.Equal(t, before, unparse.Default(tree))
}

func Test_Squeeze_stopsAtNonUnaryNode(t *testing.T) {
	// S -> A -> B(two children: leaf, leaf). B has two children so it is
	// not itself a unary rule application: it is the chain's "child"
	// endpoint, not part of the collapsed run. A is Rk (the last node with
	// exactly one child), so S collapses onto a single node named "A" with
	// B reattached as its one child.
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.RuleNode(hddtree.Rule, "A", hddtree.Span{},
			hddtree.RuleNode(hddtree.Rule, "B", hddtree.Span{},
				hddtree.LeafNode(hddtree.Token, "x", "x", hddtree.Span{}),
				hddtree.LeafNode(hddtree.Token, "y", "y", hddtree.Span{}),
			),
		),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	err = Squeeze{}.Apply(tree)
	require.NoError(t, err)

	root := tree.Root()
	assert.Equal(t, "A", root.Name)
	assert.Len(t, root.Children, 1)
	assert.Equal(t, "xy", unparse.Default(tree))
}

func Test_Squeeze_noChainIsNoOp(t *testing.T) {
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "x", "x", hddtree.Span{}),
		hddtree.LeafNode(hddtree.Token, "y", "y", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	err = Squeeze{}.Apply(tree)
	require.NoError(t, err)
	assert.Equal(t, "S", tree.Root().Name)
}
