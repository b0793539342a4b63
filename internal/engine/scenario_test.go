package engine

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/dekarrin/picireny/internal/ddmin"
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/oracle"
	"github.com/dekarrin/picireny/internal/transform"
	"github.com/dekarrin/picireny/internal/unparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// regexOracle is INTERESTING iff pattern matches the candidate text.
func regexOracle(pattern string) oracle.Oracle {
	re := regexp.MustCompile(pattern)
	return oracle.Func(func(ctx context.Context, input []byte) (oracle.Verdict, error) {
		if re.Match(input) {
			return oracle.Interesting, nil
		}
		return oracle.NotInteresting, nil
	})
}

// containsAllOracle is INTERESTING iff every needle is present in the
// candidate text.
func containsAllOracle(needles ...string) oracle.Oracle {
	return oracle.Func(func(ctx context.Context, input []byte) (oracle.Verdict, error) {
		s := string(input)
		for _, n := range needles {
			if !strings.Contains(s, n) {
				return oracle.NotInteresting, nil
			}
		}
		return oracle.Interesting, nil
	})
}

// namedNodeReachable reports whether a Rule node named name, not in state
// REMOVE, is reachable from tree's root.
func namedNodeReachable(tree *hddtree.Tree, name string) bool {
	found := false
	tree.Walk(func(n *hddtree.Node) bool {
		if n.Kind == hddtree.Rule && n.Name == name && n.State != hddtree.Remove {
			found = true
			return false
		}
		return true
	})
	return found
}

// Test_S1_INICommentRemoval models spec §8 S1: a trailing comment line is
// prunable, while the oracle only cares that "k=v" survives somewhere in
// the output.
func Test_S1_INICommentRemoval(t *testing.T) {
	desc := hddtree.RuleNode(hddtree.Rule, "ini", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "header", "[s]\n", hddtree.Span{}),
		hddtree.LeafNode(hddtree.Token, "keyval", "k=v\n", hddtree.Span{}),
		hddtree.LeafNode(hddtree.Token, "comment", "; bye\n", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)
	markRemovable(tree.Children(tree.Root())...)

	original := unparse.Default(tree)
	r := New(containsAllOracle("k=v"), Config{Strategy: BFS, FixedPoint: true})

	_, err = r.Reduce(context.Background(), tree)
	require.NoError(t, err)

	final := unparse.Default(tree)
	assert.Contains(t, final, "k=v", "P1: oracle-preserving")
	assert.LessOrEqual(t, len(final), len(original), "P2: monotonic")
}

// Test_S2_JSONIslandInINI models spec §8 S2: an island-grammar value (here
// stood in by a flat pair list rather than a real JSON parse) loses its
// unnecessary key while the required one survives.
func Test_S2_JSONIslandInINI(t *testing.T) {
	desc := hddtree.RuleNode(hddtree.Rule, "ini", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "prefix", "[s]\nj=", hddtree.Span{}),
		hddtree.RuleNode(hddtree.Rule, "json", hddtree.Span{},
			hddtree.LeafNode(hddtree.Token, "brace", "{", hddtree.Span{}),
			hddtree.RuleNode(hddtree.Rule, "pair", hddtree.Span{},
				hddtree.LeafNode(hddtree.Token, "text", "\"a\":1", hddtree.Span{}),
			),
			hddtree.LeafNode(hddtree.Token, "comma", ",", hddtree.Span{}),
			hddtree.RuleNode(hddtree.Rule, "pair", hddtree.Span{},
				hddtree.LeafNode(hddtree.Token, "text", "\"b\":2", hddtree.Span{}),
			),
			hddtree.LeafNode(hddtree.Token, "brace", "}", hddtree.Span{}),
		),
		hddtree.LeafNode(hddtree.Token, "suffix", "\n", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	json := tree.Children(tree.Root())[1]
	markRemovable(tree.Children(json)...)

	original := unparse.Default(tree)
	r := New(containsAllOracle("\"a\":1"), Config{Strategy: BFS, FixedPoint: true})

	_, err = r.Reduce(context.Background(), tree)
	require.NoError(t, err)

	final := unparse.Default(tree)
	assert.Contains(t, final, "\"a\":1")
	assert.NotContains(t, final, "\"b\":2", "the unneeded key should be dropped")
	assert.LessOrEqual(t, len(final), len(original))
}

// Test_S3_LeftRecursiveArithmetic models spec §8 S3: a left-recursive E
// chain is flattened, then pruned down to the shortest digit-plus-digit
// triple still matching the oracle.
func Test_S3_LeftRecursiveArithmetic(t *testing.T) {
	mkE := func(children ...*hddtree.Node) *hddtree.Node {
		return hddtree.RuleNode(hddtree.Rule, "E", hddtree.Span{}, children...)
	}
	plus := func() *hddtree.Node { return hddtree.LeafNode(hddtree.Token, "plus", "+", hddtree.Span{}) }
	num := func(s string) *hddtree.Node { return hddtree.LeafNode(hddtree.Token, "int", s, hddtree.Span{}) }

	e1 := mkE(num("1"))
	e2 := mkE(e1, plus(), num("2"))
	e3 := mkE(e2, plus(), num("3"))
	e4 := mkE(e3, plus(), num("4"))

	tree, err := hddtree.Build(e4)
	require.NoError(t, err)

	for _, n := range tree.Leaves() {
		markRemovable(n)
	}

	r := New(regexOracle(`\d\+\d`), Config{Strategy: BFS, FixedPoint: true})

	require.NoError(t, (transform.FlattenRecursion{}).Apply(tree))

	original := unparse.Default(tree)
	_, err = r.Reduce(context.Background(), tree)
	require.NoError(t, err)

	final := unparse.Default(tree)
	assert.Regexp(t, `\d\+\d`, final, "P1: oracle-preserving")
	assert.LessOrEqual(t, len(final), len(original), "P2: monotonic")
}

// Test_S4_HTMLKeepOneTagPair models spec §8 S4: of two sibling <p> tags,
// only one needs to survive for the oracle to stay satisfied.
func Test_S4_HTMLKeepOneTagPair(t *testing.T) {
	mkP := func(inner string) *hddtree.Node {
		return hddtree.RuleNode(hddtree.Rule, "p", hddtree.Span{},
			hddtree.LeafNode(hddtree.Token, "open", "<p>", hddtree.Span{}),
			hddtree.LeafNode(hddtree.Token, "text", inner, hddtree.Span{}),
			hddtree.LeafNode(hddtree.Token, "close", "</p>", hddtree.Span{}),
		)
	}
	body := hddtree.RuleNode(hddtree.Rule, "body", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "open", "<body>", hddtree.Span{}),
		mkP("x"),
		mkP("y"),
		hddtree.LeafNode(hddtree.Token, "close", "</body>", hddtree.Span{}),
	)
	desc := hddtree.RuleNode(hddtree.Rule, "html", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "open", "<html>", hddtree.Span{}),
		body,
		hddtree.LeafNode(hddtree.Token, "close", "</html>", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)
	for _, n := range tree.Leaves() {
		markRemovable(n)
	}

	original := unparse.Default(tree)
	r := New(containsAllOracle("<p>"), Config{Strategy: BFS, FixedPoint: true})

	_, err = r.Reduce(context.Background(), tree)
	require.NoError(t, err)

	final := unparse.Default(tree)
	assert.Contains(t, final, "<p>", "P1: oracle-preserving")
	assert.LessOrEqual(t, len(final), len(original), "P2: monotonic")
}

// buildNestedBlocks builds the S5 "{ { { ; } } }" fixture: an S root whose
// child is a chain of "stmt -> block -> stmt -> ... -> ';'" wrappers. The
// wrapper Rule nodes are left HIDDEN (no computed replacement, as
// transform.HideUnremovable would leave an un-blankable non-terminal),
// so only hoisting — never pruning — can collapse them.
func buildNestedBlocks(t *testing.T) (*hddtree.Tree, *hddtree.Node) {
	t.Helper()

	semi := hddtree.LeafNode(hddtree.Token, "semi", ";", hddtree.Span{})
	innerStmt := hddtree.RuleNode(hddtree.Rule, "stmt", hddtree.Span{}, semi)
	block3 := hddtree.RuleNode(hddtree.Rule, "block", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "open", "{", hddtree.Span{}),
		innerStmt,
		hddtree.LeafNode(hddtree.Token, "close", "}", hddtree.Span{}),
	)
	stmt3 := hddtree.RuleNode(hddtree.Rule, "stmt", hddtree.Span{}, block3)
	block2 := hddtree.RuleNode(hddtree.Rule, "block", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "open", "{", hddtree.Span{}),
		stmt3,
		hddtree.LeafNode(hddtree.Token, "close", "}", hddtree.Span{}),
	)
	stmt2 := hddtree.RuleNode(hddtree.Rule, "stmt", hddtree.Span{}, block2)
	block1 := hddtree.RuleNode(hddtree.Rule, "block", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "open", "{", hddtree.Span{}),
		stmt2,
		hddtree.LeafNode(hddtree.Token, "close", "}", hddtree.Span{}),
	)
	stmt1 := hddtree.RuleNode(hddtree.Rule, "stmt", hddtree.Span{}, block1)
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{}, stmt1)

	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	// Every "stmt"/"block" Rule node is un-blankable (HIDDEN); only the
	// leaf braces and the semicolon are directly prunable.
	tree.Walk(func(n *hddtree.Node) bool {
		if n.Kind == hddtree.Rule && n.Name != "S" {
			n.State = hddtree.Hidden
		} else if n.IsTerminal() {
			markRemovable(n)
		}
		return true
	})

	return tree, tree.Root()
}

// Test_S5_WithoutHoistWrapperPersists shows pruning's blind spot: it can
// never remove a HIDDEN wrapper outright, so the "block"/"stmt" nesting
// structurally survives even once the oracle is satisfied.
func Test_S5_WithoutHoistWrapperPersists(t *testing.T) {
	tree, _ := buildNestedBlocks(t)
	r := New(containsAllOracle(";"), Config{Strategy: BFS, FixedPoint: true, Hoist: false})

	_, err := r.Reduce(context.Background(), tree)
	require.NoError(t, err)

	assert.Contains(t, unparse.Default(tree), ";")
	assert.True(t, namedNodeReachable(tree, "block"), "pruning alone cannot remove a HIDDEN wrapper node")
}

// Test_S5_HoistCollapsesNestedWrapper shows the hoist move doing what
// pruning cannot: replacing the whole wrapper chain with its innermost
// same-named descendant, down to ";" alone.
func Test_S5_HoistCollapsesNestedWrapper(t *testing.T) {
	tree, _ := buildNestedBlocks(t)
	original := unparse.Default(tree)
	r := New(containsAllOracle(";"), Config{Strategy: BFS, FixedPoint: true, Hoist: true})

	_, err := r.Reduce(context.Background(), tree)
	require.NoError(t, err)

	final := unparse.Default(tree)
	assert.Equal(t, ";", final)
	assert.Less(t, len(final), len(original))
	assert.False(t, namedNodeReachable(tree, "block"), "hoisting should collapse every block wrapper")
}

// Test_P3_OneTreeMinimalAfterReduce checks spec §8 P3 directly: once Reduce
// returns, removing any single remaining removable node by itself must no
// longer satisfy the oracle. Every surviving candidate is re-tested through
// Bridge.Test here, independently of oneMinimalCleanup's own pass.
func Test_P3_OneTreeMinimalAfterReduce(t *testing.T) {
	tree := buildNested(t)
	r := New(containsOracle("2"), Config{Strategy: BFS, FixedPoint: true})

	_, err := r.Reduce(context.Background(), tree)
	require.NoError(t, err)

	tree.Walk(func(n *hddtree.Node) bool {
		if !candidate(tree, n) || hasRemovedAncestor(tree, n) {
			return true
		}

		solo := tree.Clone()
		solo.Node(n.ID).State = hddtree.Remove
		verdict, err := r.Bridge.Test(context.Background(), solo)
		require.NoError(t, err)
		assert.NotEqual(t, ddmin.Interesting, verdict, "node %d (%s %q) is still solo-removable after Reduce", n.ID, n.Kind, n.Name)
		return true
	})
}

// Test_S6_Idempotence models spec §8 S6: running Reduce again on an
// already-minimal tree with the same oracle performs zero further
// oracle-positive reductions.
func Test_S6_Idempotence(t *testing.T) {
	tree := buildFlatThree(t)
	r := New(containsOracle("2"), Config{Strategy: BFS, FixedPoint: true})

	_, err := r.Reduce(context.Background(), tree)
	require.NoError(t, err)
	firstOutput := unparse.Default(tree)

	passes, err := r.Reduce(context.Background(), tree)
	require.NoError(t, err)
	secondOutput := unparse.Default(tree)

	assert.Equal(t, firstOutput, secondOutput)
	assert.Equal(t, 1, passes, "a pass over an already-minimal tree finds nothing to change")
}
