package bridge

import (
	"context"
	"testing"

	"github.com/dekarrin/picireny/internal/ddmin"
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSum builds S -> T('1') T('2') T('3') so that removing any T changes
// the unparsed digit string.
func buildSum(t *testing.T) (*hddtree.Tree, []int) {
	t.Helper()
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "int", "1", hddtree.Span{}),
		hddtree.LeafNode(hddtree.Token, "int", "2", hddtree.Span{}),
		hddtree.LeafNode(hddtree.Token, "int", "3", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)

	ids := make([]int, 0, 3)
	for _, c := range tree.Children(tree.Root()) {
		c.Replacement = ""
		c.ReplacementSet = true
		ids = append(ids, c.ID)
	}
	return tree, ids
}

func Test_Bridge_LevelTest_rendersRemovedAsReplacement(t *testing.T) {
	tree, ids := buildSum(t)

	var sawInputs []string
	o := oracle.Func(func(ctx context.Context, input []byte) (oracle.Verdict, error) {
		sawInputs = append(sawInputs, string(input))
		if string(input) == "13" {
			return oracle.Interesting, nil
		}
		return oracle.NotInteresting, nil
	})

	b := New(o, 0)
	test := b.LevelTest(tree, ids)

	kept := []int{ids[0], ids[2]}
	v, err := test(context.Background(), kept)
	require.NoError(t, err)
	assert.Equal(t, ddmin.Interesting, v)
	assert.Contains(t, sawInputs, "13")
}

func Test_Bridge_LevelTest_doesNotMutateBaseline(t *testing.T) {
	tree, ids := buildSum(t)
	o := oracle.Func(func(ctx context.Context, input []byte) (oracle.Verdict, error) {
		return oracle.NotInteresting, nil
	})
	b := New(o, 0)
	test := b.LevelTest(tree, ids)

	_, err := test(context.Background(), []int{ids[0]})
	require.NoError(t, err)

	for _, id := range ids {
		assert.Equal(t, hddtree.Keep, tree.Node(id).State, "baseline must remain untouched")
	}
}

func Test_Bridge_LevelTest_cachesIdenticalCandidates(t *testing.T) {
	tree, ids := buildSum(t)
	calls := 0
	o := oracle.Func(func(ctx context.Context, input []byte) (oracle.Verdict, error) {
		calls++
		return oracle.Interesting, nil
	})
	b := New(o, 10)
	test := b.LevelTest(tree, ids)

	_, err := test(context.Background(), []int{ids[0], ids[1]})
	require.NoError(t, err)
	_, err = test(context.Background(), []int{ids[0], ids[1]})
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second identical candidate should be served from cache")
}

func Test_Bridge_LevelBatchTest_matchesLevelTestPerSubset(t *testing.T) {
	tree, ids := buildSum(t)
	o := oracle.Func(func(ctx context.Context, input []byte) (oracle.Verdict, error) {
		if string(input) == "13" {
			return oracle.Interesting, nil
		}
		return oracle.NotInteresting, nil
	})

	b := New(o, 0)
	batch := b.LevelBatchTest(tree, ids, 4)

	subsets := [][]int{
		{ids[0], ids[2]},
		{ids[0], ids[1]},
	}
	verdicts, err := batch(context.Background(), subsets)
	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	assert.Equal(t, ddmin.Interesting, verdicts[0])
	assert.Equal(t, ddmin.NotInteresting, verdicts[1])
}

func Test_Bridge_LevelBatchTest_cachesAcrossCalls(t *testing.T) {
	tree, ids := buildSum(t)
	calls := 0
	o := oracle.Func(func(ctx context.Context, input []byte) (oracle.Verdict, error) {
		calls++
		return oracle.Interesting, nil
	})

	b := New(o, 10)
	batch := b.LevelBatchTest(tree, ids, 4)

	subsets := [][]int{{ids[0], ids[1]}}
	_, err := batch(context.Background(), subsets)
	require.NoError(t, err)
	_, err = batch(context.Background(), subsets)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second identical candidate should be served from cache")
}

func Test_Bridge_LevelBatchTest_doesNotMutateBaseline(t *testing.T) {
	tree, ids := buildSum(t)
	o := oracle.Func(func(ctx context.Context, input []byte) (oracle.Verdict, error) {
		return oracle.NotInteresting, nil
	})
	b := New(o, 0)
	batch := b.LevelBatchTest(tree, ids, 4)

	_, err := batch(context.Background(), [][]int{{ids[0]}, {ids[1]}})
	require.NoError(t, err)

	for _, id := range ids {
		assert.Equal(t, hddtree.Keep, tree.Node(id).State, "baseline must remain untouched")
	}
}

func Test_Commit_marksComplementAsRemove(t *testing.T) {
	tree, ids := buildSum(t)
	Commit(tree, ids, []int{ids[0], ids[2]})

	assert.Equal(t, hddtree.Keep, tree.Node(ids[0]).State)
	assert.Equal(t, hddtree.Remove, tree.Node(ids[1]).State)
	assert.Equal(t, hddtree.Keep, tree.Node(ids[2]).State)
}
