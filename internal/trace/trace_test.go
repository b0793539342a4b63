package trace

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/picireny/internal/engine"
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/input"
	"github.com/dekarrin/picireny/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) *hddtree.Tree {
	t.Helper()
	desc := hddtree.RuleNode(hddtree.Rule, "S", hddtree.Span{},
		hddtree.LeafNode(hddtree.Token, "int", "1", hddtree.Span{}),
		hddtree.LeafNode(hddtree.Token, "int", "2", hddtree.Span{}),
	)
	tree, err := hddtree.Build(desc)
	require.NoError(t, err)
	return tree
}

func containsTwo() oracle.Oracle {
	return oracle.Func(func(ctx context.Context, in []byte) (oracle.Verdict, error) {
		if strings.Contains(string(in), "2") {
			return oracle.Interesting, nil
		}
		return oracle.NotInteresting, nil
	})
}

func Test_Session_Run_stepsAndShows(t *testing.T) {
	tree := buildTree(t)
	r := engine.New(containsTwo(), engine.Config{Strategy: engine.BFS})

	var out bytes.Buffer
	sess := NewSession(tree, r, &out)

	reader := input.NewDirectReader(strings.NewReader("NEXT\nSHOW\nQUIT\n"))
	defer reader.Close()

	err := sess.Run(context.Background(), reader)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "pass 1: changed=true")
	assert.Contains(t, out.String(), "2")
}

func Test_Session_Run_save(t *testing.T) {
	tree := buildTree(t)
	r := engine.New(containsTwo(), engine.Config{Strategy: engine.BFS})

	var out bytes.Buffer
	sess := NewSession(tree, r, &out)

	path := filepath.Join(t.TempDir(), "snap.bin")
	reader := input.NewDirectReader(strings.NewReader("SAVE " + path + "\nQUIT\n"))
	defer reader.Close()

	err := sess.Run(context.Background(), reader)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "saved to "+path)
}
