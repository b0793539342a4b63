package transform

import (
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/unparse"
)

// CoarseFilter additionally hides nodes whose subtree currently unparses to
// exactly their cached replacement: removing such a node changes nothing,
// so presenting it to DDMIN would only waste oracle calls (spec §4.2). It
// is meant to be re-run at the start of every HDD pass for the Coarse HDD
// variants, since the tree shrinks across passes and a node that had
// something to gain in an earlier pass may not in a later one.
type CoarseFilter struct {
	Config unparse.Config
}

func (c CoarseFilter) Apply(tree *hddtree.Tree) error {
	root := tree.RootID()
	tree.Walk(func(n *hddtree.Node) bool {
		if n.ID == root || n.State != hddtree.Keep {
			return true
		}
		if !n.ReplacementSet {
			return true
		}
		if unparse.Subtree(tree, n, c.Config) == n.Replacement {
			n.State = hddtree.Hidden
		}
		return true
	})
	return nil
}
