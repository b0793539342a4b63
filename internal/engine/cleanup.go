package engine

import (
	"context"

	"github.com/dekarrin/picireny/internal/ddmin"
	"github.com/dekarrin/picireny/internal/hddtree"
)

// oneMinimalCleanup tests every remaining removable node individually after
// a pass and removes any that the oracle still accepts alone (spec §4.3's
// "1-tree-minimality" step): DDMIN only guarantees minimality with respect
// to the chunk/complement sizes it happened to try, so a node that survived
// every round purely because it was never isolated on its own gets one more
// chance here.
func (r *Reducer) oneMinimalCleanup(ctx context.Context, tree *hddtree.Tree) (bool, error) {
	var ids []int
	tree.Walk(func(n *hddtree.Node) bool {
		ids = append(ids, n.ID)
		return true
	})

	changed := false
	for _, id := range ids {
		n := tree.Node(id)
		if n == nil || !candidate(tree, n) {
			continue
		}
		if hasRemovedAncestor(tree, n) {
			continue
		}

		candidateTree := tree.Clone()
		candidateTree.Node(id).State = hddtree.Remove

		verdict, err := r.Bridge.Test(ctx, candidateTree)
		if err != nil {
			return changed, err
		}
		if verdict == ddmin.Interesting {
			n.State = hddtree.Remove
			changed = true
		}
	}

	return changed, nil
}
