package engine

import (
	"context"

	"github.com/dekarrin/picireny/internal/bridge"
	"github.com/dekarrin/picireny/internal/hddtree"
)

// recursivePass reduces one subtree at a time: a node's direct candidate
// children are minimized together, then the pass recurses into each
// surviving, non-terminal child before moving to the next sibling (spec
// §5's HDDr, which explores depth-first rather than level-by-level so a
// reduction deep in one subtree can happen before a sibling subtree is even
// visited).
func (r *Reducer) recursivePass(ctx context.Context, tree *hddtree.Tree) (bool, error) {
	r.coarseFilterIfEnabled(tree)
	return r.recursiveNode(ctx, tree, tree.RootID())
}

func (r *Reducer) recursiveNode(ctx context.Context, tree *hddtree.Tree, id int) (bool, error) {
	n := tree.Node(id)
	if n == nil || n.IsTerminal() {
		return false, nil
	}

	changed := false

	children := directCandidates(tree, n)
	if len(children) > 0 {
		kept, err := r.minimizeLevel(ctx, tree, children)
		if err != nil {
			return changed, err
		}
		if len(kept) < len(children) {
			changed = true
		}
		bridge.Commit(tree, children, kept)

		if r.Config.Strategy == CoarseRecursive {
			r.coarseFilterIfEnabled(tree)
		}
	}

	for _, cid := range n.Children {
		c := tree.Node(cid)
		if c == nil || c.State == hddtree.Remove || c.IsTerminal() {
			continue
		}
		sub, err := r.recursiveNode(ctx, tree, cid)
		if err != nil {
			return changed, err
		}
		changed = changed || sub
	}

	return changed, nil
}

// directCandidates returns n's immediate children that are still eligible
// for ddmin (not already removed or hidden).
func directCandidates(tree *hddtree.Tree, n *hddtree.Node) []int {
	out := make([]int, 0, len(n.Children))
	for _, cid := range n.Children {
		c := tree.Node(cid)
		if c != nil && candidate(tree, c) {
			out = append(out, cid)
		}
	}
	return out
}
