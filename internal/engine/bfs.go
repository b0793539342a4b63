package engine

import (
	"context"

	"github.com/dekarrin/picireny/internal/bridge"
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/emirpasic/gods/lists/arraylist"
)

// bfsPass groups candidate nodes by depth from the root and runs ddmin
// level by level, top-down. A node whose ancestor was removed earlier in
// this same pass is skipped: its text no longer contributes independently
// of its already-decided ancestor.
func (r *Reducer) bfsPass(ctx context.Context, tree *hddtree.Tree) (bool, error) {
	r.coarseFilterIfEnabled(tree)

	levels := levelsByDepth(tree)
	changed := false

	for _, level := range levels {
		live := liveIDs(tree, level.Values())
		if len(live) == 0 {
			continue
		}

		kept, err := r.minimizeLevel(ctx, tree, live)
		if err != nil {
			return changed, err
		}

		if len(kept) < len(live) {
			changed = true
		}

		// Commit against the real tree so later levels see the removal.
		bridge.Commit(tree, live, kept)

		if r.Config.Strategy == CoarseBFS {
			r.coarseFilterIfEnabled(tree)
		}
	}

	return changed, nil
}

// levelsByDepth groups every non-root node id by its depth from the root,
// in pre-order within each depth (spec §5's "breadth-first, by tree depth"
// level enumerator). Each level is built as an emirpasic/gods arraylist
// rather than a plain slice: the BFS worklist is exactly the ordered,
// randomly-indexable collection arraylist.List models, the same role it
// plays for npillmayer-gorgo's LR automaton edge list
// (lr/tables.go's c.edges).
func levelsByDepth(tree *hddtree.Tree) []*arraylist.List {
	var levels []*arraylist.List
	var walk func(id, depth int)
	walk = func(id, depth int) {
		n := tree.Node(id)
		if n == nil {
			return
		}
		if depth > 0 {
			for len(levels) < depth {
				levels = append(levels, arraylist.New())
			}
			levels[depth-1].Add(id)
		}
		for _, cid := range n.Children {
			walk(cid, depth+1)
		}
	}
	walk(tree.RootID(), 0)
	return levels
}

// liveIDs filters a level's ids down to those still eligible for ddmin:
// not root, still KEEP, and not descended from a node already removed.
func liveIDs(tree *hddtree.Tree, ids []interface{}) []int {
	out := make([]int, 0, len(ids))
	for _, raw := range ids {
		id := raw.(int)
		n := tree.Node(id)
		if n == nil || !candidate(tree, n) {
			continue
		}
		if hasRemovedAncestor(tree, n) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func hasRemovedAncestor(tree *hddtree.Tree, n *hddtree.Node) bool {
	for p := tree.Parent(n); p != nil; p = tree.Parent(p) {
		if p.State == hddtree.Remove {
			return true
		}
	}
	return false
}
