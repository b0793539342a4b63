package engine

import (
	"context"

	"github.com/dekarrin/picireny/internal/ddmin"
	"github.com/dekarrin/picireny/internal/hddtree"
)

// hoistPass walks tree left-to-right and, for every removable non-terminal,
// greedily tries replacing it with each same-named descendant in
// shallowest-first order, accepting the first the oracle still calls
// Interesting (spec §4.3's hoist move). Pruning alone can only delete a
// removable node wholesale; hoisting is what collapses
// "stmt -> block -> stmt -> block -> ';'" nesting down to the innermost
// ';' in one move, since the innermost stmt is not itself removable (its
// ';' must survive) but is a valid substitute for every stmt above it.
//
// Accepted hoists are committed to tree immediately, so a later candidate
// in the same walk sees the already-shrunk tree.
//
// Unlike pruning, hoisting considers HIDDEN non-terminals too: a node whose
// own subtree can never be blanked (no computed replacement) may still have
// a structurally valid stand-in further down, and hoisting is the only move
// that can reach it.
func (r *Reducer) hoistPass(ctx context.Context, tree *hddtree.Tree) (bool, error) {
	var ids []int
	tree.Walk(func(n *hddtree.Node) bool {
		ids = append(ids, n.ID)
		return true
	})

	changed := false
	for _, id := range ids {
		n := tree.Node(id)
		if n == nil || n.IsTerminal() || tree.IsRoot(id) || n.State == hddtree.Remove {
			continue
		}

		for _, d := range hoistDescendants(tree, n) {
			ok, err := r.tryHoist(ctx, tree, n, d.ID)
			if err != nil {
				return changed, err
			}
			if ok {
				changed = true
				break
			}
		}
	}

	return changed, nil
}

// hoistDescendants returns n's proper descendants sharing n's Name, in
// breadth-first (shallowest first), left-to-right order — "shallowest
// descendant first" from spec §4.3, since replacing with a shallower
// descendant discards more of n's own subtree.
func hoistDescendants(tree *hddtree.Tree, n *hddtree.Node) []*hddtree.Node {
	var out []*hddtree.Node
	queue := append([]int(nil), n.Children...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		c := tree.Node(id)
		if c == nil {
			continue
		}
		if !c.IsTerminal() && c.Name == n.Name {
			out = append(out, c)
		}
		queue = append(queue, c.Children...)
	}
	return out
}

// tryHoist materializes the candidate where n is replaced by descendant d
// (on a clone) and queries the oracle. On acceptance the same splice is
// repeated against the live tree.
func (r *Reducer) tryHoist(ctx context.Context, tree *hddtree.Tree, n *hddtree.Node, dID int) (bool, error) {
	candidate := tree.Clone()
	spliceHoist(candidate, n.ID, dID)

	verdict, err := r.Bridge.Test(ctx, candidate)
	if err != nil {
		return false, err
	}
	if verdict != ddmin.Interesting {
		return false, nil
	}

	spliceHoist(tree, n.ID, dID)
	return true, nil
}

// spliceHoist replaces node nID with node dID in place: dID takes over
// nID's slot in its parent's Children list and is reparented accordingly.
// nID itself is left in the arena, unreferenced, so ids already recorded
// against it (P5) stay valid even though it no longer contributes to
// unparse output.
func spliceHoist(tree *hddtree.Tree, nID, dID int) {
	n := tree.Node(nID)
	d := tree.Node(dID)
	parent := tree.Node(n.ParentID)

	for i, cid := range parent.Children {
		if cid == nID {
			parent.Children[i] = dID
			break
		}
	}
	d.ParentID = parent.ID
}
