package transform

import "github.com/dekarrin/picireny/internal/hddtree"

// HideUnremovable marks nodes the HDD engine must never present to DDMIN
// because removing them would leave their parent grammar-invalid
// regardless of replacement (spec §4.2). A node is removable iff either
// its cached replacement is empty, or it sits directly under a Quantifier
// node — Quantifier children are, by invariant I3, jointly optional, which
// is exactly the "parent rule admits deletion of the corresponding
// position" clause of the spec's removability rule. Everything else with a
// non-empty mandatory replacement is transitioned to HIDDEN: still
// rendered by the unparser, invisible to the reducer.
//
// HiddenToken nodes are always hidden by this pass as well, matching their
// default reducer-invisibility (spec §3, I5), whatever state they carried
// before the pass ran; this pass has no option that opts a hidden channel
// into reduction.
type HideUnremovable struct{}

func (HideUnremovable) Apply(tree *hddtree.Tree) error {
	root := tree.RootID()
	tree.Walk(func(n *hddtree.Node) bool {
		if n.ID == root {
			return true
		}
		if n.Kind == hddtree.HiddenToken || !removable(tree, n) {
			n.State = hddtree.Hidden
		}
		return true
	})
	return nil
}

func removable(tree *hddtree.Tree, n *hddtree.Node) bool {
	if n.Kind == hddtree.ErrorToken {
		return false
	}
	if !n.ReplacementSet {
		return false
	}
	if n.Replacement == "" {
		return true
	}
	parent := tree.Parent(n)
	if parent != nil && parent.Kind == hddtree.Quantifier {
		return true
	}
	return false
}
