package replace

import "github.com/dekarrin/picireny/internal/hddtree"

// ApplyToTree sets the cached Replacement on every node of tree from the
// computed Result, by node Kind and Name. ErrorToken nodes always get an
// empty replacement regardless of lookup (spec §3, "its presence is
// preserved but it is treated as non-removable and as having an empty
// minimal replacement").
//
// This is the step that establishes invariant I6 for a freshly built tree;
// transformations that alter a node's grammatical context must call back
// into this package (or set Replacement directly) to keep I6 true for the
// nodes they touch.
func ApplyToTree(tree *hddtree.Tree, result *Result) {
	tree.Walk(func(n *hddtree.Node) bool {
		ApplyToNode(n, result)
		return true
	})
}

// ApplyToNode sets n.Replacement from result according to n.Kind/n.Name.
func ApplyToNode(n *hddtree.Node, result *Result) {
	switch n.Kind {
	case hddtree.ErrorToken:
		n.Replacement = ""
		n.ReplacementSet = true
	case hddtree.Token, hddtree.HiddenToken:
		if rep, ok := result.Tokens[n.Name]; ok {
			n.Replacement = rep
			n.ReplacementSet = true
		}
	case hddtree.Rule, hddtree.Quantifier:
		if rep, ok := result.Rules[n.Name]; ok {
			n.Replacement = rep
			n.ReplacementSet = true
		} else if n.Kind == hddtree.Quantifier {
			// Quantifier nodes are anonymous grouping nodes with no
			// grammar-rule name of their own (spec §3); they are always
			// optional by construction, so their minimal replacement is
			// simply empty.
			n.Replacement = ""
			n.ReplacementSet = true
		}
	}
}
