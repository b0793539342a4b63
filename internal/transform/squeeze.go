package transform

import "github.com/dekarrin/picireny/internal/hddtree"

// Squeeze collapses any chain of unary rule applications
// R1 -> R2 -> ... -> Rk -> child (each Ri a Rule node with exactly one
// child) into a single node that keeps R1's id and position but is renamed
// to Rk, with child reattached directly as its one child (spec §4.2). The
// R2..Rk nodes drop out of the tree; unparse output is unaffected
// since they contributed nothing but indirection.
type Squeeze struct{}

func (Squeeze) Apply(tree *hddtree.Tree) error {
	squeezeFrom(tree, tree.RootID())
	return nil
}

func squeezeFrom(tree *hddtree.Tree, id int) {
	n := tree.Node(id)
	if n == nil || n.IsTerminal() {
		return
	}

	squeezeNode(tree, n)

	for _, cid := range n.Children {
		squeezeFrom(tree, cid)
	}
}

func squeezeNode(tree *hddtree.Tree, n *hddtree.Node) {
	if n.Kind != hddtree.Rule || len(n.Children) != 1 {
		return
	}

	cur := n
	for {
		if cur.Kind != hddtree.Rule || len(cur.Children) != 1 {
			break
		}
		child := tree.Node(cur.Children[0])
		if child.Kind != hddtree.Rule || len(child.Children) != 1 {
			break
		}
		cur = child
	}

	if cur.ID == n.ID {
		return
	}

	finalChild := cur.Children[0]
	n.Name = cur.Name
	n.Children = []int{finalChild}
	reparent(tree, finalChild, n.ID)
}
