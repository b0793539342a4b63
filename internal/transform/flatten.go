package transform

import "github.com/dekarrin/picireny/internal/hddtree"

// FlattenRecursion rewrites left- or right-recursive rule chains
// R(R(R(base, X), Y), Z) into a single wide Rule node
// R(children=[R(base, X), Y, Z]) (or the symmetric right-recursive shape):
// the innermost R, which no longer recurses, stays whole as one child, so
// level-based enumeration sees one wide level instead of a tall spine
// (spec §4.2). It is a pure shape rewrite: unparse order is unaffected,
// since every moved child keeps its original id and relative order.
type FlattenRecursion struct{}

func (FlattenRecursion) Apply(tree *hddtree.Tree) error {
	flattenFrom(tree, tree.RootID())
	return nil
}

func flattenFrom(tree *hddtree.Tree, id int) {
	n := tree.Node(id)
	if n == nil || n.IsTerminal() {
		return
	}

	flattenNode(tree, n)

	// Recurse into the (possibly rewritten) children.
	for _, cid := range append([]int(nil), n.Children...) {
		flattenFrom(tree, cid)
	}
}

// flattenNode flattens a single left- or right-recursive chain rooted at
// n, if n's immediate children show the recursive pattern.
func flattenNode(tree *hddtree.Tree, n *hddtree.Node) {
	if n.Kind != hddtree.Rule {
		return
	}

	if isLeftRecursive(tree, n) {
		flattenLeft(tree, n)
	} else if isRightRecursive(tree, n) {
		flattenRight(tree, n)
	}
}

func isLeftRecursive(tree *hddtree.Tree, n *hddtree.Node) bool {
	if len(n.Children) == 0 {
		return false
	}
	first := tree.Node(n.Children[0])
	return first.Kind == hddtree.Rule && first.Name == n.Name
}

func isRightRecursive(tree *hddtree.Tree, n *hddtree.Node) bool {
	if len(n.Children) == 0 {
		return false
	}
	last := tree.Node(n.Children[len(n.Children)-1])
	return last.Kind == hddtree.Rule && last.Name == n.Name
}

// flattenLeft collapses R(R(R(base, x1), x2), x3, ...) into
// R(children=[R(base, x1), x2, x3...]).
func flattenLeft(tree *hddtree.Tree, root *hddtree.Node) {
	var spine []*hddtree.Node
	cur := root
	for {
		spine = append(spine, cur)
		if len(cur.Children) == 0 {
			break
		}
		first := tree.Node(cur.Children[0])
		if first.Kind == hddtree.Rule && first.Name == root.Name {
			cur = first
			continue
		}
		break
	}
	base := cur

	newChildren := []int{base.ID}
	for i := len(spine) - 2; i >= 0; i-- {
		newChildren = append(newChildren, spine[i].Children[1:]...)
	}

	for _, cid := range newChildren {
		reparent(tree, cid, root.ID)
	}
	root.Children = newChildren
}

// flattenRight collapses R(x1, R(x2, R(x3, base))) into
// R(children=[x1, x2, R(x3, base)]).
func flattenRight(tree *hddtree.Tree, root *hddtree.Node) {
	var spine []*hddtree.Node
	cur := root
	for {
		spine = append(spine, cur)
		if len(cur.Children) == 0 {
			break
		}
		last := tree.Node(cur.Children[len(cur.Children)-1])
		if last.Kind == hddtree.Rule && last.Name == root.Name {
			cur = last
			continue
		}
		break
	}
	base := cur

	var newChildren []int
	for i := 0; i < len(spine)-1; i++ {
		c := spine[i].Children
		newChildren = append(newChildren, c[:len(c)-1]...)
	}
	newChildren = append(newChildren, base.ID)

	for _, cid := range newChildren {
		reparent(tree, cid, root.ID)
	}
	root.Children = newChildren
}
