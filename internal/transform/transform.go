// Package transform implements the tree-preparation rewrites the reducer
// runs before HDD reduction begins: recursion flattening, squeeze,
// hide-unremovable, and the coarse filter (spec §4.2). All of them preserve
// invariants I1, I2 and I4, and all are idempotent individually and
// composable. None of them recomputes a node's cached Replacement: every
// node keeps the value it held before the pass, including a node that
// squeeze renames or that flatten reparents.
//
// Transformation vocabulary (collapse a unary chain, drop a subtree,
// promote a child) is grounded on the tree.Reducer DSL shown in
// other_examples/mewbak-parlex's tree/reducer.go (PromoteSingleChild,
// PromoteChildrenOf, RemoveChild, RemoveChildren, ReplaceWithChild).
package transform

import "github.com/dekarrin/picireny/internal/hddtree"

// Pass is one tree-preparation transformation.
type Pass interface {
	Apply(tree *hddtree.Tree) error
}

// PassFunc adapts a plain function to the Pass interface.
type PassFunc func(tree *hddtree.Tree) error

func (f PassFunc) Apply(tree *hddtree.Tree) error { return f(tree) }

// Pipeline runs each pass in order, stopping at the first error.
func Pipeline(tree *hddtree.Tree, passes ...Pass) error {
	for _, p := range passes {
		if err := p.Apply(tree); err != nil {
			return err
		}
	}
	return tree.Validate()
}

// reparent sets child's ParentID to parent's ID.
func reparent(tree *hddtree.Tree, childID, parentID int) {
	tree.Node(childID).ParentID = parentID
}
