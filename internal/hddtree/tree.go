// Package hddtree implements the concrete-syntax tree model the HDD reducer
// operates on: a sum-typed Node arena with stable ids, per-node removability
// state, and cached replacement strings (spec §3).
package hddtree

import "github.com/dekarrin/picireny/internal/hdderrors"

// Tree is the arena that owns every Node produced for one reduction session.
// Nodes are indexed by ID; IDs are assigned once in pre-order at
// construction and never reused, which is what makes node-id stability
// (P5) trivial across structural transformations (spec §9, "arena
// allocation").
type Tree struct {
	nodes []*Node
	root  int
}

// New builds a Tree from a root Node already linked to its descendants via
// Children slices that reference indices into nodes. nodes must be indexed
// by the ID each Node was assigned; New does not renumber anything. Use
// Build instead to construct a tree from scratch with ids assigned
// automatically in pre-order.
func New(nodes []*Node, root int) (*Tree, error) {
	t := &Tree{nodes: nodes, root: root}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// builderNode is the input shape accepted by Build: a node description plus
// its children, still unordered with respect to ID assignment.
type builderNode struct {
	Kind     Kind
	Name     string
	Text     string
	Span     Span
	Children []*builderNode
}

// RuleNode describes a Rule or Quantifier node to be built by Build.
func RuleNode(kind Kind, name string, span Span, children ...*builderNode) *builderNode {
	return &builderNode{Kind: kind, Name: name, Span: span, Children: children}
}

// LeafNode describes a Token, HiddenToken, or ErrorToken node to be built by
// Build.
func LeafNode(kind Kind, name, text string, span Span) *builderNode {
	return &builderNode{Kind: kind, Name: name, Text: text, Span: span}
}

// Build assembles a Tree from a description rooted at root, assigning ids in
// pre-order (I1/I2 satisfied by construction). This is the shape the
// reference Builder in this package's builder.go produces; an external
// ANTLR-backed builder (out of scope for this module, see spec §6) would
// produce the same Tree shape by the same contract.
func Build(root *builderNode) (*Tree, error) {
	if root.Kind != Rule {
		return nil, hdderrors.InvariantViolation("tree root must be a Rule node")
	}

	t := &Tree{}
	var assign func(n *builderNode, parentID int) int
	assign = func(n *builderNode, parentID int) int {
		id := len(t.nodes)
		nn := &Node{
			ID:       id,
			ParentID: parentID,
			Kind:     n.Kind,
			Name:     n.Name,
			Text:     n.Text,
			Span:     n.Span,
			State:    Keep,
		}
		t.nodes = append(t.nodes, nn)
		for _, c := range n.Children {
			cid := assign(c, id)
			nn.Children = append(nn.Children, cid)
		}
		return id
	}
	t.root = assign(root, noParent)

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node {
	return t.nodes[t.root]
}

// RootID returns the id of the tree's root node.
func (t *Tree) RootID() int {
	return t.root
}

// Node returns the node with the given id, or nil if none exists.
func (t *Tree) Node(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Parent returns n's parent, or nil if n is the root.
func (t *Tree) Parent(n *Node) *Node {
	if n.ParentID == noParent {
		return nil
	}
	return t.Node(n.ParentID)
}

// IsRoot reports whether id names the tree's root.
func (t *Tree) IsRoot(id int) bool {
	return id == t.root
}

// Children returns the child Nodes of n, in order.
func (t *Tree) Children(n *Node) []*Node {
	if len(n.Children) == 0 {
		return nil
	}
	kids := make([]*Node, len(n.Children))
	for i, cid := range n.Children {
		kids[i] = t.Node(cid)
	}
	return kids
}

// NumNodes returns the total number of nodes ever allocated in this tree's
// arena (including nodes no longer reachable from the root after a
// transformation that reparents subtrees away).
func (t *Tree) NumNodes() int {
	return len(t.nodes)
}

// Walk visits every node reachable from the root in pre-order, calling fn
// for each. Walk stops early if fn returns false.
func (t *Tree) Walk(fn func(n *Node) bool) {
	t.walk(t.root, fn)
}

func (t *Tree) walk(id int, fn func(n *Node) bool) bool {
	n := t.Node(id)
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, cid := range n.Children {
		if !t.walk(cid, fn) {
			return false
		}
	}
	return true
}

// Leaves returns every terminal node reachable from the root, in
// left-to-right order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	t.Walk(func(n *Node) bool {
		if n.IsTerminal() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// addNode appends a freshly-described node to the arena and returns its id.
// Used by transformations that introduce new nodes (e.g. recursion
// flattening's merged Rule node). The new node is not yet linked into any
// parent's Children; the caller is responsible for that, preserving I2.
func (t *Tree) addNode(n *Node) int {
	id := len(t.nodes)
	n.ID = id
	t.nodes = append(t.nodes, n)
	return id
}

// AddNode is the exported form of addNode for use by the transform package.
func (t *Tree) AddNode(kind Kind, name string, parentID int) *Node {
	n := &Node{Kind: kind, Name: name, ParentID: parentID, State: Keep}
	t.addNode(n)
	return n
}

// SetRoot reassigns the tree's root, used by transformations that rewrite
// the top of the tree (none currently do, but squeeze could collapse into
// the root in principle).
func (t *Tree) SetRoot(id int) {
	t.root = id
}

// Clone returns a deep, independent copy of the tree: same ids, same
// structure, same state, same cached replacements, but entirely separate
// storage. Used to snapshot a baseline before attempting a reduction, and
// to restore it if the oracle rejects the candidate (spec §4.5 step 4).
func (t *Tree) Clone() *Tree {
	nodes := make([]*Node, len(t.nodes))
	for i, n := range t.nodes {
		if n == nil {
			continue
		}
		cp := *n
		cp.Children = append([]int(nil), n.Children...)
		nodes[i] = &cp
	}
	return &Tree{nodes: nodes, root: t.root}
}

// RestoreFrom copies the state (but not identity) of every node in src into
// the corresponding node of t. Used to restore a rejected candidate's
// baseline without discarding t's identity, so external references to t
// remain valid (spec §4.5 step 4, "on FAIL/TIMEOUT, restore the snapshot").
func (t *Tree) RestoreFrom(src *Tree) {
	for i, n := range src.nodes {
		if n == nil || i >= len(t.nodes) || t.nodes[i] == nil {
			continue
		}
		t.nodes[i].State = n.State
		t.nodes[i].Replacement = n.Replacement
		t.nodes[i].ReplacementSet = n.ReplacementSet
		t.nodes[i].Children = append([]int(nil), n.Children...)
		t.nodes[i].ParentID = n.ParentID
	}
	t.root = src.root
}

// Validate checks invariants I1-I3 (root kind, parent/child agreement,
// quantifier contiguity is assumed by construction and not separately
// checked here since the arena never stores non-contiguous quantifiers).
// Returns an InvariantViolation error naming the first violation found.
func (t *Tree) Validate() error {
	root := t.Node(t.root)
	if root == nil {
		return hdderrors.InvariantViolation("root id does not resolve to a node")
	}
	if root.Kind != Rule {
		return hdderrors.InvariantViolationf("root node %d has kind %s, want RULE", root.ID, root.Kind)
	}

	var walkErr error
	t.Walk(func(n *Node) bool {
		for _, cid := range n.Children {
			c := t.Node(cid)
			if c == nil {
				walkErr = hdderrors.InvariantViolationf("node %d has dangling child id %d", n.ID, cid)
				return false
			}
			if c.ParentID != n.ID {
				walkErr = hdderrors.InvariantViolationf("node %d claims child %d, but child's parent is %d", n.ID, cid, c.ParentID)
				return false
			}
		}
		if n.IsTerminal() && len(n.Children) > 0 {
			walkErr = hdderrors.InvariantViolationf("terminal node %d (%s) has children", n.ID, n.Kind)
			return false
		}
		if !n.IsTerminal() && n.Text != "" {
			walkErr = hdderrors.InvariantViolationf("non-terminal node %d (%s) has leaf text set", n.ID, n.Kind)
			return false
		}
		return true
	})
	return walkErr
}
