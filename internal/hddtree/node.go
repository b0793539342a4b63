package hddtree

// noParent is the sentinel ParentID of the tree's root.
const noParent = -1

// Node is one entry in the HDD tree's arena. It is a tagged sum type over
// Kind: Rule and Quantifier nodes use Children; Token, HiddenToken, and
// ErrorToken nodes use Text. Dispatch on behavior is always by Kind, never
// by Go type switch or interface embedding — see spec §9, "tagged variants
// over inheritance."
//
// A Node never allocates or frees another Node directly. Ownership flows
// root to leaves through the owning Tree's arena; ParentID is a
// non-owning back-reference (an index into that same arena), not a pointer,
// so that copying or rebuilding the arena can never leave a Node half-owned
// by two trees.
type Node struct {
	// ID is a stable integer, unique within the owning Tree, assigned once
	// in pre-order at construction time and preserved across every
	// transformation so that DDMIN configurations recorded against old IDs
	// remain valid (spec invariant I-stable-id / P5).
	ID int

	// ParentID is the ID of this node's parent, or noParent if this is the
	// tree's root.
	ParentID int

	Kind Kind

	// Name is the rule or token-class name. Meaningless for plain
	// ErrorToken nodes.
	Name string

	// Text is the literal source text. Only meaningful for terminal kinds
	// (Token, HiddenToken, ErrorToken).
	Text string

	// Children is the ordered list of child node IDs. Only meaningful for
	// non-terminal kinds (Rule, Quantifier).
	Children []int

	Span Span

	State State

	// Replacement is the cached minimal replacement string computed for
	// this node by the replacement computer (spec §4.1). It is valid
	// (ReplacementSet) once computed and is recomputed by any
	// transformation that changes this node's grammatical context.
	Replacement    string
	ReplacementSet bool
}

// IsTerminal reports whether this node is a leaf (Token, HiddenToken, or
// ErrorToken).
func (n *Node) IsTerminal() bool {
	return n.Kind.IsTerminal()
}

// Removable reports whether this node is currently a candidate the HDD
// engine may present to DDMIN: its state is not already Hidden, and it is
// not the tree root (the root is never itself removed, only its interior).
func (n *Node) Removable(isRoot bool) bool {
	if isRoot {
		return false
	}
	return n.State != Hidden
}
