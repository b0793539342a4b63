package hddtree

// State is the reduction state of a node: whether it currently contributes
// its own text to unparse output (KEEP), contributes its cached replacement
// instead (REMOVE), or is excluded from the set the reducer considers but
// still unparses as if KEEP (HIDDEN).
type State int

const (
	// Keep means the node's own text (or, for non-terminals, its children)
	// contributes to unparse output.
	Keep State = iota

	// Remove means the node's cached replacement string contributes to
	// unparse output in place of the node itself.
	Remove

	// Hidden means the node is excluded from the set of nodes the HDD
	// engine presents to DDMIN, but still unparses as if it were Keep.
	Hidden
)

func (s State) String() string {
	switch s {
	case Keep:
		return "KEEP"
	case Remove:
		return "REMOVE"
	case Hidden:
		return "HIDDEN"
	default:
		return "UNKNOWN"
	}
}
