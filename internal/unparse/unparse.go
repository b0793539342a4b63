// Package unparse materializes a candidate textual input from a decorated
// hddtree.Tree (spec §4.4). It is the one place the reducer's tree model
// turns back into the bytes an oracle can actually run against, and its
// output is a pure function of tree shape and node state: position metadata
// is never consulted, which is what keeps it reproducible after structural
// rewrites (flatten, squeeze, hide) that leave positions stale.
//
// Grounded on the left-to-right re-emission walk in
// other_examples/wxdublin-mtail's vm/unparser.go and on
// ictiobus/types.ParseTree.String()'s own recursive tree walk.
package unparse

import (
	"strings"

	"github.com/dekarrin/picireny/internal/hddtree"
)

// Config controls unparse policy for hidden-channel tokens.
type Config struct {
	// PreserveHiddenChannels, when true, always emits HiddenToken text
	// regardless of neighboring node state.
	PreserveHiddenChannels bool
}

// Unparse renders tree to text under cfg. It is deterministic: two calls
// with the same tree shape and node states produce byte-identical output
// (spec P4).
func Unparse(tree *hddtree.Tree, cfg Config) string {
	var sb strings.Builder
	write(tree, tree.Root(), cfg, &sb)
	return sb.String()
}

// Default unparses tree with the default hidden-channel policy (hidden
// tokens kept when both their nearest non-hidden siblings are not REMOVE).
func Default(tree *hddtree.Tree) string {
	return Unparse(tree, Config{})
}

// Subtree renders n's own content as if n.State were KEEP, regardless of
// n's actual state, while respecting the actual states of everything
// beneath n. Used by the coarse filter (spec §4.2) to compare a subtree's
// currently-rendered text against its cached replacement.
func Subtree(tree *hddtree.Tree, n *hddtree.Node, cfg Config) string {
	var sb strings.Builder
	switch n.Kind {
	case hddtree.Token, hddtree.ErrorToken:
		sb.WriteString(n.Text)
	case hddtree.HiddenToken:
		if cfg.PreserveHiddenChannels || hiddenTokenSurvives(tree, n) {
			sb.WriteString(n.Text)
		}
	case hddtree.Rule, hddtree.Quantifier:
		for _, c := range tree.Children(n) {
			write(tree, c, cfg, &sb)
		}
	}
	return sb.String()
}

func write(tree *hddtree.Tree, n *hddtree.Node, cfg Config, sb *strings.Builder) {
	if n.State == hddtree.Remove {
		sb.WriteString(n.Replacement)
		return
	}

	switch n.Kind {
	case hddtree.Token, hddtree.ErrorToken:
		sb.WriteString(n.Text)
	case hddtree.HiddenToken:
		if cfg.PreserveHiddenChannels || hiddenTokenSurvives(tree, n) {
			sb.WriteString(n.Text)
		}
	case hddtree.Rule, hddtree.Quantifier:
		for _, c := range tree.Children(n) {
			write(tree, c, cfg, sb)
		}
	}
}

// hiddenTokenSurvives implements the default hidden-channel retention
// policy (spec §4.4 clause (b)): a hidden token is kept when the nearest
// non-hidden siblings on either side of it are not in state REMOVE. A side
// with no non-hidden sibling at all (the hidden token is first or last
// among its siblings) is treated as satisfied on that side, preserving
// leading/trailing whitespace and comments by default.
func hiddenTokenSurvives(tree *hddtree.Tree, n *hddtree.Node) bool {
	parent := tree.Parent(n)
	if parent == nil {
		return true
	}

	siblings := parent.Children
	idx := -1
	for i, id := range siblings {
		if id == n.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return true
	}

	leftOK := true
	for i := idx - 1; i >= 0; i-- {
		s := tree.Node(siblings[i])
		if s.Kind == hddtree.HiddenToken {
			continue
		}
		leftOK = s.State != hddtree.Remove
		break
	}

	rightOK := true
	for i := idx + 1; i < len(siblings); i++ {
		s := tree.Node(siblings[i])
		if s.Kind == hddtree.HiddenToken {
			continue
		}
		rightOK = s.State != hddtree.Remove
		break
	}

	return leftOK && rightOK
}
