// Package snapshot persists an in-progress reduction's tree state to a
// single binary file, so a long HDD run can be paused and resumed without
// re-parsing or re-running every pass already committed.
//
// Grounded on server/dao/sqlite's use of rezi to serialize *game.State for
// storage (convertToDB_GameStatePtr / convertFromDB_GameStatePtr in
// server/dao/sqlite/sqlite.go): the same "flatten to a plain, rezi-encodable
// struct, write it, decode it back into the real type" shape, substituting
// a hddtree.Tree for a game.State.
package snapshot

import (
	"fmt"
	"os"

	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/rezi"
)

// NodeSnapshot is the rezi-encodable form of one hddtree.Node. It mirrors
// Node's exported fields using only plain types rezi already knows how to
// walk by reflection.
type NodeSnapshot struct {
	ID       int
	ParentID int
	Kind     string
	Name     string
	Text     string
	Children []int

	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int

	State          int
	Replacement    string
	ReplacementSet bool
}

// TreeSnapshot is the rezi-encodable form of an entire hddtree.Tree.
type TreeSnapshot struct {
	Nodes  []NodeSnapshot
	RootID int
}

// Capture flattens tree's full node arena (including any node no longer
// reachable from the root after a reparenting transform) into a
// TreeSnapshot, preserving every node's ID exactly so a later Restore keeps
// the stable-id invariant (spec I-stable-id / P5) intact.
func Capture(tree *hddtree.Tree) TreeSnapshot {
	snap := TreeSnapshot{RootID: tree.RootID()}
	for id := 0; id < tree.NumNodes(); id++ {
		n := tree.Node(id)
		if n == nil {
			continue
		}
		children := make([]int, len(n.Children))
		copy(children, n.Children)
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:             n.ID,
			ParentID:       n.ParentID,
			Kind:           n.Kind.String(),
			Name:           n.Name,
			Text:           n.Text,
			Children:       children,
			StartLine:      n.Span.Start.Line,
			StartCol:       n.Span.Start.Col,
			EndLine:        n.Span.End.Line,
			EndCol:         n.Span.End.Col,
			State:          int(n.State),
			Replacement:    n.Replacement,
			ReplacementSet: n.ReplacementSet,
		})
	}
	return snap
}

// Restore rebuilds a hddtree.Tree from a TreeSnapshot produced by Capture.
func Restore(snap TreeSnapshot) (*hddtree.Tree, error) {
	nodes := make([]*hddtree.Node, len(snap.Nodes))
	for i, ns := range snap.Nodes {
		children := make([]int, len(ns.Children))
		copy(children, ns.Children)
		nodes[i] = &hddtree.Node{
			ID:       ns.ID,
			ParentID: ns.ParentID,
			Kind:     hddtree.Kind(ns.Kind),
			Name:     ns.Name,
			Text:     ns.Text,
			Children: children,
			Span: hddtree.Span{
				Start: hddtree.Position{Line: ns.StartLine, Col: ns.StartCol},
				End:   hddtree.Position{Line: ns.EndLine, Col: ns.EndCol},
			},
			State:          hddtree.State(ns.State),
			Replacement:    ns.Replacement,
			ReplacementSet: ns.ReplacementSet,
		}
	}
	return hddtree.New(nodes, snap.RootID)
}

// WriteFile captures tree and writes it to path as a rezi-encoded binary
// blob.
func WriteFile(path string, tree *hddtree.Tree) error {
	snap := Capture(tree)
	data := rezi.EncBinary(snap)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %q: %w", path, err)
	}
	return nil
}

// ReadFile loads a tree previously written by WriteFile.
func ReadFile(path string) (*hddtree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %q: %w", path, err)
	}

	var snap TreeSnapshot
	n, err := rezi.DecBinary(data, &snap)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot %q: %w", path, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("decoding snapshot %q: consumed %d/%d bytes", path, n, len(data))
	}

	return Restore(snap)
}
