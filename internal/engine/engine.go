// Package engine implements the HDD algorithm family (spec §5): given a
// tree already decorated with removability state and minimal replacements
// (internal/hddtree, internal/replace, internal/transform) and a bridge to
// an oracle (internal/bridge), it drives ddmin.Minimize level by level,
// shrinking the tree to a 1-tree-minimal result.
//
// Grounded on the pass-oriented orchestration style of the teacher's own
// internal/ictiobus table-building pipeline (a fixed sequence of named
// phases threaded through a shared mutable structure) and on
// npillmayer-gorgo's Earley parser's depth-first vs. breadth-first item-set
// construction split, which is the same top-down-level-by-level vs.
// per-subtree-recursion distinction HDD vs. HDDr makes.
package engine

import (
	"context"

	"github.com/dekarrin/picireny/internal/bridge"
	"github.com/dekarrin/picireny/internal/ddmin"
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/oracle"
	"github.com/dekarrin/picireny/internal/transform"
	"github.com/dekarrin/picireny/internal/unparse"
)

// Strategy selects which level enumerator drives reduction.
type Strategy int

const (
	// BFS processes the tree level by level, by depth from the root,
	// exhausting an entire depth before moving to the next (spec §5's
	// plain HDD).
	BFS Strategy = iota
	// Recursive processes one subtree at a time: reduce a node's direct
	// children, then recurse into each surviving child before moving on to
	// the next sibling (spec §5's HDDr).
	Recursive
	// CoarseBFS is BFS with transform.CoarseFilter re-applied before every
	// level, hiding nodes whose current text already equals their
	// replacement so they are never presented to ddmin.
	CoarseBFS
	// CoarseRecursive is Recursive with the same coarse pre-filtering.
	CoarseRecursive
)

// Config controls one reduction run.
type Config struct {
	Strategy Strategy

	// FixedPoint, when true, repeats the whole strategy pass until a full
	// pass removes nothing further (spec §5's HDD*), guarding against
	// reductions that only became possible after an earlier pass changed
	// the tree's shape (e.g. flattening exposed new siblings).
	FixedPoint bool

	// CacheCapacity bounds the bridge's content-hash oracle cache. <= 0
	// means unbounded.
	CacheCapacity int

	// Workers, when > 1, tests every chunk and complement of a ddmin round
	// concurrently through an oracle.Pool instead of one at a time (spec §5's
	// parallel oracle fan-out). <= 1 keeps the strictly sequential path.
	Workers int

	// Hoist enables the hoist per-node transform (spec §4.3) alongside
	// pruning: after each level-based prune pass, every removable
	// non-terminal is offered its own same-named descendants as a direct
	// substitute. Pruning alone can only delete a node outright, so grammars
	// with self-nesting (a block that can contain another block) need hoist
	// to collapse nesting pruning cannot reach.
	Hoist bool

	Unparse unparse.Config
}

// Reducer drives one configured HDD run against an oracle.
type Reducer struct {
	Config Config
	Bridge *bridge.Bridge
}

// New returns a Reducer that tests candidates against o, with its own
// content-hash cache sized per cfg.CacheCapacity.
func New(o oracle.Oracle, cfg Config) *Reducer {
	return &Reducer{
		Config: cfg,
		Bridge: bridge.New(o, cfg.CacheCapacity),
	}
}

// Reduce runs the configured strategy against tree in place and returns the
// number of reduction passes performed (always 1 unless FixedPoint is set).
func (r *Reducer) Reduce(ctx context.Context, tree *hddtree.Tree) (int, error) {
	passes := 0
	for {
		changed, err := r.pass(ctx, tree)
		if err != nil {
			return passes, err
		}
		passes++
		if !changed || !r.Config.FixedPoint {
			break
		}
	}
	return passes, nil
}

// Step runs exactly one reduction pass against tree, ignoring FixedPoint,
// and reports whether that pass removed anything. It exists so a caller
// driving the reducer interactively (see cmd/picireny's trace subcommand)
// can show the tree between passes instead of only at the end.
func (r *Reducer) Step(ctx context.Context, tree *hddtree.Tree) (bool, error) {
	return r.pass(ctx, tree)
}

func (r *Reducer) pass(ctx context.Context, tree *hddtree.Tree) (bool, error) {
	var changed bool
	var err error
	switch r.Config.Strategy {
	case Recursive, CoarseRecursive:
		changed, err = r.recursivePass(ctx, tree)
	default:
		changed, err = r.bfsPass(ctx, tree)
	}
	if err != nil {
		return changed, err
	}

	if r.Config.Hoist {
		hoisted, err := r.hoistPass(ctx, tree)
		if err != nil {
			return changed, err
		}
		changed = changed || hoisted
	}

	cleaned, err := r.oneMinimalCleanup(ctx, tree)
	if err != nil {
		return changed, err
	}
	changed = changed || cleaned

	return changed, nil
}

func (r *Reducer) coarseFilterIfEnabled(tree *hddtree.Tree) {
	if r.Config.Strategy == CoarseBFS || r.Config.Strategy == CoarseRecursive {
		cf := transform.CoarseFilter{Config: r.Config.Unparse}
		_ = cf.Apply(tree)
	}
}

// minimizeLevel runs ddmin against live, using the Reducer's configured
// concurrency: Workers > 1 fans a round's chunks and complements out across
// an oracle.Pool via Bridge.LevelBatchTest, otherwise each candidate is
// tested one at a time through Bridge.LevelTest.
func (r *Reducer) minimizeLevel(ctx context.Context, tree *hddtree.Tree, live []int) ([]int, error) {
	if r.Config.Workers > 1 {
		batch := r.Bridge.LevelBatchTest(tree, live, r.Config.Workers)
		return ddmin.MinimizeParallel(ctx, live, batch)
	}
	test := r.Bridge.LevelTest(tree, live)
	return ddmin.Minimize(ctx, live, func(ctx context.Context, subset []int) (ddmin.Verdict, error) {
		return test(ctx, subset)
	})
}

// candidate reports whether n is eligible to be offered to ddmin: not the
// root, and still in its default KEEP state (neither already removed by an
// earlier level/round nor permanently hidden by transform.HideUnremovable).
func candidate(tree *hddtree.Tree, n *hddtree.Node) bool {
	return !tree.IsRoot(n.ID) && n.State == hddtree.Keep
}
