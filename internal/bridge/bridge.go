// Package bridge connects the generic internal/ddmin minimizer to the
// hddtree/unparse/oracle stack: it turns a tree level's candidate node ids
// into ddmin.Test calls, unparsing each candidate configuration, hashing its
// text to consult/populate a content-addressed cache (spec §6), and
// invoking the oracle only on a cache miss.
package bridge

import (
	"context"
	"fmt"

	"github.com/cnf/structhash"
	"github.com/dekarrin/picireny/internal/ddmin"
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/oracle"
	"github.com/dekarrin/picireny/internal/unparse"
)

// Bridge holds everything a level reduction needs to drive ddmin.Minimize
// against a live tree: the oracle to consult, the unparse policy to render
// candidates with, and a shared result cache.
type Bridge struct {
	Oracle oracle.Oracle
	Config unparse.Config
	Cache  *Cache
}

// New returns a Bridge with a fresh, capacity-bounded cache.
func New(o oracle.Oracle, cacheCapacity int) *Bridge {
	return &Bridge{Oracle: o, Cache: NewCache(cacheCapacity)}
}

// LevelTest returns a ddmin.Test closure over baseline and levelIDs: calling
// it with a "kept" subset of levelIDs produces the candidate where every id
// in levelIDs NOT in the kept subset is set to REMOVE (replaced by its
// cached minimal replacement) before unparsing. baseline is never mutated;
// each call clones it.
func (b *Bridge) LevelTest(baseline *hddtree.Tree, levelIDs []int) ddmin.Test {
	return func(ctx context.Context, kept []int) (ddmin.Verdict, error) {
		keptSet := make(map[int]bool, len(kept))
		for _, id := range kept {
			keptSet[id] = true
		}

		candidate := baseline.Clone()
		for _, id := range levelIDs {
			if keptSet[id] {
				continue
			}
			n := candidate.Node(id)
			if n != nil {
				n.State = hddtree.Remove
			}
		}

		text := unparse.Unparse(candidate, b.Config)

		key, err := contentKey(text)
		if err != nil {
			return ddmin.Unresolved, fmt.Errorf("hashing candidate: %w", err)
		}

		if cached, ok := b.Cache.Get(key); ok {
			return fromOracleVerdict(cached), nil
		}

		verdict, err := b.Oracle.Test(ctx, []byte(text))
		if err != nil {
			return ddmin.Unresolved, err
		}
		b.Cache.Put(key, verdict)

		return fromOracleVerdict(verdict), nil
	}
}

// LevelBatchTest returns a ddmin.BatchTest closure over baseline and
// levelIDs, the concurrent counterpart to LevelTest: each subset in one call
// is unparsed and cache-checked exactly as LevelTest would, but every cache
// miss is handed to an oracle.Pool instead of awaited one at a time, so a
// round's chunks and complements (spec §5's "parallel oracle fan-out") are
// classified by up to workers goroutines at once. Results still come back in
// the same order as subsets, so callers that scan for the first Interesting
// entry see the same choice Minimize would have made sequentially.
func (b *Bridge) LevelBatchTest(baseline *hddtree.Tree, levelIDs []int, workers int) ddmin.BatchTest {
	return func(ctx context.Context, subsets [][]int) ([]ddmin.Verdict, error) {
		verdicts := make([]ddmin.Verdict, len(subsets))
		keys := make([]string, len(subsets))
		var misses []oracle.Request
		missIndex := make([]int, 0, len(subsets))

		for i, kept := range subsets {
			keptSet := make(map[int]bool, len(kept))
			for _, id := range kept {
				keptSet[id] = true
			}

			candidate := baseline.Clone()
			for _, id := range levelIDs {
				if keptSet[id] {
					continue
				}
				if n := candidate.Node(id); n != nil {
					n.State = hddtree.Remove
				}
			}

			text := unparse.Unparse(candidate, b.Config)
			key, err := contentKey(text)
			if err != nil {
				return nil, fmt.Errorf("hashing candidate: %w", err)
			}
			keys[i] = key

			if cached, ok := b.Cache.Get(key); ok {
				verdicts[i] = fromOracleVerdict(cached)
				continue
			}

			misses = append(misses, oracle.Request{Index: len(misses), Input: []byte(text)})
			missIndex = append(missIndex, i)
		}

		if len(misses) == 0 {
			return verdicts, nil
		}

		pool := oracle.Pool{Oracle: b.Oracle, Workers: workers}
		responses := pool.Run(ctx, misses)

		for _, resp := range responses {
			if resp.Err != nil {
				return nil, resp.Err
			}
			i := missIndex[resp.Index]
			b.Cache.Put(keys[i], resp.Verdict)
			verdicts[i] = fromOracleVerdict(resp.Verdict)
		}

		return verdicts, nil
	}
}

// Test unparses an already-materialized candidate tree (no cloning, no
// level-relative kept/removed bookkeeping) and classifies it through the
// content-hash cache and, on a miss, the oracle. Used by moves that build
// their own candidate directly — the hoist move (spec §4.3) materializes a
// full splice rather than a levelIDs-relative kept subset, so it has no use
// for LevelTest's baseline-plus-kept-subset shape.
func (b *Bridge) Test(ctx context.Context, candidate *hddtree.Tree) (ddmin.Verdict, error) {
	text := unparse.Unparse(candidate, b.Config)

	key, err := contentKey(text)
	if err != nil {
		return ddmin.Unresolved, fmt.Errorf("hashing candidate: %w", err)
	}

	if cached, ok := b.Cache.Get(key); ok {
		return fromOracleVerdict(cached), nil
	}

	verdict, err := b.Oracle.Test(ctx, []byte(text))
	if err != nil {
		return ddmin.Unresolved, err
	}
	b.Cache.Put(key, verdict)

	return fromOracleVerdict(verdict), nil
}

// Commit applies a ddmin result to tree directly: every id in levelIDs not
// present in kept is transitioned to REMOVE. Called once per level after
// ddmin.Minimize has found the 1-minimal kept subset, replacing the
// clone-per-candidate exploration of LevelTest with a single mutation of
// the tree the engine is actually carrying forward.
func Commit(tree *hddtree.Tree, levelIDs []int, kept []int) {
	keptSet := make(map[int]bool, len(kept))
	for _, id := range kept {
		keptSet[id] = true
	}
	for _, id := range levelIDs {
		if keptSet[id] {
			continue
		}
		if n := tree.Node(id); n != nil {
			n.State = hddtree.Remove
		}
	}
}

func contentKey(text string) (string, error) {
	return structhash.Hash(text, 1)
}

func fromOracleVerdict(v oracle.Verdict) ddmin.Verdict {
	switch v {
	case oracle.Interesting:
		return ddmin.Interesting
	case oracle.NotInteresting:
		return ddmin.NotInteresting
	default:
		return ddmin.Unresolved
	}
}
