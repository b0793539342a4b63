// Package ddmin implements Zeller's ddmin algorithm (Simplifying and
// Isolating Failure-Inducing Input, 2002): given a set of elements and a
// test that classifies any subset as interesting, not interesting, or
// unresolved, it computes a 1-minimal interesting subset — no single
// element can be removed from the result without losing interestingness.
//
// This is the bridge's bottom layer (spec §6): the HDD engine calls it once
// per tree level with that level's node ids as elements, after deciding
// which nodes are even candidates for removal.
package ddmin

import "context"

// Verdict is a test's classification of one candidate subset.
type Verdict int

const (
	Interesting Verdict = iota
	NotInteresting
	Unresolved
)

// Test classifies one candidate subset of the original element set.
// Implementations must tolerate being called with subsets in any order and
// any number of times; ddmin itself does not cache.
type Test func(ctx context.Context, subset []int) (Verdict, error)

// Minimize runs ddmin2 over elements, returning a 1-minimal subset that
// Test still classifies as Interesting. elements must itself test
// Interesting, or the result is meaningless (callers are expected to have
// already confirmed the starting configuration is interesting, per spec §1
// "reduction begins only once the original input has been confirmed
// interesting").
//
// Unresolved outcomes are treated like NotInteresting: ddmin does not
// shrink on them, matching Zeller's original treatment of "unresolved"
// tests as a third distinguishable failure-to-reduce case rather than a
// hard error.
func Minimize(ctx context.Context, elements []int, test Test) ([]int, error) {
	current := append([]int(nil), elements...)
	n := 2

	for len(current) >= 2 {
		if n > len(current) {
			n = len(current)
		}

		chunks := partition(current, n)
		reducedTo, reduced, err := tryChunks(ctx, chunks, test)
		if err != nil {
			return nil, err
		}
		if reduced {
			current = reducedTo
			n = 2
			continue
		}

		complements := complementsOf(current, chunks)
		reducedTo, reduced, err = tryChunks(ctx, complements, test)
		if err != nil {
			return nil, err
		}
		if reduced {
			current = reducedTo
			if n > 2 {
				n--
			}
			continue
		}

		if n >= len(current) {
			break
		}
		n *= 2
		if n > len(current) {
			n = len(current)
		}
	}

	return current, nil
}

// tryChunks tests each chunk in turn and returns the first one the test
// accepts as Interesting.
func tryChunks(ctx context.Context, chunks [][]int, test Test) ([]int, bool, error) {
	for _, c := range chunks {
		if len(c) == 0 {
			continue
		}
		v, err := test(ctx, c)
		if err != nil {
			return nil, false, err
		}
		if v == Interesting {
			return c, true, nil
		}
	}
	return nil, false, nil
}

// BatchTest classifies several candidate subsets in one call, returning one
// Verdict per subset in the same order. Implementations are free to test
// them concurrently, since every subset in a single ddmin round is a
// candidate drawn from the same, unmodified starting configuration — unlike
// Test, which ddmin calls one subset at a time because later rounds depend
// on earlier ones.
type BatchTest func(ctx context.Context, subsets [][]int) ([]Verdict, error)

// MinimizeParallel behaves exactly like Minimize, except that every round's
// candidate chunks (and, failing those, complements) are classified with one
// BatchTest call instead of one Test call per chunk. The result is the same
// 1-minimal subset Minimize would find testing sequentially: both accept the
// first Interesting chunk in subset order, MinimizeParallel just doesn't wait
// on earlier chunks to find it.
func MinimizeParallel(ctx context.Context, elements []int, batch BatchTest) ([]int, error) {
	current := append([]int(nil), elements...)
	n := 2

	for len(current) >= 2 {
		if n > len(current) {
			n = len(current)
		}

		chunks := partition(current, n)
		reducedTo, reduced, err := tryChunksParallel(ctx, chunks, batch)
		if err != nil {
			return nil, err
		}
		if reduced {
			current = reducedTo
			n = 2
			continue
		}

		complements := complementsOf(current, chunks)
		reducedTo, reduced, err = tryChunksParallel(ctx, complements, batch)
		if err != nil {
			return nil, err
		}
		if reduced {
			current = reducedTo
			if n > 2 {
				n--
			}
			continue
		}

		if n >= len(current) {
			break
		}
		n *= 2
		if n > len(current) {
			n = len(current)
		}
	}

	return current, nil
}

// tryChunksParallel batches every non-empty chunk through a single BatchTest
// call and returns the first one (in original order) classified Interesting.
func tryChunksParallel(ctx context.Context, chunks [][]int, batch BatchTest) ([]int, bool, error) {
	nonEmpty := make([][]int, 0, len(chunks))
	for _, c := range chunks {
		if len(c) > 0 {
			nonEmpty = append(nonEmpty, c)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, false, nil
	}

	verdicts, err := batch(ctx, nonEmpty)
	if err != nil {
		return nil, false, err
	}

	for i, v := range verdicts {
		if v == Interesting {
			return nonEmpty[i], true, nil
		}
	}
	return nil, false, nil
}

// partition splits elements into n contiguous, near-equal-sized chunks.
func partition(elements []int, n int) [][]int {
	if n < 1 {
		n = 1
	}
	total := len(elements)
	chunks := make([][]int, 0, n)
	base := total / n
	rem := total % n

	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		chunks = append(chunks, elements[start:start+size])
		start += size
	}
	return chunks
}

// complementsOf returns, for each chunk, the elements of the full set not
// in that chunk.
func complementsOf(elements []int, chunks [][]int) [][]int {
	out := make([][]int, len(chunks))
	for i, c := range chunks {
		excluded := make(map[int]bool, len(c))
		for _, id := range c {
			excluded[id] = true
		}
		comp := make([]int, 0, len(elements)-len(c))
		for _, id := range elements {
			if !excluded[id] {
				comp = append(comp, id)
			}
		}
		out[i] = comp
	}
	return out
}
