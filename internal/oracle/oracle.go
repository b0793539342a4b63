// Package oracle defines the reducer's "is this input still interesting"
// contract (spec §6) and a reference subprocess-based implementation: write
// a candidate to a fresh temp file, run a configured command against it, and
// classify the result by exit code.
//
// Grounded on the teacher's process/error-wrapping idiom throughout
// internal/tqw and internal/tqerrors (wrap external failures with %w and a
// human-facing summary) and on other_examples/ianlewis-lexparse's
// channel-fed worker shape for the parallel Pool below.
package oracle

import (
	"context"
)

// Verdict is an oracle's classification of one candidate input.
type Verdict int

const (
	// Interesting means the candidate still reproduces the property under
	// reduction (spec §1's "interesting" predicate holds).
	Interesting Verdict = iota
	// NotInteresting means the candidate does not reproduce the property.
	NotInteresting
	// Unresolved means the oracle could not determine interestingness
	// (timeout, crash unrelated to the property, ambiguous output).
	Unresolved
)

func (v Verdict) String() string {
	switch v {
	case Interesting:
		return "INTERESTING"
	case NotInteresting:
		return "NOT_INTERESTING"
	case Unresolved:
		return "UNRESOLVED"
	default:
		return "UNKNOWN"
	}
}

// Oracle decides whether a candidate input is interesting. Implementations
// must be safe for concurrent use by multiple goroutines, since the HDD
// engine's level enumerators may probe several sibling configurations in
// parallel.
type Oracle interface {
	Test(ctx context.Context, input []byte) (Verdict, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, input []byte) (Verdict, error)

func (f Func) Test(ctx context.Context, input []byte) (Verdict, error) {
	return f(ctx, input)
}
