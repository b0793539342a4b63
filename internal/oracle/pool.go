package oracle

import (
	"context"
	"sync"
)

// Request is one candidate to test, addressed by Index so results can be
// matched back up after concurrent completion.
type Request struct {
	Index int
	Input []byte
}

// Response pairs a Request's Index with its outcome.
type Response struct {
	Index   int
	Verdict Verdict
	Err     error
}

// Pool fans a batch of candidates out across Workers goroutines, each
// pulling from a shared channel of Requests and publishing to a shared
// channel of Responses — the channel-fed worker shape used by
// other_examples/ianlewis-lexparse's lexeme-to-parser pipeline, adapted
// here for concurrent oracle invocation rather than token streaming.
//
// Used by HDD level enumerators that probe several sibling subtrees'
// candidates in one round: spec §5 leaves the decision of sequential vs.
// concurrent oracle calls unspecified within a level, and concurrent calls
// are valid as long as each one sees a snapshot built before any of the
// round's candidates are applied.
type Pool struct {
	Oracle  Oracle
	Workers int
}

// Run tests every request and returns responses in the same order as
// requests, regardless of completion order. It stops launching new work and
// returns early if ctx is canceled.
func (p Pool) Run(ctx context.Context, requests []Request) []Response {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(requests) {
		workers = len(requests)
	}
	if workers == 0 {
		return nil
	}

	in := make(chan Request)
	out := make(chan Response)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for req := range in {
				v, err := p.Oracle.Test(ctx, req.Input)
				select {
				case out <- Response{Index: req.Index, Verdict: v, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(in)
		for _, req := range requests {
			select {
			case in <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	responses := make([]Response, len(requests))
	seen := make([]bool, len(requests))
	for resp := range out {
		responses[resp.Index] = resp
		seen[resp.Index] = true
	}
	for i := range seen {
		if !seen[i] {
			responses[i] = Response{Index: i, Verdict: Unresolved, Err: ctx.Err()}
		}
	}
	return responses
}
