package fixture

import (
	"context"
	"sync"

	"goldenhash/internal/manifest"
)

// Outcome is the result of processing one candidate.
type Outcome struct {
	Candidate Candidate
	Record    manifest.Record
	Failure   *Failure
}

// ProcessAll runs Process over candidates on at most workers goroutines and
// returns outcomes in candidate order. Candidates not started before ctx is
// cancelled are reported as io failures.
func ProcessAll(ctx context.Context, candidates []Candidate, workers int, opts Options) []Outcome {
	outcomes := make([]Outcome, len(candidates))
	if len(candidates) == 0 {
		return outcomes
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				c := candidates[i]
				rec, failure := Process(c, opts)
				outcomes[i] = Outcome{Candidate: c, Record: rec, Failure: failure}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(candidates); next++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(candidates); i++ {
		c := candidates[i]
		outcomes[i] = Outcome{Candidate: c, Failure: classify(c.Name, c.Path, ctx.Err())}
	}
	return outcomes
}
