package sim

import (
	"context"
	"sync"

	"github.com/san-kum/morph/internal/particle"
)

// Setup prepares a fresh arena for one ensemble member, typically by
// applying a composition scene, and attaches its metrics.
type Setup func(s *Simulator) error

// Ensemble runs independent populations that differ only in seed.
type Ensemble struct {
	size      int
	numRuns   int
	seedStart int64
	setup     Setup
}

func NewEnsemble(size, numRuns int, seedStart int64, setup Setup) *Ensemble {
	return &Ensemble{size: size, numRuns: numRuns, seedStart: seedStart, setup: setup}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			a, err := particle.NewArena(e.size, e.seedStart+int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			s := New(a)
			if e.setup != nil {
				if err := e.setup(s); err != nil {
					errs[idx] = err
					return
				}
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
