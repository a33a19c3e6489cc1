package runner

import (
	"context"
	"sync"

	"digital.vasic.flicker/pkg/config"
	"digital.vasic.flicker/pkg/scenario"
)

// runParallel evaluates scenarios on at most maxConcurrency
// goroutines. Results keep the order of scenarios. Scenarios
// still waiting for a slot when ctx ends get no result, and the
// first error is returned alongside the results collected so far.
func runParallel(
	ctx context.Context,
	r *DefaultRunner,
	runID string,
	cfg *config.Config,
	scenarios []*scenario.Scenario,
	maxConcurrency int,
) ([]*scenario.Result, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	slots := make(chan struct{}, maxConcurrency)
	ordered := make([]*scenario.Result, len(scenarios))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for i, sc := range scenarios {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				fail(ctx.Err())
				return
			}
			defer func() { <-slots }()

			res, err := r.runConfigured(ctx, runID, cfg, sc)
			if err != nil {
				fail(err)
			}
			ordered[i] = res
		}()
	}
	wg.Wait()

	results := make([]*scenario.Result, 0, len(ordered))
	for _, res := range ordered {
		if res != nil {
			results = append(results, res)
		}
	}
	return results, firstErr
}
