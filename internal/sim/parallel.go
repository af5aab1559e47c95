package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Job is one independent Calculate call. Jobs must not share a Simulation or
// a sink.
type Job struct {
	Name     string
	Sim      *Simulation
	Dt       float64
	Duration float64
	Frames   int
	Sink     FrameSink
}

// RunAll runs every job on its own goroutine and returns the results in job
// order. All jobs run to completion; their errors are joined.
func RunAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			job := jobs[idx]
			res, err := job.Sim.Calculate(ctx, job.Dt, job.Duration, job.Frames, job.Sink)
			if err != nil {
				err = fmt.Errorf("%s: %w", job.Name, err)
			}
			results[idx], errs[idx] = res, err
		}(i)
	}

	wg.Wait()

	return results, errors.Join(errs...)
}
