package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tufankoc/acik-kaynak-roket/internal/mission"
)

// Job is one flight of a batch. Options must not share stateful throttle
// sources between jobs.
type Job struct {
	Inputs  mission.Inputs
	Options []mission.Option
}

// RunBatch flies every job on its own controller concurrently. Results keep
// the order of jobs. The first error cancels the remaining runs.
func (r *Runner) RunBatch(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			runner := &Runner{Dt: r.Dt, MaxDuration: r.MaxDuration}
			res, err := runner.Run(ctx, mission.New(job.Options...), job.Inputs)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
