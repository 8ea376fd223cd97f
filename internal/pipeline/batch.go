package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one job in a batch.
type BatchResult struct {
	ID     string
	Result *Result
	Err    error
}

// RenderBatch renders independent jobs in parallel, at most concurrency at a
// time. One failing job does not stop the others; results keep job order.
// The returned error is non-nil only when ctx ends before every job ran.
func (r *Renderer) RenderBatch(ctx context.Context, jobs []Job, concurrency int) ([]BatchResult, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]BatchResult, len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return results, err
		}
		g.Go(func() error {
			res, err := r.Run(ctx, job)
			results[i] = BatchResult{ID: job.ID, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}
