package diff

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/klauern/calsift/internal/logging"
	"github.com/klauern/calsift/internal/model"
)

// BatchOptions configures concurrent comparison of many calendar pairs.
type BatchOptions struct {
	// Workers is the number of concurrent comparisons (default 4, max 16).
	Workers int
	// RateLimit caps comparisons started per second. Zero disables the
	// limiter; it mostly matters when inputs are produced by remote
	// fetch callbacks upstream of the engine.
	RateLimit float64
	// OnProgress, if set, is called after each completed comparison with
	// the number of finished pairs and the total.
	OnProgress func(done, total int)
}

// BatchInput names one before/after pair for batch comparison.
type BatchInput struct {
	Name   string
	Before []model.CalendarEvent
	After  []model.CalendarEvent
}

// BatchResult carries the diff result for one named pair.
type BatchResult struct {
	Name   string
	Result model.DiffResult
}

// CompareAll runs Compare over every input pair using a bounded worker pool.
// Each individual comparison is synchronous; concurrency exists only across
// pairs. Results are returned in input order. The only error condition is
// context cancellation, in which case the partial results computed so far
// are returned alongside ctx.Err().
func (e *Engine) CompareAll(ctx context.Context, inputs []BatchInput, opts BatchOptions) ([]BatchResult, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Workers > 16 {
		opts.Workers = 16
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	type job struct {
		index int
		input BatchInput
	}

	jobs := make(chan job)
	results := make([]BatchResult, len(inputs))

	var (
		wg       sync.WaitGroup
		progress sync.Mutex
		done     int
	)
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = BatchResult{
					Name:   j.input.Name,
					Result: e.Compare(j.input.Before, j.input.After),
				}
				if opts.OnProgress != nil {
					progress.Lock()
					done++
					opts.OnProgress(done, len(inputs))
					progress.Unlock()
				}
			}
		}()
	}

	var err error
feed:
	for i, input := range inputs {
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
			break feed
		}
		if limiter != nil {
			if werr := limiter.Wait(ctx); werr != nil {
				err = werr
				break feed
			}
		}
		jobs <- job{index: i, input: input}
	}
	close(jobs)
	wg.Wait()

	logging.Debug("batch comparison complete", logging.Count(len(inputs)))
	return results, err
}
