package mdkatex

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// renderTask is one math span in the pooled cross-chapter workload.
type renderTask struct {
	Source  string
	Display bool
}

// renderAll converts the pooled tasks into outcomes by calling the engine
// once per task. A bounded pool of workers processes the workload; each
// worker lazily constructs exactly one engine instance on first use and
// keeps it for the rest of the run (engine instances are thread-affine).
//
// Outcomes are correlated to tasks by index, never by completion order.
// Under the strict policy (ThrowOnError) the first engine failure aborts
// the run; under the lenient default it becomes a typed outcome and a
// diagnostic.
func renderAll(ctx context.Context, tasks []renderTask, opts *RenderOptions, factory EngineFactory, diag diagFunc) ([]RenderOutcome, error) {
	outcomes := make([]RenderOutcome, len(tasks))
	if len(tasks) == 0 {
		return outcomes, nil
	}

	workers := ResolveWorkers(opts.Workers)
	if workers > len(tasks) {
		workers = len(tasks)
	}

	indices := make(chan int, len(tasks))
	for i := range tasks {
		indices <- i
	}
	close(indices)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// The engine below is exclusively owned by this goroutine.
			var eng Engine
			defer func() {
				if eng != nil {
					_ = eng.Close()
				}
			}()

			for i := range indices {
				if ctx.Err() != nil {
					return
				}
				if eng == nil {
					var err error
					eng, err = factory(opts)
					if err != nil {
						fail(fmt.Errorf("creating render engine: %w", err))
						return
					}
				}

				task := tasks[i]
				markup, err := eng.Render(ctx, task.Source, task.Display)
				if err == nil {
					outcomes[i] = RenderOutcome{Markup: markup}
					continue
				}

				var re *RenderError
				if !errors.As(err, &re) {
					// Transport or cancellation failure, not a math error.
					fail(err)
					return
				}
				if opts.ThrowOnError {
					fail(re)
					return
				}
				outcomes[i] = RenderOutcome{Err: re}
				diag("katex: rendering failed for %q: %s", re.Source, re.Message)
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
