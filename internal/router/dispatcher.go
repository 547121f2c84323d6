package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/dhr613/Location-QA-Assistant/pkg/models"
)

// WorkerRunner is one worker's bounded sub-conversation. *worker.Runner
// satisfies it.
type WorkerRunner interface {
	Name() string
	Run(ctx context.Context, query string) (string, error)
}

// Dispatcher fans classifications out to their workers concurrently and
// joins on all of them. Accumulation is commutative; any worker failure
// aborts the whole request.
type Dispatcher struct {
	workers map[models.WorkerKind]WorkerRunner
}

// NewDispatcher binds each worker kind to its runner.
func NewDispatcher(workers map[models.WorkerKind]WorkerRunner) *Dispatcher {
	return &Dispatcher{workers: workers}
}

// Dispatch runs one worker sub-conversation per classification. All of them
// must complete; there is no partial synthesis from incomplete results.
func (d *Dispatcher) Dispatch(ctx context.Context, classifications []models.Classification) ([]models.WorkerOutput, error) {
	for _, c := range classifications {
		if _, ok := d.workers[c.Source]; !ok {
			return nil, fmt.Errorf("dispatch: no worker bound for kind %q", c.Source)
		}
	}

	var (
		mu       sync.Mutex
		outputs  []models.WorkerOutput
		firstErr error
		wg       sync.WaitGroup
	)

	for _, c := range classifications {
		wg.Add(1)
		go func(c models.Classification) {
			defer wg.Done()
			result, err := d.workers[c.Source].Run(ctx, c.Query)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("dispatch %s: %w", c.Source, err)
				}
				return
			}
			outputs = append(outputs, models.WorkerOutput{Source: c.Source, Result: result})
		}(c)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return outputs, nil
}
