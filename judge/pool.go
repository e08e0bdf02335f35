package judge

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunPool runs workers until ctx is done or one of them fails
func RunPool(ctx context.Context, workers []*Worker) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range workers {
		g.Go(func() error {
			if err := worker.Run(ctx); err != nil {
				return fmt.Errorf("judge %s: %w", worker.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// NewWorkers creates threads workers sharing one judge name
func NewWorkers(
	name string,
	threads int,
	dispatcher Dispatcher,
	runner Runner,
	pollInterval time.Duration,
	maxPollInterval time.Duration,
) []*Worker {
	workers := make([]*Worker, 0, threads)
	for range threads {
		workers = append(workers, NewWorker(name, dispatcher, runner, pollInterval, maxPollInterval))
	}
	return workers
}
