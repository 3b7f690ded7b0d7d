package common

import (
	"context"
	"sync"
)

// ProcessParallel runs a bounded worker pool over items, invoking process
// for each with its slice index. The first error cancels the remaining
// work and is returned.
func ProcessParallel[T any](
	ctx context.Context, workerCount int, items []T,
	process func(ctx context.Context, index int, item T) error,
) error {
	if workerCount <= 0 {
		workerCount = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan int, workerCount)
	errs := make(chan error, workerCount)

	wg := sync.WaitGroup{}

	for i := 0; i < workerCount; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				case index, ok := <-tasks:
					if !ok {
						return
					}

					if err := process(ctx, index, items[index]); err != nil {
						select {
						case errs <- err:
						default:
						}

						cancel()

						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(tasks)

		for i := range items {
			select {
			case <-ctx.Done():
				return
			case tasks <- i:
			}
		}
	}()

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
