package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// resolveWorkers picks the number of concurrent row workers
func resolveWorkers(requested, rows int) int {
	workers := requested
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return max(1, min(workers, rows))
}

// renderRows calls renderRow once for every row in [0, rows).
// Rows write disjoint buffer indices, so no locking is needed.
// With a single worker rows run in order on the calling goroutine.
// Cancellation is checked before each row starts.
func renderRows(ctx context.Context, rows, workers int, renderRow func(row int)) error {
	if workers <= 1 {
		for row := 0; row < rows; row++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			renderRow(row)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for row := 0; row < rows; row++ {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			renderRow(row)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
