package kselect

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ComputePairwiseDistancesParallel computes the full n×n distance matrix using
// multiple goroutines. numWorkers controls the degree of parallelism; if <= 1,
// it falls back to single-threaded ComputePairwiseDistances.
//
// The result is bitwise identical to ComputePairwiseDistances.
func ComputePairwiseDistancesParallel(data [][]float64, metric DistanceMetric, numWorkers int) []float64 {
	n := len(data)
	if numWorkers <= 1 || n <= 1 {
		return ComputePairwiseDistances(data, metric)
	}

	result := make([]float64, n*n)

	// Each worker owns a contiguous range of source rows and writes
	// dist(i,j) and dist(j,i) for j > i. Cells never overlap between workers.
	var wg sync.WaitGroup

	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for j := i + 1; j < n; j++ {
					d := metric.Distance(data[i], data[j])
					result[i*n+j] = d
					result[j*n+i] = d
				}
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return result
}

// runIndexed calls fn(ctx, i) for every i in [0, n) with at most numWorkers
// calls in flight. Callers write results into pre-sized slices by index so
// the outcome does not depend on scheduling. The first error cancels the
// remaining jobs and is returned.
func runIndexed(ctx context.Context, n, numWorkers int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(numWorkers, 1))

	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, i)
		})
	}

	return g.Wait()
}
