package kselect

import (
	"fmt"
	"io"

	"github.com/cdipaolo/goml/cluster"
)

// GomlFitter fits clusters with goml's k-means. goml draws its initial
// centroids from the global math/rand source, so the seed passed to Fit is
// ignored and results are not reproducible. Use LloydFitter when they must be.
type GomlFitter struct {
	// MaxIterations bounds goml's training loop. Default: 300.
	MaxIterations int
}

// Fit implements Fitter. Centroids are recomputed as the means of goml's
// final guesses, and empty clusters are dropped. goml reports neither
// convergence nor iteration count, so the result is marked converged with
// zero iterations.
func (f GomlFitter) Fit(data [][]float64, k int, _ uint64) (*FitResult, error) {
	if _, err := checkData(data); err != nil {
		return nil, err
	}
	if err := checkK(k, len(data)); err != nil {
		return nil, err
	}

	iterations := f.MaxIterations
	if iterations <= 0 {
		iterations = 300
	}

	model := cluster.NewKMeans(k, iterations, data)
	model.Output = io.Discard
	if err := model.Learn(); err != nil {
		return nil, fmt.Errorf("kselect: goml k-means: %w", err)
	}

	guesses := model.Guesses()
	if len(guesses) != len(data) {
		return nil, fmt.Errorf("%w: goml returned %d guesses for %d points", ErrInvalidAssignment, len(guesses), len(data))
	}
	for i, g := range guesses {
		if g < 0 || g >= k {
			return nil, fmt.Errorf("%w: goml guess %d for point %d outside [0, %d)", ErrInvalidAssignment, g, i, k)
		}
	}

	labels, kept := compactLabels(guesses, k)
	return &FitResult{
		Assignment: Assignment{
			Labels:    labels,
			Centroids: MeanCentroids(data, labels, kept),
		},
		Converged: true,
	}, nil
}
