package kselect

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// LloydFitter is the default Fitter: Lloyd's k-means with k-means++ seeding
// and several restarts, keeping the restart with the lowest sum of squares.
// It is deterministic for a given seed.
type LloydFitter struct {
	// MaxIterations bounds each restart. Default: 300.
	MaxIterations int

	// Tolerance is the total squared centroid shift below which a restart is
	// considered converged. Default: 1e-8.
	Tolerance float64

	// Restarts is the number of independently seeded runs. Default: 10.
	Restarts int
}

// DefaultLloydFitter returns a LloydFitter with its defaults filled in.
func DefaultLloydFitter() LloydFitter {
	return LloydFitter{MaxIterations: 300, Tolerance: 1e-8, Restarts: 10}
}

func (f LloydFitter) withDefaults() LloydFitter {
	d := DefaultLloydFitter()
	if f.MaxIterations <= 0 {
		f.MaxIterations = d.MaxIterations
	}
	if f.Tolerance <= 0 {
		f.Tolerance = d.Tolerance
	}
	if f.Restarts <= 0 {
		f.Restarts = d.Restarts
	}
	return f
}

type lloydRun struct {
	labels     []int
	ss         float64
	iterations int
	converged  bool
}

// Fit implements Fitter. Clusters that end up empty (possible when data has
// fewer distinct points than k) are dropped, so the returned assignment may
// have fewer than k centroids.
func (f LloydFitter) Fit(data [][]float64, k int, seed uint64) (*FitResult, error) {
	if _, err := checkData(data); err != nil {
		return nil, err
	}
	if err := checkK(k, len(data)); err != nil {
		return nil, err
	}
	f = f.withDefaults()

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var best *lloydRun
	for r := 0; r < f.Restarts; r++ {
		run := f.run(data, k, rng)
		if best == nil || run.ss < best.ss {
			best = run
		}
	}

	labels, kept := compactLabels(best.labels, k)
	res := &FitResult{
		Assignment: Assignment{
			Labels:    labels,
			Centroids: MeanCentroids(data, labels, kept),
		},
		Converged:  best.converged,
		Iterations: best.iterations,
	}
	if !best.converged {
		return res, fmt.Errorf("%w: k=%d after %d iterations", ErrNonConvergence, k, f.MaxIterations)
	}
	return res, nil
}

func (f LloydFitter) run(data [][]float64, k int, rng *rand.Rand) *lloydRun {
	n := len(data)
	centroids := seedPlusPlus(data, k, rng)
	labels := make([]int, n)
	nearest := make([]float64, n)

	run := &lloydRun{labels: labels}
	for iter := 1; iter <= f.MaxIterations; iter++ {
		run.iterations = iter

		for i, x := range data {
			labels[i], nearest[i] = nearestCentroid(x, centroids)
		}

		next := MeanCentroids(data, labels, k)
		reseedEmpty(data, labels, nearest, next, centroids)

		var shift float64
		for c := range next {
			shift += squaredEuclidean(next[c], centroids[c])
		}
		centroids = next

		if shift <= f.Tolerance {
			run.converged = true
			break
		}
	}

	for i, x := range data {
		labels[i], nearest[i] = nearestCentroid(x, centroids)
	}
	for _, d := range nearest {
		run.ss += d
	}
	return run
}

// seedPlusPlus picks k initial centroids with k-means++: the first uniformly,
// each next one with probability proportional to its squared distance from
// the nearest centroid chosen so far.
func seedPlusPlus(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(data[rng.IntN(n)]))

	dists := make([]float64, n)
	for i, x := range data {
		dists[i] = squaredEuclidean(x, centroids[0])
	}

	for len(centroids) < k {
		var total float64
		for _, d := range dists {
			total += d
		}

		chosen := rng.IntN(n)
		if total > 0 {
			threshold := rng.Float64() * total
			var cum float64
			for i, d := range dists {
				cum += d
				if cum >= threshold && d > 0 {
					chosen = i
					break
				}
			}
		}

		c := clonePoint(data[chosen])
		centroids = append(centroids, c)
		for i, x := range data {
			dists[i] = math.Min(dists[i], squaredEuclidean(x, c))
		}
	}

	return centroids
}

func nearestCentroid(x []float64, centroids [][]float64) (int, float64) {
	best := 0
	bestDist := squaredEuclidean(x, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := squaredEuclidean(x, centroids[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, bestDist
}

// reseedEmpty moves every empty cluster's centroid onto the point that is
// farthest from its own centroid, taking that point out of its cluster.
// When every point already sits on its centroid the cluster stays empty and
// keeps its previous centroid.
func reseedEmpty(data [][]float64, labels []int, nearest []float64, centroids, prev [][]float64) {
	sizes := ClusterSizes(labels, len(centroids))
	for c := range centroids {
		if sizes[c] > 0 {
			continue
		}

		far := -1
		for i, d := range nearest {
			if d > 0 && sizes[labels[i]] > 1 && (far < 0 || d > nearest[far]) {
				far = i
			}
		}
		if far < 0 {
			centroids[c] = prev[c]
			continue
		}

		sizes[labels[far]]--
		labels[far] = c
		sizes[c] = 1
		nearest[far] = 0
		centroids[c] = clonePoint(data[far])
	}
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
