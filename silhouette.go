package kselect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// SilhouetteSamples computes the silhouette coefficient of every point under
// labels, using metric for pairwise distances.
//
// For point i, a(i) is the mean distance to the other members of its cluster
// (0 for a singleton) and b(i) the smallest mean distance to the members of
// any other cluster. s(i) = (b-a)/max(a,b), or 0 when both are 0. With a
// single cluster there is no b(i) and every s(i) is 0.
func SilhouetteSamples(data [][]float64, labels []int, metric DistanceMetric) ([]float64, error) {
	return silhouetteSamples(data, labels, metric, 1)
}

func silhouetteSamples(data [][]float64, labels []int, metric DistanceMetric, workers int) ([]float64, error) {
	if _, err := checkData(data); err != nil {
		return nil, err
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}
	dist := ComputePairwiseDistancesParallel(data, metric, workers)
	return SilhouetteSamplesPrecomputed(dist, len(data), labels)
}

// SilhouetteSamplesPrecomputed is SilhouetteSamples over a precomputed flat
// n×n distance matrix in row-major order.
func SilhouetteSamplesPrecomputed(dist []float64, n int, labels []int) ([]float64, error) {
	if len(dist) != n*n {
		return nil, fmt.Errorf("kselect: distance matrix length %d does not match n*n = %d (n=%d)", len(dist), n*n, n)
	}
	if len(labels) != n {
		return nil, fmt.Errorf("%w: %d labels for %d points", ErrInvalidAssignment, len(labels), n)
	}

	k := 0
	for i, l := range labels {
		if l < 0 {
			return nil, fmt.Errorf("%w: point %d has negative label %d", ErrInvalidAssignment, i, l)
		}
		k = max(k, l+1)
	}
	sizes := ClusterSizes(labels, k)

	nonEmpty := 0
	for _, s := range sizes {
		if s > 0 {
			nonEmpty++
		}
	}

	scores := make([]float64, n)
	if nonEmpty < 2 {
		return scores, nil
	}

	sums := make([]float64, k)
	for i := 0; i < n; i++ {
		clear(sums)
		row := dist[i*n : (i+1)*n]
		for j, d := range row {
			if j != i {
				sums[labels[j]] += d
			}
		}

		own := labels[i]
		var a float64
		if sizes[own] > 1 {
			a = sums[own] / float64(sizes[own]-1)
		}

		b := math.Inf(1)
		for c, s := range sizes {
			if c == own || s == 0 {
				continue
			}
			b = math.Min(b, sums[c]/float64(s))
		}

		if denom := math.Max(a, b); denom > 0 {
			scores[i] = (b - a) / denom
		}
	}

	return scores, nil
}

// SilhouetteScore is the mean silhouette coefficient over all points.
func SilhouetteScore(data [][]float64, labels []int, metric DistanceMetric) (float64, error) {
	samples, err := SilhouetteSamples(data, labels, metric)
	if err != nil {
		return 0, err
	}
	return stat.Mean(samples, nil), nil
}

// SilhouetteCurve returns the aggregate silhouette score of each candidate,
// ordered by K. workers bounds the goroutines building each distance matrix.
func SilhouetteCurve(data [][]float64, candidates []Candidate, metric DistanceMetric, workers int) ([]CurvePoint, error) {
	if _, err := checkData(data); err != nil {
		return nil, err
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}

	// The distance matrix does not depend on K.
	dist := ComputePairwiseDistancesParallel(data, metric, workers)

	curve := make([]CurvePoint, len(candidates))
	for i, c := range candidates {
		samples, err := SilhouetteSamplesPrecomputed(dist, len(data), c.Assignment.Labels)
		if err != nil {
			return nil, fmt.Errorf("kselect: silhouette for k=%d: %w", c.K, err)
		}
		curve[i] = CurvePoint{K: c.K, Value: stat.Mean(samples, nil)}
	}
	return sortCurve(curve), nil
}

// BestSilhouetteK returns the K with the highest score; ties go to the
// smaller K. It returns 0 for an empty curve.
func BestSilhouetteK(curve []CurvePoint) int {
	best := 0
	bestScore := math.Inf(-1)
	for _, p := range curve {
		if p.Value > bestScore || (p.Value == bestScore && p.K < best) {
			best = p.K
			bestScore = p.Value
		}
	}
	return best
}
