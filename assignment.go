package kselect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Assignment is a flat clustering of a point set: Labels[i] is the cluster of
// point i and Centroids[c] is the centroid of cluster c.
type Assignment struct {
	Labels    []int
	Centroids [][]float64
}

// K returns the number of clusters, i.e. the number of centroids.
func (a Assignment) K() int { return len(a.Centroids) }

// Candidate is the fitted clustering for one K of a sweep.
type Candidate struct {
	K          int
	Assignment Assignment

	// SS is the within-cluster sum of squares of Assignment.
	SS float64

	// Converged is false when the fitter exhausted its iterations and the
	// assignment is the best one it had at that point.
	Converged  bool
	Iterations int
}

// checkData verifies that data is non-empty, rectangular and finite,
// returning the shared dimensionality.
func checkData(data [][]float64) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmptyData
	}
	dims := len(data[0])
	for i, row := range data {
		if len(row) != dims {
			return 0, fmt.Errorf("%w: point %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(row), dims)
		}
		for d, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("%w: point %d dimension %d is %v", ErrNonFiniteValue, i, d, v)
			}
		}
	}
	return dims, nil
}

// ValidateAssignment checks that a covers every point of data exactly once,
// that every label has a centroid, that the centroid count equals the number
// of distinct labels, and that every centroid has the points' dimensionality.
func ValidateAssignment(data [][]float64, a Assignment) error {
	dims, err := checkData(data)
	if err != nil {
		return err
	}
	if len(a.Labels) != len(data) {
		return fmt.Errorf("%w: %d labels for %d points", ErrInvalidAssignment, len(a.Labels), len(data))
	}

	k := len(a.Centroids)
	seen := make([]bool, k)
	distinct := 0
	for i, l := range a.Labels {
		if l < 0 || l >= k {
			return fmt.Errorf("%w: point %d has label %d with no centroid (k=%d)", ErrInvalidAssignment, i, l, k)
		}
		if !seen[l] {
			seen[l] = true
			distinct++
		}
	}
	if distinct != k {
		return fmt.Errorf("%w: %d centroids for %d distinct labels", ErrInvalidAssignment, k, distinct)
	}

	for c, centroid := range a.Centroids {
		if len(centroid) != dims {
			return fmt.Errorf("%w: centroid %d has %d dimensions, points have %d",
				ErrDimensionMismatch, c, len(centroid), dims)
		}
	}
	return nil
}

// ClusterSizes counts the points carrying each label in [0, k).
// Labels outside that range are ignored.
func ClusterSizes(labels []int, k int) []int {
	sizes := make([]int, k)
	for _, l := range labels {
		if l >= 0 && l < k {
			sizes[l]++
		}
	}
	return sizes
}

// MeanCentroids computes the mean vector of each of the k clusters described
// by labels. A cluster without points gets a nil centroid.
func MeanCentroids(data [][]float64, labels []int, k int) [][]float64 {
	if len(data) == 0 {
		return make([][]float64, k)
	}
	dims := len(data[0])
	sums := make([][]float64, k)
	counts := ClusterSizes(labels, k)
	for c := range sums {
		if counts[c] > 0 {
			sums[c] = make([]float64, dims)
		}
	}
	for i, l := range labels {
		if l >= 0 && l < k {
			floats.Add(sums[l], data[i])
		}
	}
	for c := range sums {
		if counts[c] > 0 {
			floats.Scale(1/float64(counts[c]), sums[c])
		}
	}
	return sums
}

// compactLabels renumbers labels so that only non-empty clusters remain,
// preserving their relative order, and returns the new cluster count.
func compactLabels(labels []int, k int) ([]int, int) {
	sizes := ClusterSizes(labels, k)
	remap := make([]int, k)
	next := 0
	for c, s := range sizes {
		if s > 0 {
			remap[c] = next
			next++
		} else {
			remap[c] = -1
		}
	}
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = remap[l]
	}
	return out, next
}
