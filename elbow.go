package kselect

import (
	"fmt"
	"sort"
)

// CurvePoint is one (K, value) pair of a per-K metric curve.
type CurvePoint struct {
	K     int     `json:"k"`
	Value float64 `json:"value"`
}

// WithinClusterSS returns the sum over all points of the squared Euclidean
// distance to their assigned centroid. The assignment is validated first.
func WithinClusterSS(data [][]float64, a Assignment) (float64, error) {
	if err := ValidateAssignment(data, a); err != nil {
		return 0, err
	}
	return withinClusterSS(data, a), nil
}

// withinClusterSS is WithinClusterSS without validation.
func withinClusterSS(data [][]float64, a Assignment) float64 {
	var ss float64
	for i, x := range data {
		ss += squaredEuclidean(x, a.Centroids[a.Labels[i]])
	}
	return ss
}

// ElbowCurve returns the (K, SS) curve of the candidates ordered by K.
func ElbowCurve(candidates []Candidate) []CurvePoint {
	curve := make([]CurvePoint, len(candidates))
	for i, c := range candidates {
		curve[i] = CurvePoint{K: c.K, Value: c.SS}
	}
	return sortCurve(curve)
}

func sortCurve(curve []CurvePoint) []CurvePoint {
	sort.Slice(curve, func(i, j int) bool { return curve[i].K < curve[j].K })
	return curve
}

// ElbowK picks the elbow of a consecutive SS curve as the K with the largest
// second difference SS(K-1) - 2·SS(K) + SS(K+1). The first and last K cannot
// be picked. Ties go to the smaller K.
func ElbowK(curve []CurvePoint) (int, error) {
	if len(curve) < 3 {
		return 0, fmt.Errorf("%w: elbow needs 3 points, got %d", ErrInsufficientCurve, len(curve))
	}
	for i := 1; i < len(curve); i++ {
		if curve[i].K != curve[i-1].K+1 {
			return 0, fmt.Errorf("kselect: elbow curve is not consecutive in K at K=%d", curve[i].K)
		}
	}

	bestK := curve[1].K
	bestDiff := curve[0].Value - 2*curve[1].Value + curve[2].Value
	for i := 2; i < len(curve)-1; i++ {
		d := curve[i-1].Value - 2*curve[i].Value + curve[i+1].Value
		if d > bestDiff {
			bestDiff = d
			bestK = curve[i].K
		}
	}
	return bestK, nil
}
