package kselect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinClusterSS_SixPoints(t *testing.T) {
	data, a := sixPoints()

	ss, err := WithinClusterSS(data, a)
	require.NoError(t, err)
	assert.Less(t, ss, 10.0)
	// Each cluster contributes 1/3 around its centroid (1/6, 1/6).
	assert.InDelta(t, 2.0/3.0, ss, 1e-12)
}

func TestWithinClusterSS_SingletonsIsZero(t *testing.T) {
	data, _ := sixPoints()

	ss, err := WithinClusterSS(data, singletons(data))
	require.NoError(t, err)
	if ss != 0 {
		t.Errorf("expected SS = 0 with one cluster per point, got %v", ss)
	}
}

func TestWithinClusterSS_NonNegative(t *testing.T) {
	data := uniformPoints(40, 3, 7)
	for k := 1; k <= 6; k++ {
		labels := make([]int, len(data))
		for i := range labels {
			labels[i] = i % k
		}
		a := Assignment{Labels: labels, Centroids: MeanCentroids(data, labels, k)}

		ss, err := WithinClusterSS(data, a)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ss, 0.0, "k=%d", k)
	}
}

func TestWithinClusterSS_RefinementNeverIncreases(t *testing.T) {
	data := uniformPoints(30, 2, 11)

	// K=1, then split by x, then split each half by y: every step refines
	// the previous partition and uses mean centroids.
	partitions := [][]int{make([]int, len(data)), make([]int, len(data)), make([]int, len(data))}
	for i, p := range data {
		if p[0] >= 0.5 {
			partitions[1][i] = 1
			partitions[2][i] = 2
		}
		if p[1] >= 0.5 {
			partitions[2][i]++
		}
	}

	prev := -1.0
	for step, labels := range partitions {
		labels, k := compactLabels(labels, 4)
		ss, err := WithinClusterSS(data, Assignment{Labels: labels, Centroids: MeanCentroids(data, labels, k)})
		require.NoError(t, err)
		if step > 0 {
			assert.LessOrEqual(t, ss, prev, "step %d", step)
		}
		prev = ss
	}
}

func TestWithinClusterSS_Idempotent(t *testing.T) {
	data, labels := blobs([][]float64{{0, 0, 0}, {5, 5, 5}}, 15, 0.7, 3)
	a := Assignment{Labels: labels, Centroids: MeanCentroids(data, labels, 2)}

	first, err := WithinClusterSS(data, a)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := WithinClusterSS(data, a)
		require.NoError(t, err)
		if again != first {
			t.Fatalf("call %d: %v != %v (bitwise)", i, again, first)
		}
	}
}

func TestWithinClusterSS_InvalidAssignment(t *testing.T) {
	data, a := sixPoints()
	a.Labels = []int{0, 0, 0, 1, 1, 7}

	_, err := WithinClusterSS(data, a)
	assert.True(t, errors.Is(err, ErrInvalidAssignment), "got %v", err)
}

func TestElbowCurve_SortedByK(t *testing.T) {
	curve := ElbowCurve([]Candidate{{K: 4, SS: 1}, {K: 2, SS: 9}, {K: 3, SS: 4}})
	assert.Equal(t, []CurvePoint{{K: 2, Value: 9}, {K: 3, Value: 4}, {K: 4, Value: 1}}, curve)
}

func TestElbowK_MaxSecondDifference(t *testing.T) {
	curve := []CurvePoint{
		{K: 1, Value: 100},
		{K: 2, Value: 60},
		{K: 3, Value: 20},
		{K: 4, Value: 17},
		{K: 5, Value: 15},
		{K: 6, Value: 14},
	}
	// Second differences: K=2: 0, K=3: 37, K=4: 1, K=5: 1.
	k, err := ElbowK(curve)
	require.NoError(t, err)
	assert.Equal(t, 3, k)
}

func TestElbowK_Errors(t *testing.T) {
	_, err := ElbowK([]CurvePoint{{K: 2, Value: 3}, {K: 3, Value: 1}})
	assert.ErrorIs(t, err, ErrInsufficientCurve)

	_, err = ElbowK([]CurvePoint{{K: 2, Value: 3}, {K: 4, Value: 2}, {K: 5, Value: 1}})
	assert.Error(t, err, "gap in K should be rejected")
}
