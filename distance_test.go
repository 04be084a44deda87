package kselect

import (
	"math"
	"testing"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// --- EuclideanMetric tests ---

func TestEuclideanDistance_IdenticalVectors(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 0, 1, 1}
	if d := m.Distance(a, a); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestEuclideanDistance_HandComputed(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// sqrt(9+16+0) = 5
	if d := m.Distance(a, b); !almostEqual(d, 5.0, floatTol) {
		t.Errorf("expected 5.0, got %v", d)
	}
}

func TestEuclideanDistance_BinaryResponses(t *testing.T) {
	m := EuclideanMetric{}
	// Two customers disagreeing on three offers.
	a := []float64{1, 0, 0, 1, 1}
	b := []float64{0, 0, 1, 1, 0}
	if d := m.Distance(a, b); !almostEqual(d, math.Sqrt(3), floatTol) {
		t.Errorf("expected sqrt(3), got %v", d)
	}
}

func TestEuclideanReducedDistance_IsSquared(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	if d := m.ReducedDistance(a, b); !almostEqual(d, 25.0, floatTol) {
		t.Errorf("expected 25.0, got %v", d)
	}
}

// --- ManhattanMetric tests ---

func TestManhattanDistance_HandComputed(t *testing.T) {
	m := ManhattanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 0, 3}
	// 3 + 2 + 0
	if d := m.Distance(a, b); !almostEqual(d, 5.0, floatTol) {
		t.Errorf("expected 5.0, got %v", d)
	}
	if r := m.ReducedDistance(a, b); r != m.Distance(a, b) {
		t.Errorf("ReducedDistance %v != Distance %v", r, m.Distance(a, b))
	}
}

// --- ChebyshevMetric tests ---

func TestChebyshevDistance_HandComputed(t *testing.T) {
	m := ChebyshevMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 0, 3.5}
	if d := m.Distance(a, b); !almostEqual(d, 3.0, floatTol) {
		t.Errorf("expected 3.0, got %v", d)
	}
}

// --- CosineMetric tests ---

func TestCosineDistance_ParallelVectors(t *testing.T) {
	m := CosineMetric{}
	a := []float64{1, 2, 3}
	b := []float64{2, 4, 6}
	if d := m.Distance(a, b); !almostEqual(d, 0, floatTol) {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestCosineDistance_OrthogonalVectors(t *testing.T) {
	m := CosineMetric{}
	a := []float64{1, 0}
	b := []float64{0, 1}
	if d := m.Distance(a, b); !almostEqual(d, 1, floatTol) {
		t.Errorf("expected 1, got %v", d)
	}
}

func TestCosineDistance_ZeroVectors(t *testing.T) {
	m := CosineMetric{}
	zero := []float64{0, 0, 0}
	other := []float64{1, 0, 1}

	if d := m.Distance(zero, zero); d != 0 {
		t.Errorf("zero vs zero: expected 0, got %v", d)
	}
	if d := m.Distance(zero, other); d != 1 {
		t.Errorf("zero vs non-zero: expected 1, got %v", d)
	}
	if d := m.Distance(other, zero); d != 1 {
		t.Errorf("non-zero vs zero: expected 1, got %v", d)
	}
}

// --- DistanceFunc adapter tests ---

func TestDistanceFunc_Adapter(t *testing.T) {
	calls := 0
	f := DistanceFunc(func(a, b []float64) float64 {
		calls++
		return math.Abs(a[0] - b[0])
	})

	var m DistanceMetric = f
	if d := m.Distance([]float64{3}, []float64{1}); d != 2 {
		t.Errorf("Distance: expected 2, got %v", d)
	}
	if d := m.ReducedDistance([]float64{3}, []float64{1}); d != 2 {
		t.Errorf("ReducedDistance: expected 2, got %v", d)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

// --- ComputePairwiseDistances tests ---

func TestComputePairwiseDistances_3Points(t *testing.T) {
	data := [][]float64{{0, 0}, {3, 0}, {0, 4}}
	n := len(data)
	dist := ComputePairwiseDistances(data, EuclideanMetric{})

	if len(dist) != n*n {
		t.Fatalf("expected length %d, got %d", n*n, len(dist))
	}

	expected := []float64{
		0, 3, 4,
		3, 0, 5,
		4, 5, 0,
	}
	for i := range expected {
		if !almostEqual(dist[i], expected[i], floatTol) {
			t.Errorf("dist[%d] = %v, expected %v", i, dist[i], expected[i])
		}
	}
}

func TestComputePairwiseDistances_Symmetry(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}}
	n := len(data)
	dist := ComputePairwiseDistances(data, ManhattanMetric{})

	for i := 0; i < n; i++ {
		if dist[i*n+i] != 0 {
			t.Errorf("diagonal dist[%d,%d] = %v, expected 0", i, i, dist[i*n+i])
		}
		for j := 0; j < n; j++ {
			if dist[i*n+j] != dist[j*n+i] {
				t.Errorf("asymmetric: dist[%d,%d]=%v != dist[%d,%d]=%v",
					i, j, dist[i*n+j], j, i, dist[j*n+i])
			}
		}
	}
}

func TestComputePairwiseDistances_Empty(t *testing.T) {
	if dist := ComputePairwiseDistances(nil, EuclideanMetric{}); len(dist) != 0 {
		t.Errorf("expected empty matrix, got length %d", len(dist))
	}
}
