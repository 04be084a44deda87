package kselect

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestComputePairwiseDistancesParallel_BitwiseIdentical(t *testing.T) {
	data := [][]float64{{0, 0}, {3, 0}, {0, 4}, {1, 1}, {5, 5}}
	metric := EuclideanMetric{}

	sequential := ComputePairwiseDistances(data, metric)

	for _, workers := range []int{1, 2, 4} {
		parallel := ComputePairwiseDistancesParallel(data, metric, workers)

		if len(parallel) != len(sequential) {
			t.Fatalf("workers=%d: length mismatch %d != %d", workers, len(parallel), len(sequential))
		}

		for i := range sequential {
			if parallel[i] != sequential[i] {
				t.Errorf("workers=%d: result[%d] = %v, expected %v (bitwise)",
					workers, i, parallel[i], sequential[i])
			}
		}
	}
}

func TestComputePairwiseDistancesParallel_SinglePoint(t *testing.T) {
	result := ComputePairwiseDistancesParallel([][]float64{{1, 2}}, EuclideanMetric{}, 4)

	if len(result) != 1 {
		t.Fatalf("expected length 1, got %d", len(result))
	}
	if result[0] != 0 {
		t.Errorf("expected 0, got %v", result[0])
	}
}

func TestComputePairwiseDistancesParallel_MoreWorkersThanRows(t *testing.T) {
	data := [][]float64{{0, 0}, {3, 4}, {6, 0}}

	sequential := ComputePairwiseDistances(data, EuclideanMetric{})
	parallel := ComputePairwiseDistancesParallel(data, EuclideanMetric{}, 10)

	for i := range sequential {
		if parallel[i] != sequential[i] {
			t.Errorf("parallel[%d] = %v, expected %v", i, parallel[i], sequential[i])
		}
	}
}

func TestComputePairwiseDistancesParallel_LargerDataset(t *testing.T) {
	// 20 points in 3 dimensions so that every worker gets real load.
	n, dims := 20, 3
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, dims)
		for d := range data[i] {
			data[i][d] = math.Sin(float64(i*dims+d) * 0.7)
		}
	}

	sequential := ComputePairwiseDistances(data, EuclideanMetric{})

	for _, workers := range []int{2, 4, 7} {
		parallel := ComputePairwiseDistancesParallel(data, EuclideanMetric{}, workers)

		for i := range sequential {
			if parallel[i] != sequential[i] {
				t.Errorf("workers=%d: parallel[%d] = %v, expected %v",
					workers, i, parallel[i], sequential[i])
			}
		}
	}
}

func TestRunIndexed_VisitsEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 16} {
		var hits [25]int32
		err := runIndexed(context.Background(), len(hits), workers, func(_ context.Context, i int) error {
			atomic.AddInt32(&hits[i], 1)
			return nil
		})
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}
		for i, h := range hits {
			if h != 1 {
				t.Errorf("workers=%d: index %d visited %d times", workers, i, h)
			}
		}
	}
}

func TestRunIndexed_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := runIndexed(context.Background(), 10, 2, func(_ context.Context, i int) error {
		if i == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestRunIndexed_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	err := runIndexed(ctx, 5, 2, func(_ context.Context, _ int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no calls on a cancelled context, got %d", calls)
	}
}
