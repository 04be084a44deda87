package kselect

import (
	"math/rand/v2"
)

// sixPoints is two tight 3-point clusters near (0,0) and (10,10).
func sixPoints() ([][]float64, Assignment) {
	data := [][]float64{
		{0, 0}, {0.5, 0}, {0, 0.5},
		{10, 10}, {10.5, 10}, {10, 10.5},
	}
	labels := []int{0, 0, 0, 1, 1, 1}
	return data, Assignment{Labels: labels, Centroids: MeanCentroids(data, labels, 2)}
}

// singletons assigns every point of data to its own cluster.
func singletons(data [][]float64) Assignment {
	labels := make([]int, len(data))
	for i := range labels {
		labels[i] = i
	}
	return Assignment{Labels: labels, Centroids: MeanCentroids(data, labels, len(data))}
}

// blobs draws perPoint points around each center with Gaussian noise of the
// given spread. Labels follow the center order.
func blobs(centers [][]float64, perCenter int, spread float64, seed uint64) ([][]float64, []int) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	var data [][]float64
	var labels []int
	for c, center := range centers {
		for i := 0; i < perCenter; i++ {
			p := make([]float64, len(center))
			for d := range p {
				p[d] = center[d] + rng.NormFloat64()*spread
			}
			data = append(data, p)
			labels = append(labels, c)
		}
	}
	return data, labels
}

// uniformPoints draws n points uniformly in the unit hypercube.
func uniformPoints(n, dims int, seed uint64) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, dims)
		for d := range data[i] {
			data[i][d] = rng.Float64()
		}
	}
	return data
}

// responses builds a binary customer-by-offer matrix with two obvious
// segments: customers answering offers 0-3 and customers answering 4-7.
func responses() [][]float64 {
	var data [][]float64
	for i := 0; i < 10; i++ {
		row := make([]float64, 8)
		base := 0
		if i%2 == 1 {
			base = 4
		}
		for j := 0; j < 4; j++ {
			if (i+j)%5 != 0 {
				row[base+j] = 1
			}
		}
		data = append(data, row)
	}
	return data
}
