package kselect

import "sort"

// SingleLinkageFitter is agglomerative clustering with single linkage. The k
// clusters are the components left after cutting the k-1 heaviest edges of
// the minimum spanning tree over all points. Unlike k-means it follows
// elongated or chained segments. It is deterministic, so the seed passed to
// Fit is ignored.
type SingleLinkageFitter struct {
	// Metric measures dissimilarity between points. The tree is built from
	// its ReducedDistance. Default: EuclideanMetric.
	Metric DistanceMetric

	// Workers bounds the goroutines building the distance matrix. Default: 1.
	Workers int
}

// Fit implements Fitter. The returned assignment always has exactly k
// clusters, with centroids at the cluster means.
func (f SingleLinkageFitter) Fit(data [][]float64, k int, _ uint64) (*FitResult, error) {
	if _, err := checkData(data); err != nil {
		return nil, err
	}
	n := len(data)
	if err := checkK(k, n); err != nil {
		return nil, err
	}
	metric := f.Metric
	if metric == nil {
		metric = EuclideanMetric{}
	}

	// ReducedDistance is monotone in Distance, so the tree is the same.
	dist := ComputePairwiseDistancesParallel(data, DistanceFunc(metric.ReducedDistance), f.Workers)
	edges := primMST(dist, n)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].weight < edges[j].weight })

	uf := newUnionFind(n)
	for _, e := range edges[:n-k] {
		uf.union(e.from, e.to)
	}
	labels, kept := uf.labels()

	return &FitResult{
		Assignment: Assignment{
			Labels:    labels,
			Centroids: MeanCentroids(data, labels, kept),
		},
		Converged: true,
	}, nil
}
