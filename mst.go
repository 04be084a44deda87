package kselect

// mstEdge connects two point indices of a minimum spanning tree.
type mstEdge struct {
	from, to int
	weight   float64
}

// primMST computes a minimum spanning tree of the complete graph described by
// a flat n×n row-major distance matrix, using Prim's algorithm from point 0.
// Returns n-1 edges in the order points joined the tree; each edge links the
// new point to the tree point it was nearest to when it joined.
func primMST(dist []float64, n int) []mstEdge {
	if n <= 1 {
		return nil
	}

	inTree := make([]bool, n)
	nearest := make([]float64, n)
	parent := make([]int, n)

	// Seed distances from node 0's row.
	inTree[0] = true
	copy(nearest, dist[:n])

	edges := make([]mstEdge, 0, n-1)
	for len(edges) < n-1 {
		next := -1
		for j := 0; j < n; j++ {
			if !inTree[j] && (next < 0 || nearest[j] < nearest[next]) {
				next = j
			}
		}

		edges = append(edges, mstEdge{from: parent[next], to: next, weight: nearest[next]})
		inTree[next] = true

		row := dist[next*n : (next+1)*n]
		for k, d := range row {
			if !inTree[k] && d < nearest[k] {
				nearest[k] = d
				parent[k] = next
			}
		}
	}

	return edges
}
