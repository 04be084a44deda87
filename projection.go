package kselect

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projection is a principal component view of a point set, used to draw
// clusters in two dimensions.
type Projection struct {
	// Coords[i] holds the first Components principal coordinates of point i.
	Coords [][]float64 `json:"coords"`

	// ExplainedVariance holds the variance along every principal axis in
	// decreasing order, not only the projected ones. Its elbow suggests how
	// many components carry the structure.
	ExplainedVariance []float64 `json:"explained_variance"`

	Components int `json:"components"`
}

// Project centres data and projects it onto its leading principal axes.
// components must be between 1 and the smaller of the point count and the
// dimensionality.
func Project(data [][]float64, components int) (*Projection, error) {
	dims, err := checkData(data)
	if err != nil {
		return nil, err
	}
	n := len(data)
	if n < 2 {
		return nil, fmt.Errorf("kselect: projection needs at least 2 points, got %d", n)
	}
	if components < 1 || components > min(n, dims) {
		return nil, fmt.Errorf("kselect: components must be in [1, %d], got %d", min(n, dims), components)
	}

	x := mat.NewDense(n, dims, nil)
	for i, row := range data {
		x.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, fmt.Errorf("kselect: principal component decomposition failed")
	}
	vars := pc.VarsTo(nil)

	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	// PrincipalComponents centres internally but the projection does not.
	centred := mat.DenseCopyOf(x)
	for j := 0; j < dims; j++ {
		col := mat.Col(nil, j, x)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			centred.Set(i, j, col[i]-mean)
		}
	}

	var proj mat.Dense
	proj.Mul(centred, vecs.Slice(0, dims, 0, components))

	coords := make([][]float64, n)
	for i := range coords {
		coords[i] = mat.Row(nil, i, &proj)
	}

	return &Projection{
		Coords:            coords,
		ExplainedVariance: vars,
		Components:        components,
	}, nil
}
