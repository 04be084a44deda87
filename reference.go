package kselect

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Range is the closed interval [Min, Max] spanned by one dimension.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bounds is the per-dimension bounding box of a point set.
type Bounds []Range

// DataBounds returns the bounding box of data, which must be non-empty and
// rectangular.
func DataBounds(data [][]float64) (Bounds, error) {
	dims, err := checkData(data)
	if err != nil {
		return nil, err
	}

	col := make([]float64, len(data))
	bounds := make(Bounds, dims)
	for d := range bounds {
		for i, x := range data {
			col[i] = x[d]
		}
		bounds[d] = Range{Min: floats.Min(col), Max: floats.Max(col)}
	}
	return bounds, nil
}

// ReferenceGenerator draws synthetic point sets without cluster structure
// for the gap statistic.
type ReferenceGenerator interface {
	Generate(bounds Bounds, n int, seed uint64) [][]float64
}

// UniformReference samples n points uniformly inside bounds. A dimension with
// Min == Max yields that constant value.
type UniformReference struct{}

func (UniformReference) Generate(bounds Bounds, n int, seed uint64) [][]float64 {
	src := rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)

	dists := make([]distuv.Uniform, len(bounds))
	for d, r := range bounds {
		dists[d] = distuv.Uniform{Min: r.Min, Max: r.Max, Src: src}
	}

	out := make([][]float64, n)
	for i := range out {
		p := make([]float64, len(bounds))
		for d := range dists {
			p[d] = dists[d].Rand()
		}
		out[i] = p
	}
	return out
}
