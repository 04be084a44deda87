package kselect

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// minDispersion floors a sum of squares before taking its logarithm. A
// dispersion of exactly zero (every point on its centroid) would otherwise
// produce -Inf and NaN standard deviations.
const minDispersion = 1e-12

// GapOptions controls GapStatistic.
type GapOptions struct {
	// Replicates is the number B of reference sets. Must be >= 2.
	Replicates int

	// Fitter clusters each reference set. Default: DefaultLloydFitter().
	Fitter Fitter

	// Reference draws the reference sets. Default: UniformReference{}.
	Reference ReferenceGenerator

	// Seed is the base seed for reference generation and reference fits.
	Seed uint64

	// Workers bounds concurrent (replicate, K) fits. Default: 1.
	Workers int

	// Logger receives non-convergence warnings. Default: the global zerolog logger.
	Logger *zerolog.Logger
}

// GapPoint is the gap statistic for one K.
type GapPoint struct {
	K int `json:"k"`

	// LogSS is log SS_k of the observed data.
	LogSS float64 `json:"log_ss"`

	// ExpectedLogSS is the mean of log SS_k over the reference replicates.
	ExpectedLogSS float64 `json:"expected_log_ss"`

	// Gap is ExpectedLogSS - LogSS.
	Gap float64 `json:"gap"`

	// SD is the sample standard deviation of the reference log SS_k and
	// S = SD * sqrt(1 + 1/B) the simulation error used by the stopping rule.
	SD float64 `json:"sd"`
	S  float64 `json:"s"`
}

// GapSelection is the K chosen from a gap curve.
type GapSelection struct {
	K int `json:"k"`

	// ByRule is true when K satisfies Gap(K) >= Gap(K+1) - S(K+1). When no
	// K does, K is the one with the largest gap and ByRule is false.
	ByRule bool `json:"by_rule"`
}

// GapStatistic compares the observed dispersion of each candidate with the
// dispersion of opts.Replicates uniform reference sets drawn inside the
// bounding box of data and clustered with the same K. The result is ordered
// by K.
func GapStatistic(ctx context.Context, data [][]float64, candidates []Candidate, opts GapOptions) ([]GapPoint, error) {
	if opts.Replicates < 2 {
		return nil, fmt.Errorf("%w: gap statistic needs at least 2 replicates, got %d",
			ErrInsufficientSamples, opts.Replicates)
	}
	if opts.Fitter == nil {
		opts.Fitter = DefaultLloydFitter()
	}
	if opts.Reference == nil {
		opts.Reference = UniformReference{}
	}
	if opts.Logger == nil {
		opts.Logger = &log.Logger
	}

	bounds, err := DataBounds(data)
	if err != nil {
		return nil, err
	}

	cands := make([]Candidate, len(candidates))
	copy(cands, candidates)
	sort.Slice(cands, func(i, j int) bool { return cands[i].K < cands[j].K })

	B := opts.Replicates
	n := len(data)
	refs := make([][][]float64, B)
	for b := range refs {
		refs[b] = opts.Reference.Generate(bounds, n, deriveSeed(opts.Seed, seedReference, uint64(b)))
	}

	// refLogSS[ki][b] is log SS of replicate b clustered with cands[ki].K.
	refLogSS := make([][]float64, len(cands))
	for ki := range refLogSS {
		refLogSS[ki] = make([]float64, B)
	}

	jobs := len(cands) * B
	err = runIndexed(ctx, jobs, opts.Workers, func(_ context.Context, j int) error {
		ki, b := j/B, j%B
		k := cands[ki].K
		c, err := fitCandidate(opts.Fitter, refs[b], k, deriveSeed(opts.Seed, seedReferenceFit, uint64(k), uint64(b)))
		if err != nil {
			return fmt.Errorf("kselect: reference replicate %d: %w", b, err)
		}
		if !c.Converged {
			opts.Logger.Warn().
				Err(ErrNonConvergence).
				Int("k", k).
				Int("replicate", b).
				Int("iterations", c.Iterations).
				Msg("reference fit did not converge, using best available result")
		}
		refLogSS[ki][b] = logDispersion(c.SS)
		return nil
	})
	if err != nil {
		return nil, err
	}

	scale := math.Sqrt(1 + 1/float64(B))
	points := make([]GapPoint, len(cands))
	for ki, c := range cands {
		mean, sd := stat.MeanStdDev(refLogSS[ki], nil)
		logSS := logDispersion(c.SS)
		points[ki] = GapPoint{
			K:             c.K,
			LogSS:         logSS,
			ExpectedLogSS: mean,
			Gap:           mean - logSS,
			SD:            sd,
			S:             sd * scale,
		}
	}
	return points, nil
}

// SelectGapK applies the gap stopping rule to a curve that is consecutive in
// K: the smallest K with Gap(K) >= Gap(K+1) - S(K+1). The largest K of the
// curve has no K+1 and is never chosen by the rule; extend the sweep by one
// to make it eligible.
func SelectGapK(points []GapPoint) (GapSelection, error) {
	return SelectGapKWithin(points, len(points))
}

// SelectGapKWithin is SelectGapK restricted to the first eligible points of
// the curve. Points past eligible only serve as the K+1 of the rule, so the
// selection, including the max-gap fallback, always lies in
// points[:eligible].
func SelectGapKWithin(points []GapPoint, eligible int) (GapSelection, error) {
	if len(points) == 0 {
		return GapSelection{}, fmt.Errorf("%w: empty gap curve", ErrInsufficientCurve)
	}
	if eligible < 1 || eligible > len(points) {
		return GapSelection{}, fmt.Errorf("kselect: eligible gap points must be in [1, %d], got %d", len(points), eligible)
	}
	for i := 1; i < len(points); i++ {
		if points[i].K != points[i-1].K+1 {
			return GapSelection{}, fmt.Errorf("kselect: gap curve is not consecutive in K at K=%d", points[i].K)
		}
	}

	for i := 0; i < eligible && i+1 < len(points); i++ {
		if points[i].Gap >= points[i+1].Gap-points[i+1].S {
			return GapSelection{K: points[i].K, ByRule: true}, nil
		}
	}

	best := points[0]
	for _, p := range points[1:eligible] {
		if p.Gap > best.Gap {
			best = p
		}
	}
	return GapSelection{K: best.K}, nil
}

func logDispersion(ss float64) float64 {
	return math.Log(math.Max(ss, minDispersion))
}
