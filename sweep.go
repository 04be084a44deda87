package kselect

import (
	"context"
	"fmt"
	"time"
)

// Report is the outcome of a Sweep. Curves are ordered by K; plotting them is
// left to the caller.
type Report struct {
	// Candidates holds one fitted clustering per K in [KMin, KMax].
	Candidates []Candidate `json:"-"`

	// Elbow is the (K, SS) curve. ElbowK is its max-second-difference elbow
	// when Config.ElbowRule is set, and 0 otherwise or when the curve has
	// fewer than three points.
	Elbow  []CurvePoint `json:"elbow"`
	ElbowK int          `json:"elbow_k"`

	// Silhouette is the (K, mean silhouette) curve and SilhouetteK its argmax.
	Silhouette  []CurvePoint `json:"silhouette"`
	SilhouetteK int          `json:"silhouette_k"`

	// Gap and GapK are empty when the gap statistic is disabled.
	Gap  []GapPoint    `json:"gap,omitempty"`
	GapK *GapSelection `json:"gap_k,omitempty"`
}

// Candidate returns the fitted clustering for k.
func (r *Report) Candidate(k int) (Candidate, bool) {
	for _, c := range r.Candidates {
		if c.K == k {
			return c, true
		}
	}
	return Candidate{}, false
}

// Sweep fits one clustering per K in [cfg.KMin, cfg.KMax] and scores every K
// with the elbow curve, the silhouette score and, unless disabled, the gap
// statistic. Fits run concurrently up to cfg.Workers. A fit that does not
// converge is logged and its best available assignment is kept.
func Sweep(ctx context.Context, data [][]float64, cfg Config) (*Report, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if _, err := checkData(data); err != nil {
		return nil, err
	}
	n := len(data)
	if cfg.KMax > n {
		return nil, fmt.Errorf("%w: KMax=%d exceeds %d points", ErrInvalidK, cfg.KMax, n)
	}

	logger := cfg.Logger
	start := time.Now()

	gapEnabled := cfg.GapReplicates > 0
	fitMax := cfg.KMax
	if gapEnabled && cfg.ExtendGapRange {
		if cfg.KMax < n {
			fitMax++
		} else {
			logger.Warn().
				Int("k_max", cfg.KMax).
				Int("points", n).
				Msg("cannot extend gap range past the number of points")
		}
	}

	fitted := make([]Candidate, fitMax-cfg.KMin+1)
	err := runIndexed(ctx, len(fitted), cfg.Workers, func(_ context.Context, i int) error {
		k := cfg.KMin + i
		c, err := fitCandidate(cfg.Fitter, data, k, deriveSeed(cfg.Seed, seedFit, uint64(k)))
		if err != nil {
			return err
		}
		if !c.Converged {
			logger.Warn().
				Err(ErrNonConvergence).
				Int("k", k).
				Int("iterations", c.Iterations).
				Msg("fit did not converge, using best available result")
		}
		logger.Debug().
			Int("k", k).
			Int("clusters", c.Assignment.K()).
			Float64("ss", c.SS).
			Msg("fitted candidate")
		fitted[i] = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := &Report{Candidates: fitted[:cfg.KMax-cfg.KMin+1]}

	report.Elbow = ElbowCurve(report.Candidates)
	if cfg.ElbowRule && len(report.Elbow) >= 3 {
		report.ElbowK, err = ElbowK(report.Elbow)
		if err != nil {
			return nil, err
		}
	}

	report.Silhouette, err = SilhouetteCurve(data, report.Candidates, cfg.Metric, cfg.Workers)
	if err != nil {
		return nil, err
	}
	report.SilhouetteK = BestSilhouetteK(report.Silhouette)

	if gapEnabled {
		points, err := GapStatistic(ctx, data, fitted, GapOptions{
			Replicates: cfg.GapReplicates,
			Fitter:     cfg.Fitter,
			Reference:  cfg.Reference,
			Seed:       cfg.Seed,
			Workers:    cfg.Workers,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		sel, err := SelectGapKWithin(points, len(report.Candidates))
		if err != nil {
			return nil, err
		}
		report.Gap = points[:len(report.Candidates)]
		report.GapK = &sel
	}

	ev := logger.Info().
		Int("points", n).
		Int("k_min", cfg.KMin).
		Int("k_max", cfg.KMax).
		Int("elbow_k", report.ElbowK).
		Int("silhouette_k", report.SilhouetteK).
		Dur("elapsed", time.Since(start))
	if report.GapK != nil {
		ev = ev.Int("gap_k", report.GapK.K).Bool("gap_by_rule", report.GapK.ByRule)
	}
	ev.Msg("sweep complete")

	return report, nil
}
