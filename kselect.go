package kselect

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls a K-selection sweep.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// KMin and KMax bound the swept cluster counts, inclusive.
	// KMin must be >= 1 and KMax >= KMin. KMax may not exceed the number of
	// points. Default: 2 and 10.
	KMin int
	KMax int

	// Fitter is the clustering capability used for every K and for every
	// gap reference set. Default: DefaultLloydFitter().
	Fitter Fitter

	// Metric is the distance used by the silhouette score. The sum of
	// squares is always Euclidean. Default: EuclideanMetric.
	Metric DistanceMetric

	// GapReplicates is the number B of uniform reference sets for the gap
	// statistic. 0 disables the gap statistic; 1 is rejected because the
	// reference standard deviation needs at least two samples. Default: 10.
	GapReplicates int

	// ElbowRule picks Report.ElbowK from the SS curve by the largest second
	// difference. Off, the elbow is reported as a curve only. Default: false.
	ElbowRule bool

	// Reference draws gap reference sets. Default: UniformReference.
	Reference ReferenceGenerator

	// ExtendGapRange fits KMax+1 as well, so that the gap stopping rule can
	// choose KMax. The extra K appears in no reported curve. It is ignored
	// when KMax already equals the number of points. Default: false.
	ExtendGapRange bool

	// Seed makes sweeps reproducible. Each (K, replicate) job derives its own
	// seed from it, so results do not depend on Workers. Default: 0.
	Seed uint64

	// Workers bounds the number of concurrent fits and the goroutines used
	// for pairwise distances. 0 means runtime.NumCPU(). Default: 0 (auto).
	Workers int

	// Logger receives progress and non-convergence warnings.
	// Default: the global zerolog logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a Config that sweeps K from 2 to 10 with Lloyd's
// k-means, Euclidean silhouettes and a 10-replicate gap statistic.
func DefaultConfig() Config {
	return Config{
		KMin:          2,
		KMax:          10,
		Fitter:        DefaultLloydFitter(),
		Metric:        EuclideanMetric{},
		GapReplicates: 10,
		Reference:     UniformReference{},
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.KMin < 1 {
		return fmt.Errorf("kselect: KMin must be >= 1, got %d", cfg.KMin)
	}
	if cfg.KMax < cfg.KMin {
		return fmt.Errorf("kselect: KMax must be >= KMin (%d), got %d", cfg.KMin, cfg.KMax)
	}
	if cfg.GapReplicates < 0 {
		return fmt.Errorf("kselect: GapReplicates must be >= 0, got %d", cfg.GapReplicates)
	}
	if cfg.GapReplicates == 1 {
		return fmt.Errorf("%w: GapReplicates must be 0 or >= 2, got 1", ErrInsufficientSamples)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("kselect: Workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Fitter == nil {
		cfg.Fitter = DefaultLloydFitter()
	}
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Reference == nil {
		cfg.Reference = UniformReference{}
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = &log.Logger
	}
}

// Seed streams. Each job mixes one of these with its own indices so that
// observed fits, reference sets and reference fits never share a seed.
const (
	seedFit uint64 = iota + 1
	seedReference
	seedReferenceFit
)

// deriveSeed mixes base with parts using the splitmix64 finalizer.
func deriveSeed(base uint64, parts ...uint64) uint64 {
	h := base
	for _, p := range parts {
		h ^= p + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
		h ^= h >> 30
		h *= 0xbf58476d1ce4e5b9
		h ^= h >> 27
		h *= 0x94d049bb133111eb
		h ^= h >> 31
	}
	return h
}
