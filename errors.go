package kselect

import "errors"

var (
	// ErrEmptyData is returned when a function that needs points receives none.
	ErrEmptyData = errors.New("kselect: no data points")

	// ErrInvalidAssignment is returned when an assignment references a point
	// or label that does not exist, or its centroids do not match its labels.
	ErrInvalidAssignment = errors.New("kselect: invalid assignment")

	// ErrDimensionMismatch is returned when two vectors that must share a
	// dimensionality do not.
	ErrDimensionMismatch = errors.New("kselect: dimension mismatch")

	// ErrNonFiniteValue is returned when a point holds NaN or an infinity.
	ErrNonFiniteValue = errors.New("kselect: non-finite value")

	// ErrInsufficientSamples is returned by the gap statistic when fewer than
	// two reference replicates are requested.
	ErrInsufficientSamples = errors.New("kselect: insufficient reference samples")

	// ErrNonConvergence is returned by a Fitter that ran out of iterations.
	// The accompanying FitResult is still usable.
	ErrNonConvergence = errors.New("kselect: clustering did not converge")

	// ErrInvalidK is returned for a cluster count outside [1, n].
	ErrInvalidK = errors.New("kselect: invalid cluster count")

	// ErrInsufficientCurve is returned by ElbowK for curves with fewer than
	// three points.
	ErrInsufficientCurve = errors.New("kselect: curve too short")
)
