package kselect

import (
	"errors"
	"fmt"
)

// FitResult is the output of one clustering fit.
type FitResult struct {
	Assignment Assignment

	// Converged reports whether the fitter stabilized before its iteration
	// limit. Iterations is the number of iterations of the returned run.
	Converged  bool
	Iterations int
}

// Fitter partitions data into k clusters. Implementations must be safe for
// concurrent use, since sweeps call Fit from several goroutines.
//
// When the iteration limit is hit, Fit returns the best assignment it has
// together with an error wrapping ErrNonConvergence.
type Fitter interface {
	Fit(data [][]float64, k int, seed uint64) (*FitResult, error)
}

// FitFunc adapts a plain function into a Fitter.
type FitFunc func(data [][]float64, k int, seed uint64) (*FitResult, error)

func (f FitFunc) Fit(data [][]float64, k int, seed uint64) (*FitResult, error) {
	return f(data, k, seed)
}

// checkK validates a cluster count against the number of points.
func checkK(k, n int) error {
	if k < 1 || k > n {
		return fmt.Errorf("%w: k=%d for %d points", ErrInvalidK, k, n)
	}
	return nil
}

// fitCandidate runs fitter and turns its result into a validated Candidate.
// Non-convergence is not an error here; Candidate.Converged reports it so the
// caller can log it.
func fitCandidate(fitter Fitter, data [][]float64, k int, seed uint64) (Candidate, error) {
	res, err := fitter.Fit(data, k, seed)
	if err != nil && !errors.Is(err, ErrNonConvergence) {
		return Candidate{}, fmt.Errorf("kselect: fit k=%d: %w", k, err)
	}
	if res == nil {
		return Candidate{}, fmt.Errorf("kselect: fit k=%d returned no result", k)
	}

	ss, verr := WithinClusterSS(data, res.Assignment)
	if verr != nil {
		return Candidate{}, fmt.Errorf("kselect: fit k=%d: %w", k, verr)
	}

	return Candidate{
		K:          k,
		Assignment: res.Assignment,
		SS:         ss,
		Converged:  res.Converged && err == nil,
		Iterations: res.Iterations,
	}, nil
}
