package core

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors surfaced by vptree and dbscan. All algorithms in this
// module return these via errors.Is rather than panicking on
// caller-triggered conditions; panics are reserved for programmer errors
// (e.g. an out-of-range index passed by this module's own code).
var (
	// ErrInvalidParameter is returned when min_cluster_size < 2, eps < 0,
	// or another caller-supplied parameter is out of range.
	ErrInvalidParameter = errors.New("vpdbscan: invalid parameter")

	// ErrInvalidMetric is returned when a metric call returns a negative,
	// NaN, or infinite distance.
	ErrInvalidMetric = errors.New("vpdbscan: metric returned an invalid distance")

	// ErrMetricFailure is returned when the caller-supplied metric itself
	// reports an error; the original error is wrapped and recoverable via
	// errors.Unwrap.
	ErrMetricFailure = errors.New("vpdbscan: metric call failed")

	// ErrCancelled is returned when cooperative cancellation (the context
	// passed via dbscan.WithContext) is observed mid-call.
	ErrCancelled = errors.New("vpdbscan: cancelled")
)

// ValidateDistance checks that a distance value returned by a Metric is a
// valid metric output: non-negative and finite. Ties and zero distances
// (duplicate items) are valid and pass through unchanged.
func ValidateDistance(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidMetric, d)
	}
	return nil
}

// WrapMetricFailure wraps an error returned by a caller's metric together
// with ErrMetricFailure, so that errors.Is(err, ErrMetricFailure) holds and
// the original cause is reachable through errors.Is and errors.As. The
// result wraps two errors (Unwrap() []error), so errors.Unwrap returns nil
// for it.
func WrapMetricFailure(cause error) error {
	return fmt.Errorf("%w: %w", ErrMetricFailure, cause)
}
