// Package dbscan implements density-based clustering over an opaque
// collection of items, backed by a vptree.Tree for radius queries.
package dbscan

import (
	"context"
	"fmt"

	"github.com/patrikhermansson/vpdbscan/core"
	"github.com/patrikhermansson/vpdbscan/vptree"
)

// Option configures ClusterItems via functional arguments. An invalid
// Option (e.g. a negative bucket size) is recorded internally and
// surfaced as core.ErrInvalidParameter when ClusterItems is invoked.
type Option func(*Options)

// Options holds parameters and callbacks that customize ClusterItems,
// beyond the required min_cluster_size and eps.
type Options struct {
	// Ctx allows cancellation of a clustering run in progress.
	Ctx context.Context

	// BucketSize controls VP-tree leaf granularity. Affects performance,
	// not the resulting labels.
	BucketSize int

	// Seed drives deterministic pseudo-random vantage selection in the
	// VP-tree build. Affects tree shape, not the resulting labels.
	Seed int64

	// Progress, if non-nil, is called once per point dequeued from the
	// outer loop with (items_processed, items_total).
	Progress func(processed, total int)

	// internal error recorded during option parsing
	err error
}

// defaultOptions returns an Options with sane defaults:
//   - context.Background()
//   - vptree.DefaultBucketSize
//   - seed resolved via core.Seed(0) (env var, else current time)
//   - no-op progress callback
func defaultOptions() Options {
	return Options{
		Ctx:        context.Background(),
		BucketSize: vptree.DefaultBucketSize,
		Seed:       core.Seed(0),
		Progress:   func(int, int) {},
		err:        nil,
	}
}

// WithContext sets a context checked for cancellation once per outer-loop
// iteration and once per radius query.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithBucketSize sets the VP-tree leaf bucket size. A non-positive value
// is an invalid option.
func WithBucketSize(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: bucket size must be >= 1, got %d", core.ErrInvalidParameter, n)
			return
		}
		o.BucketSize = n
	}
}

// WithSeed fixes the seed used for vantage-point selection, replacing the
// time-based default. The seed is resolved through core.Seed, so a set and
// parseable VPDBSCAN_SEED still wins over it. A seed of 0 is treated as
// "use the default resolution" rather than a literal zero seed, matching
// core.Seed's override semantics.
func WithSeed(seed int64) Option {
	return func(o *Options) {
		o.Seed = core.Seed(seed)
	}
}

// WithProgress registers a callback invoked once per point dequeued from
// the outer loop, receiving (items_processed, items_total). Absence of a
// callback must not change clustering behavior.
func WithProgress(fn func(processed, total int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.Progress = fn
		}
	}
}
