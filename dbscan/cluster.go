package dbscan

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/vpdbscan/core"
	"github.com/patrikhermansson/vpdbscan/vptree"
)

// Label is a per-item clustering result: either Outlier or a cluster ID
// starting at 0, assigned in the order clusters are first discovered.
type Label int

// Outlier marks a point that DBSCAN classified as noise.
const Outlier Label = -1

// internal per-point states, distinct from the Label values returned to
// the caller: a point only becomes a Label once the algorithm finishes.
const (
	stateUnvisited = -2
	stateNoise     = -1
	// any state >= 0 is the cluster ID the point has been assigned to.
)

// ClusterItems runs DBSCAN over items using metric as the sole source of
// distance information. minClusterSize must be >= 2 (a point and at
// least one neighbor) and eps must be >= 0. It returns one Label per
// item, in input order; Outlier marks noise points, and all other values
// are cluster IDs assigned in first-discovery order.
//
// A zero-length items returns (nil, nil): there is nothing to cluster
// and no parameter was misused.
func ClusterItems[T any](items []T, metric core.Metric[T], minClusterSize int, eps float64, opts ...Option) ([]Label, error) {
	if minClusterSize < 2 {
		return nil, fmt.Errorf("%w: min_cluster_size must be >= 2, got %d", core.ErrInvalidParameter, minClusterSize)
	}
	if eps < 0 {
		return nil, fmt.Errorf("%w: eps must be >= 0, got %v", core.ErrInvalidParameter, eps)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	n := len(items)
	if n == 0 {
		return nil, nil
	}

	log.Debug().Int("items", n).Int("min_cluster_size", minClusterSize).Float64("eps", eps).Msg("building vp-tree")
	tree, err := vptree.Build(items, metric, o.BucketSize, o.Seed)
	if err != nil {
		return nil, err
	}

	d := &driver[T]{
		tree:           tree,
		opts:           o,
		minClusterSize: minClusterSize,
		eps:            eps,
		state:          make([]int, n),
	}
	for i := range d.state {
		d.state[i] = stateUnvisited
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	labels := d.labels()
	log.Debug().Int("clusters", d.nextCluster).Msg("clustering complete")
	return labels, nil
}

// driver carries the mutable state threaded through a single
// ClusterItems invocation: every point's state and the next cluster ID
// to allocate. It is owned exclusively by one call and never reused.
type driver[T any] struct {
	tree           *vptree.Tree[T]
	opts           Options
	minClusterSize int
	eps            float64
	state          []int
	nextCluster    int
}

// run executes spec.md §4.3's algorithm: iterate every point in input
// order, skip already-visited ones, classify unvisited points as noise
// or the seed of a new cluster, and expand each new cluster's seed set
// until it stops growing.
func (d *driver[T]) run() error {
	n := len(d.state)
	for i := 0; i < n; i++ {
		select {
		case <-d.opts.Ctx.Done():
			return core.ErrCancelled
		default:
		}

		d.opts.Progress(i, n)

		if d.state[i] != stateUnvisited {
			continue
		}

		neighbors, err := d.tree.Neighbors(d.opts.Ctx, i, d.eps)
		if err != nil {
			return err
		}
		if len(neighbors) < d.minClusterSize {
			d.state[i] = stateNoise
			continue
		}

		cid := d.nextCluster
		d.nextCluster++
		d.state[i] = cid

		seeds := make([]int, 0, len(neighbors))
		for _, j := range neighbors {
			if j != i {
				seeds = append(seeds, j)
			}
		}
		if err := d.expand(cid, seeds); err != nil {
			return err
		}
	}
	return nil
}

// expand drains the seed set for a single cluster, promoting noise
// points to border members on contact and expanding unvisited points
// into further core points, without ever re-labeling a point already
// claimed by this or any other cluster.
func (d *driver[T]) expand(cid int, seeds []int) error {
	for len(seeds) > 0 {
		j := seeds[len(seeds)-1]
		seeds = seeds[:len(seeds)-1]

		select {
		case <-d.opts.Ctx.Done():
			return core.ErrCancelled
		default:
		}

		switch {
		case d.state[j] == stateNoise:
			d.state[j] = cid
		case d.state[j] == stateUnvisited:
			d.state[j] = cid
			neighbors, err := d.tree.Neighbors(d.opts.Ctx, j, d.eps)
			if err != nil {
				return err
			}
			if len(neighbors) >= d.minClusterSize {
				seeds = append(seeds, neighbors...)
			}
		default:
			// already ASSIGNED(_): first claimant keeps it, no re-labeling.
		}
	}
	return nil
}

func (d *driver[T]) labels() []Label {
	labels := make([]Label, len(d.state))
	for i, s := range d.state {
		if s == stateNoise || s == stateUnvisited {
			labels[i] = Outlier
		} else {
			labels[i] = Label(s)
		}
	}
	return labels
}
