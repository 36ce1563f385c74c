package vptree

import (
	"math/rand"
	"sort"

	"github.com/patrikhermansson/vpdbscan/core"
)

// DefaultBucketSize is used when a caller passes a non-positive bucket
// size, matching spec.md's "bucket_size: positive integer, default 1."
const DefaultBucketSize = 1

// Build constructs an immutable vantage-point tree over items, using
// metric as the only source of information about them. bucketSize
// controls leaf granularity (a value < 1 is replaced by
// DefaultBucketSize); seed drives the deterministic pseudo-random
// vantage selection described in spec.md §4.1, so that two builds with
// the same seed produce the same tree shape.
//
// Build performs Θ(n log n) metric evaluations in expectation, with
// O(log n) expected recursion depth when vantages are well distributed;
// worst case (an adversarial metric, or unlucky vantages) can approach
// O(n) depth, same as any randomized tree.
func Build[T any](items []T, metric core.Metric[T], bucketSize int, seed int64) (*Tree[T], error) {
	if bucketSize < 1 {
		bucketSize = DefaultBucketSize
	}
	n := len(items)
	if n == 0 {
		return &Tree[T]{items: items, metric: metric, bucketSize: bucketSize}, nil
	}

	rnd := rand.New(rand.NewSource(seed))
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	b := &builder[T]{items: items, metric: metric, bucketSize: bucketSize, rnd: rnd}
	root, err := b.build(indices)
	if err != nil {
		return nil, err
	}
	return &Tree[T]{items: items, metric: metric, root: root, bucketSize: bucketSize}, nil
}

// builder carries the state threaded through recursive tree construction.
type builder[T any] struct {
	items      []T
	metric     core.Metric[T]
	bucketSize int
	rnd        *rand.Rand
}

// distPair is a scratch (index, distance-from-vantage) pair used for the
// in-place quickselect median computation (spec.md §9, "Median
// selection"), rather than a full sort, to keep build-time metric
// evaluations and allocation tight.
type distPair struct {
	idx  int
	dist float64
}

func (b *builder[T]) build(s []int) (*node, error) {
	if len(s) <= b.bucketSize {
		bucket := make([]int, len(s))
		copy(bucket, s)
		return &node{leaf: true, bucket: bucket}, nil
	}

	vantagePos := b.rnd.Intn(len(s))
	vantage := s[vantagePos]

	rest := make([]int, 0, len(s)-1)
	for i, x := range s {
		if i != vantagePos {
			rest = append(rest, x)
		}
	}

	pairs := make([]distPair, len(rest))
	for i, x := range rest {
		d, err := b.metric(b.items[vantage], b.items[x])
		if err != nil {
			return nil, core.WrapMetricFailure(err)
		}
		if verr := core.ValidateDistance(d); verr != nil {
			return nil, verr
		}
		pairs[i] = distPair{idx: x, dist: d}
	}

	mid := len(pairs) / 2
	quickselect(pairs, mid)
	threshold := pairs[mid].dist

	distOf := make(map[int]float64, len(pairs))
	for _, p := range pairs {
		distOf[p.idx] = p.dist
	}

	var inner, outer []int
	for _, p := range pairs {
		if p.dist <= threshold {
			inner = append(inner, p.idx)
		} else {
			outer = append(outer, p.idx)
		}
	}
	if len(outer) == 0 {
		inner, outer = rebalanceTies(inner, distOf, threshold)
	}

	innerChild, err := b.build(inner)
	if err != nil {
		return nil, err
	}
	var outerChild *node
	if len(outer) > 0 {
		outerChild, err = b.build(outer)
		if err != nil {
			return nil, err
		}
	}

	return &node{
		leaf:      false,
		vantage:   vantage,
		threshold: threshold,
		inner:     innerChild,
		outer:     outerChild,
	}, nil
}

// rebalanceTies handles the case where every member of a node's subset
// (besides the vantage) fell into inner — i.e. threshold equals the
// maximum observed distance. It moves the tied-at-threshold members with
// the largest indices into outer: half of the tied group, rounded down,
// but at least one member, so outer is never left empty. The members
// below threshold and the rest of the tied group stay in inner
// (spec.md §4.1 step 6).
func rebalanceTies(inner []int, distOf map[int]float64, threshold float64) (newInner, outer []int) {
	var tied, less []int
	for _, x := range inner {
		if distOf[x] == threshold {
			tied = append(tied, x)
		} else {
			less = append(less, x)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tied)))

	moveCount := len(tied) / 2
	if moveCount == 0 && len(tied) > 0 {
		moveCount = 1
	}

	outer = append(outer, tied[:moveCount]...)
	newInner = append(less, tied[moveCount:]...)
	return newInner, outer
}

// quickselect partitions pairs in place so that pairs[k] holds the
// element that would occupy position k were pairs fully sorted by
// distance, with every element before k <= pairs[k] and every element
// after k >= pairs[k]. It is the in-place, linear-time nth-element
// selection spec.md §4.1 step 5 and §9 call for, used here instead of a
// full O(n log n) sort.
func quickselect(pairs []distPair, k int) {
	lo, hi := 0, len(pairs)-1
	for lo < hi {
		pivotIndex := lomutoPartition(pairs, lo, hi, lo+(hi-lo)/2)
		switch {
		case k == pivotIndex:
			return
		case k < pivotIndex:
			hi = pivotIndex - 1
		default:
			lo = pivotIndex + 1
		}
	}
}

func lomutoPartition(pairs []distPair, lo, hi, pivotIndex int) int {
	pivotVal := pairs[pivotIndex].dist
	pairs[pivotIndex], pairs[hi] = pairs[hi], pairs[pivotIndex]
	store := lo
	for i := lo; i < hi; i++ {
		if pairs[i].dist < pivotVal {
			pairs[i], pairs[store] = pairs[store], pairs[i]
			store++
		}
	}
	pairs[store], pairs[hi] = pairs[hi], pairs[store]
	return store
}
