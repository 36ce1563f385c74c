package vptree

import (
	"context"
	"fmt"

	"github.com/patrikhermansson/vpdbscan/core"
)

// Neighbors returns every index i such that d(items[q], items[i]) <= eps,
// where q is itself an index into the original collection. q is always
// included in its own result (distance zero), and duplicate items
// (distance zero but distinct indices) are all returned. The returned
// slice is unordered and contains no duplicate indices.
//
// ctx is checked once per call, before descending the tree, so a
// cancelled context aborts the query with core.ErrCancelled rather than
// running it to completion; pass context.Background() if cancellation is
// not needed.
func (t *Tree[T]) Neighbors(ctx context.Context, q int, eps float64) ([]int, error) {
	if eps < 0 {
		return nil, fmt.Errorf("%w: eps must be >= 0, got %v", core.ErrInvalidParameter, eps)
	}
	select {
	case <-ctx.Done():
		return nil, core.ErrCancelled
	default:
	}
	if t.root == nil {
		return nil, nil
	}

	var result []int
	if err := t.query(t.root, q, eps, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// query implements the recursive triangle-inequality-pruned descent of
// spec.md §4.2: at a leaf every bucket member is checked directly; at an
// internal node the vantage is checked, and either or both children are
// descended depending on how the query ball at radius eps around q
// relates to the node's threshold.
func (t *Tree[T]) query(n *node, q int, eps float64, result *[]int) error {
	if n == nil {
		return nil
	}
	if n.leaf {
		for _, x := range n.bucket {
			d, err := t.metric(t.items[q], t.items[x])
			if err != nil {
				return core.WrapMetricFailure(err)
			}
			if verr := core.ValidateDistance(d); verr != nil {
				return verr
			}
			if d <= eps {
				*result = append(*result, x)
			}
		}
		return nil
	}

	dv, err := t.metric(t.items[q], t.items[n.vantage])
	if err != nil {
		return core.WrapMetricFailure(err)
	}
	if verr := core.ValidateDistance(dv); verr != nil {
		return verr
	}
	if dv <= eps {
		*result = append(*result, n.vantage)
	}

	// Some inner-subtree point could be within eps of q.
	if dv-eps <= n.threshold {
		if err := t.query(n.inner, q, eps, result); err != nil {
			return err
		}
	}
	// Some outer-subtree point could be within eps of q. Uses >= rather
	// than the open-interval > a plain partition would justify: build.go's
	// rebalanceTies can place an item whose distance to the vantage
	// exactly equals threshold into outer (spec.md §4.1 step 6), so the
	// outer subtree is not guaranteed to satisfy d(vantage,x) > threshold
	// strictly. >= only widens which subtrees get visited, never narrows,
	// so it stays correct regardless of which side ties landed on.
	if dv+eps >= n.threshold {
		if err := t.query(n.outer, q, eps, result); err != nil {
			return err
		}
	}
	return nil
}
