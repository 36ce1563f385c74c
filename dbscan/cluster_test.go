package dbscan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/patrikhermansson/vpdbscan/core"
	"github.com/patrikhermansson/vpdbscan/dbscan"
	"github.com/patrikhermansson/vpdbscan/metrics"
)

func absMetric(a, b float64) (float64, error) {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d, nil
}

func TestClusterItemsRejectsSmallMinClusterSize(t *testing.T) {
	_, err := dbscan.ClusterItems([]float64{1, 2, 3}, absMetric, 1, 1)
	if !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("ClusterItems(minClusterSize=1) = %v, want ErrInvalidParameter", err)
	}
}

func TestClusterItemsRejectsNegativeEps(t *testing.T) {
	_, err := dbscan.ClusterItems([]float64{1, 2, 3}, absMetric, 2, -1)
	if !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("ClusterItems(eps=-1) = %v, want ErrInvalidParameter", err)
	}
}

func TestClusterItemsEmptyInput(t *testing.T) {
	labels, err := dbscan.ClusterItems[float64](nil, absMetric, 2, 1)
	if err != nil {
		t.Fatalf("ClusterItems(empty) failed: %v", err)
	}
	if labels != nil {
		t.Errorf("ClusterItems(empty) = %v, want nil", labels)
	}
}

// S1: a 1D toy example with two well-separated dense groups and one
// isolated outlier.
func TestClusterItemsToy1D(t *testing.T) {
	items := []float64{0, 0.5, 1, 10, 10.5, 11, 100}
	labels, err := dbscan.ClusterItems(items, absMetric, 3, 1)
	if err != nil {
		t.Fatalf("ClusterItems failed: %v", err)
	}
	if len(labels) != len(items) {
		t.Fatalf("len(labels) = %d, want %d", len(labels), len(items))
	}

	assertSameCluster(t, labels, 0, 1, 2)
	assertSameCluster(t, labels, 3, 4, 5)
	assertDifferentCluster(t, labels, 0, 3)
	if labels[6] != dbscan.Outlier {
		t.Errorf("labels[6] = %v, want Outlier", labels[6])
	}
	if labels[0] == dbscan.Outlier {
		t.Errorf("labels[0] = Outlier, want a real cluster")
	}
}

// S2: points spaced too far apart for any of them to have a neighbor
// within eps; every point must be Outlier.
func TestClusterItemsAllOutliersWhenTooSparse(t *testing.T) {
	items := []float64{0, 100, 200, 300, 400}
	labels, err := dbscan.ClusterItems(items, absMetric, 2, 1)
	if err != nil {
		t.Fatalf("ClusterItems failed: %v", err)
	}
	for i, l := range labels {
		if l != dbscan.Outlier {
			t.Errorf("labels[%d] = %v, want Outlier", i, l)
		}
	}
}

// S3: Levenshtein-distance clustering of similar short strings.
func TestClusterItemsLevenshteinStrings(t *testing.T) {
	items := []string{"cat", "cats", "car", "dog", "dogs", "zzzzzzzz"}
	labels, err := dbscan.ClusterItems(items, metrics.LevenshteinMetric, 2, 1)
	if err != nil {
		t.Fatalf("ClusterItems failed: %v", err)
	}
	assertSameCluster(t, labels, 0, 1)
	assertSameCluster(t, labels, 3, 4)
	assertDifferentCluster(t, labels, 0, 3)
	if labels[5] != dbscan.Outlier {
		t.Errorf("labels[5] (zzzzzzzz) = %v, want Outlier", labels[5])
	}
}

// S4: duplicate items at eps=0 must all join the same cluster, since
// their pairwise distance is exactly zero.
func TestClusterItemsDuplicatesAtEpsilonZero(t *testing.T) {
	items := []float64{5, 5, 5, 5, 100}
	labels, err := dbscan.ClusterItems(items, absMetric, 2, 0)
	if err != nil {
		t.Fatalf("ClusterItems failed: %v", err)
	}
	assertSameCluster(t, labels, 0, 1, 2, 3)
	if labels[4] != dbscan.Outlier {
		t.Errorf("labels[4] = %v, want Outlier", labels[4])
	}
}

// S5: two runs over the same input and fixed seed must produce
// identical labels.
func TestClusterItemsDeterministicForFixedSeed(t *testing.T) {
	items := []float64{0, 0.5, 1, 10, 10.5, 11, 100, 2, 9, 50}
	labels1, err := dbscan.ClusterItems(items, absMetric, 3, 1, dbscan.WithSeed(123), dbscan.WithBucketSize(2))
	if err != nil {
		t.Fatalf("ClusterItems failed: %v", err)
	}
	labels2, err := dbscan.ClusterItems(items, absMetric, 3, 1, dbscan.WithSeed(123), dbscan.WithBucketSize(2))
	if err != nil {
		t.Fatalf("ClusterItems failed: %v", err)
	}
	for i := range labels1 {
		if labels1[i] != labels2[i] {
			t.Fatalf("labels differ at %d: %v vs %v", i, labels1, labels2)
		}
	}
}

func TestClusterItemsProgressCallback(t *testing.T) {
	items := []float64{0, 0.5, 1, 10, 10.5, 11}
	var calls []int
	_, err := dbscan.ClusterItems(items, absMetric, 2, 1, dbscan.WithProgress(func(processed, total int) {
		calls = append(calls, processed)
		if total != len(items) {
			t.Errorf("progress total = %d, want %d", total, len(items))
		}
	}))
	if err != nil {
		t.Fatalf("ClusterItems failed: %v", err)
	}
	if len(calls) != len(items) {
		t.Fatalf("progress called %d times, want %d", len(calls), len(items))
	}
	for i, c := range calls {
		if c != i {
			t.Errorf("progress call %d reported processed=%d, want %d", i, c, i)
		}
	}
}

func TestClusterItemsCancellation(t *testing.T) {
	items := make([]float64, 500)
	for i := range items {
		items[i] = float64(i)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dbscan.ClusterItems(items, absMetric, 2, 1, dbscan.WithContext(ctx))
	if !errors.Is(err, core.ErrCancelled) {
		t.Fatalf("ClusterItems with cancelled context = %v, want ErrCancelled", err)
	}
}

func TestClusterItemsRejectsInvalidBucketSizeOption(t *testing.T) {
	_, err := dbscan.ClusterItems([]float64{1, 2, 3}, absMetric, 2, 1, dbscan.WithBucketSize(0))
	if !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("ClusterItems(WithBucketSize(0)) = %v, want ErrInvalidParameter", err)
	}
}

func TestClusterItemsBorderPointFirstClaimWins(t *testing.T) {
	// Two dense groups whose edge core points (1.5 and 4.5) both reach a
	// single non-core point (index 8, value 3: only 3 neighbors < 4).
	items := []float64{0, 0.5, 1, 1.5, 4.5, 5, 5.5, 6, 3}
	labels, err := dbscan.ClusterItems(items, absMetric, 4, 1.5)
	if err != nil {
		t.Fatalf("ClusterItems failed: %v", err)
	}
	assertDifferentCluster(t, labels, 0, 4)
	// The border point joins the cluster discovered first in input order,
	// which claims it during expansion; the later cluster does not relabel it.
	if labels[8] != labels[0] {
		t.Errorf("border point labels[8] = %v, want first cluster %v: %v", labels[8], labels[0], labels)
	}
}

func TestClusterItemsContextNotRequiredForDefaultBehavior(t *testing.T) {
	// Asserts WithContext(nil) does not panic and behaves like no option.
	items := []float64{0, 0.5, 1}
	labels, err := dbscan.ClusterItems(items, absMetric, 2, 1, dbscan.WithContext(nil))
	if err != nil {
		t.Fatalf("ClusterItems failed: %v", err)
	}
	assertSameCluster(t, labels, 0, 1, 2)
}

func TestClusterItemsLargeInputCompletesPromptly(t *testing.T) {
	n := 400
	items := make([]float64, n)
	for i := range items {
		items[i] = float64(i % 20)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := dbscan.ClusterItems(items, absMetric, 3, 0.5); err != nil {
			t.Errorf("ClusterItems failed: %v", err)
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ClusterItems did not complete in time")
	}
}

func assertSameCluster(t *testing.T, labels []dbscan.Label, indices ...int) {
	t.Helper()
	first := labels[indices[0]]
	if first == dbscan.Outlier {
		t.Fatalf("index %d is Outlier, want a cluster member", indices[0])
	}
	for _, i := range indices[1:] {
		if labels[i] != first {
			t.Errorf("labels[%d] = %v, want same cluster as labels[%d] = %v", i, labels[i], indices[0], first)
		}
	}
}

func assertDifferentCluster(t *testing.T, labels []dbscan.Label, a, b int) {
	t.Helper()
	if labels[a] == labels[b] {
		t.Errorf("labels[%d] and labels[%d] are the same cluster (%v), want different", a, b, labels[a])
	}
}
