//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/patrikhermansson/vpdbscan/dbscan"
	"github.com/patrikhermansson/vpdbscan/metrics"
)

// main clusters one synthetic dataset of five 2D Gaussian blobs,
// reporting progress through a bar, and prints the number of clusters and
// outliers found. The total number of points is read from
// VPDBSCAN_BENCH_SIZE (default 2000).
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	n := 2000
	if env := os.Getenv("VPDBSCAN_BENCH_SIZE"); env != "" {
		if v, err := strconv.Atoi(env); err == nil && v > 0 {
			n = v
		}
	}

	points := syntheticClusters(n, 5, 42)
	fmt.Printf("Clustering %d synthetic points across 5 generating blobs\n", len(points))

	overallStart := time.Now()
	bar := progressbar.Default(int64(len(points)))
	onProgress := func(processed, total int) {
		if err := bar.Set(processed); err != nil {
			log.Warn().Err(err).Msg("progress bar update failed")
		}
	}

	labels, err := dbscan.ClusterItems(points, metrics.EuclideanMetric, 5, 1.5, dbscan.WithProgress(onProgress), dbscan.WithSeed(7))
	if err != nil {
		log.Fatal().Err(err).Msg("clustering failed")
	}

	clusters := make(map[dbscan.Label]int)
	for _, l := range labels {
		clusters[l]++
	}
	fmt.Printf("\nFound %d clusters (plus %d outliers) in %v\n", len(clusters)-boolToInt(clusters[dbscan.Outlier] > 0), clusters[dbscan.Outlier], time.Since(overallStart))
}

// syntheticClusters generates numBlobs Gaussian blobs of 2D points
// flattened into []float64 pairs, concatenated to roughly n total points.
func syntheticClusters(n, numBlobs int, seed int64) [][]float64 {
	rnd := rand.New(rand.NewSource(seed))
	perBlob := n / numBlobs
	points := make([][]float64, 0, perBlob*numBlobs)
	for b := 0; b < numBlobs; b++ {
		cx := float64(b) * 10
		cy := float64(b%3) * 10
		for i := 0; i < perBlob; i++ {
			points = append(points, []float64{
				cx + rnd.NormFloat64(),
				cy + rnd.NormFloat64(),
			})
		}
	}
	return points
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
