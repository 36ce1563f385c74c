// Package cmd implements the vpdbscan example CLI: it clusters a small
// built-in toy dataset with dbscan.ClusterItems and prints the resulting
// labels. It exists to exercise the library end to end, not as a
// general-purpose command-line tool.
package cmd

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/vpdbscan/dbscan"
	"github.com/patrikhermansson/vpdbscan/metrics"
)

// toyPoints is a tiny 1D dataset (each point a single-element vector, to
// match metrics.EuclideanMetric's []float64 item type) with two dense
// groups and one outlier, used as the CLI's default demonstration input.
var toyPoints = [][]float64{{0}, {0.2}, {0.1}, {5}, {5.3}, {5.1}, {20}}

// Execute runs the CLI: parses min_cluster_size and eps from flags,
// clusters the toy dataset, and prints one label per point.
func Execute() {
	minClusterSize := flag.Int("min-cluster-size", 2, "minimum neighbors (including the point itself) to form a cluster")
	eps := flag.Float64("eps", 1.0, "neighborhood radius")
	flag.Parse()

	log.Info().Int("points", len(toyPoints)).Int("min_cluster_size", *minClusterSize).Float64("eps", *eps).Msg("clustering toy dataset")

	labels, err := dbscan.ClusterItems(toyPoints, metrics.EuclideanMetric, *minClusterSize, *eps)
	if err != nil {
		log.Fatal().Err(err).Msg("clustering failed")
	}

	for i, point := range toyPoints {
		if labels[i] == dbscan.Outlier {
			fmt.Printf("point[%d] = %.2f -> outlier\n", i, point[0])
			continue
		}
		fmt.Printf("point[%d] = %.2f -> cluster %d\n", i, point[0], labels[i])
	}
}
