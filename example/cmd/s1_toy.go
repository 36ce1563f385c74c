//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/vpdbscan/dbscan"
	"github.com/patrikhermansson/vpdbscan/metrics"
)

// Scenario S1: a 1D toy dataset with two dense groups and a single
// outlier far from both.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	points := [][]float64{{0}, {0.2}, {0.1}, {-0.1}, {5}, {5.3}, {5.1}, {4.9}, {100}}
	fmt.Println("Clustering toy 1D dataset:", points)

	labels, err := dbscan.ClusterItems(points, metrics.EuclideanMetric, 3, 0.5)
	if err != nil {
		log.Fatal().Err(err).Msg("clustering failed")
	}

	for i, p := range points {
		if labels[i] == dbscan.Outlier {
			fmt.Printf("point[%d] = %v -> outlier\n", i, p[0])
			continue
		}
		fmt.Printf("point[%d] = %v -> cluster %d\n", i, p[0], labels[i])
	}
}
