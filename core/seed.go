package core

import (
	"github.com/rs/zerolog/log"
	"os"
	"strconv"
	"time"
)

// Seed resolves a seed value for the package's deterministic pseudo-random
// generators (vantage-point selection in vptree.Build).
//
// Resolution order: the VPDBSCAN_SEED environment variable wins if set and
// parseable; otherwise a non-zero override (typically supplied through
// dbscan.WithSeed) is used; otherwise the current time is used, which makes
// the build non-reproducible unless a seed is pinned one of the other ways.
func Seed(override int64) int64 {
	seedStr := os.Getenv("VPDBSCAN_SEED")
	if seedStr != "" {
		if seed, err := strconv.ParseInt(seedStr, 10, 64); err == nil {
			log.Info().Msgf("Using seed from VPDBSCAN_SEED value: %d", seed)
			return seed
		}
		log.Warn().Msgf("Failed to parse VPDBSCAN_SEED value: %s", seedStr)
	}

	if override != 0 {
		log.Info().Msgf("Using caller-supplied seed: %d", override)
		return override
	}

	seed := time.Now().UnixNano()
	log.Info().Msgf("Using current time as seed: %d", seed)
	return seed
}
