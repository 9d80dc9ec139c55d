package config

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// RankingConfig carries the per-dimension weights used to order candidates.
// The upstream product never fixed a formula, so the weights are operator
// configuration with a neutral default of 1.0 per dimension.
type RankingConfig struct {
	Weights map[string]float64
}

var (
	rankingConfig *RankingConfig
	rankingOnce   sync.Once
)

func LoadRankingConfig() *RankingConfig {
	rankingOnce.Do(func() {
		weights := map[string]float64{}
		if raw := os.Getenv("RANK_WEIGHTS"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &weights); err != nil {
				log.Printf("Warning: RANK_WEIGHTS is not valid JSON, using defaults: %v", err)
				weights = map[string]float64{}
			}
		}
		rankingConfig = &RankingConfig{Weights: weights}
	})
	return rankingConfig
}
