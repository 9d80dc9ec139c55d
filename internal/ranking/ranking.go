// Package ranking orders candidates by a configurable weighted total over
// the six score dimensions. The weighting is configuration rather than a
// fixed formula because no single formula was ever agreed on upstream.
package ranking

import "sort"

// Score dimension keys. These double as the keys accepted in RANK_WEIGHTS.
const (
	DimExperience    = "experience"
	DimAPIDesign     = "api_design"
	DimFramework     = "framework"
	DimDatabase      = "database"
	DimCybersecurity = "cybersecurity"
	DimAppDev        = "app_dev"
)

const defaultWeight = 1.0

// Dimensions lists every score dimension in presentation order.
func Dimensions() []string {
	return []string{
		DimExperience,
		DimAPIDesign,
		DimFramework,
		DimDatabase,
		DimCybersecurity,
		DimAppDev,
	}
}

// Weights maps dimension keys to their contribution to the total.
type Weights map[string]float64

// NewWeights builds a full weight set: every known dimension starts at 1.0
// and overrides replace it where the key is a known dimension and the value
// is non-negative. Unknown keys are ignored.
func NewWeights(overrides map[string]float64) Weights {
	w := make(Weights, 6)
	for _, dim := range Dimensions() {
		w[dim] = defaultWeight
	}
	for dim, weight := range overrides {
		if _, known := w[dim]; known && weight >= 0 {
			w[dim] = weight
		}
	}
	return w
}

// Entry is one candidate as ranking input. Scores holds only the dimensions
// that were actually extracted; an absent dimension contributes zero.
type Entry struct {
	ID     string
	Name   string
	Scores map[string]float64
}

// Ranked is an entry with its computed total and its 1-based rank.
type Ranked struct {
	Entry
	Total float64
	Rank  int
}

// WeightedTotal computes the weighted sum of the present dimensions.
func WeightedTotal(scores map[string]float64, weights Weights) float64 {
	var total float64
	for dim, score := range scores {
		total += score * weights[dim]
	}
	return total
}

// Rank orders entries by weighted total descending and assigns ranks 1..n.
// Ties break by name, then id, so the ordering is deterministic across
// requests. An empty input yields an empty (non-nil) result.
func Rank(entries []Entry, weights Weights) []Ranked {
	ranked := make([]Ranked, 0, len(entries))
	for _, e := range entries {
		ranked = append(ranked, Ranked{
			Entry: e,
			Total: WeightedTotal(e.Scores, weights),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].ID < ranked[j].ID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
