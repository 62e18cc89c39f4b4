// Package rank maps lifetime score onto rank tiers.
package rank

import (
	"github.com/okian/mindarcade/internal/domain/model"
)

// Threshold is the minimum lifetime score of a tier.
type Threshold struct {
	Rank     model.Rank `json:"rank"`
	MinScore int64      `json:"minScore"`
}

// Ascending by MinScore; the first entry must start at 0.
var thresholds = [...]Threshold{
	{model.RankBronze, 0},
	{model.RankSilver, 5_000},
	{model.RankGold, 15_000},
	{model.RankPlatinum, 50_000},
	{model.RankDiamond, 100_000},
	{model.RankMaster, 250_000},
	{model.RankLegendary, 500_000},
}

// For returns the highest tier whose threshold totalScore reaches.
func For(totalScore int64) model.Rank {
	r := model.RankBronze
	for _, t := range thresholds {
		if totalScore < t.MinScore {
			break
		}
		r = t.Rank
	}
	return r
}

// Thresholds returns a copy of the tier table.
func Thresholds() []Threshold {
	out := make([]Threshold, len(thresholds))
	copy(out, thresholds[:])
	return out
}

// Next returns the tier after the one totalScore is in and the points still
// needed to reach it. ok is false at the top tier.
func Next(totalScore int64) (next model.Rank, needed int64, ok bool) {
	for _, t := range thresholds {
		if totalScore < t.MinScore {
			return t.Rank, t.MinScore - totalScore, true
		}
	}
	return model.RankLegendary, 0, false
}

// Max returns the higher of two tiers.
func Max(a, b model.Rank) model.Rank {
	if a > b {
		return a
	}
	return b
}
