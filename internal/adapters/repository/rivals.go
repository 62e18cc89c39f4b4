package repository

import (
	"fmt"
	"math/rand"

	"github.com/okian/mindarcade/internal/domain/types"
)

var rivalNames = []string{
	"Ada", "Blaise", "Cleo", "Dmitri", "Emmy", "Fermat", "Grace", "Hedy",
	"Ibn", "Johann", "Kurt", "Lise", "Marie", "Niels", "Olga", "Pascal",
	"Quinn", "Rosalind", "Sofia", "Tesla", "Ulam", "Vera", "Wu", "Xena",
	"Yuri", "Zora",
}

// Rivals generates count simulated players. The same seed always yields the
// same rivals. Scores are skewed so most rivals sit in the lower tiers.
func Rivals(count int, seed int64) []types.Entry {
	if count <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible simulation
	out := make([]types.Entry, 0, count)
	for i := 0; i < count; i++ {
		base := rivalNames[rng.Intn(len(rivalNames))]
		u := rng.Float64()
		out = append(out, types.Entry{
			Name:  fmt.Sprintf("%s-%03d", base, i+1),
			Score: int64(u * u * u * 120_000),
		})
	}
	return out
}
