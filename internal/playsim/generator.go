package playsim

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/okian/mindarcade/pkg/logger"
)

const (
	maxScore     = 2_000
	maxTimeSpent = 300
	maxXP        = 60
)

// generateSessions builds cfg.Sessions results with unique session ids.
// The same seed yields the same games and numbers.
func generateSessions(ctx context.Context, cfg *Config, stats *Stats) []Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Get().Info(ctx, "generating sessions", logger.Int("sessions", cfg.Sessions), logger.Int64("seed", seed))

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1))) //nolint:gosec // simulated play
	out := make([]Session, cfg.Sessions)
	for i := range out {
		out[i] = Session{
			GameID:    Games[rng.IntN(len(Games))],
			Score:     rng.Int64N(maxScore + 1),
			Accuracy:  float64(rng.IntN(1001)) / 10,
			TimeSpent: 5 + rng.Int64N(maxTimeSpent),
			XPEarned:  rng.Int64N(maxXP + 1),
			SessionID: uuid.NewString(),
		}
	}
	stats.SessionsGenerated = len(out)
	return out
}
