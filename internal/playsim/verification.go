package playsim

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/mindarcade/internal/domain/model"
	"github.com/okian/mindarcade/internal/domain/rank"
	"github.com/okian/mindarcade/pkg/logger"
)

// ErrInvariant marks a progress record that contradicts the sessions played.
var ErrInvariant = errors.New("progression invariant violated")

// verifyResults checks the after snapshot against the before snapshot and the
// sessions the server applied. It assumes nobody else played in between.
func verifyResults(ctx context.Context, before, after model.PlayerProgress, applied []Session, stats *Stats) error {
	logger.Get().Info(ctx, "verifying progression",
		logger.Int("applied", len(applied)),
		logger.Int64("scoreBefore", before.TotalScore),
		logger.Int64("scoreAfter", after.TotalScore))

	var sumScore, sumTime, sumXP int64
	for _, s := range applied {
		sumScore += s.Score
		sumTime += s.TimeSpent
		sumXP += s.XPEarned
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
	}

	if want := model.LevelFor(after.TotalXP); after.Level != want {
		fail("level %d, want %d for %d xp", after.Level, want, after.TotalXP)
	}
	if want := before.TotalScore + sumScore - stats.ScoreSpent; after.TotalScore != want {
		fail("totalScore %d, want %d", after.TotalScore, want)
	}
	if got, want := len(after.GamesPlayed)-len(before.GamesPlayed), len(applied); got != want {
		fail("gamesPlayed grew by %d, want %d", got, want)
	}
	if want := before.TotalPlayTime + sumTime; after.TotalPlayTime != want {
		fail("totalPlayTime %d, want %d", after.TotalPlayTime, want)
	}
	if after.TotalXP < before.TotalXP+sumXP {
		fail("totalXP %d below %d", after.TotalXP, before.TotalXP+sumXP)
	}
	if after.Rank < before.Rank {
		fail("rank dropped from %s to %s", before.Rank, after.Rank)
	}
	if peak := rank.For(before.TotalScore + sumScore); after.Rank < peak {
		fail("rank %s below %s reached during play", after.Rank, peak)
	}
	seen := make(map[string]struct{}, len(after.Achievements))
	for _, id := range after.Achievements {
		if _, dup := seen[id]; dup {
			fail("achievement %q unlocked twice", id)
		}
		seen[id] = struct{}{}
	}
	for _, id := range before.Achievements {
		if _, ok := seen[id]; !ok {
			fail("achievement %q was lost", id)
		}
	}
	if stats.SessionsFailed == 0 && stats.SessionsDuplicate != stats.Replays {
		fail("%d duplicates reported for %d replays", stats.SessionsDuplicate, stats.Replays)
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Get().Info(ctx, "progression verified",
		logger.Int("level", after.Level),
		logger.String("rank", after.Rank.String()),
		logger.Int("achievements", len(after.Achievements)))
	return nil
}
