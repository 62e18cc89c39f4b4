// Package ledger applies game results and rewards to a PlayerProgress record.
// Every function returns a new record and leaves its input untouched.
package ledger

import (
	"math"
	"time"

	"github.com/okian/mindarcade/internal/domain/model"
	"github.com/okian/mindarcade/internal/domain/rank"
)

// DateLayout is the calendar-date format stored in lastPlayDate.
const DateLayout = "2006-01-02"

// Allowed XP multipliers.
const (
	MultiplierNormal = 1
	MultiplierDouble = 2
)

// Date formats t as a calendar day in its own location.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// Normalize clamps negative numeric fields to zero and accuracy into [0,100].
// The boolean reports whether anything had to change.
func Normalize(r model.GameResult) (model.GameResult, bool) {
	out := r
	if out.Score < 0 {
		out.Score = 0
	}
	if out.TimeSpent < 0 {
		out.TimeSpent = 0
	}
	if out.XPEarned < 0 {
		out.XPEarned = 0
	}
	switch {
	case math.IsNaN(out.Accuracy) || out.Accuracy < 0:
		out.Accuracy = 0
	case out.Accuracy > 100:
		out.Accuracy = 100
	}
	return out, out != r
}

// Apply folds one completed session into progress.
//
// today is the local calendar date of completion (see Date). Any date that
// differs from lastPlayDate increments the streak; a gap of several days does
// not reset it. The multiplier scales XP only, never score.
func Apply(progress model.PlayerProgress, result model.GameResult, xpMultiplier int, today string) model.PlayerProgress {
	result, _ = Normalize(result)
	if xpMultiplier != MultiplierDouble {
		xpMultiplier = MultiplierNormal
	}

	next := progress.Clone()
	if today != next.LastPlayDate {
		next.Streak++
	}

	next.GamesPlayed = append(next.GamesPlayed, result.GameID)
	if !next.HasPlayed(result.GameID) {
		next.PlayedGames = append(next.PlayedGames, result.GameID)
	}

	next.TotalXP = addClamped(next.TotalXP, mulClamped(result.XPEarned, int64(xpMultiplier)))
	next.Level = Level(next.TotalXP)
	next.TotalScore = addClamped(next.TotalScore, result.Score)
	next.TotalPlayTime = addClamped(next.TotalPlayTime, result.TimeSpent)
	next.Rank = rank.Max(next.Rank, rank.For(next.TotalScore))
	next.LastPlayDate = today
	return next
}

// AwardXP adds bonus experience (e.g. an achievement reward) and recomputes level.
func AwardXP(progress model.PlayerProgress, xp int64) model.PlayerProgress {
	next := progress.Clone()
	if xp > 0 {
		next.TotalXP = addClamped(next.TotalXP, xp)
	}
	next.Level = Level(next.TotalXP)
	return next
}

// Unlock records an achievement id once and awards its XP.
func Unlock(progress model.PlayerProgress, id string, xpReward int64) model.PlayerProgress {
	if progress.HasAchievement(id) {
		return progress.Clone()
	}
	next := AwardXP(progress, xpReward)
	next.Achievements = append(next.Achievements, id)
	return next
}

// Debit spends price from totalScore and records itemID as owned. The caller
// checks affordability; rank is left as is.
func Debit(progress model.PlayerProgress, itemID string, price int64) model.PlayerProgress {
	next := progress.Clone()
	next.TotalScore -= price
	if !next.Owns(itemID) {
		next.OwnedItems = append(next.OwnedItems, itemID)
	}
	return next
}

// Level is floor(totalXP/100) + 1.
func Level(totalXP int64) int {
	return model.LevelFor(totalXP)
}

// mulClamped multiplies non-negative a and b, saturating at MaxInt64.
func mulClamped(a, b int64) int64 {
	if a > 0 && b > 0 && a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func addClamped(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
