// Package achievement holds the static achievement catalog and its evaluator.
package achievement

import (
	"github.com/okian/mindarcade/internal/domain/model"
)

// Predicate decides whether a progress record qualifies. It must be pure and
// monotonic over growing records.
type Predicate func(model.PlayerProgress) bool

// Achievement is a catalog entry.
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	XPReward    int64     `json:"xpReward"`
	Predicate   Predicate `json:"-"`
}

func gamesAtLeast(n int) Predicate {
	return func(p model.PlayerProgress) bool { return len(p.GamesPlayed) >= n }
}

func distinctAtLeast(n int) Predicate {
	return func(p model.PlayerProgress) bool { return len(p.PlayedGames) >= n }
}

func scoreAtLeast(n int64) Predicate {
	return func(p model.PlayerProgress) bool { return p.TotalScore >= n }
}

func levelAtLeast(n int) Predicate {
	return func(p model.PlayerProgress) bool { return p.Level >= n }
}

func streakAtLeast(n int) Predicate {
	return func(p model.PlayerProgress) bool { return p.Streak >= n }
}

func playTimeAtLeast(seconds int64) Predicate {
	return func(p model.PlayerProgress) bool { return p.TotalPlayTime >= seconds }
}

func ownedAtLeast(n int) Predicate {
	return func(p model.PlayerProgress) bool { return len(p.OwnedItems) >= n }
}

// Declaration order is evaluation priority.
var catalog = []Achievement{
	{"first_game", "First Steps", "Complete your first game", 50, gamesAtLeast(1)},
	{"games_10", "Warming Up", "Complete 10 games", 100, gamesAtLeast(10)},
	{"games_50", "Regular", "Complete 50 games", 250, gamesAtLeast(50)},
	{"games_100", "Dedicated", "Complete 100 games", 500, gamesAtLeast(100)},
	{"games_500", "Arcade Addict", "Complete 500 games", 1500, gamesAtLeast(500)},

	{"explorer_3", "Curious Mind", "Play 3 different games", 75, distinctAtLeast(3)},
	{"explorer_10", "Explorer", "Play 10 different games", 200, distinctAtLeast(10)},
	{"explorer_25", "Globetrotter", "Play 25 different games", 400, distinctAtLeast(25)},
	{"explorer_40", "Completionist", "Play 40 different games", 1000, distinctAtLeast(40)},

	{"score_1k", "Point Collector", "Reach 1,000 total score", 100, scoreAtLeast(1_000)},
	{"score_10k", "High Scorer", "Reach 10,000 total score", 300, scoreAtLeast(10_000)},
	{"score_100k", "Score Machine", "Reach 100,000 total score", 1000, scoreAtLeast(100_000)},
	{"score_500k", "Living Legend", "Reach 500,000 total score", 2500, scoreAtLeast(500_000)},

	{"level_5", "Apprentice", "Reach level 5", 100, levelAtLeast(5)},
	{"level_10", "Adept", "Reach level 10", 250, levelAtLeast(10)},
	{"level_25", "Expert", "Reach level 25", 600, levelAtLeast(25)},
	{"level_50", "Grandmaster", "Reach level 50", 1500, levelAtLeast(50)},

	{"streak_3", "On a Roll", "Play on 3 different days", 75, streakAtLeast(3)},
	{"streak_7", "Weekly Habit", "Play on 7 different days", 200, streakAtLeast(7)},
	{"streak_30", "Unstoppable", "Play on 30 different days", 1000, streakAtLeast(30)},

	{"playtime_1h", "Time Flies", "Spend an hour playing", 150, playTimeAtLeast(60 * 60)},
	{"playtime_10h", "Marathon", "Spend ten hours playing", 750, playTimeAtLeast(10 * 60 * 60)},

	{"first_purchase", "Shopper", "Buy your first item", 50, ownedAtLeast(1)},
	{"collector", "Collector", "Own 5 shop items", 300, ownedAtLeast(5)},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, a := range catalog {
		m[a.ID] = i
	}
	return m
}()

// Evaluate returns the ids of qualifying, not yet unlocked achievements in
// catalog order.
func Evaluate(p model.PlayerProgress) []string {
	var out []string
	for _, a := range catalog {
		if p.HasAchievement(a.ID) {
			continue
		}
		if a.Predicate(p) {
			out = append(out, a.ID)
		}
	}
	return out
}

// First returns the highest-priority qualifying achievement, if any.
func First(p model.PlayerProgress) (Achievement, bool) {
	ids := Evaluate(p)
	if len(ids) == 0 {
		return Achievement{}, false
	}
	return Lookup(ids[0])
}

// Lookup finds a catalog entry by id.
func Lookup(id string) (Achievement, bool) {
	i, ok := byID[id]
	if !ok {
		return Achievement{}, false
	}
	return catalog[i], true
}

// Catalog returns a copy of the catalog in declaration order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}
