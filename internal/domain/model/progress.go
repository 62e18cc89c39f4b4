// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// XPPerLevel is the experience needed for each level step.
const XPPerLevel = 100

// Rank is a coarse tier derived from lifetime score. Ordinal order matters.
type Rank int

// Rank tiers in ascending order.
const (
	RankBronze Rank = iota
	RankSilver
	RankGold
	RankPlatinum
	RankDiamond
	RankMaster
	RankLegendary
)

var rankNames = [...]string{"Bronze", "Silver", "Gold", "Platinum", "Diamond", "Master", "Legendary"}

func (r Rank) String() string {
	if r < RankBronze || int(r) >= len(rankNames) {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// Valid reports whether r is one of the declared tiers.
func (r Rank) Valid() bool {
	return r >= RankBronze && r <= RankLegendary
}

// ParseRank parses a tier name, case-insensitively.
func ParseRank(s string) (Rank, error) {
	for i, name := range rankNames {
		if strings.EqualFold(name, s) {
			return Rank(i), nil
		}
	}
	return RankBronze, fmt.Errorf("%w: rank %q", ErrUnknownValue, s)
}

// MarshalText encodes the tier by name so the persisted record stays readable.
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: rank %d", ErrUnknownValue, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a tier name. An empty value decodes to Bronze.
func (r *Rank) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = RankBronze
		return nil
	}
	v, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// PlayerProgress is the single persistent record of a player's lifetime stats.
// Set-valued fields are kept as slices without duplicates.
type PlayerProgress struct {
	TotalScore    int64    `json:"totalScore"`
	TotalXP       int64    `json:"totalXP"`
	Level         int      `json:"level"`
	Rank          Rank     `json:"rank"`
	Streak        int      `json:"streak"`
	LastPlayDate  string   `json:"lastPlayDate"`
	GamesPlayed   []string `json:"gamesPlayed"`
	PlayedGames   []string `json:"playedGames"`
	Achievements  []string `json:"achievements"`
	OwnedItems    []string `json:"ownedItems"`
	TotalPlayTime int64    `json:"totalPlayTime"`
}

// NewProgress returns the fresh-install record.
func NewProgress() PlayerProgress {
	return PlayerProgress{
		Level:        1,
		Rank:         RankBronze,
		GamesPlayed:  []string{},
		PlayedGames:  []string{},
		Achievements: []string{},
		OwnedItems:   []string{},
	}
}

// Clone returns a deep copy. Nil slices come back empty.
func (p PlayerProgress) Clone() PlayerProgress {
	c := p
	c.GamesPlayed = cloneStrings(p.GamesPlayed)
	c.PlayedGames = cloneStrings(p.PlayedGames)
	c.Achievements = cloneStrings(p.Achievements)
	c.OwnedItems = cloneStrings(p.OwnedItems)
	return c
}

// HasPlayed reports whether gameID was ever completed.
func (p PlayerProgress) HasPlayed(gameID string) bool {
	return slices.Contains(p.PlayedGames, gameID)
}

// HasAchievement reports whether id is unlocked.
func (p PlayerProgress) HasAchievement(id string) bool {
	return slices.Contains(p.Achievements, id)
}

// Owns reports whether itemID was purchased.
func (p PlayerProgress) Owns(itemID string) bool {
	return slices.Contains(p.OwnedItems, itemID)
}

// Sanitize repairs a record read from storage: negative counters become zero,
// set fields lose duplicates and the derived level is recomputed.
func (p PlayerProgress) Sanitize() PlayerProgress {
	c := p.Clone()
	c.TotalScore = max(c.TotalScore, 0)
	c.TotalXP = max(c.TotalXP, 0)
	c.TotalPlayTime = max(c.TotalPlayTime, 0)
	c.Streak = max(c.Streak, 0)
	if !c.Rank.Valid() {
		c.Rank = RankBronze
	}
	c.PlayedGames = uniqueStrings(c.PlayedGames)
	c.Achievements = uniqueStrings(c.Achievements)
	c.OwnedItems = uniqueStrings(c.OwnedItems)
	c.Level = LevelFor(c.TotalXP)
	return c
}

// LevelFor is floor(totalXP / 100) + 1.
func LevelFor(totalXP int64) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return int(totalXP/XPPerLevel) + 1
}

// GameResult is the outcome payload emitted once by a finished mini-game session.
type GameResult struct {
	GameID    string  `json:"gameId"`
	Score     int64   `json:"score"`
	Accuracy  float64 `json:"accuracy"`
	TimeSpent int64   `json:"timeSpent"`
	XPEarned  int64   `json:"xpEarned"`
	// SessionID is optional; when set, a result is applied at most once.
	SessionID string `json:"sessionId,omitempty"`
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
