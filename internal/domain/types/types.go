// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry. Rank is the 1-based position with
// ties sharing a position.
type Entry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Score  int64  `json:"score"`
	Player bool   `json:"player,omitempty"`
}

// Standing is the local player's place on the leaderboard.
type Standing struct {
	Entry
	Total int `json:"total"`
}
