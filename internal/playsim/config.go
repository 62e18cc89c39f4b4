// Package playsim plays random mini-game sessions against a running arcade
// server and checks the progression invariants over HTTP.
package playsim

import (
	"time"

	"github.com/okian/mindarcade/internal/domain/model"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Sessions    int           // Number of sessions to play
	Workers     int           // Number of concurrent players
	Timeout     time.Duration // HTTP request timeout
	Seed        int64         // Seed for session generation; 0 picks one from the clock
	ReplayEvery int           // Resend every Nth session to exercise dedupe; 0 disables
	Shop        bool          // Buy affordable items after playing
	OutputFile  string        // Where to write the played sessions; empty skips it
	Verbose     bool          // Enable verbose logging
}

// Session is one generated game result.
type Session = model.GameResult

// Stats holds run statistics.
type Stats struct {
	SessionsGenerated int
	SessionsApplied   int
	SessionsDuplicate int
	SessionsFailed    int
	Replays           int
	Purchases         int
	PurchasesRefused  int
	ScoreSpent        int64
	PersistWarnings   int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

type outcome struct {
	Progress       model.PlayerProgress `json:"progress"`
	Duplicate      bool                 `json:"duplicate"`
	PersistWarning bool                 `json:"persistWarning"`
}

type shopItem struct {
	ID         string `json:"id"`
	Price      int64  `json:"price"`
	Owned      bool   `json:"owned"`
	Affordable bool   `json:"affordable"`
}
