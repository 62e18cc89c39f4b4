package api

import (
	"context"
	"maps"
	"net/http"

	"github.com/okian/mindarcade/internal/domain/achievement"
)

// StatsProvider contributes extra counters to GET /stats.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]any
}

// StatsFunc adapts a function to StatsProvider.
type StatsFunc func(ctx context.Context) map[string]any

// GetStats calls f.
func (f StatsFunc) GetStats(ctx context.Context) map[string]any {
	return f(ctx)
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	p := s.engine.Snapshot()
	stats := map[string]any{
		"gamesPlayed":       len(p.GamesPlayed),
		"distinctGames":     len(p.PlayedGames),
		"achievements":      len(p.Achievements),
		"achievementsTotal": len(achievement.Catalog()),
		"ownedItems":        len(p.OwnedItems),
		"level":             p.Level,
		"rank":              p.Rank.String(),
		"streak":            p.Streak,
		"totalPlayTime":     p.TotalPlayTime,
		"leaderboardSize":   s.leaderboard.Count(r.Context()),
	}
	if s.hub != nil {
		stats["notificationClients"] = s.hub.Clients()
	}
	if s.stats != nil {
		maps.Copy(stats, s.stats.GetStats(r.Context()))
	}
	writeJSON(w, http.StatusOK, stats)
}
