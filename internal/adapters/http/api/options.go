package api

import (
	"github.com/okian/mindarcade/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps the limit query parameter of /leaderboard.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithEstimator fills xpEarned for game results that omit it.
func WithEstimator(e XPEstimator) Option {
	return func(s *Server) {
		s.estimator = e
	}
}

// WithHub enables the /ws notification endpoint.
func WithHub(h *Hub) Option {
	return func(s *Server) {
		s.hub = h
	}
}

// WithStats adds extra counters to /stats.
func WithStats(p StatsProvider) Option {
	return func(s *Server) {
		s.stats = p
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
