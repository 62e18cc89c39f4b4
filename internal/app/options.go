package app

import (
	"time"

	"github.com/okian/mindarcade/internal/domain/dedupe"
	"github.com/okian/mindarcade/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the time zone that decides calendar days for streaks.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithNotifier sets the event sink.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLeaderboard sets the leaderboard updated after every mutation.
func WithLeaderboard(lb Leaderboard) Option {
	return func(e *Engine) {
		if lb != nil {
			e.leaderboard = lb
		}
	}
}

// WithDeduper sets the session dedupe set.
func WithDeduper(d dedupe.Deduper) Option {
	return func(e *Engine) {
		if d != nil {
			e.deduper = d
		}
	}
}
