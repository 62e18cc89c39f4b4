package app

import (
	"context"

	"github.com/okian/mindarcade/internal/domain/model"
)

// Notifier receives the events emitted by the engine. Implementations must
// not block; the websocket hub drops events for slow clients.
type Notifier interface {
	Notify(ctx context.Context, ev model.Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev model.Event)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, ev model.Event) {
	f(ctx, ev)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, model.Event) {}

// Leaderboard is the part of the local leaderboard the engine updates.
type Leaderboard interface {
	UpsertPlayer(ctx context.Context, score int64)
}
