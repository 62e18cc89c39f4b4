// Package app provides the progression engine, the single owner of the
// player's progress record and power-up inventory. Every surface (HTTP,
// websocket, simulator) goes through it.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/mindarcade/internal/adapters/repository"
	"github.com/okian/mindarcade/internal/domain/achievement"
	"github.com/okian/mindarcade/internal/domain/dedupe"
	"github.com/okian/mindarcade/internal/domain/ledger"
	"github.com/okian/mindarcade/internal/domain/model"
	"github.com/okian/mindarcade/internal/domain/powerup"
	"github.com/okian/mindarcade/internal/domain/shop"
	"github.com/okian/mindarcade/pkg/logger"
	"github.com/okian/mindarcade/pkg/metrics"
)

// Outcome is the result of a mutation: the new snapshot plus what happened.
type Outcome struct {
	Progress   model.PlayerProgress     `json:"progress"`
	XPGained   int64                    `json:"xpGained"`
	Multiplier int                      `json:"multiplier,omitempty"`
	Unlocked   *model.AchievementUnlock `json:"unlocked,omitempty"`
	Duplicate  bool                     `json:"duplicate,omitempty"`
	Normalized bool                     `json:"normalized,omitempty"`
	// PersistWarning is set when the new state could not be handed to the
	// store. The in-memory state stays authoritative for this process.
	PersistWarning bool `json:"persistWarning,omitempty"`
}

// PowerUpStatus is the read projection of one inventory kind.
type PowerUpStatus struct {
	Kind          powerup.Kind `json:"kind"`
	Title         string       `json:"title"`
	Timed         bool         `json:"timed"`
	RemainingUses int          `json:"remainingUses"`
	Active        bool         `json:"active"`
	ExpiresAt     *time.Time   `json:"expiresAt,omitempty"`
}

// Engine serialises every mutation of the progress record behind one mutex.
type Engine struct {
	mu sync.Mutex
	// notifyMu is taken before mu is released so notifications leave in
	// mutation order across calls.
	notifyMu sync.Mutex

	store       repository.Store
	deduper     dedupe.Deduper
	notifier    Notifier
	leaderboard Leaderboard

	progress  model.PlayerProgress
	inventory *powerup.Inventory

	now    func() time.Time
	loc    *time.Location
	logger logger.Logger
}

// New creates an engine over store with a fresh progress record. Call Load
// to restore persisted state.
func New(store repository.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		notifier:  nopNotifier{},
		progress:  model.NewProgress(),
		inventory: powerup.NewInventory(),
		now:       time.Now,
		loc:       time.Local,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.deduper == nil {
		e.deduper = dedupe.NewInMemoryDeduper()
	}
	return e
}

// Load restores the persisted progress and inventory. Missing keys mean a
// fresh install. An unreadable or corrupt record is logged, replaced by a
// fresh one in memory and reported through the returned error; the engine is
// usable either way.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error

	progress := model.NewProgress()
	if err := e.readJSON(ctx, repository.KeyProgress, &progress); err != nil {
		errs = append(errs, err)
		progress = model.NewProgress()
	}
	e.progress = progress.Sanitize()

	var slots []powerup.Slot
	if err := e.readJSON(ctx, repository.KeyPowerUps, &slots); err != nil {
		errs = append(errs, err)
		slots = nil
	}
	e.inventory.Restore(slots)
	e.inventory.SweepExpired(e.now())

	e.publishLocked(ctx)
	e.logger.Info(ctx, "progress loaded",
		logger.Int64("totalScore", e.progress.TotalScore),
		logger.Int64("totalXP", e.progress.TotalXP),
		logger.Int("level", e.progress.Level),
		logger.String("rank", e.progress.Rank.String()),
		logger.Int("powerUps", len(slots)),
	)
	return errors.Join(errs...)
}

func (e *Engine) readJSON(ctx context.Context, key string, dst any) error {
	raw, err := e.store.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		e.logger.Warn(ctx, "persisted state unavailable, starting fresh",
			logger.String("key", key), logger.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrStateUnavailable, key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		e.logger.Warn(ctx, "persisted state corrupt, starting fresh",
			logger.String("key", key), logger.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrCorruptState, key, err)
	}
	return nil
}

// OnGameComplete folds a finished session into progress. A result whose
// session id was already applied returns the current snapshot with
// Duplicate set. Out-of-range fields are clamped, never rejected.
func (e *Engine) OnGameComplete(ctx context.Context, result model.GameResult) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	e.mu.Lock()
	if e.deduper.SeenAndRecord(ctx, result.SessionID) {
		out := Outcome{Progress: e.progress.Clone(), Duplicate: true}
		e.mu.Unlock()
		metrics.RecordGameDuplicate()
		e.logger.Debug(ctx, "duplicate session ignored", logger.String("sessionId", result.SessionID))
		return out, nil
	}

	now := e.now()
	e.inventory.SweepExpired(now)
	multiplier := ledger.MultiplierNormal
	if e.inventory.IsActive(powerup.DoubleXP, now) {
		multiplier = ledger.MultiplierDouble
	}

	normalized, changed := ledger.Normalize(result)
	if changed {
		metrics.RecordResultNormalized()
		e.logger.Warn(ctx, "game result normalized",
			logger.String("gameId", result.GameID),
			logger.Error(ErrInvalidResult),
		)
	}

	prev := e.progress
	next := ledger.Apply(prev, normalized, multiplier, ledger.Date(now.In(e.loc)))
	gameXP := next.TotalXP - prev.TotalXP
	next, unlocked := unlockFirst(next)

	e.progress = next
	warn := e.persistLocked(ctx)
	e.publishLocked(ctx)

	out := Outcome{
		Progress:       next.Clone(),
		XPGained:       next.TotalXP - prev.TotalXP,
		Multiplier:     multiplier,
		Unlocked:       unlocked,
		Normalized:     changed,
		PersistWarning: warn,
	}

	events := make([]model.Event, 0, 2)
	if unlocked != nil {
		events = append(events, event(model.EventAchievementUnlocked, now, *unlocked))
	}
	events = append(events, event(model.EventGameComplete, now, model.GameSummary{
		GameID:     normalized.GameID,
		Score:      normalized.Score,
		XPGained:   out.XPGained,
		Multiplier: multiplier,
		Level:      next.Level,
		LevelUp:    next.Level > prev.Level,
		Rank:       next.Rank,
		RankUp:     next.Rank > prev.Rank,
		Streak:     next.Streak,
	}))
	e.unlockAndNotify(ctx, events...)

	metrics.RecordGameCompleted(normalized.GameID)
	metrics.RecordXPAwarded("game", gameXP)
	return out, nil
}

// unlockFirst unlocks at most one qualifying achievement.
func unlockFirst(p model.PlayerProgress) (model.PlayerProgress, *model.AchievementUnlock) {
	a, ok := achievement.First(p)
	if !ok {
		return p, nil
	}
	metrics.RecordAchievementUnlocked(a.ID)
	metrics.RecordXPAwarded("achievement", a.XPReward)
	return ledger.Unlock(p, a.ID, a.XPReward), &model.AchievementUnlock{ID: a.ID, Title: a.Title, XPReward: a.XPReward}
}

// OnPurchase spends price on itemID. Items from the shop catalog that carry a
// power-up grant its uses; any other id is recorded as owned once. Catalog
// items must be bought at their catalog price.
func (e *Engine) OnPurchase(ctx context.Context, itemID string, price int64) (Outcome, error) {
	if itemID == "" {
		metrics.RecordPurchase("invalid")
		return Outcome{}, ErrUnknownItem
	}
	if price < 0 {
		metrics.RecordPurchase("invalid")
		return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidPrice, price)
	}

	item, known := shop.Lookup(itemID)
	if known && price != item.Price {
		metrics.RecordPurchase("invalid")
		return Outcome{}, fmt.Errorf("%w: %s costs %d, got %d", ErrInvalidPrice, itemID, item.Price, price)
	}
	consumable := known && item.Consumable()

	e.mu.Lock()
	if !consumable && e.progress.Owns(itemID) {
		e.mu.Unlock()
		metrics.RecordPurchase("already_owned")
		return Outcome{}, fmt.Errorf("%w: %s", ErrAlreadyOwned, itemID)
	}
	if e.progress.TotalScore < price {
		err := &InsufficientFundsError{ItemID: itemID, Price: price, Available: e.progress.TotalScore}
		e.mu.Unlock()
		metrics.RecordPurchase("insufficient_funds")
		return Outcome{}, err
	}

	now := e.now()
	prev := e.progress
	next := ledger.Debit(prev, itemID, price)
	if consumable {
		e.inventory.Acquire(item.PowerUp, item.Uses)
	}
	next, unlocked := unlockFirst(next)

	e.progress = next
	warn := e.persistLocked(ctx)
	e.publishLocked(ctx)

	out := Outcome{
		Progress:       next.Clone(),
		XPGained:       next.TotalXP - prev.TotalXP,
		Unlocked:       unlocked,
		PersistWarning: warn,
	}

	events := []model.Event{event(model.EventPurchase, now, model.PurchaseReceipt{
		ItemID: itemID, Price: price, RemainingScore: next.TotalScore,
	})}
	if unlocked != nil {
		events = append(events, event(model.EventAchievementUnlocked, now, *unlocked))
	}
	e.unlockAndNotify(ctx, events...)

	metrics.RecordPurchase("ok")
	e.logger.Info(ctx, "item purchased",
		logger.String("itemId", itemID),
		logger.Int64("price", price),
		logger.Int64("remainingScore", next.TotalScore),
	)
	return out, nil
}

// CanAfford reports whether the current totalScore covers price.
func (e *Engine) CanAfford(price int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return price >= 0 && e.progress.TotalScore >= price
}

// ActivatePowerUp starts the timer of a duration kind. It returns false when
// no uses remain or the kind is one-shot.
func (e *Engine) ActivatePowerUp(ctx context.Context, kind powerup.Kind) (bool, error) {
	if !kind.Valid() {
		return false, powerup.ErrUnknownKind
	}

	e.mu.Lock()
	now := e.now()
	e.inventory.SweepExpired(now)
	ok := e.inventory.Activate(kind, now)
	if !ok {
		e.mu.Unlock()
		metrics.RecordPowerUpActivation(kind.String(), false)
		return false, nil
	}
	e.persistLocked(ctx)

	payload := model.PowerUpActivation{Kind: kind.String(), Remaining: e.inventory.Remaining(kind)}
	if expiresAt, running := e.inventory.ExpiresAt(kind); running {
		payload.ExpiresAt = &expiresAt
	}
	e.unlockAndNotify(ctx, event(model.EventPowerUpActivated, now, payload))

	metrics.RecordPowerUpActivation(kind.String(), true)
	return true, nil
}

// ConsumePowerUp spends one use of a one-shot kind. It returns false when no
// uses remain or the kind is duration based.
func (e *Engine) ConsumePowerUp(ctx context.Context, kind powerup.Kind) (bool, error) {
	if !kind.Valid() {
		return false, powerup.ErrUnknownKind
	}

	e.mu.Lock()
	ok := e.inventory.ConsumeOneShot(kind)
	if ok {
		e.persistLocked(ctx)
	}
	e.mu.Unlock()

	metrics.RecordPowerUpConsumption(kind.String(), ok)
	return ok, nil
}

// PowerUps sweeps expired timers at now and returns every kind's status.
func (e *Engine) PowerUps(now time.Time) []PowerUpStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.inventory.SweepExpired(now)
	out := make([]PowerUpStatus, 0, len(powerup.Kinds()))
	for _, k := range powerup.Kinds() {
		spec, _ := k.Spec()
		st := PowerUpStatus{
			Kind:          k,
			Title:         spec.Title,
			Timed:         k.Timed(),
			RemainingUses: e.inventory.Remaining(k),
			Active:        e.inventory.IsActive(k, now),
		}
		if at, ok := e.inventory.ExpiresAt(k); ok {
			st.ExpiresAt = &at
		}
		out = append(out, st)
	}
	return out
}

// IsActive sweeps expired timers and reports whether kind is active now.
func (e *Engine) IsActive(kind powerup.Kind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	e.inventory.SweepExpired(now)
	return e.inventory.IsActive(kind, now)
}

// Reset replaces progress with a fresh record, empties the inventory and
// forgets applied sessions. It cannot be undone.
func (e *Engine) Reset(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	now := e.now()
	e.progress = model.NewProgress()
	e.inventory.Clear()
	e.deduper.Reset(ctx)
	warn := e.persistLocked(ctx)
	e.publishLocked(ctx)
	out := Outcome{Progress: e.progress.Clone(), PersistWarning: warn}
	e.unlockAndNotify(ctx, event(model.EventReset, now, nil))

	metrics.RecordReset()
	e.logger.Warn(ctx, "progress reset")
	return out, nil
}

// Snapshot returns a deep copy of the current progress.
func (e *Engine) Snapshot() model.PlayerProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress.Clone()
}

// Now returns the engine clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// persistLocked hands both records to the store. It reports true when any
// write failed; failures never fail the caller.
func (e *Engine) persistLocked(ctx context.Context) bool {
	warn := false
	if err := e.writeJSON(ctx, repository.KeyProgress, e.progress); err != nil {
		warn = true
	}
	if err := e.writeJSON(ctx, repository.KeyPowerUps, e.inventory.Slots()); err != nil {
		warn = true
	}
	return warn
}

func (e *Engine) writeJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err == nil {
		err = e.store.Set(ctx, key, raw)
	}
	if err != nil {
		metrics.RecordPersistWarning()
		e.logger.Warn(ctx, "failed to persist state, keeping it in memory",
			logger.String("key", key), logger.Error(err))
	}
	return err
}

func (e *Engine) publishLocked(ctx context.Context) {
	metrics.UpdatePlayerGauges(e.progress.Level, e.progress.TotalScore, int(e.progress.Rank))
	if e.leaderboard != nil {
		e.leaderboard.UpsertPlayer(ctx, e.progress.TotalScore)
	}
}

// unlockAndNotify releases mu and delivers events. Events of one call keep
// their order, and calls deliver in the order they mutated state. A Notifier
// may read the engine but must not mutate it.
func (e *Engine) unlockAndNotify(ctx context.Context, events ...model.Event) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.mu.Unlock()
	for _, ev := range events {
		e.notifier.Notify(ctx, ev)
	}
}

func event(typ model.EventType, at time.Time, data any) model.Event {
	return model.Event{Type: typ, At: at, Data: data}
}
