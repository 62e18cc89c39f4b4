package model

import "time"

// EventType names a notification emitted to UI surfaces.
type EventType string

// Notification event types.
const (
	EventGameComplete        EventType = "game_complete"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventPurchase            EventType = "purchase"
	EventReset               EventType = "reset"
	EventPowerUpActivated    EventType = "powerup_activated"
)

// Event is a presentation notification. Data holds one of the payload types below.
type Event struct {
	Type EventType `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

// GameSummary is the payload of EventGameComplete.
type GameSummary struct {
	GameID     string `json:"gameId"`
	Score      int64  `json:"score"`
	XPGained   int64  `json:"xpGained"`
	Multiplier int    `json:"multiplier"`
	Level      int    `json:"level"`
	LevelUp    bool   `json:"levelUp"`
	Rank       Rank   `json:"rank"`
	RankUp     bool   `json:"rankUp"`
	Streak     int    `json:"streak"`
}

// AchievementUnlock is the payload of EventAchievementUnlocked.
type AchievementUnlock struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	XPReward int64  `json:"xpReward"`
}

// PurchaseReceipt is the payload of EventPurchase.
type PurchaseReceipt struct {
	ItemID         string `json:"itemId"`
	Price          int64  `json:"price"`
	RemainingScore int64  `json:"remainingScore"`
}

// PowerUpActivation is the payload of EventPowerUpActivated.
type PowerUpActivation struct {
	Kind      string     `json:"kind"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Remaining int        `json:"remainingUses"`
}
