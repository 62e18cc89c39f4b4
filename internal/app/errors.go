package app

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds is wrapped by InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidPrice is returned for a negative purchase price.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrAlreadyOwned is returned when a non-consumable item is bought twice.
	ErrAlreadyOwned = errors.New("item already owned")
	// ErrUnknownItem is returned for an empty item id.
	ErrUnknownItem = errors.New("unknown item")
	// ErrInvalidResult marks a game result that had to be normalized.
	// It is logged, never returned to the caller.
	ErrInvalidResult = errors.New("invalid game result")
	// ErrStateUnavailable is returned by Load when the store could not be read.
	ErrStateUnavailable = errors.New("persisted state unavailable")
	// ErrCorruptState is returned by Load when a persisted record does not decode.
	ErrCorruptState = errors.New("persisted state corrupt")
)

// InsufficientFundsError reports a purchase the player cannot afford.
// No state changes when it is returned.
type InsufficientFundsError struct {
	ItemID    string
	Price     int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %q: price %d, available %d", e.ItemID, e.Price, e.Available)
}

// Unwrap lets errors.Is match ErrInsufficientFunds.
func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
