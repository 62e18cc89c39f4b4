// Package scoring suggests the XP a finished session earns when the emitting
// game does not report one.
package scoring

import (
	"math"

	"github.com/okian/mindarcade/internal/domain/model"
)

const (
	defaultWeight = 5
	// Sessions at or above this accuracy earn a 10% bonus.
	bonusAccuracy = 90
)

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithWeightsFromConfig sets per-game divisors. Non-positive weights are ignored.
func WithWeightsFromConfig(weights map[string]float64, defaultWeight float64) Option {
	return func(e *Estimator) {
		e.weights = make(map[string]float64, len(weights))
		for game, w := range weights {
			if w > 0 {
				e.weights[game] = w
			}
		}
		if defaultWeight > 0 {
			e.defaultWeight = defaultWeight
		}
	}
}

// Estimator derives xpEarned from score: floor(score / weight), plus a bonus
// for accurate play.
type Estimator struct {
	weights       map[string]float64
	defaultWeight float64
}

// NewEstimator creates an estimator with the default weight of 5.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		weights:       make(map[string]float64),
		defaultWeight: defaultWeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weight returns the divisor used for gameID.
func (e *Estimator) Weight(gameID string) float64 {
	if w, ok := e.weights[gameID]; ok {
		return w
	}
	return e.defaultWeight
}

// Estimate returns the suggested XP for r. Negative scores earn nothing.
func (e *Estimator) Estimate(r model.GameResult) int64 {
	if r.Score <= 0 {
		return 0
	}
	xp := int64(math.Floor(float64(r.Score) / e.Weight(r.GameID)))
	if r.Accuracy >= bonusAccuracy {
		xp += xp / 10
	}
	return xp
}

// Fill sets XPEarned from Estimate when the result carries none.
func (e *Estimator) Fill(r model.GameResult) model.GameResult {
	if r.XPEarned == 0 {
		r.XPEarned = e.Estimate(r)
	}
	return r
}
