// Package api exposes the progression engine over HTTP and pushes its
// events to websocket listeners.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/mindarcade/internal/app"
	"github.com/okian/mindarcade/internal/domain/model"
	"github.com/okian/mindarcade/internal/domain/powerup"
	"github.com/okian/mindarcade/internal/domain/types"
	"github.com/okian/mindarcade/pkg/logger"
)

const (
	defaultLeaderboardLimit = 10
	defaultMaxLimit         = 100
	requestTimeout          = 30 * time.Second
)

// Engine is the part of the progression engine the handlers drive.
type Engine interface {
	Snapshot() model.PlayerProgress
	OnGameComplete(ctx context.Context, result model.GameResult) (app.Outcome, error)
	OnPurchase(ctx context.Context, itemID string, price int64) (app.Outcome, error)
	CanAfford(price int64) bool
	ActivatePowerUp(ctx context.Context, kind powerup.Kind) (bool, error)
	ConsumePowerUp(ctx context.Context, kind powerup.Kind) (bool, error)
	PowerUps(now time.Time) []app.PowerUpStatus
	Reset(ctx context.Context) (app.Outcome, error)
	Now() time.Time
}

// Leaderboard is the read side of the local leaderboard.
type Leaderboard interface {
	TopN(ctx context.Context, n int) ([]types.Entry, error)
	Position(ctx context.Context, name string) (types.Standing, error)
	PlayerName() string
	Count(ctx context.Context) int
}

// XPEstimator fills in xpEarned for results that omit it.
type XPEstimator interface {
	Estimate(r model.GameResult) int64
}

// Server wires HTTP routes for the arcade API.
type Server struct {
	engine      Engine
	leaderboard Leaderboard
	estimator   XPEstimator
	hub         *Hub
	stats       StatsProvider
	maxLimit    int
	logger      logger.Logger

	health *HealthHandler
}

// NewServer creates a server over engine and leaderboard.
func NewServer(engine Engine, leaderboard Leaderboard, opts ...Option) *Server {
	s := &Server{
		engine:      engine,
		leaderboard: leaderboard,
		maxLimit:    defaultMaxLimit,
		logger:      logger.Nop(),
		health:      NewHealthHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the chi router with every endpoint. Callers may mount more
// routes on the result.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", MetricsMiddleware(s.health.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.handleStats, "stats"))
	if s.hub != nil {
		r.Get("/ws", s.hub.ServeWS)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/progress", MetricsMiddleware(s.handleGetProgress, "progress"))
		r.Post("/games/complete", MetricsMiddleware(s.handleGameComplete, "games_complete"))
		r.Post("/reset", MetricsMiddleware(s.handleReset, "reset"))

		r.Get("/shop", MetricsMiddleware(s.handleGetShop, "shop"))
		r.Post("/shop/purchase", MetricsMiddleware(s.handlePurchase, "shop_purchase"))

		r.Get("/powerups", MetricsMiddleware(s.handleGetPowerUps, "powerups"))
		r.Post("/powerups/{kind}/activate", MetricsMiddleware(s.handleActivate, "powerups_activate"))
		r.Post("/powerups/{kind}/consume", MetricsMiddleware(s.handleConsume, "powerups_consume"))

		r.Get("/achievements", MetricsMiddleware(s.handleGetAchievements, "achievements"))

		r.Get("/leaderboard", MetricsMiddleware(s.handleGetLeaderboard, "leaderboard"))
		r.Get("/leaderboard/me", MetricsMiddleware(s.handleGetStanding, "leaderboard_me"))
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
