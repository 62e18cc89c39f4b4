package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/mindarcade/internal/domain/model"
	"github.com/okian/mindarcade/internal/domain/rank"
	"github.com/okian/mindarcade/pkg/logger"
)

const maxGameIDLength = 64

type nextRank struct {
	Rank        model.Rank `json:"rank"`
	ScoreNeeded int64      `json:"scoreNeeded"`
}

// progressResponse is the progress record plus values derived for display.
type progressResponse struct {
	model.PlayerProgress
	XPIntoLevel   int64     `json:"xpIntoLevel"`
	XPToNextLevel int64     `json:"xpToNextLevel"`
	NextRank      *nextRank `json:"nextRank,omitempty"`
}

func newProgressResponse(p model.PlayerProgress) progressResponse {
	into := p.TotalXP % model.XPPerLevel
	resp := progressResponse{
		PlayerProgress: p,
		XPIntoLevel:    into,
		XPToNextLevel:  model.XPPerLevel - into,
	}
	if next, needed, ok := rank.Next(p.TotalScore); ok {
		resp.NextRank = &nextRank{Rank: next, ScoreNeeded: needed}
	}
	return resp
}

// gameRequest mirrors the OpenAPI schema for POST /games/complete.
// xpEarned is optional; when omitted it is estimated from the score.
type gameRequest struct {
	GameID    string  `json:"gameId"`
	Score     int64   `json:"score"`
	Accuracy  float64 `json:"accuracy"`
	TimeSpent int64   `json:"timeSpent"`
	XPEarned  *int64  `json:"xpEarned,omitempty"`
	SessionID string  `json:"sessionId,omitempty"`
}

func (g gameRequest) validate() error {
	id := strings.TrimSpace(g.GameID)
	switch {
	case id == "":
		return errors.New("missing gameId")
	case len(id) > maxGameIDLength:
		return errors.New("gameId too long")
	}
	return nil
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// handleGetProgress handles GET /progress.
func (s *Server) handleGetProgress(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newProgressResponse(s.engine.Snapshot()))
}

// handleGameComplete handles POST /games/complete.
func (s *Server) handleGameComplete(w http.ResponseWriter, r *http.Request) {
	const op = "api.game_complete"
	var req gameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result := model.GameResult{
		GameID:    strings.TrimSpace(req.GameID),
		Score:     req.Score,
		Accuracy:  req.Accuracy,
		TimeSpent: req.TimeSpent,
		SessionID: req.SessionID,
	}
	switch {
	case req.XPEarned != nil:
		result.XPEarned = *req.XPEarned
	case s.estimator != nil:
		result.XPEarned = s.estimator.Estimate(result)
	}

	out, err := s.engine.OnGameComplete(r.Context(), result)
	if err != nil {
		s.logger.Error(r.Context(), "game completion failed", logger.String("gameId", result.GameID), logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleReset handles POST /reset. The body must carry {"confirm": true}.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset"
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, "confirm_required", NewKind(op, ErrConfirmRequired))
		return
	}
	out, err := s.engine.Reset(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
