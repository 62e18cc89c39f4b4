package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/mindarcade/internal/adapters/repository"
)

// handleGetLeaderboard handles GET /leaderboard?limit=N. limit defaults to 10.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	n := defaultLeaderboardLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > s.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrLimitExceeded))
		return
	}
	entries, err := s.leaderboard.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleGetStanding handles GET /leaderboard/me.
func (s *Server) handleGetStanding(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standing"
	st, err := s.leaderboard.Position(r.Context(), s.leaderboard.PlayerName())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	default:
		writeJSON(w, http.StatusOK, st)
	}
}
