package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/mindarcade/internal/app"
	"github.com/okian/mindarcade/internal/domain/powerup"
)

type powerUpResponse struct {
	Kind     powerup.Kind        `json:"kind"`
	OK       bool                `json:"ok"`
	PowerUps []app.PowerUpStatus `json:"powerUps"`
}

// handleGetPowerUps handles GET /powerups.
func (s *Server) handleGetPowerUps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.PowerUps(s.engine.Now()))
}

// handleActivate handles POST /powerups/{kind}/activate. A false ok means
// nothing happened: no uses left or the kind is one-shot.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	s.usePowerUp(w, r, "api.activate_powerup", s.engine.ActivatePowerUp)
}

// handleConsume handles POST /powerups/{kind}/consume.
func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	s.usePowerUp(w, r, "api.consume_powerup", s.engine.ConsumePowerUp)
}

func (s *Server) usePowerUp(w http.ResponseWriter, r *http.Request, op string,
	use func(ctx context.Context, k powerup.Kind) (bool, error),
) {
	kind, err := powerup.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_powerup", WrapKind(op, ErrUnknownPowerUp, err))
		return
	}
	ok, err := use(r.Context(), kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, powerUpResponse{
		Kind:     kind,
		OK:       ok,
		PowerUps: s.engine.PowerUps(s.engine.Now()),
	})
}
