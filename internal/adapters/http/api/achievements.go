package api

import (
	"net/http"

	"github.com/okian/mindarcade/internal/domain/achievement"
)

type achievementView struct {
	achievement.Achievement
	Unlocked bool `json:"unlocked"`
}

// handleGetAchievements handles GET /achievements.
func (s *Server) handleGetAchievements(w http.ResponseWriter, _ *http.Request) {
	p := s.engine.Snapshot()
	catalog := achievement.Catalog()
	out := make([]achievementView, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, achievementView{Achievement: a, Unlocked: p.HasAchievement(a.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}
