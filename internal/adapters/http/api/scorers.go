package api

import (
	"net/http"

	"github.com/okian/confscore/internal/domain/types"
)

// ScorerLister exposes the registered scorers.
type ScorerLister interface {
	Scorers() []string
	DefaultScorer() string
}

// ScorersHandler handles scorer discovery requests.
type ScorersHandler struct {
	deps ScorerLister
}

// NewScorersHandler creates a new scorers handler.
func NewScorersHandler(deps ScorerLister) *ScorersHandler {
	return &ScorersHandler{deps: deps}
}

// HandleList handles GET /scorers requests.
func (h *ScorersHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.ScorersResponse{
		Default: h.deps.DefaultScorer(),
		Scorers: h.deps.Scorers(),
	})
}
