package api

import (
	"context"
	"net/http"

	"github.com/okian/confscore/internal/domain/model"
	"github.com/okian/confscore/internal/domain/types"
	"github.com/okian/confscore/pkg/matrix"
)

// ScoreDependencies scores a prediction matrix synchronously.
type ScoreDependencies interface {
	Score(ctx context.Context, scorer string, pred *matrix.Dense) (model.Result, error)
}

// ConfidenceHandler handles synchronous scoring requests.
type ConfidenceHandler struct {
	deps   ScoreDependencies
	limits Limits
}

// NewConfidenceHandler creates a new confidence handler.
func NewConfidenceHandler(deps ScoreDependencies, limits Limits) *ConfidenceHandler {
	return &ConfidenceHandler{deps: deps, limits: limits}
}

// HandleScore handles POST /confidence requests.
func (h *ConfidenceHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_confidence"

	req, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	pred, err := req.matrix(h.limits)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Score(r.Context(), req.Scorer, pred)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	conf, labels := resultSlices(res)
	writeJSON(w, http.StatusOK, types.ScoreResponse{Scorer: res.Scorer, Confidence: conf, Labels: labels})
}
