package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/okian/confscore/internal/domain/model"
	"github.com/okian/confscore/internal/domain/types"
)

// JobDependencies queues jobs and reads their state.
type JobDependencies interface {
	// Submit queues a job. duplicate is true when the id is already known.
	Submit(ctx context.Context, job model.Job) (id string, duplicate bool, err error)
	Job(ctx context.Context, id string) (model.JobRecord, error)
}

// JobsHandler handles asynchronous scoring jobs.
type JobsHandler struct {
	deps   JobDependencies
	limits Limits
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies, limits Limits) *JobsHandler {
	return &JobsHandler{deps: deps, limits: limits}
}

type jobAck struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandleSubmit handles POST /jobs requests.
func (h *JobsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_job"

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

	job := model.Job{
		ID:          strings.TrimSpace(req.JobID),
		Scorer:      req.Scorer,
		Pred:        pred,
		SubmittedAt: time.Now(),
	}
	id, duplicate, err := h.deps.Submit(r.Context(), job)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, jobAck{JobID: id, Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, jobAck{JobID: id, Status: "accepted"})
}

// HandleGet handles GET /jobs/{id} requests.
func (h *JobsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rec, err := h.deps.Job(r.Context(), id)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobEntry(rec))
}

func toJobEntry(rec model.JobRecord) types.JobEntry {
	e := types.JobEntry{
		JobID:       rec.ID,
		Scorer:      rec.Scorer,
		Status:      string(rec.Status),
		Rows:        rec.Rows,
		Classes:     rec.Classes,
		Error:       rec.Error,
		SubmittedAt: rec.SubmittedAt,
	}
	if rec.Status == model.StatusDone {
		e.Confidence, e.Labels = resultSlices(rec.Result)
	}
	if !rec.CompletedAt.IsZero() {
		t := rec.CompletedAt
		e.CompletedAt = &t
	}
	return e
}
