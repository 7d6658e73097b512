package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"ulascansenturk/weather-reports/internal/scheduler"
)

// JobRunner is the part of the scheduler the ops API drives.
type JobRunner interface {
	Status() []scheduler.JobStatus
	RunNow(ctx context.Context, name string) error
}

type JobHandler struct {
	runner JobRunner
}

func NewJobHandler(runner JobRunner) *JobHandler {
	return &JobHandler{runner: runner}
}

// ListJobs GET /jobs
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.runner.Status())
}

// RunJob executes a registered job synchronously. The run is detached from
// the request, so a client disconnect does not cancel it.
// POST /jobs/{name}/run
func (h *JobHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	err := h.runner.RunNow(context.WithoutCancel(r.Context()), name)
	switch {
	case errors.Is(err, scheduler.ErrUnknownJob):
		respondWithError(w, http.StatusNotFound, "unknown job "+name)
		return
	case errors.Is(err, scheduler.ErrJobBusy):
		respondWithError(w, http.StatusConflict, "job "+name+" is already running")
		return
	case errors.Is(err, scheduler.ErrStopping):
		respondWithError(w, http.StatusServiceUnavailable, "scheduler is shutting down")
		return
	case err != nil:
		log.Error().Err(err).Str("job", name).Msg("manual job run failed")
		respondWithError(w, http.StatusInternalServerError, "job "+name+" failed: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, JobRunResponse{Job: name, Status: "succeeded"})
}
