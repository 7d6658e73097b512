package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"ulascansenturk/weather-reports/internal/service"
)

type RouterDeps struct {
	Service service.WeatherReportService
	Jobs    JobRunner
	// Running reports whether the scheduler loop is active.
	Running func() bool
	// Ping checks the database; nil skips the check.
	Ping    func(ctx context.Context) error
	Metrics http.Handler
	Timeout time.Duration
}

// NewRouter wires the ops API.
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Timeout <= 0 {
		deps.Timeout = 10 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	weather := NewWeatherHandler(deps.Service, deps.Timeout)
	jobs := NewJobHandler(deps.Jobs)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), deps.Timeout)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				log.Error().Err(err).Msg("database health check failed")
				respondWithError(w, http.StatusServiceUnavailable, "database unavailable: "+err.Error())
				return
			}
		}
		running := deps.Running != nil && deps.Running()
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok", Scheduler: running})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Get("/weather/latest", weather.GetLatestWeather)
	r.Get("/emails", weather.GetEmailHistory)

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", jobs.ListJobs)
		r.Post("/{name}/run", jobs.RunJob)
	})

	return r
}
