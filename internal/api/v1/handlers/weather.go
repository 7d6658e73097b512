package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"ulascansenturk/weather-reports/internal/db/audit"
	"ulascansenturk/weather-reports/internal/db/weatherdata"
	"ulascansenturk/weather-reports/internal/service"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type WeatherHandler struct {
	reportService service.WeatherReportService
	timeout       time.Duration
}

func NewWeatherHandler(reportService service.WeatherReportService, timeout time.Duration) *WeatherHandler {
	return &WeatherHandler{
		reportService: reportService,
		timeout:       timeout,
	}
}

// GetLatestWeather lists every location with its most recent snapshot.
// GET /weather/latest
func (h *WeatherHandler) GetLatestWeather(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entries, err := h.reportService.LatestWeather(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load latest weather")
		respondWithError(w, http.StatusInternalServerError, "failed to load latest weather: "+err.Error())
		return
	}

	response := make([]LocationWeatherResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, toLocationWeather(e))
	}
	respondWithJSON(w, http.StatusOK, response)
}

// GetEmailHistory returns the most recent e-mail audit rows.
// GET /emails?limit=N
func (h *WeatherHandler) GetEmailHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, defaultHistoryLimit, maxHistoryLimit)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "parameter 'limit' must be a positive integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	records, err := h.reportService.EmailHistory(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load email history")
		respondWithError(w, http.StatusInternalServerError, "failed to load email history: "+err.Error())
		return
	}

	response := make([]EmailRecordResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, toEmailRecord(rec))
	}
	respondWithJSON(w, http.StatusOK, response)
}

func toLocationWeather(e weatherdata.LocationWeather) LocationWeatherResponse {
	out := LocationWeatherResponse{
		ID:            e.Location.ID,
		TimezoneLabel: e.Location.TimezoneLabel,
		Offset:        e.Location.Offset,
		City:          e.Location.City,
		Country:       e.Location.Country,
	}
	if s := e.Snapshot; s != nil {
		out.Weather = &SnapshotResponse{
			Temperature:   s.Temperature,
			Condition:     s.Condition,
			Humidity:      s.Humidity,
			WindSpeed:     s.WindSpeed,
			Precipitation: s.Precipitation,
			ClimateType:   s.ClimateType,
			ForecastDate:  s.ForecastDate.Format("2006-01-02"),
			UpdatedAt:     s.CreatedAt,
		}
	}
	return out
}

func toEmailRecord(r audit.EmailRecord) EmailRecordResponse {
	ids := r.IDs()
	if ids == nil {
		ids = []uint{}
	}
	return EmailRecordResponse{
		Recipient:    r.Recipient,
		Subject:      r.Subject,
		Status:       r.Status,
		ErrorMessage: r.ErrorMessage,
		LocationIDs:  ids,
		SentAt:       r.SentAt,
	}
}
