package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"ulascansenturk/weather-reports/internal/db/audit"
	"ulascansenturk/weather-reports/internal/db/weatherdata"
	"ulascansenturk/weather-reports/internal/notify"
	"ulascansenturk/weather-reports/internal/providers"
)

// ErrNoData means a pipeline step had nothing to work with: no locations, or
// every provider lookup failed.
var ErrNoData = errors.New("no data")

var ErrDispatchFailed = errors.New("email dispatch failed")

type ReportBuilder interface {
	BuildDailyReport(entries []weatherdata.LocationWeather) (string, error)
	RenderEmailBody(entries []weatherdata.LocationWeather) (string, error)
	PruneOlderThan(cutoff time.Time) (int, error)
}

type MetricsRecorder interface {
	RecordRefresh(duration time.Duration, stored int)
	RecordReport(err error)
	RecordEmails(sent, failed int)
}

type RefreshResult struct {
	Locations int `json:"locations"`
	Stored    int `json:"stored"`
	Failed    int `json:"failed"`
}

type CleanupResult struct {
	AuditRows   int64 `json:"audit_rows"`
	ReportFiles int   `json:"report_files"`
}

type WeatherReportService interface {
	Refresh(ctx context.Context) (RefreshResult, error)
	GenerateReport(ctx context.Context) (string, error)
	SendReport(ctx context.Context) (notify.Result, error)
	CleanupOldLogs(ctx context.Context) (CleanupResult, error)
	LatestWeather(ctx context.Context) ([]weatherdata.LocationWeather, error)
	EmailHistory(ctx context.Context, limit int) ([]audit.EmailRecord, error)
}

type Options struct {
	Weather  weatherdata.Repository
	Audit    audit.Repository
	Fetcher  providers.WeatherAPIService
	Reports  ReportBuilder
	Mailer   notify.Sender
	Metrics  MetricsRecorder
	Logger   zerolog.Logger
	Now      func() time.Time
	Workers  int
	Settings Settings
}

type Settings struct {
	Recipients   []string
	Subject      string
	EmailEnabled bool
	Retention    time.Duration
}

type weatherReportService struct {
	weather weatherdata.Repository
	audit   audit.Repository
	fetcher providers.WeatherAPIService
	reports ReportBuilder
	mailer  notify.Sender
	metrics MetricsRecorder
	logger  zerolog.Logger
	now     func() time.Time
	workers int
	cfg     Settings

	refreshMu sync.Mutex
}

func NewWeatherReportService(opts Options) WeatherReportService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Metrics == nil {
		opts.Metrics = noopMetrics{}
	}
	if opts.Settings.Retention <= 0 {
		opts.Settings.Retention = 30 * 24 * time.Hour
	}

	return &weatherReportService{
		weather: opts.Weather,
		audit:   opts.Audit,
		fetcher: opts.Fetcher,
		reports: opts.Reports,
		mailer:  opts.Mailer,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		now:     opts.Now,
		workers: opts.Workers,
		cfg:     opts.Settings,
	}
}

// Refresh fetches current weather for every location and replaces the
// snapshot table with the successful readings. When every lookup fails the
// table is left as it was and ErrNoData is returned.
func (s *weatherReportService) Refresh(ctx context.Context) (RefreshResult, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	var result RefreshResult

	locations, err := s.weather.ListLocations(ctx)
	if err != nil {
		return result, fmt.Errorf("list locations: %w", err)
	}
	result.Locations = len(locations)
	if len(locations) == 0 {
		return result, fmt.Errorf("%w: no locations registered", ErrNoData)
	}

	today := weatherdata.DateOnly(s.now())
	snapshots := make([]weatherdata.WeatherSnapshot, 0, len(locations))

	for _, r := range s.fetchAll(ctx, locations) {
		if r.err != nil {
			result.Failed++
			s.logger.Warn().Err(r.err).
				Uint("location_id", r.location.ID).
				Str("query", r.query).
				Msg("Skipping location")
			continue
		}

		w := r.weather
		humidity := w.Humidity
		wind := w.WindSpeed
		precip := w.Precipitation
		snapshots = append(snapshots, weatherdata.WeatherSnapshot{
			LocationID:    r.location.ID,
			ForecastDate:  today,
			Temperature:   w.Temperature,
			Condition:     w.Condition,
			Humidity:      &humidity,
			WindSpeed:     &wind,
			Precipitation: &precip,
			ClimateType:   providers.DetermineClimateType(r.query, w.Temperature, w.Humidity),
			Description:   w.ConditionOriginal,
		})
	}

	if len(snapshots) == 0 {
		s.metrics.RecordRefresh(time.Since(start), 0)
		return result, fmt.Errorf("%w: all %d lookups failed", ErrNoData, len(locations))
	}

	if err := s.weather.ReplaceSnapshots(ctx, snapshots); err != nil {
		s.metrics.RecordRefresh(time.Since(start), 0)
		return result, fmt.Errorf("replace snapshots: %w", err)
	}
	result.Stored = len(snapshots)
	s.metrics.RecordRefresh(time.Since(start), result.Stored)

	s.logger.Info().
		Int("locations", result.Locations).
		Int("stored", result.Stored).
		Int("failed", result.Failed).
		Dur("duration", time.Since(start)).
		Msg("Weather refresh completed")

	return result, nil
}

func (s *weatherReportService) GenerateReport(ctx context.Context) (string, error) {
	entries, err := s.reportEntries(ctx)
	if err != nil {
		s.metrics.RecordReport(err)
		return "", err
	}

	path, err := s.reports.BuildDailyReport(entries)
	s.metrics.RecordReport(err)
	if err != nil {
		return "", fmt.Errorf("build report: %w", err)
	}
	return path, nil
}

// SendReport generates a fresh report and e-mails it with a summary body to
// the configured recipients, writing one audit row per recipient.
func (s *weatherReportService) SendReport(ctx context.Context) (notify.Result, error) {
	if !s.cfg.EmailEnabled {
		s.logger.Info().Msg("Email dispatch disabled, skipping")
		return notify.Result{Message: "email dispatch disabled", Timestamp: s.now()}, nil
	}

	entries, err := s.reportEntries(ctx)
	if err != nil {
		return notify.Result{}, err
	}

	path, err := s.reports.BuildDailyReport(entries)
	s.metrics.RecordReport(err)
	if err != nil {
		return notify.Result{}, fmt.Errorf("build report: %w", err)
	}

	body, err := s.reports.RenderEmailBody(entries)
	if err != nil {
		return notify.Result{}, err
	}

	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Location.ID)
	}

	subject := fmt.Sprintf("%s - %s", s.cfg.Subject, s.now().Format("02/01/2006"))
	result := s.mailer.SendReportEmail(ctx, s.cfg.Recipients, subject, body, path, ids)
	s.recordDeliveries(ctx, subject, ids, result)

	if !result.Success {
		return result, fmt.Errorf("%w: %s", ErrDispatchFailed, result.Message)
	}
	return result, nil
}

func (s *weatherReportService) recordDeliveries(ctx context.Context, subject string, ids []uint, result notify.Result) {
	delivered := make(map[string]bool, len(result.Delivered))
	for _, r := range result.Delivered {
		delivered[r] = true
	}

	encoded := audit.EncodeIDs(ids)
	sent, failed := 0, 0
	for _, recipient := range s.cfg.Recipients {
		record := &audit.EmailRecord{
			Recipient:   recipient,
			Subject:     subject,
			Status:      audit.StatusSent,
			LocationIDs: encoded,
			SentAt:      result.Timestamp.UTC(),
		}
		if !result.Success && !delivered[recipient] {
			record.Status = audit.StatusFailed
			record.ErrorMessage = result.Message
			failed++
		} else {
			sent++
		}
		if err := s.audit.InsertEmailRecord(ctx, record); err != nil {
			s.logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to record email history")
		}
	}
	s.metrics.RecordEmails(sent, failed)
}

// CleanupOldLogs prunes audit rows and report files older than the
// retention window.
func (s *weatherReportService) CleanupOldLogs(ctx context.Context) (CleanupResult, error) {
	cutoff := s.now().Add(-s.cfg.Retention).UTC()
	var result CleanupResult

	rows, err := s.audit.PruneBefore(ctx, cutoff)
	result.AuditRows = rows
	if err != nil {
		return result, fmt.Errorf("prune audit rows: %w", err)
	}

	files, err := s.reports.PruneOlderThan(cutoff)
	result.ReportFiles = files
	if err != nil {
		return result, fmt.Errorf("prune reports: %w", err)
	}

	s.logger.Info().
		Time("cutoff", cutoff).
		Int64("audit_rows", rows).
		Int("report_files", files).
		Msg("Old logs removed")
	return result, nil
}

func (s *weatherReportService) LatestWeather(ctx context.Context) ([]weatherdata.LocationWeather, error) {
	return s.weather.LocationsWithLatest(ctx)
}

func (s *weatherReportService) EmailHistory(ctx context.Context, limit int) ([]audit.EmailRecord, error) {
	return s.audit.ListEmailHistory(ctx, limit)
}

func (s *weatherReportService) reportEntries(ctx context.Context) ([]weatherdata.LocationWeather, error) {
	entries, err := s.weather.LocationsWithLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no locations registered", ErrNoData)
	}
	return entries, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordRefresh(time.Duration, int) {}
func (noopMetrics) RecordReport(error)               {}
func (noopMetrics) RecordEmails(int, int)            {}
