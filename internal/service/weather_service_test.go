package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"ulascansenturk/weather-reports/config"
	"ulascansenturk/weather-reports/internal/db/audit"
	"ulascansenturk/weather-reports/internal/db/weatherdata"
	"ulascansenturk/weather-reports/internal/mocks"
	"ulascansenturk/weather-reports/internal/notify"
	"ulascansenturk/weather-reports/internal/providers"
	"ulascansenturk/weather-reports/internal/scheduler"
	"ulascansenturk/weather-reports/internal/service"
)

type WeatherReportServiceTestSuite struct {
	suite.Suite
	weatherRepo *mocks.MockWeatherRepository
	auditRepo   *mocks.MockAuditRepository
	fetcher     *mocks.MockWeatherAPIService
	reports     *mocks.MockReportBuilder
	mailer      *mocks.MockSender
	now         time.Time
	recipients  []string
	ctx         context.Context
}

func (s *WeatherReportServiceTestSuite) SetupTest() {
	s.weatherRepo = mocks.NewMockWeatherRepository(s.T())
	s.auditRepo = mocks.NewMockAuditRepository(s.T())
	s.fetcher = mocks.NewMockWeatherAPIService(s.T())
	s.reports = mocks.NewMockReportBuilder(s.T())
	s.mailer = mocks.NewMockSender(s.T())
	s.now = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	s.recipients = []string{"ana@example.com", "bruno@example.com"}
	s.ctx = context.Background()
}

func (s *WeatherReportServiceTestSuite) newService(emailEnabled bool) service.WeatherReportService {
	return service.NewWeatherReportService(service.Options{
		Weather: s.weatherRepo,
		Audit:   s.auditRepo,
		Fetcher: s.fetcher,
		Reports: s.reports,
		Mailer:  s.mailer,
		Logger:  zerolog.Nop(),
		Now:     func() time.Time { return s.now },
		Workers: 2,
		Settings: service.Settings{
			Recipients:   s.recipients,
			Subject:      "Relatorio Meteorologico",
			EmailEnabled: emailEnabled,
			Retention:    30 * 24 * time.Hour,
		},
	})
}

func (s *WeatherReportServiceTestSuite) locations() []weatherdata.Location {
	return []weatherdata.Location{
		{ID: 1, TimezoneLabel: "UTC+0", City: "London"},
		{ID: 2, TimezoneLabel: "UTC+9", City: "Tokyo"},
		{ID: 3, TimezoneLabel: "UTC-3"},
	}
}

func (s *WeatherReportServiceTestSuite) entries() []weatherdata.LocationWeather {
	return []weatherdata.LocationWeather{
		{Location: weatherdata.Location{ID: 1, City: "London"}, Snapshot: &weatherdata.WeatherSnapshot{LocationID: 1, Temperature: 12}},
		{Location: weatherdata.Location{ID: 2, City: "Tokyo"}},
	}
}

func (s *WeatherReportServiceTestSuite) TestRefreshStoresSuccessfulLookups() {
	s.weatherRepo.On("ListLocations", mock.Anything).Return(s.locations(), nil)
	s.fetcher.On("GetCurrentWeather", mock.Anything, "London").
		Return(&providers.CurrentWeather{Temperature: 12, Humidity: 80, WindSpeed: 10, Condition: "Nublado", ConditionOriginal: "Cloudy"}, nil)
	s.fetcher.On("GetCurrentWeather", mock.Anything, "Tokyo").
		Return((*providers.CurrentWeather)(nil), providers.ErrNoData)
	s.fetcher.On("GetCurrentWeather", mock.Anything, "Buenos Aires").
		Return(&providers.CurrentWeather{Temperature: 24, Humidity: 60, Condition: "Ensolarado"}, nil)

	s.weatherRepo.On("ReplaceSnapshots", mock.Anything, mock.MatchedBy(func(snaps []weatherdata.WeatherSnapshot) bool {
		if len(snaps) != 2 {
			return false
		}
		today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		return snaps[0].LocationID == 1 &&
			snaps[0].Condition == "Nublado" &&
			snaps[0].Description == "Cloudy" &&
			*snaps[0].Humidity == 80 &&
			snaps[0].ClimateType == providers.ClimateSubtropicalHumid &&
			snaps[0].ForecastDate.Equal(today) &&
			snaps[1].LocationID == 3
	})).Return(nil)

	result, err := s.newService(false).Refresh(s.ctx)

	s.NoError(err)
	s.Equal(service.RefreshResult{Locations: 3, Stored: 2, Failed: 1}, result)
}

func (s *WeatherReportServiceTestSuite) TestRefreshKeepsTableWhenEveryLookupFails() {
	s.weatherRepo.On("ListLocations", mock.Anything).Return(s.locations(), nil)
	s.fetcher.On("GetCurrentWeather", mock.Anything, mock.Anything).
		Return((*providers.CurrentWeather)(nil), providers.ErrNoData)

	result, err := s.newService(false).Refresh(s.ctx)

	s.ErrorIs(err, service.ErrNoData)
	s.Equal(3, result.Failed)
	s.Zero(result.Stored)
	s.weatherRepo.AssertNotCalled(s.T(), "ReplaceSnapshots", mock.Anything, mock.Anything)
}

func (s *WeatherReportServiceTestSuite) TestRefreshWithoutLocations() {
	s.weatherRepo.On("ListLocations", mock.Anything).Return([]weatherdata.Location{}, nil)

	_, err := s.newService(false).Refresh(s.ctx)

	s.ErrorIs(err, service.ErrNoData)
	s.fetcher.AssertNotCalled(s.T(), "GetCurrentWeather", mock.Anything, mock.Anything)
}

func (s *WeatherReportServiceTestSuite) TestRefreshListError() {
	s.weatherRepo.On("ListLocations", mock.Anything).Return(([]weatherdata.Location)(nil), errors.New("connection refused"))

	_, err := s.newService(false).Refresh(s.ctx)

	s.Error(err)
	s.Contains(err.Error(), "connection refused")
	s.NotErrorIs(err, service.ErrNoData)
}

func (s *WeatherReportServiceTestSuite) TestRefreshReplaceError() {
	s.weatherRepo.On("ListLocations", mock.Anything).Return(s.locations()[:1], nil)
	s.fetcher.On("GetCurrentWeather", mock.Anything, "London").
		Return(&providers.CurrentWeather{Temperature: 12, Humidity: 80, Condition: "Nublado"}, nil)
	s.weatherRepo.On("ReplaceSnapshots", mock.Anything, mock.Anything).Return(errors.New("deadlock"))

	result, err := s.newService(false).Refresh(s.ctx)

	s.Error(err)
	s.Contains(err.Error(), "replace snapshots")
	s.Zero(result.Stored)
}

func (s *WeatherReportServiceTestSuite) TestGenerateReport() {
	entries := s.entries()
	s.weatherRepo.On("LocationsWithLatest", mock.Anything).Return(entries, nil)
	s.reports.On("BuildDailyReport", entries).Return("/tmp/reports/report_2024-03-15_09-30-00.html", nil)

	path, err := s.newService(false).GenerateReport(s.ctx)

	s.NoError(err)
	s.Equal("/tmp/reports/report_2024-03-15_09-30-00.html", path)
}

func (s *WeatherReportServiceTestSuite) TestGenerateReportWithoutLocations() {
	s.weatherRepo.On("LocationsWithLatest", mock.Anything).Return([]weatherdata.LocationWeather{}, nil)

	_, err := s.newService(false).GenerateReport(s.ctx)

	s.ErrorIs(err, service.ErrNoData)
	s.reports.AssertNotCalled(s.T(), "BuildDailyReport", mock.Anything)
}

func (s *WeatherReportServiceTestSuite) TestSendReportDelivered() {
	entries := s.entries()
	s.weatherRepo.On("LocationsWithLatest", mock.Anything).Return(entries, nil)
	s.reports.On("BuildDailyReport", entries).Return("/tmp/report.html", nil)
	s.reports.On("RenderEmailBody", entries).Return("<p>resumo</p>", nil)
	s.mailer.On("SendReportEmail", mock.Anything, s.recipients, "Relatorio Meteorologico - 15/03/2024", "<p>resumo</p>", "/tmp/report.html", []uint{1, 2}).
		Return(notify.Result{Success: true, Timestamp: s.now, Recipients: s.recipients, Delivered: s.recipients})
	s.auditRepo.On("InsertEmailRecord", mock.Anything, mock.MatchedBy(func(r *audit.EmailRecord) bool {
		return r.Status == audit.StatusSent && r.LocationIDs == "[1,2]" && r.ErrorMessage == ""
	})).Return(nil).Twice()

	result, err := s.newService(true).SendReport(s.ctx)

	s.NoError(err)
	s.True(result.Success)
}

func (s *WeatherReportServiceTestSuite) TestSendReportPartialFailure() {
	entries := s.entries()
	s.weatherRepo.On("LocationsWithLatest", mock.Anything).Return(entries, nil)
	s.reports.On("BuildDailyReport", entries).Return("/tmp/report.html", nil)
	s.reports.On("RenderEmailBody", entries).Return("<p>resumo</p>", nil)
	s.mailer.On("SendReportEmail", mock.Anything, s.recipients, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notify.Result{
			Success:   false,
			Message:   "Erro ao enviar para bruno@example.com: mailbox unavailable",
			Timestamp: s.now,
			Delivered: []string{"ana@example.com"},
			FailedFor: "bruno@example.com",
		})
	s.auditRepo.On("InsertEmailRecord", mock.Anything, mock.MatchedBy(func(r *audit.EmailRecord) bool {
		return r.Recipient == "ana@example.com" && r.Status == audit.StatusSent
	})).Return(nil).Once()
	s.auditRepo.On("InsertEmailRecord", mock.Anything, mock.MatchedBy(func(r *audit.EmailRecord) bool {
		return r.Recipient == "bruno@example.com" && r.Status == audit.StatusFailed && r.ErrorMessage != ""
	})).Return(nil).Once()

	result, err := s.newService(true).SendReport(s.ctx)

	s.ErrorIs(err, service.ErrDispatchFailed)
	s.False(result.Success)
}

func (s *WeatherReportServiceTestSuite) TestSendReportAuditErrorDoesNotFailDispatch() {
	entries := s.entries()
	s.weatherRepo.On("LocationsWithLatest", mock.Anything).Return(entries, nil)
	s.reports.On("BuildDailyReport", entries).Return("/tmp/report.html", nil)
	s.reports.On("RenderEmailBody", entries).Return("<p>resumo</p>", nil)
	s.mailer.On("SendReportEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(notify.Result{Success: true, Timestamp: s.now, Delivered: s.recipients})
	s.auditRepo.On("InsertEmailRecord", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := s.newService(true).SendReport(s.ctx)

	s.NoError(err)
}

func (s *WeatherReportServiceTestSuite) TestSendReportDisabled() {
	result, err := s.newService(false).SendReport(s.ctx)

	s.NoError(err)
	s.False(result.Success)
	s.Equal("email dispatch disabled", result.Message)
	s.mailer.AssertNotCalled(s.T(), "SendReportEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *WeatherReportServiceTestSuite) TestCleanupOldLogs() {
	cutoff := s.now.Add(-30 * 24 * time.Hour)
	s.auditRepo.On("PruneBefore", mock.Anything, cutoff).Return(int64(4), nil)
	s.reports.On("PruneOlderThan", cutoff).Return(2, nil)

	result, err := s.newService(false).CleanupOldLogs(s.ctx)

	s.NoError(err)
	s.Equal(service.CleanupResult{AuditRows: 4, ReportFiles: 2}, result)
}

func (s *WeatherReportServiceTestSuite) TestCleanupStopsOnAuditError() {
	s.auditRepo.On("PruneBefore", mock.Anything, mock.Anything).Return(int64(0), errors.New("locked"))

	_, err := s.newService(false).CleanupOldLogs(s.ctx)

	s.Error(err)
	s.reports.AssertNotCalled(s.T(), "PruneOlderThan", mock.Anything)
}

func (s *WeatherReportServiceTestSuite) TestCallbacksCoverConfiguredJobs() {
	callbacks := service.Callbacks(s.newService(false))

	for _, name := range []string{config.JobWeatherUpdate, config.JobReportGeneration, config.JobEmailDispatch, config.JobLogCleanup} {
		s.Contains(callbacks, name)
	}

	s.auditRepo.On("PruneBefore", mock.Anything, mock.Anything).Return(int64(0), nil)
	s.reports.On("PruneOlderThan", mock.Anything).Return(0, nil)
	s.NoError(callbacks[config.JobLogCleanup](s.ctx))
}

func (s *WeatherReportServiceTestSuite) TestJobRunRecorder() {
	started := s.now
	finished := s.now.Add(2 * time.Second)
	s.auditRepo.On("RecordJobRun", mock.Anything, &audit.JobRun{
		RunID:      "run-1",
		JobName:    config.JobWeatherUpdate,
		StartedAt:  started,
		FinishedAt: finished,
		Status:     audit.RunFailed,
		Error:      "no data",
	}).Return(nil)

	recorder := service.NewJobRunRecorder(s.auditRepo)
	err := recorder.RecordRun(s.ctx, scheduler.RunRecord{
		ID:         "run-1",
		Job:        config.JobWeatherUpdate,
		StartedAt:  started,
		FinishedAt: finished,
		Err:        errors.New("no data"),
	})

	s.NoError(err)
}

func (s *WeatherReportServiceTestSuite) TestJobRunRecorderLastRun() {
	started := s.now.Add(-time.Hour)
	s.auditRepo.On("LastJobRun", mock.Anything, config.JobEmailDispatch).Return(&audit.JobRun{
		RunID:      "run-7",
		JobName:    config.JobEmailDispatch,
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Status:     audit.RunFailed,
		Error:      "smtp timeout",
	}, nil)
	s.auditRepo.On("LastJobRun", mock.Anything, config.JobLogCleanup).Return(nil, audit.ErrNotFound)
	s.auditRepo.On("LastJobRun", mock.Anything, config.JobWeatherUpdate).Return(nil, errors.New("db down"))

	recorder := service.NewJobRunRecorder(s.auditRepo)

	run, ok, err := recorder.LastRun(s.ctx, config.JobEmailDispatch)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("run-7", run.ID)
	s.Equal(started, run.StartedAt)
	s.EqualError(run.Err, "smtp timeout")

	_, ok, err = recorder.LastRun(s.ctx, config.JobLogCleanup)
	s.NoError(err)
	s.False(ok)

	_, ok, err = recorder.LastRun(s.ctx, config.JobWeatherUpdate)
	s.EqualError(err, "db down")
	s.False(ok)
}

func TestWeatherReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WeatherReportServiceTestSuite))
}
