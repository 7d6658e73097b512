package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgTestContainers "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"ulascansenturk/weather-reports/config"
	"ulascansenturk/weather-reports/internal/api/v1/handlers"
	"ulascansenturk/weather-reports/internal/db/audit"
	"ulascansenturk/weather-reports/internal/db/gateway"
	"ulascansenturk/weather-reports/internal/db/weatherdata"
	"ulascansenturk/weather-reports/internal/inmemorycache"
	"ulascansenturk/weather-reports/internal/metrics"
	"ulascansenturk/weather-reports/internal/mocks"
	"ulascansenturk/weather-reports/internal/notify"
	"ulascansenturk/weather-reports/internal/providers"
	"ulascansenturk/weather-reports/internal/report"
	"ulascansenturk/weather-reports/internal/scheduler"
	"ulascansenturk/weather-reports/internal/service"
)

const (
	dbName     = "test_reports_database"
	dbUser     = "test_user"
	dbPassword = "test_password"
)

func init() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func SetupPostgres(t *testing.T) (string, func()) {
	log.Info().Msg("Setting up new PostgreSQL container")

	ctx := context.Background()

	container, err := pgTestContainers.Run(ctx,
		"postgres:13.3",
		pgTestContainers.WithDatabase(dbName),
		pgTestContainers.WithUsername(dbUser),
		pgTestContainers.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	port := strings.Split(endpoint, ":")[1]

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, dbUser, dbPassword, dbName,
	)

	return dsn, func() {
		log.Info().Msg("Terminating PostgreSQL container")
		if err := container.Terminate(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to terminate PostgreSQL container")
		}
	}
}

// fakeWeatherAPI answers current.json lookups for a fixed set of cities.
func fakeWeatherAPI(t *testing.T) *httptest.Server {
	readings := map[string][2]float64{
		"Bogotá":  {14, 88},
		"Honiara": {29, 82},
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		reading, ok := readings[q]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": 1006, "message": "No matching location found."},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"location": map[string]interface{}{"name": q, "country": "X"},
			"current": map[string]interface{}{
				"temp_c":    reading[0],
				"humidity":  reading[1],
				"wind_kph":  11.0,
				"precip_mm": 0.2,
				"condition": map[string]interface{}{"text": "Light rain"},
			},
		})
	}))
}

type pipeline struct {
	router   http.Handler
	runner   *scheduler.Runner
	auditDB  audit.Repository
	reports  *report.Builder
	mailer   *mocks.MockSender
	cleanups []func()
}

func setupPipeline(t *testing.T, dsn string) *pipeline {
	ctx := context.Background()
	logger := zerolog.Nop()

	gw := gateway.New(gateway.Options{
		Driver: gateway.DriverPostgres,
		DSN:    dsn,
		Models: []interface{}{
			&weatherdata.Location{},
			&weatherdata.WeatherSnapshot{},
			&audit.EmailRecord{},
			&audit.JobRun{},
		},
		Logger: logger,
	})
	require.NoError(t, gw.Connect(ctx))

	weatherRepo := weatherdata.NewRepository(gw)
	auditRepo := audit.NewRepository(gw)

	_, err := weatherRepo.SeedLocations(ctx, []weatherdata.Location{
		{TimezoneLabel: "UTC-5", Offset: "-05:00", City: "Bogotá", Country: "Colômbia"},
		{TimezoneLabel: "UTC+11", Offset: "+11:00", City: "Honiara", Country: "Ilhas Salomão"},
		{TimezoneLabel: "UTC-11", Offset: "-11:00", City: "Pago Pago", Country: "Samoa Americana"},
	})
	require.NoError(t, err)

	api := fakeWeatherAPI(t)
	cache := inmemorycache.NewInMemoryCacheProvider(time.Minute)
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	fetcher := providers.NewWeatherAPIService(providers.Options{
		APIKey:   "test_key",
		BaseURL:  api.URL,
		Timeout:  5 * time.Second,
		Cache:    cache,
		CacheTTL: time.Minute,
		Observe:  collector.RecordFetch,
		Logger:   logger,
	})

	builder, err := report.NewBuilder(report.Options{Dir: t.TempDir(), Logger: logger})
	require.NoError(t, err)

	mailer := mocks.NewMockSender(t)
	recipients := []string{"ana@example.com"}

	svc := service.NewWeatherReportService(service.Options{
		Weather: weatherRepo,
		Audit:   auditRepo,
		Fetcher: fetcher,
		Reports: builder,
		Mailer:  mailer,
		Metrics: collector,
		Logger:  logger,
		Workers: 2,
		Settings: service.Settings{
			Recipients:   recipients,
			Subject:      "Relatorio",
			EmailEnabled: true,
		},
	})

	runRecorder := service.NewJobRunRecorder(auditRepo)
	runner := scheduler.New(scheduler.Options{
		Logger:   logger,
		Recorder: runRecorder,
		History:  runRecorder,
		Observer: collector,
	})
	callbacks := service.Callbacks(svc)
	for _, job := range []string{config.JobWeatherUpdate, config.JobReportGeneration, config.JobEmailDispatch} {
		require.NoError(t, runner.Register(job, "0 6 * * *", callbacks[job]))
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Service: svc,
		Jobs:    runner,
		Running: runner.Running,
		Ping:    gw.Ping,
		Metrics: metrics.Handler(registry),
		Timeout: 10 * time.Second,
	})

	return &pipeline{
		router:  router,
		runner:  runner,
		auditDB: auditRepo,
		reports: builder,
		mailer:  mailer,
		cleanups: []func(){
			api.Close,
			cache.Close,
			func() { _ = gw.Disconnect() },
		},
	}
}

func (p *pipeline) close() {
	for _, fn := range p.cleanups {
		fn()
	}
}

func (p *pipeline) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)
	return w
}

func TestReportPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	dsn, cleanup := SetupPostgres(t)
	defer cleanup()

	p := setupPipeline(t, dsn)
	defer p.close()

	t.Run("HealthzPingsDatabase", func(t *testing.T) {
		w := p.do(t, http.MethodGet, "/healthz")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("RefreshStoresReachableLocations", func(t *testing.T) {
		w := p.do(t, http.MethodPost, "/jobs/weather_update/run")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = p.do(t, http.MethodGet, "/weather/latest")
		require.Equal(t, http.StatusOK, w.Code)

		var latest []handlers.LocationWeatherResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
		require.Len(t, latest, 3)

		byCity := map[string]handlers.LocationWeatherResponse{}
		for _, l := range latest {
			byCity[l.City] = l
		}
		require.NotNil(t, byCity["Bogotá"].Weather)
		assert.Equal(t, 14.0, byCity["Bogotá"].Weather.Temperature)
		assert.Equal(t, "Chuva Leve", byCity["Bogotá"].Weather.Condition)
		assert.Equal(t, providers.ClimateSubtropicalHumid, byCity["Bogotá"].Weather.ClimateType)
		require.NotNil(t, byCity["Honiara"].Weather)
		assert.Nil(t, byCity["Pago Pago"].Weather)

		run, err := p.auditDB.LastJobRun(context.Background(), config.JobWeatherUpdate)
		require.NoError(t, err)
		assert.Equal(t, audit.RunSucceeded, run.Status)

		log.Info().Msg("✅ TEST PASSED: RefreshStoresReachableLocations")
	})

	t.Run("ReportGenerationWritesFile", func(t *testing.T) {
		w := p.do(t, http.MethodPost, "/jobs/report_generation/run")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		entries, err := os.ReadDir(p.reports.Dir())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, strings.HasPrefix(entries[0].Name(), "report_"))

		content, err := os.ReadFile(p.reports.Dir() + "/" + entries[0].Name())
		require.NoError(t, err)
		assert.Contains(t, string(content), "Bogotá")
		assert.Contains(t, string(content), "Pago Pago")

		log.Info().Msg("✅ TEST PASSED: ReportGenerationWritesFile")
	})

	t.Run("EmailDispatchRecordsHistory", func(t *testing.T) {
		p.mailer.On("SendReportEmail", mock.Anything, []string{"ana@example.com"}, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(notify.Result{
				Success:   true,
				Timestamp: time.Now(),
				Delivered: []string{"ana@example.com"},
			}).Once()

		w := p.do(t, http.MethodPost, "/jobs/email_dispatch/run")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = p.do(t, http.MethodGet, "/emails?limit=5")
		require.Equal(t, http.StatusOK, w.Code)

		var history []handlers.EmailRecordResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
		require.Len(t, history, 1)
		assert.Equal(t, "ana@example.com", history[0].Recipient)
		assert.Equal(t, audit.StatusSent, history[0].Status)
		assert.Len(t, history[0].LocationIDs, 3)

		log.Info().Msg("✅ TEST PASSED: EmailDispatchRecordsHistory")
	})

	t.Run("MetricsExposed", func(t *testing.T) {
		w := p.do(t, http.MethodGet, "/metrics")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `weather_reports_job_runs_total{job="weather_update",status="succeeded"} 1`)
		assert.Contains(t, w.Body.String(), `weather_reports_weather_fetch_total{result="error"} 1`)
	})

	t.Run("RestartRestoresJobStatus", func(t *testing.T) {
		history := service.NewJobRunRecorder(p.auditDB)
		restarted := scheduler.New(scheduler.Options{Logger: zerolog.Nop(), History: history})
		require.NoError(t, restarted.Register(config.JobWeatherUpdate, "0 6 * * *", func(context.Context) error { return nil }))

		statuses := restarted.Status()
		require.Len(t, statuses, 1)
		assert.False(t, statuses[0].LastRun.IsZero())
		assert.Empty(t, statuses[0].LastError)
	})
}
