package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"ulascansenturk/weather-reports/config"
	"ulascansenturk/weather-reports/internal/api/v1/handlers"
	"ulascansenturk/weather-reports/internal/db/audit"
	"ulascansenturk/weather-reports/internal/db/gateway"
	"ulascansenturk/weather-reports/internal/db/weatherdata"
	"ulascansenturk/weather-reports/internal/inmemorycache"
	"ulascansenturk/weather-reports/internal/metrics"
	"ulascansenturk/weather-reports/internal/notify"
	"ulascansenturk/weather-reports/internal/providers"
	"ulascansenturk/weather-reports/internal/report"
	"ulascansenturk/weather-reports/internal/scheduler"
	"ulascansenturk/weather-reports/internal/service"
)

func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logLevel, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).
		Level(logLevel).
		With().
		Str("service_name", conf.ServiceName).
		Timestamp().
		Logger()
	log.Logger = logger

	ctx, mainCtxStop := context.WithCancel(context.Background())

	gw, err := initializeDatabase(ctx, conf, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	weatherRepo := weatherdata.NewRepository(gw)
	auditRepo := audit.NewRepository(gw)

	if _, err := weatherRepo.SeedLocations(ctx, seedLocations(conf.Locations)); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed locations")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	cacheProvider := inmemorycache.NewInMemoryCacheProvider(time.Second * 60)

	weatherAPIService := providers.NewWeatherAPIService(providers.Options{
		APIKey:       conf.WeatherAPIKey,
		BaseURL:      conf.WeatherAPIBaseURL,
		Timeout:      conf.HTTPTimeoutDuration(),
		Cache:        cacheProvider,
		CacheTTL:     conf.WeatherCacheTTL,
		RateLimit:    conf.WeatherRateLimit,
		BreakerTrips: conf.WeatherBreakerTrips,
		Observe:      collector.RecordFetch,
		Logger:       logger.With().Str("component", "weatherapi").Logger(),
	})

	reports, err := report.NewBuilder(report.Options{
		Dir:    conf.ReportsDir,
		Logger: logger.With().Str("component", "report").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare reports directory")
	}

	mailer := notify.NewMailer(notify.Options{
		Host:     conf.SMTPHost,
		Port:     conf.SMTPPort,
		Username: conf.SMTPUsername,
		Password: conf.SMTPPassword,
		From:     conf.SMTPFrom,
		UseSSL:   conf.SMTPUseSSL,
		UseTLS:   conf.SMTPUseTLS,
		Timeout:  conf.SMTPTimeout,
		Logger:   logger.With().Str("component", "mailer").Logger(),
	})

	reportService := service.NewWeatherReportService(service.Options{
		Weather: weatherRepo,
		Audit:   auditRepo,
		Fetcher: weatherAPIService,
		Reports: reports,
		Mailer:  mailer,
		Metrics: collector,
		Logger:  logger,
		Workers: conf.WeatherFetchWorkers,
		Settings: service.Settings{
			Recipients:   conf.Recipients,
			Subject:      conf.EmailSubject,
			EmailEnabled: conf.EmailEnabled,
			Retention:    conf.LogRetention,
		},
	})

	runRecorder := service.NewJobRunRecorder(auditRepo)
	runner := scheduler.New(scheduler.Options{
		Logger:   logger.With().Str("component", "scheduler").Logger(),
		Recorder: runRecorder,
		History:  runRecorder,
		Observer: collector,
	})
	callbacks := service.Callbacks(reportService)
	for _, job := range conf.Jobs {
		fn, ok := callbacks[job.Name]
		if !ok {
			logger.Warn().Str("job", job.Name).Msg("no callback for configured job")
			continue
		}
		if err := runner.Register(job.Name, job.Schedule, fn); err != nil {
			logger.Fatal().Err(err).Str("job", job.Name).Str("schedule", job.Schedule).Msg("invalid job schedule")
		}
		logger.Info().Str("job", job.Name).Str("schedule", job.Schedule).Msg(job.Description)
	}
	runner.Start()

	router := handlers.NewRouter(handlers.RouterDeps{
		Service: reportService,
		Jobs:    runner,
		Running: runner.Running,
		Ping:    gw.Ping,
		Metrics: metrics.Handler(registry),
		Timeout: conf.HTTPTimeoutDuration(),
	})

	httpServer := &http.Server{
		Addr:              conf.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: conf.HTTPTimeoutDuration(),
	}

	handleSignals(ctx, mainCtxStop, func(shutdownCtx context.Context) {
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
		runner.Stop()
		cacheProvider.Close()
		if dbErr := gw.Disconnect(); dbErr != nil {
			logger.Error().Err(dbErr).Msg("failed to close database")
		}
	})

	logger.Info().Msgf("started server on %s", conf.ServerAddress)

	serverErr := httpServer.ListenAndServe()
	if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
		logger.Err(serverErr).Msg("server stopped")
		mainCtxStop()
	}
	<-ctx.Done()
}

func initializeDatabase(ctx context.Context, conf *config.Config, logger zerolog.Logger) (*gateway.Gateway, error) {
	dsn := conf.DSN()
	if conf.DBDriver == gateway.DriverSQLite {
		dsn = conf.DBPath
	}

	gw := gateway.New(gateway.Options{
		Driver: conf.DBDriver,
		DSN:    dsn,
		Models: []interface{}{
			&weatherdata.Location{},
			&weatherdata.WeatherSnapshot{},
			&audit.EmailRecord{},
			&audit.JobRun{},
		},
		Logger: logger.With().Str("component", "gateway").Logger(),
	})

	if err := gw.Connect(ctx); err != nil {
		return nil, err
	}
	return gw, nil
}

func seedLocations(in []config.Location) []weatherdata.Location {
	out := make([]weatherdata.Location, 0, len(in))
	for _, l := range in {
		out = append(out, weatherdata.Location{
			TimezoneLabel: l.TimezoneLabel,
			Offset:        l.Offset,
			City:          l.City,
			Country:       l.Country,
			Latitude:      l.Latitude,
			Longitude:     l.Longitude,
			Description:   l.Description,
		})
	}
	return out
}

func handleSignals(ctx context.Context, cancelCtx context.CancelFunc, callback func(context.Context)) {
	sig := make(chan os.Signal, 1)

	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	const shutdownDuration = 30 * time.Second

	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownDuration)

		go func() {
			<-shutdownCtx.Done()

			if shutdownCtx.Err() == context.DeadlineExceeded {
				panic("graceful shutdown timed out.. forcing exit.")
			}
		}()

		callback(shutdownCtx)

		cancel()
		cancelCtx()
	}()
}
