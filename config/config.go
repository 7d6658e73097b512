package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName   string
	ServerAddress string

	DBDriver   string
	DBName     string
	DBPassword string
	DBUser     string
	DBPort     string
	DBHost     string
	DBPath     string

	Env         string
	LogLevel    string
	HTTPTimeout int32

	WeatherAPIKey       string
	WeatherAPIBaseURL   string
	WeatherCacheTTL     time.Duration
	WeatherRateLimit    float64
	WeatherBreakerTrips uint32
	WeatherFetchWorkers int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPUseSSL   bool
	SMTPUseTLS   bool
	SMTPTimeout  time.Duration
	EmailEnabled bool

	Recipients    []string
	ReportsDir    string
	LogRetention  time.Duration
	EmailSubject  string
	LocationsFile string

	Locations []Location
	Jobs      []Job
}

// Location is a seed entry for the locations table.
type Location struct {
	TimezoneLabel string  `mapstructure:"timezone_label"`
	Offset        string  `mapstructure:"offset"`
	City          string  `mapstructure:"city"`
	Country       string  `mapstructure:"country"`
	Latitude      float64 `mapstructure:"latitude"`
	Longitude     float64 `mapstructure:"longitude"`
	Description   string  `mapstructure:"description"`
}

// Job binds a pipeline callback name to a cron spec.
type Job struct {
	Name        string
	Schedule    string
	Description string
}

const (
	JobWeatherUpdate    = "weather_update"
	JobReportGeneration = "report_generation"
	JobEmailDispatch    = "email_dispatch"
	JobLogCleanup       = "log_cleanup"
)

var defaultJobs = []Job{
	{Name: JobWeatherUpdate, Schedule: "0 6 * * *", Description: "refresh weather snapshots"},
	{Name: JobReportGeneration, Schedule: "0 8 * * mon-fri", Description: "generate daily report"},
	{Name: JobEmailDispatch, Schedule: "30 8 * * mon-fri", Description: "email daily report"},
	{Name: JobLogCleanup, Schedule: "0 0 * * sun", Description: "prune old logs"},
}

var defaultLocations = []Location{
	{TimezoneLabel: "UTC-3", Offset: "-03:00", City: "Brasília", Country: "Brasil", Latitude: -15.7939, Longitude: -47.8828, Description: "Capital do Brasil - Região do Cerrado"},
	{TimezoneLabel: "UTC-12", Offset: "-12:00", City: "Baker Island", Country: "Estados Unidos", Latitude: 0.1936, Longitude: -176.4769, Description: "Ilha Baker - Território dos EUA no Pacífico"},
	{TimezoneLabel: "UTC-11", Offset: "-11:00", City: "Pago Pago", Country: "Samoa Americana", Latitude: -14.2756, Longitude: -170.7025, Description: "Capital da Samoa Americana - Oceania"},
	{TimezoneLabel: "UTC-5", Offset: "-05:00", City: "Bogotá", Country: "Colômbia", Latitude: 4.7110, Longitude: -74.0721, Description: "Capital da Colômbia - Região Andina"},
	{TimezoneLabel: "UTC-1", Offset: "-01:00", City: "Cabo Verde", Country: "Cabo Verde", Latitude: 16.0, Longitude: -24.0, Description: "Arquipélago de Cabo Verde - África Ocidental"},
	{TimezoneLabel: "UTC+11", Offset: "+11:00", City: "Honiara", Country: "Ilhas Salomão", Latitude: -9.4456, Longitude: 159.9729, Description: "Capital das Ilhas Salomão - Oceano Pacífico"},
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "weather-reports")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:3000")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_PATH", "weather_reports.db")
	v.SetDefault("HTTP_TIMEOUT", 10)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WEATHER_API_BASE_URL", "http://api.weatherapi.com/v1")
	v.SetDefault("WEATHER_CACHE_TTL", time.Hour)
	v.SetDefault("WEATHER_RATE_LIMIT", 2.0)
	v.SetDefault("WEATHER_BREAKER_TRIPS", 5)
	v.SetDefault("WEATHER_FETCH_WORKERS", 4)

	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("SMTP_USE_SSL", true)
	v.SetDefault("SMTP_USE_TLS", false)
	v.SetDefault("SMTP_TIMEOUT", 10*time.Second)
	v.SetDefault("EMAIL_ENABLED", true)
	v.SetDefault("EMAIL_SUBJECT", "[GAZETA AL] Relatório de UTCs e Previsão de Tempo")

	v.SetDefault("REPORTS_DIR", "reports")
	v.SetDefault("LOG_RETENTION", 30*24*time.Hour)

	for _, job := range defaultJobs {
		v.SetDefault(jobKey(job.Name), job.Schedule)
	}

	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Msg("No .env file found, using environment variables only")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	config := &Config{
		ServiceName:         v.GetString("SERVICE_NAME"),
		ServerAddress:       v.GetString("SERVER_ADDRESS"),
		DBDriver:            v.GetString("DATABASE_DRIVER"),
		DBName:              v.GetString("DATABASE_NAME"),
		DBPassword:          v.GetString("DATABASE_PASSWORD"),
		DBUser:              v.GetString("DATABASE_USER"),
		DBPort:              v.GetString("DATABASE_PORT"),
		DBHost:              v.GetString("DATABASE_HOST"),
		DBPath:              v.GetString("DATABASE_PATH"),
		Env:                 v.GetString("ENV"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		HTTPTimeout:         v.GetInt32("HTTP_TIMEOUT"),
		WeatherAPIKey:       v.GetString("WEATHER_API_API_KEY"),
		WeatherAPIBaseURL:   v.GetString("WEATHER_API_BASE_URL"),
		WeatherCacheTTL:     v.GetDuration("WEATHER_CACHE_TTL"),
		WeatherRateLimit:    v.GetFloat64("WEATHER_RATE_LIMIT"),
		WeatherBreakerTrips: v.GetUint32("WEATHER_BREAKER_TRIPS"),
		WeatherFetchWorkers: v.GetInt("WEATHER_FETCH_WORKERS"),
		SMTPHost:            v.GetString("SMTP_HOST"),
		SMTPPort:            v.GetInt("SMTP_PORT"),
		SMTPUsername:        v.GetString("SMTP_USERNAME"),
		SMTPPassword:        v.GetString("SMTP_PASSWORD"),
		SMTPFrom:            v.GetString("SMTP_FROM"),
		SMTPUseSSL:          v.GetBool("SMTP_USE_SSL"),
		SMTPUseTLS:          v.GetBool("SMTP_USE_TLS"),
		SMTPTimeout:         v.GetDuration("SMTP_TIMEOUT"),
		EmailEnabled:        v.GetBool("EMAIL_ENABLED"),
		Recipients:          splitList(v.GetString("EMAIL_RECIPIENTS")),
		ReportsDir:          v.GetString("REPORTS_DIR"),
		LogRetention:        v.GetDuration("LOG_RETENTION"),
		EmailSubject:        v.GetString("EMAIL_SUBJECT"),
		LocationsFile:       v.GetString("LOCATIONS_FILE"),
	}

	if config.SMTPFrom == "" {
		config.SMTPFrom = config.SMTPUsername
	}

	for _, job := range defaultJobs {
		config.Jobs = append(config.Jobs, Job{
			Name:        job.Name,
			Schedule:    v.GetString(jobKey(job.Name)),
			Description: job.Description,
		})
	}

	locations, err := loadLocations(config.LocationsFile)
	if err != nil {
		return nil, err
	}
	config.Locations = locations

	return config, nil
}

func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func jobKey(name string) string {
	return "JOB_" + strings.ToUpper(name) + "_SCHEDULE"
}

func loadLocations(path string) ([]Location, error) {
	if path == "" {
		return append([]Location(nil), defaultLocations...), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading locations file: %w", err)
	}

	var locations []Location
	if err := v.UnmarshalKey("locations", &locations); err != nil {
		return nil, fmt.Errorf("error decoding locations file: %w", err)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("locations file %s has no locations", path)
	}

	return locations, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
