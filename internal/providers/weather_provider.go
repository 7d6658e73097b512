package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"ulascansenturk/weather-reports/internal/inmemorycache"
)

const DefaultBaseURL = "http://api.weatherapi.com/v1"

// ErrNoData is wrapped by every fetch failure; the location is skipped.
var ErrNoData = errors.New("no weather data")

var errServerError = errors.New("server error")

type CurrentWeather struct {
	Temperature       float64
	FeelsLike         float64
	Humidity          int
	WindSpeed         float64
	Precipitation     float64
	Condition         string
	ConditionOriginal string
	LocationName      string
	Country           string
	LastUpdated       string
	IsDay             bool
}

type WeatherAPIService interface {
	GetCurrentWeather(ctx context.Context, query string) (*CurrentWeather, error)
}

type Options struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Client   *http.Client
	Cache    inmemorycache.Cache
	CacheTTL time.Duration
	// RateLimit is requests per second; zero means unlimited.
	RateLimit float64
	// BreakerTrips is the consecutive failure count that opens the breaker.
	BreakerTrips uint32
	Observe      func(result string)
	Logger       zerolog.Logger
}

type weatherAPIService struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	cache    inmemorycache.Cache
	cacheTTL time.Duration
	limiter  *rate.Limiter
	circuit  *gobreaker.CircuitBreaker
	observe  func(string)
	logger   zerolog.Logger
}

func NewWeatherAPIService(opts Options) WeatherAPIService {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.BreakerTrips == 0 {
		opts.BreakerTrips = 5
	}
	if opts.Observe == nil {
		opts.Observe = func(string) {}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	trips := opts.BreakerTrips
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trips
		},
	})

	return &weatherAPIService{
		apiKey:   opts.APIKey,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		client:   opts.Client,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		limiter:  rate.NewLimiter(limit, 1),
		circuit:  cb,
		observe:  opts.Observe,
		logger:   opts.Logger,
	}
}

type weatherAPIResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current *struct {
		TempC       *float64 `json:"temp_c"`
		FeelsLikeC  float64  `json:"feelslike_c"`
		Humidity    *float64 `json:"humidity"`
		WindKph     *float64 `json:"wind_kph"`
		PrecipMm    float64  `json:"precip_mm"`
		IsDay       int      `json:"is_day"`
		LastUpdated string   `json:"last_updated"`
		Condition   struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GetCurrentWeather fetches current conditions for query (a city name or
// "lat,lon"). Every failure wraps ErrNoData.
func (s *weatherAPIService) GetCurrentWeather(ctx context.Context, query string) (*CurrentWeather, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrNoData)
	}

	if cached := s.fromCache(query); cached != nil {
		s.observe("cached")
		return cached, nil
	}

	weather, err := s.fetch(ctx, query)
	if err != nil {
		s.observe("error")
		s.logger.Error().Err(err).Str("query", query).Msg("Failed to fetch current weather")
		return nil, err
	}
	s.observe("ok")

	s.logger.Info().
		Str("query", query).
		Float64("temperature", weather.Temperature).
		Str("condition", weather.Condition).
		Msg("Fetched current weather")

	s.toCache(query, weather)
	return weather, nil
}

func (s *weatherAPIService) fetch(ctx context.Context, query string) (*CurrentWeather, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	values := url.Values{}
	values.Set("key", s.apiKey)
	values.Set("q", query)
	values.Set("aqi", "no")
	u := fmt.Sprintf("%s/current.json?%s", s.baseURL, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	// Only transport and 5xx failures count against the breaker; a 4xx is an
	// answer about the query, not about the provider's health.
	result, err := s.circuit.Execute(func() (interface{}, error) {
		resp, execErr := s.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: status code %d", errServerError, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrNoData, err)
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	var payload weatherAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status code %d", ErrNoData, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: malformed JSON: %v", ErrNoData, err)
	}

	if payload.Error != nil && payload.Error.Code != 0 {
		return nil, fmt.Errorf("%w: provider error: %s (code %d)", ErrNoData, payload.Error.Message, payload.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrNoData, resp.StatusCode)
	}

	return parseCurrent(payload)
}

func parseCurrent(payload weatherAPIResponse) (*CurrentWeather, error) {
	cur := payload.Current
	switch {
	case cur == nil:
		return nil, fmt.Errorf("%w: missing current", ErrNoData)
	case cur.TempC == nil:
		return nil, fmt.Errorf("%w: missing temp_c", ErrNoData)
	case cur.Humidity == nil:
		return nil, fmt.Errorf("%w: missing humidity", ErrNoData)
	case cur.WindKph == nil:
		return nil, fmt.Errorf("%w: missing wind_kph", ErrNoData)
	case cur.Condition.Text == "":
		return nil, fmt.Errorf("%w: missing condition", ErrNoData)
	}

	if *cur.TempC < -100 || *cur.TempC > 100 {
		return nil, fmt.Errorf("%w: unlikely temperature value: %f", ErrNoData, *cur.TempC)
	}

	return &CurrentWeather{
		Temperature:       *cur.TempC,
		FeelsLike:         cur.FeelsLikeC,
		Humidity:          int(math.Round(*cur.Humidity)),
		WindSpeed:         *cur.WindKph,
		Precipitation:     cur.PrecipMm,
		Condition:         TranslateCondition(cur.Condition.Text),
		ConditionOriginal: cur.Condition.Text,
		LocationName:      payload.Location.Name,
		Country:           payload.Location.Country,
		LastUpdated:       cur.LastUpdated,
		IsDay:             cur.IsDay == 1,
	}, nil
}

func (s *weatherAPIService) fromCache(query string) *CurrentWeather {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	data, ok, err := s.cache.Get(strings.ToLower(query))
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Failed to read weather cache")
		return nil
	}
	if !ok {
		return nil
	}
	return &CurrentWeather{
		Temperature:       data.Temperature,
		FeelsLike:         data.FeelsLike,
		Humidity:          data.Humidity,
		WindSpeed:         data.WindSpeed,
		Precipitation:     data.Precipitation,
		Condition:         data.Condition,
		ConditionOriginal: data.ConditionOriginal,
		LocationName:      data.LocationName,
		Country:           data.Country,
		LastUpdated:       data.LastUpdated,
		IsDay:             data.IsDay,
	}
}

func (s *weatherAPIService) toCache(query string, w *CurrentWeather) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	err := s.cache.Set(strings.ToLower(query), &inmemorycache.WeatherCacheData{
		Temperature:       w.Temperature,
		FeelsLike:         w.FeelsLike,
		Humidity:          w.Humidity,
		WindSpeed:         w.WindSpeed,
		Precipitation:     w.Precipitation,
		Condition:         w.Condition,
		ConditionOriginal: w.ConditionOriginal,
		LocationName:      w.LocationName,
		Country:           w.Country,
		LastUpdated:       w.LastUpdated,
		IsDay:             w.IsDay,
	}, s.cacheTTL)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Failed to write weather cache")
	}
}
