package providers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"ulascansenturk/weather-reports/internal/inmemorycache"
	"ulascansenturk/weather-reports/internal/mocks"
	"ulascansenturk/weather-reports/internal/providers"
)

type WeatherAPIServiceTestSuite struct {
	suite.Suite
	server   *httptest.Server
	hits     atomic.Int32
	service  providers.WeatherAPIService
	cache    *inmemorycache.InMemoryCache
	observed []string
}

func current(tempC float64, humidity float64, text string) map[string]interface{} {
	return map[string]interface{}{
		"location": map[string]interface{}{
			"name":    "Honiara",
			"country": "Solomon Islands",
		},
		"current": map[string]interface{}{
			"temp_c":       tempC,
			"feelslike_c":  tempC + 2,
			"humidity":     humidity,
			"wind_kph":     13.0,
			"precip_mm":    0.4,
			"is_day":       1,
			"last_updated": "2026-10-14 10:00",
			"condition": map[string]interface{}{
				"text": text,
			},
		},
	}
}

func (s *WeatherAPIServiceTestSuite) SetupTest() {
	s.hits.Store(0)
	s.observed = nil

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.Equal("/current.json", r.URL.Path)
		s.Equal("test_key", r.URL.Query().Get("key"))
		s.Equal("no", r.URL.Query().Get("aqi"))

		switch r.URL.Query().Get("q") {
		case "Honiara":
			json.NewEncoder(w).Encode(current(30.5, 85, "Partly cloudy"))
		case "Cold":
			json.NewEncoder(w).Encode(current(-3, 60, "Blizzard"))
		case "UnknownCondition":
			json.NewEncoder(w).Encode(current(22, 50, "Volcanic ash"))
		case "ErrorCity":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"code":    1006,
					"message": "No matching location found.",
				},
			})
		case "MissingTemp":
			payload := current(20, 50, "Sunny")
			delete(payload["current"].(map[string]interface{}), "temp_c")
			json.NewEncoder(w).Encode(payload)
		case "MissingCurrent":
			json.NewEncoder(w).Encode(map[string]interface{}{"location": map[string]interface{}{"name": "X"}})
		case "InvalidTemp":
			json.NewEncoder(w).Encode(current(-150, 50, "Sunny"))
		case "MalformedJSON":
			w.Write([]byte("{malformed json"))
		case "Forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	s.cache = inmemorycache.NewInMemoryCacheProvider(time.Minute)
	s.service = providers.NewWeatherAPIService(providers.Options{
		APIKey:       "test_key",
		BaseURL:      s.server.URL + "/",
		Timeout:      2 * time.Second,
		Cache:        s.cache,
		CacheTTL:     time.Minute,
		BreakerTrips: 2,
		Observe:      func(result string) { s.observed = append(s.observed, result) },
		Logger:       zerolog.Nop(),
	})
}

func (s *WeatherAPIServiceTestSuite) TearDownTest() {
	s.server.Close()
	s.cache.Close()
}

func (s *WeatherAPIServiceTestSuite) TestGetCurrentWeather() {
	weather, err := s.service.GetCurrentWeather(context.Background(), "Honiara")
	s.Require().NoError(err)

	s.Equal(30.5, weather.Temperature)
	s.Equal(32.5, weather.FeelsLike)
	s.Equal(85, weather.Humidity)
	s.Equal(13.0, weather.WindSpeed)
	s.Equal(0.4, weather.Precipitation)
	s.Equal("Parcialmente Nublado", weather.Condition)
	s.Equal("Partly cloudy", weather.ConditionOriginal)
	s.Equal("Honiara", weather.LocationName)
	s.Equal("Solomon Islands", weather.Country)
	s.True(weather.IsDay)
}

func (s *WeatherAPIServiceTestSuite) TestUnmappedConditionIsKept() {
	weather, err := s.service.GetCurrentWeather(context.Background(), "UnknownCondition")
	s.Require().NoError(err)
	s.Equal("Volcanic ash", weather.Condition)

	weather, err = s.service.GetCurrentWeather(context.Background(), "Cold")
	s.Require().NoError(err)
	s.Equal("Nevasca Intensa", weather.Condition)
}

func (s *WeatherAPIServiceTestSuite) TestNoDataCases() {
	for _, query := range []string{"ErrorCity", "MissingTemp", "MissingCurrent", "InvalidTemp", "MalformedJSON", "Forbidden", ""} {
		s.Run(query, func() {
			weather, err := s.service.GetCurrentWeather(context.Background(), query)
			s.ErrorIs(err, providers.ErrNoData)
			s.Nil(weather)
		})
	}
}

func (s *WeatherAPIServiceTestSuite) TestProviderErrorMessage() {
	_, err := s.service.GetCurrentWeather(context.Background(), "ErrorCity")
	s.Require().Error(err)
	s.Contains(err.Error(), "No matching location found.")
	s.Contains(err.Error(), "1006")
}

func (s *WeatherAPIServiceTestSuite) TestReadingsAreCached() {
	_, err := s.service.GetCurrentWeather(context.Background(), "Honiara")
	s.Require().NoError(err)
	weather, err := s.service.GetCurrentWeather(context.Background(), "honiara")
	s.Require().NoError(err)

	s.Equal(int32(1), s.hits.Load())
	s.Equal("Parcialmente Nublado", weather.Condition)
	s.Equal([]string{"ok", "cached"}, s.observed)
}

func (s *WeatherAPIServiceTestSuite) TestFailuresAreNotCached() {
	_, err := s.service.GetCurrentWeather(context.Background(), "MalformedJSON")
	s.Require().Error(err)
	_, err = s.service.GetCurrentWeather(context.Background(), "MalformedJSON")
	s.Require().Error(err)

	s.Equal(int32(2), s.hits.Load())
	s.Equal(0, s.cache.Len())
}

func (s *WeatherAPIServiceTestSuite) TestBreakerOpensOnServerErrors() {
	for i := 0; i < 2; i++ {
		_, err := s.service.GetCurrentWeather(context.Background(), "ServerError")
		s.ErrorIs(err, providers.ErrNoData)
	}
	s.Equal(int32(2), s.hits.Load())

	_, err := s.service.GetCurrentWeather(context.Background(), "Honiara")
	s.ErrorIs(err, providers.ErrNoData)
	s.Contains(err.Error(), "circuit breaker is open")
	s.Equal(int32(2), s.hits.Load())
}

func (s *WeatherAPIServiceTestSuite) TestClientErrorsDoNotTripBreaker() {
	for i := 0; i < 3; i++ {
		_, err := s.service.GetCurrentWeather(context.Background(), "ErrorCity")
		s.ErrorIs(err, providers.ErrNoData)
	}

	_, err := s.service.GetCurrentWeather(context.Background(), "Honiara")
	s.NoError(err)
}

func (s *WeatherAPIServiceTestSuite) TestUnreachableServer() {
	s.server.Close()

	weather, err := s.service.GetCurrentWeather(context.Background(), "Honiara")
	s.ErrorIs(err, providers.ErrNoData)
	s.Nil(weather)
}

func (s *WeatherAPIServiceTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.service.GetCurrentWeather(ctx, "Honiara")
	s.ErrorIs(err, providers.ErrNoData)
}

func (s *WeatherAPIServiceTestSuite) TestCacheErrorsFallBackToProvider() {
	cache := mocks.NewMockCache(s.T())
	cache.On("Get", "honiara").Return((*inmemorycache.WeatherCacheData)(nil), false, errors.New("decode failed"))
	cache.On("Set", "honiara", mock.MatchedBy(func(d *inmemorycache.WeatherCacheData) bool {
		return d.Temperature == 30.5 && d.Humidity == 85
	}), time.Minute).Return(errors.New("cache full"))

	svc := providers.NewWeatherAPIService(providers.Options{
		APIKey:   "test_key",
		BaseURL:  s.server.URL,
		Cache:    cache,
		CacheTTL: time.Minute,
		Logger:   zerolog.Nop(),
	})

	weather, err := svc.GetCurrentWeather(context.Background(), "Honiara")

	s.Require().NoError(err)
	s.Equal(30.5, weather.Temperature)
	s.Equal(int32(1), s.hits.Load())
}

func TestWeatherAPIServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WeatherAPIServiceTestSuite))
}
