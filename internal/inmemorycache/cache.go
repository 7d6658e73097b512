package inmemorycache

import (
	"encoding/json"
	"sync"
	"time"
)

// WeatherCacheData is a provider reading as stored in the cache.
type WeatherCacheData struct {
	Temperature       float64 `json:"temperature"`
	FeelsLike         float64 `json:"feels_like"`
	Humidity          int     `json:"humidity"`
	WindSpeed         float64 `json:"wind_speed"`
	Precipitation     float64 `json:"precipitation"`
	Condition         string  `json:"condition"`
	ConditionOriginal string  `json:"condition_original"`
	LocationName      string  `json:"location_name"`
	Country           string  `json:"country"`
	LastUpdated       string  `json:"last_updated,omitempty"`
	IsDay             bool    `json:"is_day"`
}

type cacheEntry struct {
	data       []byte
	expiration time.Time
}

type Cache interface {
	Get(key string) (*WeatherCacheData, bool, error)
	Set(key string, data *WeatherCacheData, ttl time.Duration) error
}

type InMemoryCache struct {
	cache           map[string]cacheEntry
	mutex           sync.Mutex
	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

func NewInMemoryCacheProvider(cleanupInterval time.Duration) *InMemoryCache {
	provider := &InMemoryCache{
		cache:           make(map[string]cacheEntry),
		cleanupInterval: cleanupInterval,
		stop:            make(chan struct{}),
	}

	go provider.startCleanup()

	return provider
}

func (m *InMemoryCache) Get(key string) (*WeatherCacheData, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, exists := m.cache[key]
	if !exists {
		return nil, false, nil
	}

	if time.Now().After(entry.expiration) {
		delete(m.cache, key)
		return nil, false, nil
	}

	var data WeatherCacheData
	if err := json.Unmarshal(entry.data, &data); err != nil {
		return nil, false, err
	}

	return &data, true, nil
}

// Set stores data under key. A non-positive ttl is a no-op.
func (m *InMemoryCache) Set(key string, data *WeatherCacheData, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.cache[key] = cacheEntry{
		data:       jsonData,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

func (m *InMemoryCache) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.cache)
}

// Close stops the cleanup goroutine.
func (m *InMemoryCache) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *InMemoryCache) startCleanup() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.mutex.Lock()
			now := time.Now()
			for k, v := range m.cache {
				if now.After(v.expiration) {
					delete(m.cache, k)
				}
			}
			m.mutex.Unlock()
		}
	}
}
