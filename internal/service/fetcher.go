package service

import (
	"context"
	"sync"

	"ulascansenturk/weather-reports/internal/db/weatherdata"
	"ulascansenturk/weather-reports/internal/providers"
)

type fetchResult struct {
	location weatherdata.Location
	query    string
	weather  *providers.CurrentWeather
	err      error
}

// fetchAll looks up every location on a bounded pool of workers. Results keep
// the order of locations.
func (s *weatherReportService) fetchAll(ctx context.Context, locations []weatherdata.Location) []fetchResult {
	results := make([]fetchResult, len(locations))
	indexes := make(chan int)

	workers := s.workers
	if workers > len(locations) {
		workers = len(locations)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				loc := locations[i]
				query := providers.QueryFor(loc.TimezoneLabel, loc.City)
				weather, err := s.fetcher.GetCurrentWeather(ctx, query)
				results[i] = fetchResult{location: loc, query: query, weather: weather, err: err}
			}
		}()
	}

	for i := range locations {
		select {
		case indexes <- i:
		case <-ctx.Done():
			for j := i; j < len(locations); j++ {
				results[j] = fetchResult{location: locations[j], err: ctx.Err()}
			}
			close(indexes)
			wg.Wait()
			return results
		}
	}
	close(indexes)
	wg.Wait()

	return results
}
