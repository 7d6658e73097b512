package weatherdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"ulascansenturk/weather-reports/internal/db/gateway"
)

// ErrNotFound marks a lookup that ran fine but matched nothing. Any other
// error returned by the repository is a failure of the underlying store.
var ErrNotFound = errors.New("weather data not found")

type Repository interface {
	ListLocations(ctx context.Context) ([]Location, error)
	GetLocation(ctx context.Context, id uint) (*Location, error)
	SeedLocations(ctx context.Context, locations []Location) ([]Location, error)
	InsertSnapshot(ctx context.Context, snapshot *WeatherSnapshot) error
	GetLatestSnapshot(ctx context.Context, locationID uint) (*WeatherSnapshot, error)
	GetSnapshotsForDate(ctx context.Context, date time.Time) ([]LocationWeather, error)
	ReplaceSnapshots(ctx context.Context, snapshots []WeatherSnapshot) error
	LocationsWithLatest(ctx context.Context) ([]LocationWeather, error)
}

type WeatherSQLRepository struct {
	gw *gateway.Gateway
}

func NewRepository(gw *gateway.Gateway) Repository {
	return &WeatherSQLRepository{gw: gw}
}

func (r *WeatherSQLRepository) db(ctx context.Context) (*gorm.DB, error) {
	db := r.gw.DB()
	if db == nil {
		return nil, gateway.ErrNotConnected
	}
	return db.WithContext(ctx), nil
}

func (r *WeatherSQLRepository) ListLocations(ctx context.Context) ([]Location, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	var locations []Location
	if err := db.Order("timezone_label").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *WeatherSQLRepository) GetLocation(ctx context.Context, id uint) (*Location, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	var location Location
	if err := db.Where("id = ?", id).First(&location).Error; err != nil {
		return nil, translate(err)
	}
	return &location, nil
}

func (r *WeatherSQLRepository) SeedLocations(ctx context.Context, locations []Location) ([]Location, error) {
	seeded := make([]Location, 0, len(locations))

	err := r.gw.Transaction(ctx, func(tx *gorm.DB) error {
		for _, loc := range locations {
			record := loc
			err := tx.Where("timezone_label = ? AND city_name = ?", loc.TimezoneLabel, loc.City).
				FirstOrCreate(&record).Error
			if err != nil {
				return fmt.Errorf("seed location %s/%s: %w", loc.TimezoneLabel, loc.City, err)
			}
			seeded = append(seeded, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return seeded, nil
}

func (r *WeatherSQLRepository) InsertSnapshot(ctx context.Context, snapshot *WeatherSnapshot) error {
	db, err := r.db(ctx)
	if err != nil {
		return err
	}

	snapshot.ForecastDate = DateOnly(snapshot.ForecastDate)
	return db.Omit("Location").Create(snapshot).Error
}

func (r *WeatherSQLRepository) GetLatestSnapshot(ctx context.Context, locationID uint) (*WeatherSnapshot, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	var snapshot WeatherSnapshot
	err = db.Where("location_id = ?", locationID).
		Order("forecast_date DESC").
		Order("id DESC").
		First(&snapshot).Error
	if err != nil {
		return nil, translate(err)
	}
	return &snapshot, nil
}

func (r *WeatherSQLRepository) GetSnapshotsForDate(ctx context.Context, date time.Time) ([]LocationWeather, error) {
	db, err := r.db(ctx)
	if err != nil {
		return nil, err
	}

	var snapshots []WeatherSnapshot
	err = db.Joins("JOIN locations ON locations.id = weather_snapshots.location_id").
		Preload("Location").
		Where("weather_snapshots.forecast_date = ?", DateOnly(date)).
		Order("locations.timezone_label").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}

	result := make([]LocationWeather, 0, len(snapshots))
	for i := range snapshots {
		snap := snapshots[i]
		entry := LocationWeather{Snapshot: &snap}
		if snap.Location != nil {
			entry.Location = *snap.Location
		}
		result = append(result, entry)
	}
	return result, nil
}

// ReplaceSnapshots clears the snapshot table and inserts the batch in one
// transaction, so concurrent readers see either the old or the new set.
func (r *WeatherSQLRepository) ReplaceSnapshots(ctx context.Context, snapshots []WeatherSnapshot) error {
	return r.gw.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&WeatherSnapshot{}).Error; err != nil {
			return fmt.Errorf("clear snapshots: %w", err)
		}
		if len(snapshots) == 0 {
			return nil
		}
		for i := range snapshots {
			snapshots[i].ForecastDate = DateOnly(snapshots[i].ForecastDate)
		}
		if err := tx.Omit("Location").Create(&snapshots).Error; err != nil {
			return fmt.Errorf("insert snapshots: %w", err)
		}
		return nil
	})
}

func (r *WeatherSQLRepository) LocationsWithLatest(ctx context.Context) ([]LocationWeather, error) {
	locations, err := r.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]LocationWeather, 0, len(locations))
	for _, loc := range locations {
		snapshot, err := r.GetLatestSnapshot(ctx, loc.ID)
		switch {
		case errors.Is(err, ErrNotFound):
			result = append(result, LocationWeather{Location: loc})
		case err != nil:
			return nil, fmt.Errorf("latest snapshot for location %d: %w", loc.ID, err)
		default:
			result = append(result, LocationWeather{Location: loc, Snapshot: snapshot})
		}
	}
	return result, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
