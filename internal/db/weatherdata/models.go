package weatherdata

import (
	"time"
)

type Location struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	TimezoneLabel string    `json:"timezone_label" gorm:"column:timezone_label;size:16;not null;index:idx_locations_label_city"`
	Offset        string    `json:"offset" gorm:"column:utc_offset;size:16"`
	City          string    `json:"city" gorm:"column:city_name;size:128;not null;index:idx_locations_label_city"`
	Country       string    `json:"country" gorm:"size:128"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Location) TableName() string {
	return "locations"
}

type WeatherSnapshot struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	LocationID    uint      `json:"location_id" gorm:"not null;index:idx_snapshots_location_date"`
	ForecastDate  time.Time `json:"forecast_date" gorm:"type:date;not null;index:idx_snapshots_location_date"`
	Temperature   float64   `json:"temperature"`
	Condition     string    `json:"condition" gorm:"column:weather_condition;size:128"`
	Precipitation *float64  `json:"precipitation,omitempty"`
	Humidity      *int      `json:"humidity,omitempty"`
	WindSpeed     *float64  `json:"wind_speed,omitempty"`
	ClimateType   string    `json:"climate_type,omitempty" gorm:"size:64"`
	ImageURL      string    `json:"image_url,omitempty"`
	VideoURL      string    `json:"video_url,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	Location *Location `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (WeatherSnapshot) TableName() string {
	return "weather_snapshots"
}

// LocationWeather is a location merged with one of its snapshots. Snapshot is
// nil when the location has no stored weather.
type LocationWeather struct {
	Location Location
	Snapshot *WeatherSnapshot
}

// DateOnly truncates t to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
