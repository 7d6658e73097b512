package handlers

import "time"

type HealthResponse struct {
	Status    string `json:"status"`
	Scheduler bool   `json:"scheduler_running"`
}

type SnapshotResponse struct {
	Temperature   float64   `json:"temperature"`
	Condition     string    `json:"condition"`
	Humidity      *int      `json:"humidity,omitempty"`
	WindSpeed     *float64  `json:"wind_speed,omitempty"`
	Precipitation *float64  `json:"precipitation,omitempty"`
	ClimateType   string    `json:"climate_type,omitempty"`
	ForecastDate  string    `json:"forecast_date"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type LocationWeatherResponse struct {
	ID            uint              `json:"id"`
	TimezoneLabel string            `json:"timezone_label"`
	Offset        string            `json:"offset"`
	City          string            `json:"city"`
	Country       string            `json:"country"`
	Weather       *SnapshotResponse `json:"weather"`
}

type EmailRecordResponse struct {
	Recipient    string    `json:"recipient"`
	Subject      string    `json:"subject"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	LocationIDs  []uint    `json:"location_ids"`
	SentAt       time.Time `json:"sent_at"`
}

type JobRunResponse struct {
	Job    string `json:"job"`
	Status string `json:"status"`
}

type Error struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
	Title  string `json:"title"`
}

type ErrorResponse struct {
	Errors []Error `json:"errors"`
}
