package domain

import (
	"context"
	"time"
)

// WeatherSample is one provider observation or forecast point.
type WeatherSample struct {
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPct"`
	WindSpeedMS  float64   `json:"windSpeedMs"`
	Condition    string    `json:"condition"`
	Icon         string    `json:"icon,omitempty"`
}

// Forecast is the provider's multi-day series for one location.
type Forecast struct {
	// Location is the provider's resolved place name; empty when unknown.
	Location string
	Samples  []WeatherSample
}

// ForecastProvider fetches a multi-day sample series for a location.
type ForecastProvider interface {
	// Forecast returns the provider's sample series. Failures wrap
	// ErrProviderUnavailable or are a *ProviderRejectedError.
	Forecast(ctx context.Context, location string) (Forecast, error)
}

// DaySummary is the reduction of one calendar day's samples.
type DaySummary struct {
	Date        string  `json:"date"`
	AvgTemp     float64 `json:"avgTemp"`
	AvgHumidity float64 `json:"avgHumidity"`
	AvgWind     float64 `json:"avgWind"`
	MinTemp     float64 `json:"minTemp"`
	MaxTemp     float64 `json:"maxTemp"`
	Condition   string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
}

// ComfortInput returns the scoring input for the summary.
func (s DaySummary) ComfortInput() ComfortInput {
	return ComfortInput{
		TemperatureC: s.AvgTemp,
		HumidityPct:  s.AvgHumidity,
		WindSpeedMS:  s.AvgWind,
		Condition:    s.Condition,
	}
}

// DayReport is the locally computed, cacheable part of a day forecast.
type DayReport struct {
	Location string          `json:"location"`
	Summary  DaySummary      `json:"summary"`
	Comfort  ComfortResult   `json:"comfort"`
	Samples  []WeatherSample `json:"samples"`
}

// ReportCache stores day reports by key. Implementations are best-effort:
// a Get error is treated as a miss.
type ReportCache interface {
	Get(ctx context.Context, key string) (DayReport, bool, error)
	Put(ctx context.Context, key string, report DayReport) error
}
