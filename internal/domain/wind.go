package domain

import (
	"context"
	"sort"
)

// DailyWind is one day's mean wind speed at 10 m.
type DailyWind struct {
	Date      string  `json:"date"`
	WindSpeed float64 `json:"windSpeed"`
}

// WindSeries is a run of daily wind speeds and their mean.
type WindSeries struct {
	Days    []DailyWind `json:"data"`
	Average float64     `json:"averageWindSpeed"`
	Unit    string      `json:"unit"`
}

// WindProvider returns historical daily wind for a point. Dates are
// YYYY-MM-DD.
type WindProvider interface {
	DailyWind(ctx context.Context, lat, lon float64, startDate, endDate string) (WindSeries, error)
}

// NewWindSeries sorts days by date and computes the rounded mean speed.
// An empty series has an average of zero.
func NewWindSeries(days []DailyWind, unit string) WindSeries {
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	var sum float64
	for _, d := range days {
		sum += d.WindSpeed
	}
	avg := 0.0
	if len(days) > 0 {
		avg = round2(sum / float64(len(days)))
	}
	if unit == "" {
		unit = "m/s"
	}
	return WindSeries{Days: days, Average: avg, Unit: unit}
}
