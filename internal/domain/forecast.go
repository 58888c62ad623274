package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	// dayFirstPattern matches DD-MM-YYYY.
	dayFirstPattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	// yearFirstPattern matches YYYY-MM-DD.
	yearFirstPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// NormalizeDate converts a DD-MM-YYYY or YYYY-MM-DD date to YYYY-MM-DD.
// Any other shape, or an impossible calendar date, returns an error wrapping
// ErrValidation.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)

	var canonical string
	switch {
	case yearFirstPattern.MatchString(s):
		canonical = s
	case dayFirstPattern.MatchString(s):
		m := dayFirstPattern.FindStringSubmatch(s)
		canonical = m[3] + "-" + m[2] + "-" + m[1]
	default:
		return "", invalidDate(s)
	}

	if _, err := time.Parse(dateLayout, canonical); err != nil {
		return "", invalidDate(s)
	}
	return canonical, nil
}

func invalidDate(s string) error {
	return fmt.Errorf("%w: invalid date format: %q, expected DD-MM-YYYY or YYYY-MM-DD", ErrValidation, s)
}

// AggregateDay reduces the samples that fall on date (YYYY-MM-DD, UTC) to a
// DaySummary. Returns ErrNoDataForDate when no sample matches.
func AggregateDay(samples []WeatherSample, date string) (DaySummary, error) {
	var (
		count                   int
		sumTemp, sumHum, sumWnd float64
		minTemp, maxTemp        float64
		first                   WeatherSample
	)

	for _, s := range samples {
		if s.Timestamp.UTC().Format(dateLayout) != date {
			continue
		}
		if count == 0 {
			first = s
			minTemp, maxTemp = s.TemperatureC, s.TemperatureC
		} else {
			if s.Timestamp.Before(first.Timestamp) {
				first = s
			}
			minTemp = math.Min(minTemp, s.TemperatureC)
			maxTemp = math.Max(maxTemp, s.TemperatureC)
		}
		count++
		sumTemp += s.TemperatureC
		sumHum += s.HumidityPct
		sumWnd += s.WindSpeedMS
	}

	if count == 0 {
		return DaySummary{}, fmt.Errorf("%w: %s", ErrNoDataForDate, date)
	}

	n := float64(count)
	condition := strings.TrimSpace(first.Condition)
	if condition == "" {
		condition = "n/a"
	}

	return DaySummary{
		Date:        date,
		AvgTemp:     round2(sumTemp / n),
		AvgHumidity: round2(sumHum / n),
		AvgWind:     round2(sumWnd / n),
		MinTemp:     round2(minTemp),
		MaxTemp:     round2(maxTemp),
		Condition:   condition,
		Icon:        first.Icon,
	}, nil
}

// SamplesOn returns the samples that fall on date, in input order.
func SamplesOn(samples []WeatherSample, date string) []WeatherSample {
	var out []WeatherSample
	for _, s := range samples {
		if s.Timestamp.UTC().Format(dateLayout) == date {
			out = append(out, s)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
