package domain

import "strings"

const (
	minComfortScore = -2.0
	maxComfortScore = 6.0
)

// ComfortInput is the scoring input: one day's averaged conditions.
type ComfortInput struct {
	TemperatureC float64
	HumidityPct  float64
	WindSpeedMS  float64
	Condition    string
}

// ComfortResult is the bounded comfort score and its bucket.
type ComfortResult struct {
	Score       float64 `json:"score"`
	Level       int     `json:"level"`
	Label       string  `json:"label"`
	Explanation string  `json:"explanation"`
}

type comfortLabel struct {
	label       string
	explanation string
}

var comfortLabels = map[int]comfortLabel{
	1: {"Very Uncomfortable", "Extreme temps / humidity / conditions create low comfort."},
	2: {"Uncomfortable", "Outside ideal ranges; plan accordingly."},
	3: {"Moderate", "Acceptable but not ideal; minor adjustments recommended."},
	4: {"Comfortable", "Good outdoor conditions for most activities."},
	5: {"Ideal", "Near-optimal mix of temperature, humidity & wind."},
}

// Checked before clearKeywords, so "rain then sun" scores as adverse.
var precipitationKeywords = []string{"rain", "snow", "storm", "thunder", "drizzle", "sleet", "hail"}

var clearKeywords = []string{"clear", "sun"}

// ComputeComfort scores the input and maps it to a comfort level.
func ComputeComfort(in ComfortInput) ComfortResult {
	score := temperaturePoints(in.TemperatureC) +
		humidityPoints(in.HumidityPct) +
		windPoints(in.WindSpeedMS) +
		conditionPoints(in.Condition)

	score = round2(clamp(score, minComfortScore, maxComfortScore))
	level := comfortLevel(score)
	l := comfortLabels[level]

	return ComfortResult{
		Score:       score,
		Level:       level,
		Label:       l.label,
		Explanation: l.explanation,
	}
}

func temperaturePoints(t float64) float64 {
	switch {
	case t >= 20 && t <= 24:
		return 3
	case t >= 15 && t <= 29:
		return 2
	case t >= 10 && t <= 34:
		return 1
	case t < 0 || t > 38:
		return -1
	default:
		return 0
	}
}

func humidityPoints(h float64) float64 {
	switch {
	case h >= 30 && h <= 55:
		return 2
	case h >= 20 && h <= 65:
		return 1
	case h > 85 || h < 15:
		return -1
	default:
		return 0
	}
}

func windPoints(w float64) float64 {
	switch {
	case w >= 0.5 && w <= 4:
		return 1
	case w > 8 && w <= 12:
		return -0.5
	case w > 12:
		return -1
	default:
		return 0
	}
}

func conditionPoints(condition string) float64 {
	c := strings.ToLower(condition)
	switch {
	case containsAny(c, precipitationKeywords):
		return -1
	case containsAny(c, clearKeywords):
		return 0.5
	default:
		return 0
	}
}

func comfortLevel(score float64) int {
	switch {
	case score > 4.5:
		return 5
	case score > 3:
		return 4
	case score > 1.5:
		return 3
	case score > 0:
		return 2
	default:
		return 1
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
