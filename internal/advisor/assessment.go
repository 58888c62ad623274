package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/weather-comfort-service/internal/decision"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// AssessmentInput is everything the assessment prompt and fallback need.
type AssessmentInput struct {
	Location string
	Summary  domain.DaySummary
	Comfort  domain.ComfortResult
}

// AssessmentSpec describes the natural-language day assessment.
func AssessmentSpec(timeout time.Duration) decision.Spec[AssessmentInput, string] {
	return decision.Spec[AssessmentInput, string]{
		Name:            "assessment",
		Timeout:         timeout,
		Temperature:     0.7,
		MaxOutputTokens: 300,
		Prompt:          assessmentPrompt,
		Parse:           parseAssessment,
		Fallback: func(in AssessmentInput, _ domain.DegradeCause) string {
			return domain.FallbackAssessment(in.Location, in.Summary, in.Comfort)
		},
	}
}

func assessmentPrompt(in AssessmentInput) string {
	s := in.Summary
	return fmt.Sprintf(`You are a friendly weather assistant. Write one short paragraph (at most 4 sentences) describing what the day will feel like outdoors and any practical advice.

Location: %s
Date: %s
Conditions: %s
Average temperature: %.1f°C (min %.1f°C, max %.1f°C)
Average humidity: %.0f%%
Average wind speed: %.1f m/s
Comfort level: %s (%d/5, score %.2f)

Respond with plain text only, no markdown.`,
		in.Location, s.Date, s.Condition,
		s.AvgTemp, s.MinTemp, s.MaxTemp, s.AvgHumidity, s.AvgWind,
		in.Comfort.Label, in.Comfort.Level, in.Comfort.Score,
	)
}

func parseAssessment(raw string) decision.Result[string] {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decision.Malformed[string]("empty assessment")
	}
	return decision.Parsed(text)
}
