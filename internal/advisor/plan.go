package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/weather-comfort-service/internal/decision"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// PlanInput pairs a user's plan with the day it is meant for.
type PlanInput struct {
	Plan     string
	Location string
	Summary  domain.DaySummary
	Comfort  domain.ComfortResult
}

// PlanSpec describes the plan-suitability verdict.
func PlanSpec(timeout time.Duration) decision.Spec[PlanInput, domain.PlanVerdict] {
	return decision.Spec[PlanInput, domain.PlanVerdict]{
		Name:            "plan",
		Timeout:         timeout,
		Temperature:     0.2,
		MaxOutputTokens: 300,
		Prompt:          planPrompt,
		Parse:           parsePlan,
		Fallback: func(in PlanInput, cause domain.DegradeCause) domain.PlanVerdict {
			return domain.FallbackPlanVerdict(in.Comfort, cause)
		},
	}
}

func planPrompt(in PlanInput) string {
	s := in.Summary
	return fmt.Sprintf(`You are a weather-aware planning assistant. Decide whether the plan below suits the forecast.

Plan: %q
Location: %s
Date: %s
Conditions: %s
Average temperature: %.1f°C (min %.1f°C, max %.1f°C)
Average humidity: %.0f%%
Average wind speed: %.1f m/s
Comfort level: %s (%d/5)

Respond ONLY with a JSON object in this exact format:
{
  "suitable": boolean,
  "reason": "one sentence explanation",
  "suggestions": ["short practical tip", "..."]
}`,
		in.Plan, in.Location, s.Date, s.Condition,
		s.AvgTemp, s.MinTemp, s.MaxTemp, s.AvgHumidity, s.AvgWind,
		in.Comfort.Label, in.Comfort.Level,
	)
}

// planAnswer uses pointers so missing required fields are detectable.
type planAnswer struct {
	Suitable    *bool    `json:"suitable"`
	Reason      *string  `json:"reason"`
	Suggestions []string `json:"suggestions"`
}

func parsePlan(raw string) decision.Result[domain.PlanVerdict] {
	var a planAnswer
	if err := decision.DecodeObject(raw, &a); err != nil {
		return decision.Malformed[domain.PlanVerdict](err.Error())
	}
	if a.Suitable == nil {
		return decision.Malformed[domain.PlanVerdict]("missing suitable")
	}
	if a.Reason == nil || strings.TrimSpace(*a.Reason) == "" {
		return decision.Malformed[domain.PlanVerdict]("missing reason")
	}

	suggestions := make([]string, 0, len(a.Suggestions))
	for _, s := range a.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	return decision.Parsed(domain.PlanVerdict{
		Suitable:    *a.Suitable,
		Reason:      strings.TrimSpace(*a.Reason),
		Suggestions: suggestions,
	})
}
