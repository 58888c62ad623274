package domain

import (
	"fmt"
	"slices"
	"strings"
)

// PlanVerdict says whether a user's plan suits the day's conditions.
type PlanVerdict struct {
	Suitable    bool     `json:"suitable"`
	Reason      string   `json:"reason"`
	Suggestions []string `json:"suggestions"`
}

// ConditionClass is a coarse bucket of a free-text condition.
type ConditionClass string

const (
	ConditionRainy  ConditionClass = "rainy"
	ConditionSnowy  ConditionClass = "snowy"
	ConditionCloudy ConditionClass = "cloudy"
	ConditionClear  ConditionClass = "clear"
	ConditionMixed  ConditionClass = "mixed"
)

// Snow is checked first so "snow storm" is snowy rather than rainy.
var conditionClasses = []struct {
	class    ConditionClass
	keywords []string
}{
	{ConditionSnowy, []string{"snow", "sleet", "hail", "blizzard"}},
	{ConditionRainy, []string{"rain", "drizzle", "thunder", "storm", "shower"}},
	{ConditionCloudy, []string{"cloud", "overcast", "mist", "fog", "haze"}},
	{ConditionClear, []string{"clear", "sun"}},
}

var conditionAdvice = map[ConditionClass]string{
	ConditionRainy:  "Pack a waterproof layer and expect wet ground.",
	ConditionSnowy:  "Dress in insulated layers and allow extra travel time.",
	ConditionCloudy: "Light layers should cover any shifts in temperature.",
	ConditionClear:  "Bring sun protection and enough water.",
	ConditionMixed:  "Check conditions again before heading out.",
}

// ClassifyCondition buckets a condition description by keyword.
func ClassifyCondition(condition string) ConditionClass {
	c := strings.ToLower(condition)
	for _, cc := range conditionClasses {
		if containsAny(c, cc.keywords) {
			return cc.class
		}
	}
	return ConditionMixed
}

// FallbackAssessment writes a one-paragraph description of the day from
// locally computed data.
func FallbackAssessment(location string, day DaySummary, comfort ComfortResult) string {
	place := strings.TrimSpace(location)
	if place == "" {
		place = "The selected location"
	}
	class := ClassifyCondition(day.Condition)

	return fmt.Sprintf(
		"%s on %s looks %s (%s), averaging %.1f°C between %.1f°C and %.1f°C with %.0f%% humidity and winds around %.1f m/s. Comfort is rated %s (%d/5): %s %s",
		place, day.Date, class, day.Condition,
		day.AvgTemp, day.MinTemp, day.MaxTemp, day.AvgHumidity, day.AvgWind,
		comfort.Label, comfort.Level, comfort.Explanation, conditionAdvice[class],
	)
}

var planSuggestions = map[bool][]string{
	true: {
		"Check the forecast again closer to the time",
		"Wear breathable layers you can adjust",
		"Bring water and sun protection",
		"Keep an indoor backup option in mind",
	},
	false: {
		"Consider moving the plan to a more comfortable day",
		"Look for an indoor alternative",
		"Pack weather-appropriate gear if you go ahead",
		"Keep the outing short and watch for changes",
	},
}

var degradeNotes = map[DegradeCause]string{
	CauseNoCredential: "AI assessment unavailable (no API key configured)",
	CauseCallFailed:   "AI assessment unavailable (reasoning service error)",
	CauseTimeout:      "AI assessment unavailable (request timed out)",
	CauseMalformed:    "AI assessment unavailable (unreadable response)",
}

// FallbackPlanVerdict derives a verdict from the comfort level alone. A plan
// is suitable when the level is Moderate or better.
func FallbackPlanVerdict(comfort ComfortResult, cause DegradeCause) PlanVerdict {
	suitable := comfort.Level >= 3
	outlook := "workable"
	if !suitable {
		outlook = "risky"
	}
	note, ok := degradeNotes[cause]
	if !ok {
		note = "based on comfort level only"
	}

	return PlanVerdict{
		Suitable:    suitable,
		Reason:      fmt.Sprintf("Comfort is %s (%d/5), so the plan looks %s; %s.", comfort.Label, comfort.Level, outlook, note),
		Suggestions: slices.Clone(planSuggestions[suitable]),
	}
}
