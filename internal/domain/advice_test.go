package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCondition(t *testing.T) {
	tests := map[string]ConditionClass{
		"light rain":       ConditionRainy,
		"Thunderstorm":     ConditionRainy,
		"heavy snow storm": ConditionSnowy,
		"overcast clouds":  ConditionCloudy,
		"clear sky":        ConditionClear,
		"Sunny":            ConditionClear,
		"n/a":              ConditionMixed,
		"":                 ConditionMixed,
	}
	for in, want := range tests {
		assert.Equal(t, want, ClassifyCondition(in), in)
	}
}

func TestFallbackAssessment(t *testing.T) {
	day := DaySummary{Date: "2024-06-01", AvgTemp: 17, MinTemp: 10, MaxTemp: 21, AvgHumidity: 50.33, AvgWind: 1.83, Condition: "light rain"}
	comfort := ComputeComfort(day.ComfortInput())

	text := FallbackAssessment("London", day, comfort)

	assert.Contains(t, text, "London on 2024-06-01 looks rainy")
	assert.Contains(t, text, "17.0°C")
	assert.Contains(t, text, comfort.Label)
	assert.Contains(t, text, conditionAdvice[ConditionRainy])
	assert.Equal(t, text, FallbackAssessment("London", day, comfort))
}

func TestFallbackAssessment_BlankLocation(t *testing.T) {
	text := FallbackAssessment(" ", DaySummary{Date: "2024-06-01", Condition: "n/a"}, ComputeComfort(ComfortInput{}))
	assert.Contains(t, text, "The selected location on 2024-06-01 looks mixed")
}

func TestFallbackPlanVerdict(t *testing.T) {
	moderate := ComfortResult{Level: 3, Label: "Moderate"}
	poor := ComfortResult{Level: 2, Label: "Uncomfortable"}

	ok := FallbackPlanVerdict(moderate, CauseNoCredential)
	assert.True(t, ok.Suitable)
	assert.Contains(t, ok.Reason, "Moderate (3/5)")
	assert.Contains(t, ok.Reason, "no API key configured")
	assert.Equal(t, planSuggestions[true], ok.Suggestions)
	require.Len(t, ok.Suggestions, 4)

	bad := FallbackPlanVerdict(poor, CauseTimeout)
	assert.False(t, bad.Suitable)
	assert.Contains(t, bad.Reason, "request timed out")
	assert.Equal(t, planSuggestions[false], bad.Suggestions)
	require.Len(t, bad.Suggestions, 4)

	assert.Contains(t, FallbackPlanVerdict(poor, CauseCallFailed).Reason, "reasoning service error")
	assert.Contains(t, FallbackPlanVerdict(poor, CauseMalformed).Reason, "unreadable response")
}

func TestFallbackPlanVerdict_ReturnsCopy(t *testing.T) {
	v := FallbackPlanVerdict(ComfortResult{Level: 5, Label: "Ideal"}, CauseNoCredential)
	v.Suggestions[0] = "mutated"

	assert.NotEqual(t, "mutated", planSuggestions[true][0])
}
