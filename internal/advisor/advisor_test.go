package advisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-comfort-service/internal/decision"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

// scriptedReasoner answers by decision, keyed on the sampling temperature.
type scriptedReasoner struct {
	configured bool
	replies    map[float64]string
	err        error

	mu    sync.Mutex
	calls []domain.ReasonerRequest
}

func (r *scriptedReasoner) Configured() bool { return r.configured }

func (r *scriptedReasoner) Generate(_ context.Context, req domain.ReasonerRequest) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, req)
	r.mu.Unlock()
	return r.replies[req.Temperature], r.err
}

func (r *scriptedReasoner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func testAdvisor(r domain.Reasoner) *Advisor {
	return New(r, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func mildDay() Request {
	summary := domain.DaySummary{
		Date: "2024-06-01", AvgTemp: 22, AvgHumidity: 50, AvgWind: 3,
		MinTemp: 18, MaxTemp: 25, Condition: "clear sky",
	}
	return Request{
		Location: "Lisbon",
		Summary:  summary,
		Comfort:  domain.ComputeComfort(summary.ComfortInput()),
	}
}

func TestAdvise_NoCredential(t *testing.T) {
	r := &scriptedReasoner{}
	req := mildDay()
	req.Plan = "picnic in the park"

	advice := testAdvisor(r).Advise(context.Background(), req)

	assert.Equal(t, 0, r.callCount())
	assert.Equal(t, decision.SourceFallback, advice.Assessment.Source)
	assert.Equal(t, domain.CauseNoCredential, advice.Assessment.Cause)
	assert.Equal(t, domain.FallbackAssessment(req.Location, req.Summary, req.Comfort), advice.Assessment.Value)

	require.NotNil(t, advice.Plan)
	assert.Equal(t, domain.CauseNoCredential, advice.Plan.Cause)
	assert.True(t, advice.Plan.Value.Suitable)
	assert.Contains(t, advice.Plan.Value.Reason, "no API key configured")
	assert.Len(t, advice.Plan.Value.Suggestions, 4)
}

func TestAdvise_NoPlanNoVerdict(t *testing.T) {
	r := &scriptedReasoner{configured: true, replies: map[float64]string{0.7: "Lovely day."}}

	advice := testAdvisor(r).Advise(context.Background(), mildDay())

	assert.Nil(t, advice.Plan)
	assert.Equal(t, 1, r.callCount())
	assert.Equal(t, "Lovely day.", advice.Assessment.Value)
	assert.Equal(t, decision.SourceReasoner, advice.Assessment.Source)
}

func TestAdvise_BothFromReasoner(t *testing.T) {
	r := &scriptedReasoner{configured: true, replies: map[float64]string{
		0.7: "  Warm and bright.  ",
		0.2: "```json\n{\"suitable\": true, \"reason\": \"Mild and dry\", \"suggestions\": [\"Bring a hat\", \" \"]}\n```",
	}}
	req := mildDay()
	req.Plan = "picnic"

	advice := testAdvisor(r).Advise(context.Background(), req)

	assert.Equal(t, 2, r.callCount())
	assert.Equal(t, "Warm and bright.", advice.Assessment.Value)
	require.NotNil(t, advice.Plan)
	assert.Equal(t, decision.SourceReasoner, advice.Plan.Source)
	assert.Equal(t, domain.PlanVerdict{Suitable: true, Reason: "Mild and dry", Suggestions: []string{"Bring a hat"}}, advice.Plan.Value)
}

func TestAdvise_CallFailure(t *testing.T) {
	r := &scriptedReasoner{configured: true, err: errors.New("gemini API error: status 500")}
	req := mildDay()
	req.Plan = "hike"

	advice := testAdvisor(r).Advise(context.Background(), req)

	assert.Equal(t, domain.CauseCallFailed, advice.Assessment.Cause)
	require.NotNil(t, advice.Plan)
	assert.Equal(t, domain.CauseCallFailed, advice.Plan.Cause)
	assert.Contains(t, advice.Plan.Value.Reason, "reasoning service error")
}

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"valid", `{"suitable": false, "reason": "Heavy rain"}`, true},
		{"missing suitable", `{"reason": "Heavy rain"}`, false},
		{"suitable wrong type", `{"suitable": "yes", "reason": "Heavy rain"}`, false},
		{"blank reason", `{"suitable": true, "reason": "  "}`, false},
		{"suggestions wrong type", `{"suitable": true, "reason": "ok", "suggestions": "bring a coat"}`, false},
		{"not json", "not json at all", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parsePlan(tt.raw).Value()
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParsePlan_NoSuggestions(t *testing.T) {
	v, ok := parsePlan(`Sure! {"suitable": false, "reason": "Storms expected"} Hope that helps.`).Value()
	require.True(t, ok)
	assert.False(t, v.Suitable)
	assert.Equal(t, "Storms expected", v.Reason)
	assert.Empty(t, v.Suggestions)
}

func TestParsePlan_SkipsPlaceholderBraces(t *testing.T) {
	v, ok := parsePlan(`Per {your plan}: {"suitable":true,"reason":"ok"}`).Value()
	require.True(t, ok)
	assert.True(t, v.Suitable)
	assert.Equal(t, "ok", v.Reason)
}

func TestParseAssessment_Empty(t *testing.T) {
	_, ok := parseAssessment(" \n ").Value()
	assert.False(t, ok)
}

func TestAssessmentPrompt_EmbedsDay(t *testing.T) {
	req := mildDay()
	prompt := assessmentPrompt(AssessmentInput{Location: req.Location, Summary: req.Summary, Comfort: req.Comfort})

	assert.Contains(t, prompt, "Lisbon")
	assert.Contains(t, prompt, "2024-06-01")
	assert.Contains(t, prompt, "clear sky")
	assert.Contains(t, prompt, req.Comfort.Label)
}
