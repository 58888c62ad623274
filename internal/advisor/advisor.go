// Package advisor augments a scored forecast day with a reasoner-written
// assessment and, when a plan is given, a suitability verdict.
package advisor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/weather-comfort-service/internal/decision"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

// Request is a scored day and an optional plan.
type Request struct {
	Location string
	Summary  domain.DaySummary
	Comfort  domain.ComfortResult
	Plan     string
}

// Advice holds the assessment and, when a plan was supplied, the verdict.
type Advice struct {
	Assessment decision.Outcome[string]
	Plan       *decision.Outcome[domain.PlanVerdict]
}

// Advisor runs the assessment and plan decisions.
type Advisor struct {
	assessment *decision.Decider[AssessmentInput, string]
	plan       *decision.Decider[PlanInput, domain.PlanVerdict]
}

// New creates an Advisor. Both decisions share the reasoner and timeout.
func New(reasoner domain.Reasoner, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Advisor {
	return &Advisor{
		assessment: decision.New(reasoner, AssessmentSpec(timeout), logger, metrics),
		plan:       decision.New(reasoner, PlanSpec(timeout), logger, metrics),
	}
}

// Advise runs both decisions concurrently. It never fails; degraded
// decisions carry their cause.
func (a *Advisor) Advise(ctx context.Context, req Request) Advice {
	var (
		advice Advice
		g      errgroup.Group
	)

	g.Go(func() error {
		advice.Assessment = a.assessment.Decide(ctx, AssessmentInput{
			Location: req.Location,
			Summary:  req.Summary,
			Comfort:  req.Comfort,
		})
		return nil
	})

	if plan := strings.TrimSpace(req.Plan); plan != "" {
		g.Go(func() error {
			out := a.plan.Decide(ctx, PlanInput{
				Plan:     plan,
				Location: req.Location,
				Summary:  req.Summary,
				Comfort:  req.Comfort,
			})
			advice.Plan = &out
			return nil
		})
	}

	_ = g.Wait()
	return advice
}
