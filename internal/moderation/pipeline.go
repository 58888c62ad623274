// Package moderation screens community submissions field by field. Name and
// email are checked locally; content is checked structurally and then by the
// reasoning service, falling back to a keyword heuristic.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-comfort-service/internal/decision"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

// Field names the submission field a stage validates.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldContent Field = "content"
)

var fieldTitles = map[Field]string{
	FieldName:    "Name",
	FieldEmail:   "Email",
	FieldContent: "Content",
}

// Submission is an unmoderated community post.
type Submission struct {
	Name    string
	Email   string
	Content string
}

// Decision is the pipeline result. Accepted decisions carry all three
// verdicts; rejected ones name the first failing field.
type Decision struct {
	Accepted bool
	Record   domain.ModerationRecord
	Field    Field
	Reason   string
}

// Message renders a rejection the way clients display it.
func (d Decision) Message() string {
	if d.Accepted {
		return ""
	}
	return fmt.Sprintf("%s validation failed: %s", fieldTitles[d.Field], d.Reason)
}

type stage struct {
	field Field
	check func(ctx context.Context, s Submission) domain.ModerationVerdict
}

// Pipeline runs the stages in order and stops at the first rejection.
type Pipeline struct {
	stages  []stage
	content *decision.Decider[string, domain.ModerationVerdict]
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPipeline creates a Pipeline. A nil or unconfigured reasoner means
// content is screened by the keyword rules alone.
func NewPipeline(reasoner domain.Reasoner, timeout time.Duration, rules domain.KeywordRules, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	p := &Pipeline{
		content: decision.New(reasoner, ContentSpec(timeout, rules.Normalize()), logger, metrics),
		logger:  logger,
		metrics: metrics,
	}
	p.stages = []stage{
		{field: FieldName, check: func(_ context.Context, s Submission) domain.ModerationVerdict {
			return domain.ValidateName(s.Name)
		}},
		{field: FieldEmail, check: func(_ context.Context, s Submission) domain.ModerationVerdict {
			return domain.ValidateEmail(s.Email)
		}},
		{field: FieldContent, check: p.checkContent},
	}
	return p
}

func (p *Pipeline) checkContent(ctx context.Context, s Submission) domain.ModerationVerdict {
	if v := domain.ValidateContentStructure(s.Content); !v.Allowed {
		return v
	}
	return p.content.Decide(ctx, s.Content).Value
}

// Moderate evaluates a submission. It never returns an error: reasoner
// failures degrade to the local content screen.
func (p *Pipeline) Moderate(ctx context.Context, s Submission) Decision {
	verdicts := make(map[Field]domain.ModerationVerdict, len(p.stages))
	for _, st := range p.stages {
		v := st.check(ctx, s)
		if !v.Allowed {
			p.metrics.ModerationOutcomes.WithLabelValues("rejected", string(st.field)).Inc()
			p.logger.Info("submission rejected", "field", st.field, "reason", v.Reason, "confidence", v.Confidence)
			return Decision{Field: st.field, Reason: v.Reason}
		}
		verdicts[st.field] = v
	}

	p.metrics.ModerationOutcomes.WithLabelValues("accepted", "none").Inc()
	return Decision{
		Accepted: true,
		Record: domain.ModerationRecord{
			Name:    verdicts[FieldName],
			Email:   verdicts[FieldEmail],
			Content: verdicts[FieldContent],
		},
	}
}
