package decision

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

// DefaultTimeout bounds a reasoner call when a Spec does not set one.
const DefaultTimeout = 30 * time.Second

// Source says where an Outcome's value came from.
type Source string

const (
	SourceReasoner Source = "reasoner"
	SourceFallback Source = "fallback"
)

// Spec describes one kind of augmented decision.
type Spec[In, Out any] struct {
	// Name labels logs and metrics, e.g. "assessment".
	Name            string
	Timeout         time.Duration
	Temperature     float64
	MaxOutputTokens int

	Prompt   func(In) string
	Parse    func(raw string) Result[Out]
	Fallback func(In, domain.DegradeCause) Out
}

// Outcome is a decision value and its provenance.
type Outcome[T any] struct {
	Value  T
	Source Source
	Cause  domain.DegradeCause
}

// Degraded reports whether the fallback produced the value.
func (o Outcome[T]) Degraded() bool {
	return o.Source == SourceFallback
}

// Decider runs a Spec against a reasoner. A nil reasoner is treated as
// unconfigured.
type Decider[In, Out any] struct {
	reasoner domain.Reasoner
	spec     Spec[In, Out]
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Decider.
func New[In, Out any](reasoner domain.Reasoner, spec Spec[In, Out], logger *slog.Logger, metrics *observability.Metrics) *Decider[In, Out] {
	if spec.Timeout <= 0 {
		spec.Timeout = DefaultTimeout
	}
	return &Decider[In, Out]{
		reasoner: reasoner,
		spec:     spec,
		logger:   logger,
		metrics:  metrics,
	}
}

type reply struct {
	text string
	err  error
}

// Decide returns the reasoner's parsed answer, or the fallback when no
// credential is configured, the call fails or times out, or the answer is
// malformed. It never returns an error and never blocks past the timeout.
func (d *Decider[In, Out]) Decide(ctx context.Context, in In) Outcome[Out] {
	if d.reasoner == nil || !d.reasoner.Configured() {
		return d.fallback(in, domain.CauseNoCredential, nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, d.spec.Timeout)
	defer cancel()

	req := domain.ReasonerRequest{
		Prompt:          d.spec.Prompt(in),
		Temperature:     d.spec.Temperature,
		MaxOutputTokens: d.spec.MaxOutputTokens,
	}

	// Buffered so the call goroutine can always finish after a timeout.
	replies := make(chan reply, 1)
	start := time.Now()
	go func() {
		text, err := d.reasoner.Generate(callCtx, req)
		replies <- reply{text: text, err: err}
	}()

	var r reply
	select {
	case r = <-replies:
	case <-callCtx.Done():
		r = reply{err: callCtx.Err()}
	}
	d.metrics.ReasonerCallDuration.WithLabelValues(d.spec.Name).Observe(time.Since(start).Seconds())

	if r.err != nil {
		cause := domain.CauseCallFailed
		if errors.Is(r.err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			cause = domain.CauseTimeout
		}
		return d.fallback(in, cause, r.err)
	}

	parsed := d.spec.Parse(r.text)
	v, ok := parsed.Value()
	if !ok {
		return d.fallback(in, domain.CauseMalformed, errors.New(parsed.Reason()))
	}

	d.metrics.ReasonerDecisions.WithLabelValues(d.spec.Name, string(SourceReasoner), "none").Inc()
	d.logger.Debug("reasoner decision", "decision", d.spec.Name, "duration", time.Since(start))
	return Outcome[Out]{Value: v, Source: SourceReasoner}
}

func (d *Decider[In, Out]) fallback(in In, cause domain.DegradeCause, err error) Outcome[Out] {
	d.metrics.ReasonerDecisions.WithLabelValues(d.spec.Name, string(SourceFallback), string(cause)).Inc()
	if err != nil {
		d.logger.Warn("reasoner degraded, using fallback", "decision", d.spec.Name, "cause", cause, "error", err)
	} else {
		d.logger.Debug("reasoner not configured, using fallback", "decision", d.spec.Name)
	}
	return Outcome[Out]{
		Value:  d.spec.Fallback(in, cause),
		Source: SourceFallback,
		Cause:  cause,
	}
}
