package decision

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

// --- fakes ---

type countingReasoner struct {
	configured bool
	reply      string
	err        error
	block      bool
	calls      atomic.Int32
	last       domain.ReasonerRequest
}

func (r *countingReasoner) Configured() bool { return r.configured }

func (r *countingReasoner) Generate(ctx context.Context, req domain.ReasonerRequest) (string, error) {
	r.calls.Add(1)
	r.last = req
	if r.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return r.reply, r.err
}

// stubbornReasoner ignores cancellation entirely.
type stubbornReasoner struct{ delay time.Duration }

func (stubbornReasoner) Configured() bool { return true }

func (s stubbornReasoner) Generate(context.Context, domain.ReasonerRequest) (string, error) {
	time.Sleep(s.delay)
	return `{"answer":"late"}`, nil
}

type answer struct {
	Text string
	Via  domain.DegradeCause
}

func answerSpec(timeout time.Duration) Spec[string, answer] {
	return Spec[string, answer]{
		Name:            "test",
		Timeout:         timeout,
		Temperature:     0.3,
		MaxOutputTokens: 42,
		Prompt:          func(in string) string { return "question: " + in },
		Parse: func(raw string) Result[answer] {
			var body struct {
				Answer *string `json:"answer"`
			}
			if err := DecodeObject(raw, &body); err != nil {
				return Malformed[answer](err.Error())
			}
			if body.Answer == nil {
				return Malformed[answer]("missing answer")
			}
			return Parsed(answer{Text: *body.Answer})
		},
		Fallback: func(in string, cause domain.DegradeCause) answer {
			return answer{Text: "local " + in, Via: cause}
		},
	}
}

func newTestDecider(r domain.Reasoner, timeout time.Duration) (*Decider[string, answer], *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(r, answerSpec(timeout), logger, m), m
}

// --- tests ---

func TestDecide_NoCredentialNeverCalls(t *testing.T) {
	r := &countingReasoner{configured: false, reply: `{"answer":"remote"}`}
	d, m := newTestDecider(r, time.Second)

	out := d.Decide(context.Background(), "rain?")

	assert.Equal(t, int32(0), r.calls.Load())
	assert.Equal(t, SourceFallback, out.Source)
	assert.Equal(t, domain.CauseNoCredential, out.Cause)
	assert.Equal(t, answer{Text: "local rain?", Via: domain.CauseNoCredential}, out.Value)
	assert.True(t, out.Degraded())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReasonerDecisions.WithLabelValues("test", "fallback", "no_credential")))
}

func TestDecide_NilReasoner(t *testing.T) {
	d, _ := newTestDecider(nil, time.Second)

	out := d.Decide(context.Background(), "wind?")

	assert.Equal(t, domain.CauseNoCredential, out.Cause)
	assert.Equal(t, "local wind?", out.Value.Text)
}

func TestDecide_ParsedAnswer(t *testing.T) {
	r := &countingReasoner{configured: true, reply: "Sure! ```json\n{\"answer\": \"take an umbrella\"}\n```"}
	d, m := newTestDecider(r, time.Second)

	out := d.Decide(context.Background(), "rain?")

	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, SourceReasoner, out.Source)
	assert.Equal(t, domain.CauseNone, out.Cause)
	assert.Equal(t, "take an umbrella", out.Value.Text)
	assert.False(t, out.Degraded())
	assert.Equal(t, domain.ReasonerRequest{Prompt: "question: rain?", Temperature: 0.3, MaxOutputTokens: 42}, r.last)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReasonerDecisions.WithLabelValues("test", "reasoner", "none")))
}

func TestDecide_NotJSONFallsBack(t *testing.T) {
	r := &countingReasoner{configured: true, reply: "not json at all"}
	d, _ := newTestDecider(r, time.Second)

	out := d.Decide(context.Background(), "rain?")

	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, SourceFallback, out.Source)
	assert.Equal(t, domain.CauseMalformed, out.Cause)
	assert.Equal(t, "local rain?", out.Value.Text)
}

func TestDecide_MissingOrWrongTypedFieldFallsBack(t *testing.T) {
	for _, reply := range []string{`{"other": "x"}`, `{"answer": 12}`, `{"answer": "unterminated`} {
		t.Run(reply, func(t *testing.T) {
			r := &countingReasoner{configured: true, reply: reply}
			d, _ := newTestDecider(r, time.Second)

			out := d.Decide(context.Background(), "q")

			assert.Equal(t, domain.CauseMalformed, out.Cause)
		})
	}
}

func TestDecide_CallErrorFallsBack(t *testing.T) {
	r := &countingReasoner{configured: true, err: errors.New("status 503")}
	d, m := newTestDecider(r, time.Second)

	out := d.Decide(context.Background(), "q")

	assert.Equal(t, int32(1), r.calls.Load(), "no retries")
	assert.Equal(t, domain.CauseCallFailed, out.Cause)
	assert.Equal(t, "local q", out.Value.Text)
	assert.Equal(t, 1, testutil.CollectAndCount(m.ReasonerCallDuration))
}

func TestDecide_TimeoutCancelsCall(t *testing.T) {
	r := &countingReasoner{configured: true, block: true}
	d, _ := newTestDecider(r, 20*time.Millisecond)

	start := time.Now()
	out := d.Decide(context.Background(), "q")

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, domain.CauseTimeout, out.Cause)
	assert.Equal(t, "local q", out.Value.Text)
}

func TestDecide_TimeoutWhenReasonerIgnoresContext(t *testing.T) {
	d, _ := newTestDecider(stubbornReasoner{delay: 300 * time.Millisecond}, 20*time.Millisecond)

	start := time.Now()
	out := d.Decide(context.Background(), "q")

	assert.Less(t, time.Since(start), 250*time.Millisecond)
	assert.Equal(t, domain.CauseTimeout, out.Cause)
}

func TestDecide_ParentCancelled(t *testing.T) {
	r := &countingReasoner{configured: true, block: true}
	d, _ := newTestDecider(r, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := d.Decide(ctx, "q")

	assert.Equal(t, domain.CauseCallFailed, out.Cause)
}

func TestNew_DefaultTimeout(t *testing.T) {
	d, _ := newTestDecider(nil, 0)
	require.Equal(t, DefaultTimeout, d.spec.Timeout)
}
