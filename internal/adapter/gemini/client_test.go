package gemini

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-comfort-service/internal/decision"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

const (
	testKey   = "test-key"
	testModel = "gemini-2.5-flash"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      testModel,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     testLogger(),
	}
}

func textResponse(text string) generateResponse {
	return generateResponse{Candidates: []candidate{{Content: content{Parts: []part{{Text: text}}}}}}
}

func TestClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/"+testModel+":generateContent", r.URL.Path)
		assert.Equal(t, testKey, r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		assert.Equal(t, "Is it sunny?", body.Contents[0].Parts[0].Text)
		assert.Equal(t, 0.1, body.GenerationConfig.Temperature)
		assert.Equal(t, 200, body.GenerationConfig.MaxOutputTokens)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(textResponse(`{"isAllowed": true}`)) //nolint:errcheck // test server
	}))
	defer srv.Close()

	text, err := testClient(testKey, srv.URL).Generate(context.Background(), domain.ReasonerRequest{
		Prompt: "Is it sunny?", Temperature: 0.1, MaxOutputTokens: 200,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"isAllowed": true}`, text)
}

func TestClient_Generate_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(testKey, srv.URL).Generate(context.Background(), domain.ReasonerRequest{Prompt: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestClient_Generate_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates": []}`)) //nolint:errcheck // test server
	}))
	defer srv.Close()

	_, err := testClient(testKey, srv.URL).Generate(context.Background(), domain.ReasonerRequest{Prompt: "x"})
	assert.ErrorIs(t, err, errEmptyResponse)
}

func TestClient_Generate_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`)) //nolint:errcheck // test server
	}))
	defer srv.Close()

	_, err := testClient(testKey, srv.URL).Generate(context.Background(), domain.ReasonerRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Generate_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := testClient(testKey, srv.URL).Generate(ctx, domain.ReasonerRequest{Prompt: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Unconfigured(t *testing.T) {
	c := NewClient("", testModel, time.Second, testLogger())
	assert.False(t, c.Configured())

	_, err := c.Generate(context.Background(), domain.ReasonerRequest{Prompt: "x"})
	assert.ErrorIs(t, err, errNotConfigured)
}

func TestClient_UnconfiguredDecisionMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(textResponse("remote")) //nolint:errcheck // test server
	}))
	defer srv.Close()

	spec := decision.Spec[string, string]{
		Name:     "probe",
		Timeout:  time.Second,
		Prompt:   func(in string) string { return in },
		Parse:    func(raw string) decision.Result[string] { return decision.Parsed(raw) },
		Fallback: func(string, domain.DegradeCause) string { return "local" },
	}
	d := decision.New(testClient("", srv.URL), spec, testLogger(), observability.NewMetricsForTesting())

	out := d.Decide(context.Background(), "hello")

	assert.Equal(t, "local", out.Value)
	assert.Equal(t, domain.CauseNoCredential, out.Cause)
	assert.Equal(t, int32(0), hits.Load())
}
