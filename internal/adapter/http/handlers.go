package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/weather-comfort-service/internal/decision"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/moderation"
	"github.com/couchcryptid/weather-comfort-service/internal/pipeline"
)

const maxBodyBytes = 64 << 10

// WeatherReporter builds scored day reports.
type WeatherReporter interface {
	Report(ctx context.Context, q pipeline.WeatherQuery) (pipeline.WeatherReport, error)
}

// CommunityBoard accepts and lists community posts.
type CommunityBoard interface {
	Submit(ctx context.Context, sub moderation.Submission) (pipeline.SubmitResult, error)
	List(ctx context.Context, page domain.PageParams) (domain.PostPage, error)
}

// WindReporter returns historical daily wind.
type WindReporter interface {
	DailyWind(ctx context.Context, q pipeline.WindQuery) (domain.WindSeries, error)
}

type handlers struct {
	svc    Services
	logger *slog.Logger
}

// --- weather ---

type weatherRequest struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Plan     string `json:"plan,omitempty"`
}

type assessmentResponse struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Cause  string `json:"degradedReason,omitempty"`
}

type planResponse struct {
	domain.PlanVerdict
	Source string `json:"source"`
	Cause  string `json:"degradedReason,omitempty"`
}

type weatherResponse struct {
	Source     string                 `json:"source"`
	Location   string                 `json:"location"`
	Summary    domain.DaySummary      `json:"summary"`
	Comfort    domain.ComfortResult   `json:"comfort"`
	Assessment assessmentResponse     `json:"assessment"`
	Plan       *planResponse          `json:"plan,omitempty"`
	Samples    []domain.WeatherSample `json:"samples"`
}

func (h *handlers) postWeather(w http.ResponseWriter, r *http.Request) {
	var req weatherRequest
	if !h.decode(w, r, &req) {
		return
	}

	report, err := h.svc.Weather.Report(r.Context(), pipeline.WeatherQuery{
		Location: req.Location,
		Date:     req.Date,
		Plan:     req.Plan,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := weatherResponse{
		Source:   report.Source,
		Location: report.Location,
		Summary:  report.Summary,
		Comfort:  report.Comfort,
		Assessment: assessmentResponse{
			Text:   report.Advice.Assessment.Value,
			Source: string(report.Advice.Assessment.Source),
			Cause:  string(report.Advice.Assessment.Cause),
		},
		Samples: report.Samples,
	}
	if p := report.Advice.Plan; p != nil {
		resp.Plan = newPlanResponse(*p)
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func newPlanResponse(o decision.Outcome[domain.PlanVerdict]) *planResponse {
	return &planResponse{
		PlanVerdict: o.Value,
		Source:      string(o.Source),
		Cause:       string(o.Cause),
	}
}

// --- community ---

type postRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Content string `json:"content"`
}

type createdResponse struct {
	Success bool   `json:"success"`
	PostID  string `json:"postId"`
	Message string `json:"message"`
}

type rejectionResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

func (h *handlers) createPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Community.Submit(r.Context(), moderation.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Content: req.Content,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !res.Decision.Accepted {
		sharedobs.WriteJSON(w, http.StatusBadRequest, rejectionResponse{
			Error: res.Decision.Message(),
			Field: string(res.Decision.Field),
		})
		return
	}
	sharedobs.WriteJSON(w, http.StatusCreated, createdResponse{
		Success: true,
		PostID:  res.PostID,
		Message: "Post created successfully",
	})
}

func (h *handlers) listPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.svc.Community.List(r.Context(), domain.NewPageParams(page, limit))
	if err != nil {
		h.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, result)
}

// --- wind ---

type windRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
}

type windResponse struct {
	Success bool `json:"success"`
	domain.WindSeries
}

func (h *handlers) postWind(w http.ResponseWriter, r *http.Request) {
	var req windRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Latitude == nil || req.Longitude == nil || req.StartDate == "" || req.EndDate == "" {
		writeMessage(w, http.StatusBadRequest, "latitude, longitude, startDate, and endDate are required")
		return
	}

	series, err := h.svc.Wind.DailyWind(r.Context(), pipeline.WindQuery{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, windResponse{Success: true, WindSeries: series})
}

// --- helpers ---

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeError maps service errors to status codes.
func (h *handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeMessage(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": "))
	case errors.Is(err, domain.ErrNoDataForDate):
		writeMessage(w, http.StatusNotFound, "date outside 5-day forecast window")
	case errors.Is(err, domain.ErrNoWindData):
		writeMessage(w, http.StatusNotFound, domain.ErrNoWindData.Error())
	case errors.Is(err, domain.ErrProviderTimeout):
		writeMessage(w, http.StatusRequestTimeout, "upstream request timed out")
	case domain.IsProviderFailure(err):
		writeMessage(w, http.StatusBadGateway, "upstream provider failed")
	default:
		h.logger.Error("request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
