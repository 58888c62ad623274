// Package pipeline wires the domain algorithms to their external
// collaborators: forecast provider and report cache for the weather flow,
// moderation and post store for the community flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/weather-comfort-service/internal/advisor"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

// maxBuildTime bounds a shared report build detached from its callers.
const maxBuildTime = time.Minute

// Report sources.
const (
	SourceLive  = "live"
	SourceCache = "cache"
)

// Advisor produces the augmented assessment and plan verdict for a day.
type Advisor interface {
	Advise(ctx context.Context, req advisor.Request) advisor.Advice
}

// WeatherQuery is a day forecast request.
type WeatherQuery struct {
	Location string
	Date     string
	Plan     string
}

// WeatherReport is a scored day plus its advice.
type WeatherReport struct {
	domain.DayReport
	Source string
	Advice advisor.Advice
}

// WeatherService builds day reports from the forecast provider.
type WeatherService struct {
	provider domain.ForecastProvider
	cache    domain.ReportCache
	advisor  Advisor
	group    singleflight.Group
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewWeatherService creates a WeatherService. A nil cache disables caching.
func NewWeatherService(provider domain.ForecastProvider, cache domain.ReportCache, adv Advisor, logger *slog.Logger, metrics *observability.Metrics) *WeatherService {
	return &WeatherService{
		provider: provider,
		cache:    cache,
		advisor:  adv,
		logger:   logger,
		metrics:  metrics,
	}
}

// Report returns the scored day for a location and date. Errors wrap
// ErrValidation, ErrNoDataForDate, or are provider failures.
func (s *WeatherService) Report(ctx context.Context, q WeatherQuery) (WeatherReport, error) {
	location := strings.TrimSpace(q.Location)
	if location == "" || strings.TrimSpace(q.Date) == "" {
		s.metrics.ForecastRequests.WithLabelValues("invalid").Inc()
		return WeatherReport{}, fmt.Errorf("%w: location and date required", domain.ErrValidation)
	}
	date, err := domain.NormalizeDate(q.Date)
	if err != nil {
		s.metrics.ForecastRequests.WithLabelValues("invalid").Inc()
		return WeatherReport{}, err
	}

	report, source, err := s.dayReport(ctx, location, date)
	if err != nil {
		s.metrics.ForecastRequests.WithLabelValues(failureOutcome(err)).Inc()
		return WeatherReport{}, err
	}
	s.metrics.ForecastRequests.WithLabelValues("success").Inc()

	advice := s.advisor.Advise(ctx, advisor.Request{
		Location: report.Location,
		Summary:  report.Summary,
		Comfort:  report.Comfort,
		Plan:     q.Plan,
	})
	return WeatherReport{DayReport: report, Source: source, Advice: advice}, nil
}

// CacheKey is the report cache key for a location and normalized date.
func CacheKey(location, date string) string {
	return strings.ToLower(strings.TrimSpace(location)) + "|" + date
}

func (s *WeatherService) dayReport(ctx context.Context, location, date string) (domain.DayReport, string, error) {
	key := CacheKey(location, date)
	if report, ok := s.cached(ctx, key); ok {
		return report, SourceCache, nil
	}

	// The shared build outlives any single caller so that one disconnecting
	// client does not fail the others waiting on the same key.
	results := s.group.DoChan(key, func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), maxBuildTime)
		defer cancel()

		report, err := s.build(buildCtx, location, date)
		if err != nil {
			return domain.DayReport{}, err
		}
		if s.cache != nil {
			if err := s.cache.Put(buildCtx, key, report); err != nil {
				s.logger.Warn("report cache put failed", "key", key, "error", err)
			}
		}
		return report, nil
	})

	select {
	case <-ctx.Done():
		return domain.DayReport{}, "", ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return domain.DayReport{}, "", res.Err
		}
		return res.Val.(domain.DayReport), SourceLive, nil
	}
}

func (s *WeatherService) cached(ctx context.Context, key string) (domain.DayReport, bool) {
	if s.cache == nil {
		return domain.DayReport{}, false
	}
	report, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("report cache get failed", "key", key, "error", err)
		ok = false
	}
	if ok {
		s.metrics.ReportCache.WithLabelValues("hit").Inc()
	} else {
		s.metrics.ReportCache.WithLabelValues("miss").Inc()
	}
	return report, ok
}

func (s *WeatherService) build(ctx context.Context, location, date string) (domain.DayReport, error) {
	forecast, err := s.provider.Forecast(ctx, location)
	if err != nil {
		s.logger.Error("forecast provider failed", "location", location, "error", err)
		return domain.DayReport{}, err
	}

	summary, err := domain.AggregateDay(forecast.Samples, date)
	if err != nil {
		return domain.DayReport{}, err
	}

	resolved := forecast.Location
	if resolved == "" {
		resolved = location
	}
	return domain.DayReport{
		Location: resolved,
		Summary:  summary,
		Comfort:  domain.ComputeComfort(summary.ComfortInput()),
		Samples:  domain.SamplesOn(forecast.Samples, date),
	}, nil
}

func failureOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoDataForDate):
		return "no_data"
	case domain.IsProviderFailure(err):
		return "provider_error"
	default:
		return "error"
	}
}
