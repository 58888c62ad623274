package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// WindQuery is a historical wind request. Dates accept either supported
// format.
type WindQuery struct {
	Latitude  float64
	Longitude float64
	StartDate string
	EndDate   string
}

// WindService fetches historical daily wind.
type WindService struct {
	provider domain.WindProvider
	logger   *slog.Logger
}

// NewWindService creates a WindService.
func NewWindService(provider domain.WindProvider, logger *slog.Logger) *WindService {
	return &WindService{provider: provider, logger: logger}
}

// DailyWind validates the query and returns the provider's series.
func (s *WindService) DailyWind(ctx context.Context, q WindQuery) (domain.WindSeries, error) {
	if q.Latitude < -90 || q.Latitude > 90 || q.Longitude < -180 || q.Longitude > 180 {
		return domain.WindSeries{}, fmt.Errorf("%w: latitude or longitude out of range", domain.ErrValidation)
	}
	start, err := domain.NormalizeDate(q.StartDate)
	if err != nil {
		return domain.WindSeries{}, err
	}
	end, err := domain.NormalizeDate(q.EndDate)
	if err != nil {
		return domain.WindSeries{}, err
	}
	if end < start {
		return domain.WindSeries{}, fmt.Errorf("%w: endDate is before startDate", domain.ErrValidation)
	}

	series, err := s.provider.DailyWind(ctx, q.Latitude, q.Longitude, start, end)
	if err != nil {
		s.logger.Warn("wind provider failed", "lat", q.Latitude, "lon", q.Longitude, "error", err)
		return domain.WindSeries{}, err
	}
	return series, nil
}
