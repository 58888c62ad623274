package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/pipeline"
)

type recordingWindProvider struct {
	start, end string
	calls      int
	series     domain.WindSeries
	err        error
}

func (p *recordingWindProvider) DailyWind(_ context.Context, _, _ float64, start, end string) (domain.WindSeries, error) {
	p.calls++
	p.start, p.end = start, end
	return p.series, p.err
}

func TestWindService_NormalizesDates(t *testing.T) {
	provider := &recordingWindProvider{series: domain.NewWindSeries([]domain.DailyWind{{Date: "2024-06-01", WindSpeed: 3}}, "")}
	svc := pipeline.NewWindService(provider, discardLogger())

	series, err := svc.DailyWind(context.Background(), pipeline.WindQuery{
		Latitude: 38.7, Longitude: -9.1, StartDate: "01-06-2024", EndDate: "2024-06-03",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01", provider.start)
	assert.Equal(t, "2024-06-03", provider.end)
	assert.Equal(t, 3.0, series.Average)
}

func TestWindService_Validation(t *testing.T) {
	tests := []struct {
		name string
		q    pipeline.WindQuery
	}{
		{"latitude out of range", pipeline.WindQuery{Latitude: 91, StartDate: "2024-06-01", EndDate: "2024-06-02"}},
		{"longitude out of range", pipeline.WindQuery{Longitude: -181, StartDate: "2024-06-01", EndDate: "2024-06-02"}},
		{"bad start", pipeline.WindQuery{StartDate: "June 1", EndDate: "2024-06-02"}},
		{"end before start", pipeline.WindQuery{StartDate: "2024-06-05", EndDate: "2024-06-02"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &recordingWindProvider{}
			svc := pipeline.NewWindService(provider, discardLogger())

			_, err := svc.DailyWind(context.Background(), tt.q)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, provider.calls)
		})
	}
}

func TestWindService_ProviderError(t *testing.T) {
	provider := &recordingWindProvider{err: domain.ErrNoWindData}
	svc := pipeline.NewWindService(provider, discardLogger())

	_, err := svc.DailyWind(context.Background(), pipeline.WindQuery{StartDate: "2024-06-01", EndDate: "2024-06-01"})
	assert.ErrorIs(t, err, domain.ErrNoWindData)
}
