package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
	"github.com/couchcryptid/weather-comfort-service/internal/observability"
)

// Client implements domain.ForecastProvider using the OpenWeather
// 5 day / 3 hour forecast API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an OpenWeather forecast client.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/forecast",
		logger:  logger,
		metrics: metrics,
	}
}

// Forecast returns the metric-unit forecast series for a location.
func (c *Client) Forecast(ctx context.Context, location string) (domain.Forecast, error) {
	if c.apiKey == "" {
		return domain.Forecast{}, fmt.Errorf("%w: OPENWEATHER_API_KEY not configured", domain.ErrProviderUnavailable)
	}

	params := url.Values{
		"q":     {location},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("%w: forecast request: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Forecast{}, &domain.ProviderRejectedError{Status: resp.StatusCode, Body: string(body)}
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return domain.Forecast{}, fmt.Errorf("%w: decode response: %w", domain.ErrProviderUnavailable, err)
	}
	if fr.List == nil {
		return domain.Forecast{}, fmt.Errorf("%w: unexpected response without forecast list", domain.ErrProviderUnavailable)
	}

	samples := make([]domain.WeatherSample, 0, len(fr.List))
	for _, item := range fr.List {
		s := domain.WeatherSample{
			Timestamp:    time.Unix(item.Dt, 0).UTC(),
			TemperatureC: item.Main.Temp,
			HumidityPct:  item.Main.Humidity,
			WindSpeedMS:  item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			s.Condition = item.Weather[0].Description
			s.Icon = item.Weather[0].Icon
		}
		samples = append(samples, s)
	}

	c.logger.Debug("forecast fetched", "location", location, "samples", len(samples))
	return domain.Forecast{Location: fr.City.Name, Samples: samples}, nil
}

// OpenWeather API response types.

type forecastResponse struct {
	List []forecastItem `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

type forecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}
