package nasapower

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// fillValue marks a missing daily value in POWER responses.
const fillValue = -999

// Client implements domain.WindProvider using the NASA POWER daily point API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a NASA POWER client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://power.larc.nasa.gov/api/temporal/daily/point",
		logger:  logger,
	}
}

// DailyWind returns the WS10M daily wind speed between two YYYY-MM-DD dates.
func (c *Client) DailyWind(ctx context.Context, lat, lon float64, startDate, endDate string) (domain.WindSeries, error) {
	params := url.Values{
		"start":      {compactDate(startDate)},
		"end":        {compactDate(endDate)},
		"latitude":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(lon, 'f', -1, 64)},
		"community":  {"ag"},
		"parameters": {"WS10M"},
		"format":     {"json"},
		"header":     {"true"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.WindSeries{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.WindSeries{}, fmt.Errorf("%w: NASA POWER: %w", domain.ErrProviderTimeout, err)
		}
		return domain.WindSeries{}, fmt.Errorf("%w: NASA POWER request: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.WindSeries{}, &domain.ProviderRejectedError{Status: resp.StatusCode, Body: string(body)}
	}

	var pr pointResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return domain.WindSeries{}, fmt.Errorf("%w: decode NASA POWER response: %w", domain.ErrProviderUnavailable, err)
	}
	if len(pr.Properties.Parameter.WS10M) == 0 {
		return domain.WindSeries{}, domain.ErrNoWindData
	}

	days := make([]domain.DailyWind, 0, len(pr.Properties.Parameter.WS10M))
	for day, speed := range pr.Properties.Parameter.WS10M {
		if speed == fillValue {
			continue
		}
		days = append(days, domain.DailyWind{Date: expandDate(day), WindSpeed: speed})
	}

	c.logger.Debug("nasa power wind fetched", "lat", lat, "lon", lon, "days", len(days))
	return domain.NewWindSeries(days, pr.Parameters.WS10M.Units), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// compactDate converts YYYY-MM-DD to the YYYYMMDD form POWER expects.
func compactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// expandDate converts POWER's YYYYMMDD keys back to YYYY-MM-DD.
func expandDate(day string) string {
	if len(day) != 8 {
		return day
	}
	return day[:4] + "-" + day[4:6] + "-" + day[6:]
}

// NASA POWER API response types.

type pointResponse struct {
	Properties struct {
		Parameter struct {
			WS10M map[string]float64 `json:"WS10M"`
		} `json:"parameter"`
	} `json:"properties"`
	Parameters struct {
		WS10M struct {
			Units string `json:"units"`
		} `json:"WS10M"`
	} `json:"parameters"`
}
