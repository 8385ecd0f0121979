package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/i474232898/ai-weather-summariser/internal/weather"
)

const (
	DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

	// hourlyFields are the hourly series requested alongside current_weather.
	hourlyFields = "temperature_2m,relativehumidity_2m,precipitation,weathercode,windspeed_10m"
)

// OpenMeteoProvider implements weather.Fetcher for Open-Meteo.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	timezone string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
}

var _ weather.Fetcher = (*OpenMeteoProvider)(nil)

// NewOpenMeteoProvider builds a fetcher. An empty baseURL selects the public
// endpoint and an empty timezone selects "auto".
func NewOpenMeteoProvider(client *http.Client, baseURL, timezone string, breaker BreakerConfig) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	if timezone == "" {
		timezone = "auto"
	}
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  baseURL,
		timezone: timezone,
		client:   client,
		circuit:  newCircuitBreaker("openmeteo", breaker),
	}
}

// Name prefixes every error returned by Fetch.
func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Fetch returns current conditions and today's hourly series for loc.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
		values.Set("current_weather", "true")
		values.Set("hourly", hourlyFields)
		values.Set("timezone", p.timezone)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("%s: %w", p.Name(), err)
	}
	defer resp.Body.Close()

	var snapshot weather.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return weather.Snapshot{}, fmt.Errorf("%s: decode response: %w", p.Name(), err)
	}
	return snapshot, nil
}
