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

const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder implements weather.Geocoder using OpenStreetMap Nominatim.
// Nominatim rejects requests without a descriptive User-Agent.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

var _ weather.Geocoder = (*NominatimGeocoder)(nil)

func NewNominatimGeocoder(client *http.Client, baseURL, userAgent string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
		circuit:   newCircuitBreaker("nominatim", DefaultBreakerConfig),
	}
}

// Resolve looks up the single best match for place.
func (g *NominatimGeocoder) Resolve(ctx context.Context, place string) (weather.Location, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("q", place)
		values.Set("format", "json")
		values.Set("limit", "1")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+values.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", g.userAgent)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, g.client, g.circuit, buildRequest)
	if err != nil {
		return weather.Location{}, fmt.Errorf("nominatim: %w", err)
	}
	defer resp.Body.Close()

	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return weather.Location{}, fmt.Errorf("nominatim: decode response: %w", err)
	}
	if len(results) == 0 {
		return weather.Location{}, fmt.Errorf("%w: %q", weather.ErrLocationNotFound, place)
	}

	item := results[0]
	lat, err := strconv.ParseFloat(item.Lat, 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("nominatim: invalid latitude %q: %w", item.Lat, err)
	}
	lon, err := strconv.ParseFloat(item.Lon, 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("nominatim: invalid longitude %q: %w", item.Lon, err)
	}

	name := item.DisplayName
	if name == "" {
		name = place
	}
	return weather.Location{Latitude: lat, Longitude: lon, DisplayName: name}, nil
}
