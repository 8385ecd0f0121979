package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/ai-weather-summariser/internal/common"
	"github.com/i474232898/ai-weather-summariser/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder on top of the Google Geocoding
// API. The underlying library keeps the key in a package variable, so only
// one key can be active per process.
type GoogleGeocoder struct {
	lookup func(geocoder.Address) (geocoder.Location, error)
}

var _ weather.Geocoder = (*GoogleGeocoder)(nil)

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{lookup: geocoder.Geocoding}
}

// Resolve treats place as a free-text city query. The display name is the
// query itself.
func (g *GoogleGeocoder) Resolve(ctx context.Context, place string) (weather.Location, error) {
	if err := ctx.Err(); err != nil {
		return weather.Location{}, err
	}

	loc, err := g.lookup(geocoder.Address{City: place})
	if err != nil {
		if common.HasAny(err.Error(), "ZERO_RESULTS", "no results") {
			return weather.Location{}, fmt.Errorf("%w: %q", weather.ErrLocationNotFound, place)
		}
		return weather.Location{}, fmt.Errorf("google geocoder: %w", err)
	}

	return weather.Location{
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		DisplayName: place,
	}, nil
}
