package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/ai-weather-summariser/internal/weather"
	"github.com/i474232898/ai-weather-summariser/internal/weather/providers"
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("usage error")

const (
	GeocoderNominatim = "nominatim"
	GeocoderGoogle    = "google"

	defaultUserAgent    = "AIWeatherSummary/1.0 (example@example.com)"
	defaultPollInterval = 60
)

var validate = validator.New()

type AppConfig struct {
	// Target: exactly one of Place or Coordinates is set.
	Place       string
	Coordinates *weather.Location

	GroqAPIKey  string `validate:"required"`
	GroqBaseURL string `validate:"required,url"`
	Model       string `validate:"required"`

	// PollInterval is fixed for the process lifetime.
	PollInterval time.Duration `validate:"gt=0"`

	Geocoder        string `validate:"oneof=nominatim google"`
	GoogleAPIKey    string `validate:"required_if=Geocoder google"`
	UserAgent       string `validate:"required"`
	NominatimURL    string `validate:"required,url"`
	OpenMeteoURL    string `validate:"required,url"`
	WeatherTimezone string `validate:"required"`

	// HTTPTimeout applies to geocoding and weather calls, LLMTimeout to
	// chat completions.
	HTTPTimeout time.Duration `validate:"gt=0"`
	LLMTimeout  time.Duration `validate:"gt=0"`

	// StatusAddr enables the status API when non-empty.
	StatusAddr string

	// In-memory summary retention.
	SummaryMaxHistory int           `validate:"gte=0"` // 0 = unlimited
	SummaryMaxAge     time.Duration `validate:"gte=0"` // 0 = unlimited
}

// targetArgs enforces that exactly one of --place and --coords is given.
type targetArgs struct {
	Place  string `validate:"required_without=Coords,excluded_with=Coords"`
	Coords string `validate:"required_without=Place"`
}

// Load parses command-line arguments and reads the environment. Argument
// problems are reported before anything else and wrap ErrUsage. The usage
// text goes to usage.
func Load(args []string, usage io.Writer) (*AppConfig, error) {
	fs := flag.NewFlagSet("ai-weather-summariser", flag.ContinueOnError)
	fs.SetOutput(usage)

	place := fs.String("place", "", "place name to monitor (e.g. 'Bengaluru, India')")
	coords := fs.String("coords", "", "coordinates as lat,lon (e.g. '12.9716,77.5946')")
	poll := fs.Int("poll", getenvInt("POLL_INTERVAL", defaultPollInterval), "polling interval in seconds")
	model := fs.String("model", getenvDefault("GROQ_MODEL", providers.DefaultGroqModel), "Groq model name")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}

	target := targetArgs{Place: strings.TrimSpace(*place), Coords: strings.TrimSpace(*coords)}
	if err := validate.Struct(target); err != nil {
		return nil, fmt.Errorf("%w: exactly one of --place or --coords is required", ErrUsage)
	}

	cfg := &AppConfig{Place: target.Place}
	if target.Coords != "" {
		loc, err := ParseCoordinates(target.Coords)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		cfg.Coordinates = &loc
	}

	cfg.GroqAPIKey = getenvDefault("GROQ_API_KEY", os.Getenv("GroqAPIKey"))
	cfg.GroqBaseURL = getenvDefault("GROQ_BASE_URL", providers.DefaultGroqBaseURL)
	cfg.Model = *model
	cfg.PollInterval = time.Duration(*poll) * time.Second

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", GeocoderNominatim))
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_GEOCODING_API_KEY")
	cfg.UserAgent = getenvDefault("GEOCODER_USER_AGENT", defaultUserAgent)
	cfg.NominatimURL = getenvDefault("NOMINATIM_URL", providers.DefaultNominatimURL)
	cfg.OpenMeteoURL = getenvDefault("OPEN_METEO_URL", providers.DefaultOpenMeteoURL)
	cfg.WeatherTimezone = getenvDefault("WEATHER_TIMEZONE", "auto")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getenvDuration("LLM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.StatusAddr = os.Getenv("STATUS_ADDR")
	cfg.SummaryMaxHistory = getenvInt("SUMMARY_MAX_HISTORY", 100)
	if cfg.SummaryMaxAge, err = getenvDuration("SUMMARY_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, describe(err)
	}
	return cfg, nil
}

// ParseCoordinates parses "lat,lon". The display name is the coordinates
// rounded to five decimals.
func ParseCoordinates(s string) (weather.Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return weather.Location{}, fmt.Errorf("coordinates must be lat,lon: %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	// NaN fails every comparison, so test for inclusion.
	if !(lat >= -90 && lat <= 90) || !(lon >= -180 && lon <= 180) {
		return weather.Location{}, fmt.Errorf("coordinates out of range: %q", s)
	}
	return weather.Location{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: fmt.Sprintf("%.5f,%.5f", lat, lon),
	}, nil
}

// describe turns validator errors into messages naming the settings.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "GroqAPIKey":
			msgs = append(msgs, "GROQ_API_KEY is required")
		case "GoogleAPIKey":
			msgs = append(msgs, "GOOGLE_GEOCODING_API_KEY is required when GEOCODER=google")
		case "Geocoder":
			msgs = append(msgs, "GEOCODER must be nominatim or google")
		case "PollInterval":
			msgs = append(msgs, "poll interval must be positive")
		default:
			msgs = append(msgs, fmt.Sprintf("invalid %s (%s)", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
