package config

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/ai-weather-summariser/internal/weather/providers"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GROQ_API_KEY", "GroqAPIKey", "GROQ_BASE_URL", "GROQ_MODEL", "POLL_INTERVAL",
		"GEOCODER", "GOOGLE_GEOCODING_API_KEY", "GEOCODER_USER_AGENT",
		"NOMINATIM_URL", "OPEN_METEO_URL", "WEATHER_TIMEZONE",
		"HTTP_TIMEOUT", "LLM_TIMEOUT", "STATUS_ADDR",
		"SUMMARY_MAX_HISTORY", "SUMMARY_MAX_AGE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "key")

	cfg, err := Load([]string{"--place", "Bengaluru, India"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Place != "Bengaluru, India" || cfg.Coordinates != nil {
		t.Fatalf("unexpected target %q %v", cfg.Place, cfg.Coordinates)
	}
	if cfg.PollInterval != 60*time.Second {
		t.Fatalf("expected 60s poll interval, got %s", cfg.PollInterval)
	}
	if cfg.Model != providers.DefaultGroqModel {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}
	if cfg.Geocoder != GeocoderNominatim || cfg.UserAgent != defaultUserAgent {
		t.Fatalf("unexpected geocoder settings %q %q", cfg.Geocoder, cfg.UserAgent)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("unexpected timeouts %s %s", cfg.HTTPTimeout, cfg.LLMTimeout)
	}
	if cfg.SummaryMaxHistory != 100 || cfg.SummaryMaxAge != 24*time.Hour {
		t.Fatalf("unexpected retention %d %s", cfg.SummaryMaxHistory, cfg.SummaryMaxAge)
	}
	if cfg.StatusAddr != "" {
		t.Fatalf("expected status API to be disabled, got %q", cfg.StatusAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "key")
	t.Setenv("GROQ_MODEL", "env-model")
	t.Setenv("POLL_INTERVAL", "30")

	cfg, err := Load([]string{"--coords", "12.9716,77.5946"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != 30*time.Second || cfg.Model != "env-model" {
		t.Fatalf("expected env defaults, got %s %q", cfg.PollInterval, cfg.Model)
	}

	cfg, err = Load([]string{"--coords", "12.9716,77.5946", "--poll", "5", "--model", "flag-model"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != 5*time.Second || cfg.Model != "flag-model" {
		t.Fatalf("expected flags to win, got %s %q", cfg.PollInterval, cfg.Model)
	}
	if cfg.Coordinates == nil || cfg.Coordinates.DisplayName != "12.97160,77.59460" {
		t.Fatalf("unexpected coordinates %+v", cfg.Coordinates)
	}
}

func TestLoadUsageErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "key")

	tests := []struct {
		name string
		args []string
	}{
		{name: "no target", args: nil},
		{name: "both targets", args: []string{"--place", "Paris", "--coords", "1,2"}},
		{name: "bad coords", args: []string{"--coords", "north,south"}},
		{name: "coords out of range", args: []string{"--coords", "91,0"}},
		{name: "coords not a number", args: []string{"--coords", "NaN,NaN"}},
		{name: "unknown flag", args: []string{"--city", "Paris"}},
		{name: "stray argument", args: []string{"--place", "Paris", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, io.Discard)
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("expected ErrUsage, got %v", err)
			}
		})
	}
}

func TestLoadUsageBeforeCredentials(t *testing.T) {
	clearEnv(t)

	_, err := Load(nil, io.Discard)
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected argument error first, got %v", err)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load([]string{"--place", "Paris"}, io.Discard)
	if err == nil || errors.Is(err, ErrUsage) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "GROQ_API_KEY is required") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLoadLegacyAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GroqAPIKey", "legacy")

	cfg, err := Load([]string{"--place", "Paris"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GroqAPIKey != "legacy" {
		t.Fatalf("expected legacy key, got %q", cfg.GroqAPIKey)
	}
}

func TestLoadGoogleGeocoder(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "key")
	t.Setenv("GEOCODER", "Google")

	_, err := Load([]string{"--place", "Paris"}, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "GOOGLE_GEOCODING_API_KEY") {
		t.Fatalf("expected missing Google key error, got %v", err)
	}

	t.Setenv("GOOGLE_GEOCODING_API_KEY", "gkey")
	cfg, err := Load([]string{"--place", "Paris"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geocoder != GeocoderGoogle {
		t.Fatalf("expected google geocoder, got %q", cfg.Geocoder)
	}
}

func TestLoadRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{name: "zero poll", args: []string{"--poll", "0"}, wantErr: "poll interval must be positive"},
		{name: "unknown geocoder", env: map[string]string{"GEOCODER": "mapbox"}, wantErr: "GEOCODER must be nominatim or google"},
		{name: "bad timeout", env: map[string]string{"HTTP_TIMEOUT": "soon"}, wantErr: "invalid HTTP_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GROQ_API_KEY", "key")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(append([]string{"--place", "Paris"}, tt.args...), io.Discard)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	loc, err := ParseCoordinates(" 51.47 , -0.4543 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Latitude != 51.47 || loc.Longitude != -0.4543 {
		t.Fatalf("unexpected coordinates %+v", loc)
	}
	if loc.DisplayName != "51.47000,-0.45430" {
		t.Fatalf("unexpected display name %q", loc.DisplayName)
	}

	for _, bad := range []string{"", "1", "1,2,3", "a,2", "1,b", "-91,0", "0,181", "NaN,0", "0,NaN", "Inf,0"} {
		if _, err := ParseCoordinates(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
