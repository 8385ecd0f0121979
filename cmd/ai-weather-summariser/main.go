package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpapi "github.com/i474232898/ai-weather-summariser/internal/api/http"
	"github.com/i474232898/ai-weather-summariser/internal/config"
	"github.com/i474232898/ai-weather-summariser/internal/monitor"
	"github.com/i474232898/ai-weather-summariser/internal/scheduler"
	"github.com/i474232898/ai-weather-summariser/internal/store"
	"github.com/i474232898/ai-weather-summariser/internal/weather"
	"github.com/i474232898/ai-weather-summariser/internal/weather/providers"
)

const stoppedMessage = "Stopped by user."

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Fatalf("failed to load config: %v", err)
	}

	// Geocoding and weather calls share a client with a short timeout; the
	// model call gets its own, longer one.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	llmClient := &http.Client{Timeout: cfg.LLMTimeout}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, stopped, err := resolveOrStop(ctx, cfg, httpClient)
	if stopped {
		fmt.Println(stoppedMessage)
		return
	}
	if err != nil {
		if errors.Is(err, weather.ErrLocationNotFound) {
			log.Fatalf("could not geocode location: %s", cfg.Place)
		}
		log.Fatalf("failed to resolve location: %v", err)
	}
	fmt.Printf("Monitoring weather for: %s (lat=%v, lon=%v)\n", loc.DisplayName, loc.Latitude, loc.Longitude)

	history := store.NewMemoryStore(cfg.SummaryMaxHistory, cfg.SummaryMaxAge)
	fetcher := providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoURL, cfg.WeatherTimezone, providers.DefaultBreakerConfig)
	summarizer := providers.NewGroqSummarizer(llmClient, cfg.GroqBaseURL, cfg.GroqAPIKey, providers.DefaultBreakerConfig)

	mon := monitor.New(loc, cfg.Model, fetcher, summarizer, history, os.Stdout)

	if cfg.StatusAddr != "" {
		app := httpapi.NewApp(mon)
		go func() {
			if err := app.Listen(cfg.StatusAddr); err != nil {
				log.Printf("status server stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				log.Printf("error during status server shutdown: %v", err)
			}
		}()
	}

	sched := scheduler.New(cfg.PollInterval, func(ctx context.Context) {
		mon.Tick(ctx)
	})
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	<-ctx.Done()
	sched.Stop()
	fmt.Println(stoppedMessage)
}

// resolveOrStop resolves the monitored location. stopped is true when a
// shutdown signal arrived while resolving.
func resolveOrStop(ctx context.Context, cfg *config.AppConfig, client *http.Client) (loc weather.Location, stopped bool, err error) {
	loc, err = resolveLocation(ctx, cfg, client)
	if err != nil && ctx.Err() != nil {
		return weather.Location{}, true, nil
	}
	return loc, false, err
}

func resolveLocation(ctx context.Context, cfg *config.AppConfig, client *http.Client) (weather.Location, error) {
	if cfg.Coordinates != nil {
		return *cfg.Coordinates, nil
	}

	var geo weather.Geocoder
	switch cfg.Geocoder {
	case config.GeocoderGoogle:
		geo = providers.NewGoogleGeocoder(cfg.GoogleAPIKey)
	default:
		geo = providers.NewNominatimGeocoder(client, cfg.NominatimURL, cfg.UserAgent)
	}
	return geo.Resolve(ctx, cfg.Place)
}
