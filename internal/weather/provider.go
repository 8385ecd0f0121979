package weather

import (
	"context"
	"errors"
	"time"
)

// ErrLocationNotFound is returned by a Geocoder when the query has no match.
var ErrLocationNotFound = errors.New("location not found")

// Geocoder turns a free-text place name into a Location.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (Location, error)
}

// Fetcher abstracts the weather data source (Open-Meteo).
type Fetcher interface {
	Fetch(ctx context.Context, loc Location) (Snapshot, error)
}

// Summarizer asks a language model for a summary of the prompt.
type Summarizer interface {
	Summarize(ctx context.Context, prompt, model string) (string, error)
}

// Store is the contract the in-memory summary history must satisfy.
type Store interface {
	SaveSummary(rec SummaryRecord)
	GetLatest() (SummaryRecord, error)
	GetRange(from, to time.Time) ([]SummaryRecord, error)
}
