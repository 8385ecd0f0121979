package monitor

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/ai-weather-summariser/internal/store"
	"github.com/i474232898/ai-weather-summariser/internal/summary"
	"github.com/i474232898/ai-weather-summariser/internal/weather"
)

// Outcome describes what a single tick did.
type Outcome int

const (
	OutcomeCancelled Outcome = iota
	OutcomeFetchFailed
	OutcomeUnchanged
	OutcomeSummarized
	OutcomePlaceholder
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFetchFailed:
		return "fetch-failed"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSummarized:
		return "summarized"
	case OutcomePlaceholder:
		return "placeholder"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Monitor polls one location and prints a summary whenever the weather
// fingerprint changes. Tick must not be called concurrently.
type Monitor struct {
	location   weather.Location
	model      string
	fetcher    weather.Fetcher
	summarizer weather.Summarizer
	store      weather.Store
	out        io.Writer
	now        func() time.Time

	lastKey string
	seen    bool
}

// New creates a Monitor. history may be nil.
func New(loc weather.Location, model string, fetcher weather.Fetcher, summarizer weather.Summarizer, history weather.Store, out io.Writer) *Monitor {
	return &Monitor{
		location:   loc,
		model:      model,
		fetcher:    fetcher,
		summarizer: summarizer,
		store:      history,
		out:        out,
		now:        time.Now,
	}
}

// Location returns the monitored location.
func (m *Monitor) Location() weather.Location {
	return m.location
}

// LastKey returns the last acknowledged fingerprint; ok is false before the
// first change.
func (m *Monitor) LastKey() (key string, ok bool) {
	return m.lastKey, m.seen
}

// Tick runs one fetch-compare-summarize cycle.
func (m *Monitor) Tick(ctx context.Context) Outcome {
	if ctx.Err() != nil {
		return OutcomeCancelled
	}
	tickID := uuid.NewString()

	snapshot, err := m.fetcher.Fetch(ctx, m.location)
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeCancelled
		}
		fmt.Fprintf(m.out, "Error fetching weather: %v\n", err)
		return OutcomeFetchFailed
	}

	key := weather.Fingerprint(snapshot)
	if m.seen && key == m.lastKey {
		return OutcomeUnchanged
	}

	outcome := OutcomeSummarized
	text, err := m.summarize(ctx, snapshot)
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeCancelled
		}
		log.Printf("ERROR: monitor: %s: tick %s: summary request failed: %v", m.location.Key(), tickID, err)
		text = summary.Placeholder
		outcome = OutcomePlaceholder
	}

	fmt.Fprintln(m.out, text)
	m.lastKey, m.seen = key, true

	if m.store != nil {
		m.store.SaveSummary(weather.SummaryRecord{
			ID:          tickID,
			Location:    m.location,
			Fingerprint: key,
			Summary:     text,
			Placeholder: outcome == OutcomePlaceholder,
			ObservedAt:  snapshot.Current.Time.String(),
			Condition:   weather.ConditionFromCode(snapshot.Current.WeatherCode),
			Timestamp:   m.now().UTC(),
		})
	}
	return outcome
}

func (m *Monitor) summarize(ctx context.Context, snapshot weather.Snapshot) (string, error) {
	prompt, err := summary.BuildPrompt(m.location.DisplayName, snapshot)
	if err != nil {
		return "", err
	}
	return m.summarizer.Summarize(ctx, prompt, m.model)
}

// GetLatest delegates to the underlying store.
func (m *Monitor) GetLatest() (weather.SummaryRecord, error) {
	if m.store == nil {
		return weather.SummaryRecord{}, store.ErrNotFound
	}
	return m.store.GetLatest()
}

// GetRange delegates to the underlying store.
func (m *Monitor) GetRange(from, to time.Time) ([]weather.SummaryRecord, error) {
	if m.store == nil {
		return nil, store.ErrNotFound
	}
	return m.store.GetRange(from, to)
}
