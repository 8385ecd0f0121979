package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/ai-weather-summariser/internal/weather"
)

func record(id string, ts time.Time) weather.SummaryRecord {
	return weather.SummaryRecord{ID: id, Summary: "summary " + id, Timestamp: ts}
}

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)

	if _, err := s.GetLatest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetRange(time.Time{}, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreLatestAndRange(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, 0)
	s.SaveSummary(record("a", base))
	s.SaveSummary(record("b", base.Add(time.Minute)))
	s.SaveSummary(record("c", base.Add(2*time.Minute)))

	latest, err := s.GetLatest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.ID != "c" {
		t.Fatalf("expected latest c, got %s", latest.ID)
	}

	got, err := s.GetRange(base.Add(time.Minute), base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" {
		t.Fatalf("unexpected range result %+v", got)
	}

	if _, err := s.GetRange(base.Add(time.Hour), base.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty range, got %v", err)
	}
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore(2, 0)
	for i, id := range []string{"a", "b", "c"} {
		s.SaveSummary(record(id, base.Add(time.Duration(i)*time.Minute)))
	}

	got, err := s.GetRange(base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("expected oldest record to be evicted, got %+v", got)
	}
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.SaveSummary(record("old", now.Add(-3*time.Hour)))
	s.SaveSummary(record("recent", now.Add(-10*time.Minute)))

	got, err := s.GetRange(time.Time{}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "recent" {
		t.Fatalf("expected only the recent record, got %+v", got)
	}
}

func TestMemoryStoreKeepsNewestEvenWhenStale(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Minute)
	s.now = func() time.Time { return now }

	s.SaveSummary(record("a", now.Add(-2*time.Hour)))
	s.SaveSummary(record("b", now.Add(-time.Hour)))

	latest, err := s.GetLatest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.ID != "b" {
		t.Fatalf("expected newest record b, got %s", latest.ID)
	}
}
