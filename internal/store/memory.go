package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/ai-weather-summariser/internal/weather"
)

var (
	// ErrNotFound is returned when no summary matches the query.
	ErrNotFound = errors.New("no summaries recorded")
)

// MemoryStore is a concurrency-safe in-memory history of emitted summaries.
// Nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	// time-ordered, oldest first
	records []weather.SummaryRecord

	// retention configuration
	maxHistory int           // max number of records kept
	maxAge     time.Duration // optional max age for records

	now func() time.Time
}

var _ weather.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSummary appends a record and enforces retention.
func (s *MemoryStore) SaveSummary(rec weather.SummaryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.records) > s.maxHistory {
		over := len(s.records) - s.maxHistory
		s.records = append([]weather.SummaryRecord(nil), s.records[over:]...)
	}

	// Enforce retention by age. The newest record is always kept.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.records)-1; i++ {
			if !s.records[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.records = append([]weather.SummaryRecord(nil), s.records[i:]...)
		}
	}
}

// GetLatest returns the most recent summary.
func (s *MemoryStore) GetLatest() (weather.SummaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return weather.SummaryRecord{}, ErrNotFound
	}
	return s.records[len(s.records)-1], nil
}

// GetRange returns all summaries between from and to (inclusive).
func (s *MemoryStore) GetRange(from, to time.Time) ([]weather.SummaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.SummaryRecord
	for _, rec := range s.records {
		if !rec.Timestamp.Before(from) && !rec.Timestamp.After(to) {
			result = append(result, rec)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
