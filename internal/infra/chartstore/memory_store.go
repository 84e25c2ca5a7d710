package chartstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
)

const defaultMaxCharts = 256

type chartRecord struct {
	chart     *gdpchart.Chart
	savedAt   time.Time
	expiresAt time.Time
}

// MemoryStore keeps rendered charts in process memory. Entries expire after the TTL and the
// oldest entry is evicted once the capacity is reached.
type MemoryStore struct {
	mu      sync.RWMutex
	charts  map[string]chartRecord
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// NewMemoryStore constructs a store bounded by ttl (zero disables expiry) and maxCharts.
func NewMemoryStore(ttl time.Duration, maxCharts int) *MemoryStore {
	if maxCharts <= 0 {
		maxCharts = defaultMaxCharts
	}
	return &MemoryStore{
		charts:  make(map[string]chartRecord),
		ttl:     ttl,
		maxSize: maxCharts,
		now:     time.Now,
	}
}

// Save implements gdpchart.Store.
func (s *MemoryStore) Save(_ context.Context, chart *gdpchart.Chart) error {
	if chart == nil || chart.ID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	if _, exists := s.charts[chart.ID]; !exists && len(s.charts) >= s.maxSize {
		s.evictOldestLocked()
	}
	exp := time.Time{}
	if s.ttl > 0 {
		exp = now.Add(s.ttl)
	}
	s.charts[chart.ID] = chartRecord{chart: chart, savedAt: now, expiresAt: exp}
	return nil
}

// Get implements gdpchart.Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*gdpchart.Chart, bool, error) {
	s.mu.RLock()
	record, ok := s.charts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if hasExpired(record.expiresAt, s.now()) {
		s.mu.Lock()
		delete(s.charts, id)
		s.mu.Unlock()
		return nil, false, nil
	}
	return record.chart, true, nil
}

// Delete implements gdpchart.Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.charts, id)
	s.mu.Unlock()
	return nil
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.now())
	return len(s.charts)
}

func (s *MemoryStore) pruneLocked(now time.Time) {
	for id, record := range s.charts {
		if hasExpired(record.expiresAt, now) {
			delete(s.charts, id)
		}
	}
}

func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldestAt time.Time
	)
	for id, record := range s.charts {
		if oldestID == "" || record.savedAt.Before(oldestAt) {
			oldestID, oldestAt = id, record.savedAt
		}
	}
	if oldestID != "" {
		delete(s.charts, oldestID)
	}
}

func hasExpired(ts, now time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(now)
}

var _ gdpchart.Store = (*MemoryStore)(nil)
