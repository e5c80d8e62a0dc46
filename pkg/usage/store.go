package usage

import (
	"context"
	"sync"
	"time"
)

// Store persists daily usage counters so the ledger's daily window
// survives restarts and can be shared between instances.
// Implementations must be safe for concurrent use.
type Store interface {
	// Add increments the counters of provider for day.
	Add(ctx context.Context, day, provider string, tokens int64, cost float64) error

	// Load returns every provider's counters for day.
	Load(ctx context.Context, day string) (map[string]DailyUsage, error)

	// Cleanup removes days strictly before olderThan and returns how many
	// rows were removed.
	Cleanup(ctx context.Context, olderThan time.Time) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu   sync.Mutex
	days map[string]map[string]DailyUsage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{days: make(map[string]map[string]DailyUsage)}
}

// Add implements Store.
func (m *MemoryStore) Add(_ context.Context, day, provider string, tokens int64, cost float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.days[day]
	if !ok {
		d = make(map[string]DailyUsage)
		m.days[day] = d
	}
	u := d[provider]
	u.Tokens += tokens
	u.Cost += cost
	d[provider] = u
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, day string) (map[string]DailyUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]DailyUsage, len(m.days[day]))
	for k, v := range m.days[day] {
		out[k] = v
	}
	return out, nil
}

// Cleanup implements Store.
func (m *MemoryStore) Cleanup(_ context.Context, olderThan time.Time) (int, error) {
	cutoff := DayKey(olderThan)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for day, d := range m.days {
		if day < cutoff {
			n += len(d)
			delete(m.days, day)
		}
	}
	return n, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
