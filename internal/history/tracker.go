package history

import (
	"sync"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
)

// DefaultCapacity is the number of entries kept per vehicle.
const DefaultCapacity = 5

// Tracker keeps a bounded rolling window of observed prices per vehicle.
type Tracker struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string][]model.PriceHistoryEntry
}

// NewTracker creates a Tracker. A non-positive capacity uses DefaultCapacity.
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		capacity: capacity,
		entries:  make(map[string][]model.PriceHistoryEntry),
	}
}

// Capacity returns the per-vehicle window size.
func (t *Tracker) Capacity() int { return t.capacity }

// RecordObservation appends a price, evicting the oldest entries beyond capacity.
func (t *Tracker) RecordObservation(vehicleID string, price int64, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := append(t.entries[vehicleID], model.PriceHistoryEntry{Price: price, ObservedAt: at})
	if len(h) > t.capacity {
		// Copy so the evicted prefix doesn't pin the old backing array.
		trimmed := make([]model.PriceHistoryEntry, t.capacity)
		copy(trimmed, h[len(h)-t.capacity:])
		h = trimmed
	}
	t.entries[vehicleID] = h
}

// Select starts a fresh window for a newly focused vehicle.
func (t *Tracker) Select(vehicleID string, price int64, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[vehicleID] = []model.PriceHistoryEntry{{Price: price, ObservedAt: at}}
}

// History returns a copy of the vehicle's window, oldest first.
func (t *Tracker) History(vehicleID string) []model.PriceHistoryEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h := t.entries[vehicleID]
	out := make([]model.PriceHistoryEntry, len(h))
	copy(out, h)
	return out
}
