package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"

	"github.com/sirupsen/logrus"
)

// Catalog caches the vehicle inventory and serves lookups between refreshes.
type Catalog struct {
	Fetcher Fetcher

	mu        sync.RWMutex
	vehicles  []model.Vehicle
	byID      map[string]int
	refreshed time.Time
	log       *logrus.Entry
}

// NewCatalog creates an empty Catalog. Call Refresh to load it.
func NewCatalog(fetcher Fetcher, log *logrus.Entry) *Catalog {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Catalog{Fetcher: fetcher, byID: map[string]int{}, log: log}
}

// Refresh reloads the inventory. On failure the previous snapshot is kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	vehicles, err := c.Fetcher.FetchVehicles(ctx)
	if err != nil {
		return fmt.Errorf("refresh from %s: %w", c.Fetcher.Name(), err)
	}

	byID := make(map[string]int, len(vehicles))
	kept := make([]model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if _, dup := byID[v.ID]; dup {
			c.log.WithField("vehicle_id", v.ID).Warn("duplicate vehicle id, keeping first")
			continue
		}
		byID[v.ID] = len(kept)
		kept = append(kept, v)
	}

	c.mu.Lock()
	c.vehicles = kept
	c.byID = byID
	c.refreshed = time.Now()
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"source": c.Fetcher.Name(), "vehicles": len(kept)}).Info("inventory refreshed")
	return nil
}

// Get looks a vehicle up by id.
func (c *Catalog) Get(vehicleID string) (model.Vehicle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[vehicleID]
	if !ok {
		return model.Vehicle{}, false
	}
	return c.vehicles[i], true
}

// RefreshedAt returns when the catalog was last loaded successfully.
func (c *Catalog) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshed
}

// List returns the vehicles matching f, sorted as f requests.
func (c *Catalog) List(f Filter) []model.Vehicle {
	c.mu.RLock()
	out := make([]model.Vehicle, 0, len(c.vehicles))
	for _, v := range c.vehicles {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	c.mu.RUnlock()

	f.Sort(out)
	return out
}

// CategoryCount is the number of listings in one category.
type CategoryCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// Stats summarizes the inventory for the admin dashboard.
type Stats struct {
	VehicleCount       int             `json:"vehicleCount"`
	VehiclesByCategory []CategoryCount `json:"vehiclesByCategory"`
}

// Stats counts listings overall and per category, categories sorted by name.
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := map[model.Category]int{}
	for _, v := range c.vehicles {
		counts[v.Category]++
	}
	byCategory := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		byCategory = append(byCategory, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(byCategory, func(i, j int) bool { return byCategory[i].Category < byCategory[j].Category })

	return Stats{VehicleCount: len(c.vehicles), VehiclesByCategory: byCategory}
}
