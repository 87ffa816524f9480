package market

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
)

// Band bounds the random walk of a single factor.
type Band struct {
	Step  float64
	Lower float64
	Upper float64
}

// Clamp limits v to [Lower, Upper].
func (b Band) Clamp(v float64) float64 {
	if v < b.Lower {
		return b.Lower
	}
	if v > b.Upper {
		return b.Upper
	}
	return v
}

func (b Band) walk(v float64, rng *rand.Rand) float64 {
	return b.Clamp(v + (rng.Float64()-0.5)*b.Step)
}

// Per-factor walk parameters.
var (
	DemandBand     = Band{Step: 0.05, Lower: 0.8, Upper: 1.3}
	SeasonalBand   = Band{Step: 0.02, Lower: 0.9, Upper: 1.2}
	CompetitorBand = Band{Step: 0.03, Lower: 0.85, Upper: 1.15}
	InventoryBand  = Band{Step: 0.02, Lower: 0.9, Upper: 1.1}
)

// Observer is notified with the new factors after every tick. It runs while the
// simulator's write lock is held and must not call back into the Simulator.
type Observer func(model.MarketFactors)

// Simulator owns the market factors and advances them with bounded random walks.
type Simulator struct {
	mu        sync.RWMutex
	factors   model.MarketFactors
	rng       *rand.Rand
	observers []Observer
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand sets the random source. Access is serialized by the simulator.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.rng = rng }
}

// WithSeed seeds the random source; zero keeps the time-based default.
func WithSeed(seed int64) Option {
	return func(s *Simulator) {
		if seed != 0 {
			s.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithFactors sets the starting factors, clamped into their bands.
func WithFactors(f model.MarketFactors) Option {
	return func(s *Simulator) { s.factors = clampAll(f) }
}

// NewSimulator creates a Simulator with every factor at 1.0.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		factors: model.NeutralFactors(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Factors returns the current factor set.
func (s *Simulator) Factors() model.MarketFactors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.factors
}

// Subscribe registers an observer for future ticks.
func (s *Simulator) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Tick advances all four factors at once and notifies observers.
func (s *Simulator) Tick() model.MarketFactors {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.factors
	s.factors = model.MarketFactors{
		DemandMultiplier:   DemandBand.walk(prev.DemandMultiplier, s.rng),
		SeasonalAdjustment: SeasonalBand.walk(prev.SeasonalAdjustment, s.rng),
		CompetitorPricing:  CompetitorBand.walk(prev.CompetitorPricing, s.rng),
		InventoryLevel:     InventoryBand.walk(prev.InventoryLevel, s.rng),
	}

	for _, o := range s.observers {
		o(s.factors)
	}
	return s.factors
}

// Restore replaces the current factors, clamped into their bands.
func (s *Simulator) Restore(f model.MarketFactors) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factors = clampAll(f)
}

func clampAll(f model.MarketFactors) model.MarketFactors {
	return model.MarketFactors{
		DemandMultiplier:   DemandBand.Clamp(f.DemandMultiplier),
		SeasonalAdjustment: SeasonalBand.Clamp(f.SeasonalAdjustment),
		CompetitorPricing:  CompetitorBand.Clamp(f.CompetitorPricing),
		InventoryLevel:     InventoryBand.Clamp(f.InventoryLevel),
	}
}
