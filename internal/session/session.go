package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/history"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/id"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/market"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/pricing"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/recorder"

	"github.com/sirupsen/logrus"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrNoSelection     = errors.New("no vehicle selected")
)

// VehicleSource supplies vehicle records by id.
type VehicleSource interface {
	Get(vehicleID string) (model.Vehicle, bool)
}

// QuoteListener receives every quote produced by a tick for the selected vehicle,
// together with the vehicle's history after the append. It runs on the tick path.
type QuoteListener func(q model.Quote, h []model.PriceHistoryEntry)

// Session tracks which vehicle is being watched and under which strategy, and
// extends that vehicle's price history whenever the market moves.
type Session struct {
	sim      *market.Simulator
	tracker  *history.Tracker
	vehicles VehicleSource
	recorder recorder.Recorder
	log      *logrus.Entry
	now      func() time.Time

	// tickMu makes ticks and selection changes mutually exclusive.
	tickMu sync.Mutex

	mu         sync.RWMutex
	selected   *model.Vehicle
	strategy   model.Strategy
	autoRecord bool
	listeners  []QuoteListener
}

// Option configures a Session.
type Option func(*Session)

func WithStrategy(s model.Strategy) Option { return func(ss *Session) { ss.strategy = s.Effective() } }

func WithRecorder(r recorder.Recorder) Option { return func(ss *Session) { ss.recorder = r } }

// WithAutoRecord hands every tick's computation to the recorder.
func WithAutoRecord(on bool) Option { return func(ss *Session) { ss.autoRecord = on } }

func WithClock(now func() time.Time) Option { return func(ss *Session) { ss.now = now } }

func WithLogger(log *logrus.Entry) Option { return func(ss *Session) { ss.log = log } }

// New creates a Session and subscribes it to the simulator.
func New(sim *market.Simulator, tracker *history.Tracker, vehicles VehicleSource, opts ...Option) *Session {
	s := &Session{
		sim:      sim,
		tracker:  tracker,
		vehicles: vehicles,
		recorder: recorder.NewNoopRecorder(),
		log:      logrus.NewEntry(logrus.StandardLogger()),
		now:      time.Now,
		strategy: model.StrategyDynamic,
	}
	for _, opt := range opts {
		opt(s)
	}
	sim.Subscribe(s.onFactors)
	return s
}

// Tick advances the market one step. The selected vehicle's history is extended
// before any reader can observe the new factors.
func (s *Session) Tick() model.MarketFactors {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	return s.sim.Tick()
}

// onFactors runs inside Simulator.Tick with the simulator's write lock held.
func (s *Session) onFactors(f model.MarketFactors) {
	s.mu.RLock()
	sel, strategy, auto, listeners := s.selected, s.strategy, s.autoRecord, s.listeners
	s.mu.RUnlock()

	if sel == nil {
		return
	}
	at := s.now()
	q, err := pricing.Quote(*sel, strategy, f, at)
	if err != nil {
		s.log.WithError(err).WithField("vehicle_id", sel.ID).Warn("skip price update")
		return
	}
	s.tracker.RecordObservation(sel.ID, q.Price, at)
	s.log.WithFields(logrus.Fields{"vehicle_id": sel.ID, "price": q.Price, "strategy": strategy}).Debug("price updated")

	if auto {
		if _, err := s.record(*sel, strategy, f, q.Price, at); err != nil {
			s.log.WithError(err).WithField("vehicle_id", sel.ID).Error("record pricing event")
		}
	}
	if len(listeners) > 0 {
		h := s.tracker.History(sel.ID)
		for _, l := range listeners {
			l(q, h)
		}
	}
}

// OnQuote registers a listener for tick quotes.
func (s *Session) OnQuote(l QuoteListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Select focuses a vehicle: its history restarts with the current price.
// On error the previous selection is kept.
func (s *Session) Select(vehicleID string) (model.Quote, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	v, ok := s.vehicles.Get(vehicleID)
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, vehicleID)
	}
	f := s.sim.Factors()
	at := s.now()
	q, err := pricing.Quote(v, s.Strategy(), f, at)
	if err != nil {
		return model.Quote{}, err
	}
	s.tracker.Select(v.ID, q.Price, at)

	s.mu.Lock()
	s.selected = &v
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"vehicle_id": v.ID, "price": q.Price}).Info("vehicle selected")
	return q, nil
}

// Deselect stops extending any vehicle's history. Ticks keep moving the market.
func (s *Session) Deselect() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
	s.log.Info("vehicle deselected")
}

// Selected returns the focused vehicle, if any.
func (s *Session) Selected() (model.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return model.Vehicle{}, false
	}
	return *s.selected, true
}

// SetStrategy changes the strategy used from the next computation on.
func (s *Session) SetStrategy(st model.Strategy) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.Lock()
	s.strategy = st.Effective()
	s.mu.Unlock()
	s.log.WithField("strategy", st.Effective()).Info("pricing strategy changed")
}

// Strategy returns the current strategy.
func (s *Session) Strategy() model.Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strategy
}

// Factors returns the current market factors.
func (s *Session) Factors() model.MarketFactors {
	return s.sim.Factors()
}

// Quote prices a vehicle under the current strategy without touching history.
func (s *Session) Quote(vehicleID string) (model.Quote, error) {
	return s.QuoteWith(vehicleID, s.Strategy())
}

// QuoteWith prices a vehicle under an explicit strategy.
func (s *Session) QuoteWith(vehicleID string, st model.Strategy) (model.Quote, error) {
	v, ok := s.vehicles.Get(vehicleID)
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, vehicleID)
	}
	return pricing.Quote(v, st, s.sim.Factors(), s.now())
}

// QuoteVehicle prices a record the caller already holds.
func (s *Session) QuoteVehicle(v model.Vehicle) (model.Quote, error) {
	return pricing.Quote(v, s.Strategy(), s.sim.Factors(), s.now())
}

// History returns a vehicle's recent prices, oldest first.
func (s *Session) History(vehicleID string) []model.PriceHistoryEntry {
	return s.tracker.History(vehicleID)
}

// SelectedHistory returns the focused vehicle's recent prices.
func (s *Session) SelectedHistory() (model.Vehicle, []model.PriceHistoryEntry, error) {
	v, ok := s.Selected()
	if !ok {
		return model.Vehicle{}, nil, ErrNoSelection
	}
	return v, s.tracker.History(v.ID), nil
}

// RecordEvent audits the current price of a vehicle.
func (s *Session) RecordEvent(vehicleID string) (model.PricingEventSnapshot, error) {
	v, ok := s.vehicles.Get(vehicleID)
	if !ok {
		return model.PricingEventSnapshot{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, vehicleID)
	}
	strategy := s.Strategy()
	f := s.sim.Factors()
	price, err := pricing.ComputePrice(v, strategy, f)
	if err != nil {
		return model.PricingEventSnapshot{}, err
	}
	return s.record(v, strategy, f, price, s.now())
}

// Record hands an externally built snapshot to the recorder.
func (s *Session) Record(evt model.PricingEventSnapshot) (model.PricingEventSnapshot, error) {
	if err := recorder.Validate(&evt); err != nil {
		return model.PricingEventSnapshot{}, err
	}
	if evt.ID == "" {
		evt.ID = id.New(evt.Timestamp)
	}
	if err := s.recorder.RecordPricingEvent(&evt); err != nil {
		return model.PricingEventSnapshot{}, err
	}
	return evt, nil
}

// PricingEvents lists recorded snapshots, newest first.
func (s *Session) PricingEvents(vehicleID string, limit int) ([]model.PricingEventSnapshot, error) {
	return s.recorder.PricingEvents(vehicleID, limit)
}

func (s *Session) record(v model.Vehicle, st model.Strategy, f model.MarketFactors, price int64, at time.Time) (model.PricingEventSnapshot, error) {
	return s.Record(model.NewPricingEventSnapshot(v, st, f, price, at))
}
