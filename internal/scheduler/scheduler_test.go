package scheduler

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/history"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/inventory"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/market"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/session"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestScheduler(t *testing.T, n Notifier) *Scheduler {
	t.Helper()
	log := quietLogger()
	cat := inventory.NewCatalog(&inventory.MockFetcher{}, log)
	require.NoError(t, cat.Refresh(context.Background()))
	sess := session.New(market.NewSimulator(market.WithSeed(3)), history.NewTracker(0), cat, session.WithLogger(log))
	return NewScheduler(context.Background(), sess, cat, n, log)
}

func TestRegisterAll_InvalidSpec(t *testing.T) {
	s := newTestScheduler(t, nil)
	assert.Error(t, s.RegisterAll("not a spec", ""))
	assert.Error(t, s.RegisterAll("@every 3s", "bogus"))
}

func TestTicksStopWithScheduler(t *testing.T) {
	s := newTestScheduler(t, nil)
	require.NoError(t, s.RegisterAll("@every 1s", "@every 1s"))
	_, err := s.Session.Select("1")
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool {
		return len(s.Session.History("1")) >= 2
	}, 5*time.Second, 50*time.Millisecond)
	s.Stop()

	stopped := s.Session.Factors()
	h := s.Session.History("1")
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, stopped, s.Session.Factors())
	assert.Equal(t, h, s.Session.History("1"))
}

func TestHandleCommand(t *testing.T) {
	s := newTestScheduler(t, nil)

	assert.Contains(t, s.HandleCommand("/history"), "No vehicle selected")
	assert.Contains(t, s.HandleCommand("/price"), "Usage")
	assert.Contains(t, s.HandleCommand("/price 404"), "vehicle not found")
	assert.Contains(t, s.HandleCommand("/price 2"), "2024 BMW X5")

	reply := s.HandleCommand("/select@PricingBot 1")
	assert.Contains(t, reply, "Tracking")
	assert.Contains(t, reply, "Tesla")
	v, ok := s.Session.Selected()
	require.True(t, ok)
	assert.Equal(t, "1", v.ID)

	assert.Contains(t, s.HandleCommand("/price"), "Tesla")
	assert.Contains(t, s.HandleCommand("/history"), "Tesla Model 3")

	assert.Equal(t, "Strategy: dynamic", s.HandleCommand("/strategy"))
	assert.Equal(t, "Strategy set to fixed", s.HandleCommand("/STRATEGY Fixed"))
	assert.Equal(t, model.StrategyFixed, s.Session.Strategy())
	assert.Contains(t, s.HandleCommand("/strategy nope"), "Unknown strategy")
	assert.Equal(t, model.StrategyFixed, s.Session.Strategy())

	assert.Contains(t, s.HandleCommand("/factors"), "Market factors")

	assert.Contains(t, s.HandleCommand("/stop"), "Stopped")
	_, ok = s.Session.Selected()
	assert.False(t, ok)

	assert.Contains(t, s.HandleCommand("hello"), "Commands:")
	assert.Contains(t, s.HandleCommand(""), "Commands:")
}

func TestCheckAlert_FiresOnCrossing(t *testing.T) {
	n := &fakeNotifier{}
	s := newTestScheduler(t, n)
	s.EnableAlerts(5)

	window := func(prices ...int64) []model.PriceHistoryEntry {
		h := make([]model.PriceHistoryEntry, len(prices))
		for i, p := range prices {
			h[i] = model.PriceHistoryEntry{Price: p}
		}
		return h
	}
	quote := func(p int64) model.Quote { return model.Quote{VehicleID: "1", Price: p} }

	s.checkAlert(quote(50000), window(50000))
	s.checkAlert(quote(52000), window(50000, 52000))
	s.checkAlert(quote(53000), window(50000, 52000, 53000))
	s.checkAlert(quote(54000), window(50000, 52000, 53000, 54000))
	s.checkAlert(quote(50500), window(50000, 50500))
	s.checkAlert(quote(47000), window(50000, 50500, 47000))
	s.Stop()

	msgs := n.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "$50,000 → $53,000")
	assert.Contains(t, msgs[0], "▲ 6.00%")
	assert.Contains(t, msgs[0], "Tesla")
	assert.Contains(t, msgs[1], "▼ 6.00%")
}

func TestEnableAlerts_NeedsNotifier(t *testing.T) {
	s := newTestScheduler(t, nil)
	s.EnableAlerts(5)
	assert.Zero(t, s.alertPercent)
}
