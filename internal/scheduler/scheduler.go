package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/inventory"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/notifier"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/session"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Notifier delivers chat messages.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler drives the market tick and inventory refresh and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Session  *session.Session
	Catalog  *inventory.Catalog
	Notifier Notifier
	Ctx      context.Context

	log   *logrus.Entry
	sends sync.WaitGroup

	mu           sync.Mutex
	alertPercent float64
	alerting     map[string]bool
}

// NewScheduler creates a new Scheduler. n may be nil.
func NewScheduler(ctx context.Context, sess *session.Session, cat *inventory.Catalog, n Notifier, log *logrus.Entry) *Scheduler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
		),
		Session:  sess,
		Catalog:  cat,
		Notifier: n,
		Ctx:      ctx,
		log:      log,
		alerting: make(map[string]bool),
	}
}

// RegisterAll registers the market tick and, when refreshSpec is set, the inventory refresh.
func (s *Scheduler) RegisterAll(tickSpec, refreshSpec string) error {
	if _, err := s.Cron.AddFunc(tickSpec, s.tickTask); err != nil {
		return fmt.Errorf("register tick task: %w", err)
	}
	if refreshSpec == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshSpec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// EnableAlerts notifies when the selected vehicle's price moves at least percent
// across its history window. Needs a Notifier.
func (s *Scheduler) EnableAlerts(percent float64) {
	if s.Notifier == nil || percent <= 0 {
		return
	}
	s.mu.Lock()
	s.alertPercent = percent
	s.mu.Unlock()
	s.Session.OnQuote(s.checkAlert)
	s.log.WithField("percent", percent).Info("price alerts enabled")
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs and pending sends.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.sends.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) tickTask() {
	s.Session.Tick()
}

func (s *Scheduler) refreshTask() {
	if err := s.Catalog.Refresh(s.Ctx); err != nil {
		s.log.WithError(err).Warn("inventory refresh failed, keeping previous snapshot")
	}
}

// checkAlert runs on the tick path, so delivery happens in the background.
func (s *Scheduler) checkAlert(q model.Quote, h []model.PriceHistoryEntry) {
	if len(h) < 2 || h[0].Price <= 0 {
		return
	}
	first := h[0].Price
	move := decimal.NewFromInt(q.Price - first).
		Div(decimal.NewFromInt(first)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()

	s.mu.Lock()
	above := math.Abs(move) >= s.alertPercent
	was := s.alerting[q.VehicleID]
	s.alerting[q.VehicleID] = above
	s.mu.Unlock()

	if !above || was {
		return
	}
	v, ok := s.Catalog.Get(q.VehicleID)
	if !ok {
		v = model.Vehicle{ID: q.VehicleID, Model: q.VehicleID}
	}
	msg := notifier.FormatAlert(v, first, q.Price, move)
	s.sends.Add(1)
	go func() {
		defer s.sends.Done()
		s.trySend(msg)
	}()
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch name {
	case "/price":
		if arg == "" {
			v, ok := s.Session.Selected()
			if !ok {
				return "Usage: /price &lt;id&gt;"
			}
			arg = v.ID
		}
		return s.quoteReply(arg)
	case "/select":
		if arg == "" {
			return "Usage: /select &lt;id&gt;"
		}
		q, err := s.Session.Select(arg)
		if err != nil {
			return errorReply(err)
		}
		v, _ := s.Session.Selected()
		return "✅ Tracking\n\n" + notifier.FormatQuote(v, q)
	case "/stop":
		s.Session.Deselect()
		return "⏹ Stopped tracking"
	case "/strategy":
		if arg == "" {
			return fmt.Sprintf("Strategy: %s", s.Session.Strategy())
		}
		st, ok := model.ParseStrategy(arg)
		if !ok {
			return fmt.Sprintf("Unknown strategy %q. Use dynamic, competitive or fixed.", arg)
		}
		s.Session.SetStrategy(st)
		return fmt.Sprintf("Strategy set to %s", st)
	case "/factors":
		return notifier.FormatFactors(s.Session.Factors())
	case "/history":
		v, h, err := s.Session.SelectedHistory()
		if err != nil {
			return errorReply(err)
		}
		return notifier.FormatHistory(v, h)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) quoteReply(vehicleID string) string {
	q, err := s.Session.Quote(vehicleID)
	if err != nil {
		return errorReply(err)
	}
	v, _ := s.Catalog.Get(vehicleID)
	return notifier.FormatQuote(v, q)
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, session.ErrVehicleNotFound):
		return "❌ " + err.Error()
	case errors.Is(err, session.ErrNoSelection):
		return "No vehicle selected. Use /select &lt;id&gt;"
	default:
		return fmt.Sprintf("❌ %v", err)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.WithError(err).Error("send notification")
	}
}
