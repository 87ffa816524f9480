package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/api"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/history"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/inventory"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/market"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/notifier"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/scheduler"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the market simulator, HTTP API and Telegram bot",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := component("main")
	log.Info("vehicle pricing starting...")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := newFetcher(cfg)
	log.WithField("source", fetcher.Name()).Info("inventory source")
	catalog := inventory.NewCatalog(fetcher, component("inventory"))
	if err := catalog.Refresh(ctx); err != nil {
		log.WithError(err).Warn("initial inventory refresh failed, starting empty")
	}

	rec := openRecorder(cfg)
	defer rec.Close()

	sim := newSimulator(cfg)
	sess := session.New(sim, history.NewTracker(cfg.Pricing.HistoryCapacity), catalog,
		session.WithStrategy(cfg.Strategy()),
		session.WithRecorder(rec),
		session.WithAutoRecord(cfg.Pricing.AutoRecord),
		session.WithLogger(component("session")),
	)

	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, component("telegram"))
		n = tn
	}

	sched := scheduler.NewScheduler(ctx, sess, catalog, n, component("scheduler"))
	if err := sched.RegisterAll(cfg.Simulator.TickCron, cfg.Inventory.RefreshCron); err != nil {
		return err
	}
	sched.EnableAlerts(cfg.Telegram.AlertPercent)
	sched.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.NewAPIHandler(sess, catalog, component("api")).NewServer(cfg.HTTP.Addr)
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTP.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	log.Info("vehicle pricing is running. Press Ctrl+C to stop.")

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping...")
	case err := <-serveErr:
		log.WithError(err).Error("http server failed")
		runErr = err
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	sched.Stop()

	if err := market.SaveState(cfg.Simulator.StateFile, sim); err != nil {
		log.WithError(err).Error("save market state")
	}
	log.Info("vehicle pricing stopped")
	return runErr
}
