package cmd

import (
	"fmt"
	"os"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/config"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/inventory"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/market"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/recorder"

	"github.com/sirupsen/logrus"
)

func newLogger(c *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l, nil
}

func component(name string) *logrus.Entry {
	return logger.WithField("component", name)
}

func newFetcher(c *config.Config) inventory.Fetcher {
	switch {
	case c.Inventory.BaseURL != "":
		return inventory.NewHTTPFetcher(c.Inventory.BaseURL, c.Inventory.APIKey, c.Proxy)
	case c.Inventory.File != "":
		return inventory.NewFileFetcher(c.Inventory.File)
	default:
		component("inventory").Warn("no inventory source configured, using sample vehicles")
		return &inventory.MockFetcher{}
	}
}

// openRecorder falls back to the noop recorder when SQLite is unavailable.
func openRecorder(c *config.Config) recorder.Recorder {
	if c.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(c.Database.SQLitePath, component("recorder"))
	if err != nil {
		component("recorder").WithError(err).Warn("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// newSimulator resumes from the saved market state.
func newSimulator(c *config.Config) *market.Simulator {
	factors, err := market.LoadState(c.Simulator.StateFile)
	if err != nil {
		component("market").WithError(err).Warn("load market state failed, starting neutral")
		return market.NewSimulator(market.WithSeed(c.Simulator.Seed))
	}
	return market.NewSimulator(market.WithSeed(c.Simulator.Seed), market.WithFactors(factors))
}
