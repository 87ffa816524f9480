package cmd

import (
	"os"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	cfg     *config.Config
	logger  *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pricer",
	Short: "Real-time vehicle pricing engine",
	Long: `Pricer computes displayed vehicle prices from a base price, per-vehicle demand and
stock, and a simulated market that moves every few seconds.

Commands:
  serve   - run the market simulator, HTTP API and optional Telegram bot
  quote   - price one vehicle against the last saved market state
  events  - list recorded pricing events`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		l, err := newLogger(c)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	def := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", def, "path to YAML config")
}
