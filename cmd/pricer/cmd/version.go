package cmd

import (
	"fmt"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/api"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	// version needs no config
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s version %s\n", api.ServiceName, api.ServiceVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
