package main

import (
	"os"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/cmd/pricer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
