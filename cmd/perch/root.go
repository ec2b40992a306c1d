package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "perch",
	Short: "Perch - application server",
	Long: `Perch serves a client application and its API from a single process.

In production it serves prebuilt static assets with security headers,
compression, and API rate limiting. On a development host it runs a
live transform pipeline with cache busting and browser reload instead.

Start it with:
  perch serve`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
}
