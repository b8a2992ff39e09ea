package main

import (
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "arkanon",
	Short: "Arkanon is an anonymous group signaling service",
	Long: `Arkanon manages anonymous groups and validates Semaphore-style
zero-knowledge membership proofs, so group members can emit signals
without revealing which member they are.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
