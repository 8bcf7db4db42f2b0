// Package main is the entry point for the dungeon server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"delve-server/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "delve-server",
	Short: "Turn-based dungeon crawl server",
	Long: `delve-server runs a seeded, turn-based dungeon crawl and serves it
over websockets. One process hosts the human run plus any number of
bot-driven instances.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	logger.Init()
	rootCmd.AddCommand(serveCmd)
}
