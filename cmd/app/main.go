package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"FinDash/pkg/config"
)

var configPath string

// rootCmd is the base command for the FinDash binary.
var rootCmd = &cobra.Command{
	Use:   "findash",
	Short: "Technical and macro indicator service",
	Long: `FinDash computes RSI, Bollinger Bands, MACD, z-scores, composite
BUY/SELL/HOLD signals, relative strength rankings and the macro regime
from market and FRED data.

Run "findash serve" to expose the HTTP API, or use the one-shot
commands to print results to the terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
}

// loadConfig tolerates a missing default file so the binary runs on defaults and env alone.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	return config.LoadWithEnv(path)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
