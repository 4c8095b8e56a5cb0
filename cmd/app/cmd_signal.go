package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"FinDash/internal/di"
	"FinDash/internal/usecase"
	"FinDash/pkg/util"
)

var signalFormat string

var signalCmd = &cobra.Command{
	Use:   "signal [SYMBOL...]",
	Short: "Print composite signals",
	Long: `Generate the composite BUY/SELL/HOLD signal for each symbol and print
it. With no arguments the configured universe is used. Signals are stored
and published exactly as the batch endpoint does.

Examples:
  findash signal
  findash signal AAPL MSFT,NVDA
  findash signal SPY --format json`,
	RunE: runSignal,
}

func init() {
	rootCmd.AddCommand(signalCmd)
	signalCmd.Flags().StringVar(&signalFormat, "format", "table", "Output format (table|json)")
}

func runSignal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	symbols := util.SplitSymbols(strings.Join(args, ","))
	if len(symbols) == 0 {
		symbols = cfg.Market.Symbols
	}

	tk, err := di.InitializeToolkit(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer tk.Close()

	res, err := tk.Signals.Batch(cmd.Context(), symbols)
	if err != nil {
		return err
	}
	if signalFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	renderSignals(cmd.OutOrStdout(), res)
	return nil
}

func renderSignals(w io.Writer, res *usecase.BatchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Symbol", "Signal", "Strength", "Confidence", "Reasoning"})
	for _, s := range res.Signals {
		t.AppendRow(table.Row{
			s.Symbol,
			s.Type,
			fmt.Sprintf("%.1f", s.Strength),
			fmt.Sprintf("%.1f", s.Confidence),
			strings.Join(s.Reasoning, "\n"),
		})
		t.AppendSeparator()
	}
	t.Render()

	if len(res.Errors) == 0 {
		return
	}
	failed := make([]string, 0, len(res.Errors))
	for sym := range res.Errors {
		failed = append(failed, sym)
	}
	sort.Strings(failed)

	et := table.NewWriter()
	et.SetOutputMirror(w)
	et.SetStyle(table.StyleLight)
	et.AppendHeader(table.Row{"Symbol", "Error"})
	for _, sym := range failed {
		et.AppendRow(table.Row{sym, res.Errors[sym]})
	}
	et.Render()
}
