package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"FinDash/internal/di"
	"FinDash/internal/domain/models"
)

var regimeFormat string

var regimeCmd = &cobra.Command{
	Use:   "regime",
	Short: "Print the current macro regime and sector playbook",
	Long: `Fetch the configured FRED series, classify the economic regime and
print it together with the sector recommendations for that regime.

Examples:
  findash regime
  findash regime --format json`,
	RunE: runRegime,
}

func init() {
	rootCmd.AddCommand(regimeCmd)
	regimeCmd.Flags().StringVar(&regimeFormat, "format", "table", "Output format (table|json)")
}

func runRegime(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	tk, err := di.InitializeToolkit(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer tk.Close()

	view, err := tk.Macro.Regime(cmd.Context())
	if err != nil {
		return err
	}
	if regimeFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	renderRegime(cmd.OutOrStdout(), view)
	return nil
}

func renderRegime(w io.Writer, v *models.RegimeView) {
	c := v.Classification
	fmt.Fprintf(w, "Regime: %s (confidence %.0f%%)\n%s\nTypical duration: %s\n\n",
		c.Regime, c.Confidence, c.Description, c.Duration)

	in := table.NewWriter()
	in.SetOutputMirror(w)
	in.SetStyle(table.StyleLight)
	in.AppendHeader(table.Row{"Input", "Value"})
	for _, row := range []struct {
		name string
		v    *float64
	}{
		{"GDP growth", c.Indicators.GDPGrowth},
		{"Inflation", c.Indicators.Inflation},
		{"Unemployment", c.Indicators.Unemployment},
		{"Yield curve", c.Indicators.YieldCurve},
		{"Fed funds", c.Indicators.FedFunds},
		{"ISM", c.Indicators.ISM},
	} {
		in.AppendRow(table.Row{row.name, formatOptional(row.v)})
	}
	in.Render()

	if len(v.Sectors) == 0 {
		return
	}
	st := table.NewWriter()
	st.SetOutputMirror(w)
	st.SetStyle(table.StyleLight)
	st.AppendHeader(table.Row{"Symbol", "Sector", "Stance", "Win rate", "Avg outperf."})
	st.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for _, s := range v.Sectors {
		st.AppendRow(table.Row{
			s.Symbol,
			s.Sector,
			s.Stance,
			fmt.Sprintf("%.0f%%", s.WinRate),
			fmt.Sprintf("%+.1f%%", s.AvgOutperformance),
		})
	}
	st.Render()
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
