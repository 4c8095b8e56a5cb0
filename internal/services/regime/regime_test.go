package regime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinDash/internal/domain/models"
)

func f(v float64) *float64 { return &v }

func TestClassifyGoldilocksFullData(t *testing.T) {
	in := models.MacroIndicators{
		GDPGrowth: f(2.5), Inflation: f(2.0), Unemployment: f(4.5),
		YieldCurve: f(1.0), FedFunds: f(3.0), ISM: f(52),
	}
	got := Classify(in)
	assert.Equal(t, models.RegimeGoldilocks, got.Regime)
	assert.Equal(t, 85.0, got.Confidence)
	assert.Equal(t, in, got.Indicators)
	assert.NotEmpty(t, got.Description)
	assert.NotEmpty(t, got.Duration)
}

func TestClassifyCascade(t *testing.T) {
	cases := []struct {
		name string
		in   models.MacroIndicators
		want models.Regime
		conf float64
	}{
		{"stagflation", models.MacroIndicators{GDPGrowth: f(0.5), Inflation: f(5), Unemployment: f(4), YieldCurve: f(0.2), FedFunds: f(5), ISM: f(48)}, models.RegimeStagflation, 80},
		// stagflation outranks contraction even with negative growth
		{"stagflation before contraction", models.MacroIndicators{GDPGrowth: f(-1), Inflation: f(6)}, models.RegimeStagflation, 27},
		{"late cycle flat curve", models.MacroIndicators{GDPGrowth: f(2.8), Inflation: f(3.5), Unemployment: f(3.7), YieldCurve: f(0.1), FedFunds: f(5.25), ISM: f(51)}, models.RegimeLateCycle, 80},
		{"late cycle steep curve", models.MacroIndicators{GDPGrowth: f(2.8), Inflation: f(3.5), Unemployment: f(3.7), YieldCurve: f(1.2), FedFunds: f(5.25), ISM: f(51)}, models.RegimeLateCycle, 70},
		{"contraction by ism", models.MacroIndicators{GDPGrowth: f(1.5), Inflation: f(2.8), Unemployment: f(5), YieldCurve: f(-0.3), FedFunds: f(4), ISM: f(43)}, models.RegimeContraction, 75},
		{"contraction by gdp", models.MacroIndicators{GDPGrowth: f(-0.4)}, models.RegimeContraction, 13},
		{"early recovery", models.MacroIndicators{GDPGrowth: f(1.2), Inflation: f(1.2), Unemployment: f(7), YieldCurve: f(2), FedFunds: f(0.25), ISM: f(55)}, models.RegimeEarlyRecovery, 65},
		{"expansion", models.MacroIndicators{GDPGrowth: f(4), Inflation: f(2.2), Unemployment: f(4), YieldCurve: f(1), FedFunds: f(2), ISM: f(56)}, models.RegimeExpansion, 60},
		{"no data", models.MacroIndicators{}, models.RegimeExpansion, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.in)
			assert.Equal(t, c.want, got.Regime)
			assert.Equal(t, c.conf, got.Confidence)
		})
	}
}

func TestClassifyBoundariesAreExclusive(t *testing.T) {
	got := Classify(models.MacroIndicators{GDPGrowth: f(2), Inflation: f(2)})
	assert.NotEqual(t, models.RegimeGoldilocks, got.Regime)
	got = Classify(models.MacroIndicators{GDPGrowth: f(3.5), Inflation: f(2)})
	assert.NotEqual(t, models.RegimeGoldilocks, got.Regime)
}

func TestDefaultPlaybookCoversEveryRegime(t *testing.T) {
	pb, err := DefaultPlaybook()
	require.NoError(t, err)
	for _, r := range models.AllRegimes {
		recs := pb.Recommendations(r)
		require.Len(t, recs, 12, "regime %s", r)
		seen := map[string]bool{}
		for _, rec := range recs {
			assert.False(t, seen[rec.Symbol], "duplicate %s in %s", rec.Symbol, r)
			seen[rec.Symbol] = true
			assert.NotEmpty(t, rec.Sector)
			assert.Greater(t, rec.WinRate, 0.0)
		}
		assert.True(t, seen["XLK"] && seen["SMH"] && seen["XLRE"])
	}
}

func TestRecommendationsReturnsCopy(t *testing.T) {
	pb, err := DefaultPlaybook()
	require.NoError(t, err)
	recs := pb.Recommendations(models.RegimeGoldilocks)
	recs[0].Stance = models.StanceUnderweight
	assert.NotEqual(t, recs[0], pb.Recommendations(models.RegimeGoldilocks)[0])
	assert.Nil(t, pb.Recommendations("unknown"))
}

func TestLoadPlaybookFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playbook.yaml")
	doc := "contraction:\n  - {symbol: XLP, sector: Consumer Staples, stance: overweight, win_rate: 70, avg_outperformance: 1.5}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	pb, err := LoadPlaybook(path)
	require.NoError(t, err)
	recs := pb.Recommendations(models.RegimeContraction)
	require.Len(t, recs, 1)
	assert.Equal(t, models.SectorRecommendation{
		Symbol: "XLP", Sector: "Consumer Staples", Stance: models.StanceOverweight, WinRate: 70, AvgOutperformance: 1.5,
	}, recs[0])
	assert.Nil(t, pb.Recommendations(models.RegimeGoldilocks))

	_, err = LoadPlaybook(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParsePlaybookRejectsBadData(t *testing.T) {
	_, err := ParsePlaybook([]byte("boom:\n  - {symbol: XLK, stance: overweight}\n"))
	assert.Error(t, err)
	_, err = ParsePlaybook([]byte("goldilocks:\n  - {symbol: XLK, stance: maybe}\n"))
	assert.Error(t, err)
	_, err = ParsePlaybook([]byte("goldilocks: [\n"))
	assert.Error(t, err)
}
