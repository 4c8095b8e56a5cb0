package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, "sqlite", c.Backend.Type)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "SPY", c.Market.Benchmark)
	assert.Contains(t, c.Market.Symbols, "SMH")
	assert.Equal(t, 0.30, c.Signals.Weights.MACD)
	assert.Equal(t, "UNRATE", c.FRED.Series.Unemployment.ID)
	assert.Equal(t, "pc1", c.FRED.Series.Inflation.Units)
	assert.Equal(t, 6*time.Hour, c.Cache.TTL.Macro)
	assert.Equal(t, []string{"localhost:9092"}, c.Kafka.Brokers)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9090
  read_timeout: 3s
backend:
  type: clickhouse
market:
  symbols: [AAPL, MSFT]
  names:
    AAPL: Apple
signals:
  weights:
    rsi: 0.5
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 3*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, c.Server.WriteTimeout)
	assert.Equal(t, "clickhouse", c.Backend.Type)
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.Market.Symbols)
	assert.Equal(t, "Apple", c.Name("AAPL"))
	assert.Equal(t, "MSFT", c.Name("MSFT"))
	assert.Equal(t, 0.5, c.Signals.Weights.RSI)
	assert.Equal(t, 0.25, c.Signals.Weights.Bollinger)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "backend:\n  type: postgres\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server:\n  port: -1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("TWELVEDATA_API_KEY", "td-key")
	t.Setenv("FRED_API_KEY", "fred-key")
	t.Setenv("BACKEND", "memory")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SYMBOLS", "spy, qqq,,xle")
	t.Setenv("PORT", "9090")

	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, "td-key", c.TwelveData.APIKey)
	assert.Equal(t, "fred-key", c.FRED.APIKey)
	assert.Equal(t, "memory", c.Backend.Type)
	assert.True(t, c.Cache.Redis.Enabled)
	assert.Equal(t, "redis:6379", c.Cache.Redis.Addr)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, []string{"SPY", "QQQ", "XLE"}, c.Market.Symbols)
	assert.Equal(t, 9090, c.Server.Port)
}

func TestLoadWithEnvValidatesOverrides(t *testing.T) {
	t.Setenv("BACKEND", "mongo")
	_, err := LoadWithEnv("")
	assert.Error(t, err)
}

func TestShippedConfigIsValid(t *testing.T) {
	c, err := Load("../../config/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Backend.Type)
	assert.Equal(t, "Technology", c.Name("XLK"))
	assert.Equal(t, "CPIAUCSL", c.FRED.Series.Inflation.ID)
	assert.Equal(t, 1048576, c.Kafka.Producer.BatchBytes)
}
