package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf).With(String("component", "signals"))
	l.Info("generated",
		String("symbol", "SPY"),
		Int("bars", 250),
		Float64("strength", 61.5),
		Bool("squeeze", true),
		Duration("took", 1500*time.Millisecond),
		Strings("symbols", []string{"SPY", "QQQ"}),
		Error(errors.New("boom")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "info", got["level"])
	assert.Equal(t, "generated", got["message"])
	assert.Equal(t, "signals", got["component"])
	assert.Equal(t, "SPY", got["symbol"])
	assert.Equal(t, 250.0, got["bars"])
	assert.Equal(t, 61.5, got["strength"])
	assert.Equal(t, true, got["squeeze"])
	assert.Equal(t, 1500.0, got["took"])
	assert.Equal(t, "SPY,QQQ", got["symbols"])
	assert.Equal(t, "boom", got["error"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("ignored", Int("n", 1)) })
}
