package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordProviderRequest("twelvedata", "ok")
	r.RecordProviderRequest("twelvedata", "ok")
	r.RecordProviderRequest("yahoo", "error")
	r.RecordSignal("BUY")
	r.RecordLastClose("SPY", 512.3)
	r.RecordLatency("signals.generate", 0.02)
	r.RecordError("provider")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.providerRequests.WithLabelValues("twelvedata", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.providerRequests.WithLabelValues("yahoo", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.signals.WithLabelValues("BUY")))
	assert.Equal(t, 512.3, testutil.ToFloat64(r.lastClose.WithLabelValues("SPY")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["findash_operation_duration_seconds"])
	assert.True(t, names["findash_errors_total"])
}

func TestRecordersOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
