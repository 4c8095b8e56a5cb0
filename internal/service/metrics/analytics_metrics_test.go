package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEndpointObserve(t *testing.T) {
	m := NewEndpoint(prometheus.NewRegistry())

	ok := ""
	m.Observe("signals", time.Now(), &ok)
	bad := "ERR_INSUFFICIENT_DATA"
	m.Observe("signals", time.Now(), &bad)
	m.Observe("regime", time.Now(), nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("signals", "ERR_INSUFFICIENT_DATA")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.errors))
	assert.Equal(t, 2, testutil.CollectAndCount(m.latency))
}
