package clickhouse

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	cfg := defaultConfig()
	for _, opt := range []ClientOption{
		WithAddress("ch.local", 9440),
		WithDatabase("findash"),
		WithCredentials("reader", "p@ss"),
		WithTimeouts(2*time.Second, 5*time.Second),
		WithMaxExecutionTime(30 * time.Second),
		WithAsyncInsert(true, true),
		WithHTTP(true),
	} {
		opt(cfg)
	}

	u, err := url.Parse(buildDSN(*cfg))
	require.NoError(t, err)
	assert.Equal(t, "clickhouse", u.Scheme)
	assert.Equal(t, "ch.local:9440", u.Host)
	assert.Equal(t, "/findash", u.Path)
	assert.Equal(t, "reader", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss", pw)

	q := u.Query()
	assert.Equal(t, "http", q.Get("protocol"))
	assert.Equal(t, "2s", q.Get("dial_timeout"))
	assert.Equal(t, "5s", q.Get("read_timeout"))
	assert.Equal(t, "30", q.Get("max_execution_time"))
	assert.Equal(t, "1", q.Get("async_insert"))
	assert.Equal(t, "1", q.Get("wait_for_async_insert"))
}

func TestBuildDSNMinimal(t *testing.T) {
	cfg := ClientConfig{Host: "localhost", Port: 9000, Database: "default", User: "default"}
	u, err := url.Parse(buildDSN(cfg))
	require.NoError(t, err)
	assert.Empty(t, u.RawQuery)
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient(context.Background())
	assert.Error(t, err)
}
