package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	drepo "FinDash/internal/domain/repository"
	dservice "FinDash/internal/domain/service"
	xhttp "FinDash/pkg/http"
)

type countingMetrics struct {
	drepo.NopMetrics
	mu       sync.Mutex
	outcomes []string
}

func (m *countingMetrics) RecordProviderRequest(_, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func TestBarsReversesNewestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_series", r.URL.Path)
		assert.Equal(t, "SPY", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1day", r.URL.Query().Get("interval"))
		assert.Equal(t, "3", r.URL.Query().Get("outputsize"))
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(`{"status":"ok","values":[
			{"datetime":"2024-01-04","open":"3","high":"3.5","low":"2.5","close":"3.25","volume":"300"},
			{"datetime":"2024-01-03","open":"2","high":"2.5","low":"1.5","close":"2.25","volume":"200"},
			{"datetime":"2024-01-02","open":"1","high":"1.5","low":"0.5","close":"1.25","volume":""}
		]}`))
	}))
	defer srv.Close()

	m := &countingMetrics{}
	c := New("k", srv.URL+"/", xhttp.NewClient(), m)
	bars, err := c.Bars(context.Background(), "SPY", drepo.IntervalDaily, 3)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, 1.25, bars[0].Close)
	assert.Equal(t, 3.25, bars[2].Close)
	assert.True(t, bars[0].Date.Before(bars[1].Date))
	assert.Nil(t, bars[0].Volume)
	require.NotNil(t, bars[2].Volume)
	assert.Equal(t, int64(300), *bars[2].Volume)
	assert.Equal(t, []string{"ok"}, m.outcomes)
}

func TestBarsUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","code":400,"message":"**symbol** not found: NOPE"}`))
	}))
	defer srv.Close()

	_, err := New("k", srv.URL, xhttp.NewClient(), nil).Bars(context.Background(), "NOPE", drepo.IntervalDaily, 10)
	assert.ErrorIs(t, err, dservice.ErrNotFound)
}

func TestBarsRequiresKey(t *testing.T) {
	_, err := New("", "http://unused", xhttp.NewClient(), nil).Bars(context.Background(), "SPY", drepo.IntervalDaily, 10)
	assert.Error(t, err)
}

func TestBarsEmptyValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","values":[{"datetime":"bad","close":"x"}]}`))
	}))
	defer srv.Close()

	_, err := New("k", srv.URL, xhttp.NewClient(), nil).Bars(context.Background(), "SPY", drepo.IntervalDaily, 10)
	assert.ErrorIs(t, err, dservice.ErrNoData)
}

func TestStreamSubscribeAndRead(t *testing.T) {
	upgrader := websocket.Upgrader{}
	subscribed := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		var msg subscribeMsg
		if !assert.NoError(t, conn.ReadJSON(&msg)) {
			return
		}
		subscribed <- msg.Params.Symbols

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"subscribe-status","status":"ok"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"price","symbol":"SPY","price":512.25,"timestamp":1704067200}`))
		// keep the socket open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	s := NewStream("k", wsURL, []string{"SPY", "QQQ"}, 0, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Connect(ctx))
	require.True(t, s.IsConnected())
	require.NoError(t, s.Subscribe(ctx))
	assert.Equal(t, "SPY,QQQ", <-subscribed)

	quotes, _ := s.Read(ctx)
	select {
	case q := <-quotes:
		require.NotNil(t, q)
		assert.Equal(t, "SPY", q.Symbol)
		assert.Equal(t, 512.25, q.Price)
		assert.Equal(t, int64(1704067200), q.Timestamp.Unix())
	case <-time.After(5 * time.Second):
		t.Fatal("no quote received")
	}

	require.NoError(t, s.Close())
	assert.False(t, s.IsConnected())
}

func TestStreamReconnectReleasesHeartbeats(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	s := NewStream("k", wsURL, []string{"SPY"}, 0, 10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Connect(ctx))
	require.NoError(t, s.Subscribe(ctx))
	s.Read(ctx)
	time.Sleep(50 * time.Millisecond)
	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		require.NoError(t, s.Reconnect(ctx))
		s.Read(ctx)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+3
	}, 2*time.Second, 20*time.Millisecond, "goroutines before=%d after=%d", before, runtime.NumGoroutine())
	require.NoError(t, s.Close())
}

func TestSubscribeWithoutConnect(t *testing.T) {
	s := NewStream("k", "ws://unused", []string{"SPY"}, 0, time.Second, nil)
	assert.Error(t, s.Subscribe(context.Background()))
}
