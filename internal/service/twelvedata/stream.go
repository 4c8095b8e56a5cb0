package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	"FinDash/pkg/logger"
)

// Stream implements QuoteStream over the Twelve Data price WebSocket.
type Stream struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	mu        sync.Mutex // guards conn writes and state
	conn      *websocket.Conn
	connected bool
}

// NewStream creates a quote stream for symbols.
func NewStream(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, l *logger.Logger) *Stream {
	if l == nil {
		l = logger.Nop()
	}
	if pingInterval <= 0 {
		pingInterval = 10 * time.Second
	}
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            l.With(logger.String("component", "twelvedata_stream")),
	}
}

var _ drepo.QuoteStream = (*Stream)(nil)

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	u, err := url.Parse(s.websocketURL)
	if err != nil {
		return fmt.Errorf("twelvedata stream url: %w", err)
	}
	q := u.Query()
	q.Set("apikey", s.apiKey)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("twelvedata connect: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()
	s.log.Info("connected")
	return nil
}

type subscribeMsg struct {
	Action string `json:"action"`
	Params struct {
		Symbols string `json:"symbols"`
	} `json:"params"`
}

// Subscribe subscribes to configured symbols in one frame.
func (s *Stream) Subscribe(ctx context.Context) error {
	var msg subscribeMsg
	msg.Action = "subscribe"
	msg.Params.Symbols = strings.Join(s.symbols, ",")
	if err := s.writeJSON(msg); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.log.Info("subscribed", logger.Strings("symbols", s.symbols))
	return nil
}

func (s *Stream) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || !s.connected {
		return fmt.Errorf("twelvedata not connected")
	}
	return s.conn.WriteJSON(v)
}

type priceEvent struct {
	Event     string  `json:"event"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"` // unix seconds
}

// Read streams quotes until ctx ends or the connection fails.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Quote, <-chan error) {
	quotes := make(chan *models.Quote, 256)
	errs := make(chan error, 1)
	rctx, cancel := context.WithCancel(ctx)

	// Heartbeats stop with the reader so each Read owns exactly one ticker.
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-rctx.Done():
				return
			case <-ticker.C:
				_ = s.writeJSON(map[string]string{"action": "heartbeat"})
			}
		}
	}()

	go func() {
		defer cancel()
		defer close(quotes)
		defer close(errs)
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn == nil {
			errs <- fmt.Errorf("twelvedata conn nil")
			return
		}
		for {
			if ctx.Err() != nil {
				return
			}
			_, b, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					errs <- fmt.Errorf("twelvedata read: %w", err)
				}
				return
			}
			var ev priceEvent
			if err := json.Unmarshal(b, &ev); err != nil || ev.Event != "price" {
				continue
			}
			q := &models.Quote{Symbol: ev.Symbol, Price: ev.Price, Timestamp: time.Unix(ev.Timestamp, 0).UTC()}
			select {
			case quotes <- q:
			default:
				// drop on backpressure
			}
		}
	}()

	return quotes, errs
}

// Reconnect closes, waits reconnectDelay and reconnects.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.reconnectDelay):
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
