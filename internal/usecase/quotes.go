package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	applogger "FinDash/pkg/logger"
)

// QuoteBook keeps the latest streamed price per symbol.
type QuoteBook struct {
	mu     sync.RWMutex
	latest map[string]models.Quote
	maxAge time.Duration
	now    func() time.Time
}

// NewQuoteBook ignores quotes older than maxAge on read; zero keeps them forever.
func NewQuoteBook(maxAge time.Duration) *QuoteBook {
	return &QuoteBook{latest: make(map[string]models.Quote), maxAge: maxAge, now: time.Now}
}

func (b *QuoteBook) Update(q models.Quote) {
	if q.Price <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.latest[q.Symbol]; ok && prev.Timestamp.After(q.Timestamp) {
		return
	}
	b.latest[q.Symbol] = q
}

// Price returns the latest fresh price for symbol.
func (b *QuoteBook) Price(symbol string) (float64, bool) {
	if b == nil {
		return 0, false
	}
	b.mu.RLock()
	q, ok := b.latest[symbol]
	b.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if b.maxAge > 0 && b.now().Sub(q.Timestamp) > b.maxAge {
		return 0, false
	}
	return q.Price, true
}

// QuoteCollector feeds a QuoteBook from a QuoteStream, reconnecting on read errors.
type QuoteCollector struct {
	stream  drepo.QuoteStream
	book    *QuoteBook
	metrics drepo.Metrics
	l       *applogger.Logger
	done    chan struct{}
	started atomic.Bool
	stopped atomic.Bool
}

func NewQuoteCollector(stream drepo.QuoteStream, book *QuoteBook, m drepo.Metrics, l *applogger.Logger) *QuoteCollector {
	if m == nil {
		m = drepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &QuoteCollector{stream: stream, book: book, metrics: m, l: l, done: make(chan struct{})}
}

// IsConnected returns true if the quote stream is connected.
func (c *QuoteCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		_ = c.stream.Close()
		return err
	}
	c.started.Store(true)
	go c.consume(ctx)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context) {
	defer close(c.done)
	quotes, errs := c.stream.Read(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				errs = nil
				if quotes == nil {
					return
				}
				continue
			}
			if c.stopped.Load() {
				return
			}
			c.metrics.RecordError("stream")
			c.l.Warn("quote stream error, reconnecting", applogger.Error(err))
			if rerr := c.stream.Reconnect(ctx); rerr != nil {
				c.l.Error("quote stream reconnect failed", applogger.Error(rerr))
				return
			}
			quotes, errs = c.stream.Read(ctx)
		case q, ok := <-quotes:
			if !ok {
				quotes = nil
				if errs == nil || c.stopped.Load() {
					return
				}
				continue
			}
			if q != nil {
				c.book.Update(*q)
			}
		}
	}
}

// Shutdown closes the stream and waits for the consumer to exit.
func (c *QuoteCollector) Shutdown(ctx context.Context) error {
	c.stopped.Store(true)
	err := c.stream.Close()
	if !c.started.Load() {
		return err
	}
	select {
	case <-c.done:
	case <-ctx.Done():
	}
	return err
}
