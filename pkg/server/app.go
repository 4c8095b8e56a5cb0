package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "FinDash/internal/domain/repository"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/usecase"
	"FinDash/pkg/config"
	xhttp "FinDash/pkg/http"
	applogger "FinDash/pkg/logger"
)

const sweepInterval = time.Minute

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	l         *applogger.Logger
	http      *xhttp.Server
	collector *usecase.QuoteCollector
	limiter   *ratelimit.Limiter
	storage   domrepo.Storage
	publisher domrepo.Publisher
}

// New creates a new App instance. collector may be nil when live quotes are off.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	collector *usecase.QuoteCollector,
	limiter *ratelimit.Limiter,
	storage domrepo.Storage,
	publisher domrepo.Publisher,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:       cfg,
		l:         l,
		http:      srv,
		collector: collector,
		limiter:   limiter,
		storage:   storage,
		publisher: publisher,
	}
}

// Run starts the application and blocks until ctx is done or an interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.collector != nil {
		if err := a.collector.Start(ctx); err != nil {
			// Quotes only refine momentum; serve without them.
			a.l.Warn("quote stream unavailable", applogger.Error(err))
		} else {
			a.l.Info("quote stream started", applogger.Strings("symbols", a.cfg.Market.Symbols))
		}
	}

	if err := a.http.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return errors.Join(err, a.shutdown())
	}

	if a.limiter != nil {
		go a.sweep(ctx)
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) sweep(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Sweep(); n > 0 {
				a.l.Debug("rate limiter swept", applogger.Int("keys", n))
			}
		}
	}
}

// shutdown stops the HTTP server first so no request sees closed storage.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.http.ShutdownTimeout())
	defer cancel()

	var errs []error
	if err := a.http.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.l.Warn("quote stream stop error", applogger.Error(err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.l.Warn("storage close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.l.Info("shutdown complete")
	return errors.Join(errs...)
}
