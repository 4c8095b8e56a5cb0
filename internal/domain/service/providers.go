package service

import (
	"context"
	"errors"

	"FinDash/internal/domain/models"
	"FinDash/internal/domain/repository"
)

var (
	// ErrNotFound is returned by providers when the symbol or series does not exist upstream.
	ErrNotFound = errors.New("not found")
	// ErrNoData means the upstream answered but carried no usable rows.
	ErrNoData = errors.New("no data")
)

// MarketDataProvider returns up to bars price bars, oldest first.
type MarketDataProvider interface {
	Name() string
	Bars(ctx context.Context, symbol string, iv repository.Interval, bars int) ([]models.PriceBar, error)
}

// MacroProvider returns up to limit observations of an economic series, oldest first.
type MacroProvider interface {
	Observations(ctx context.Context, seriesID, units string, limit int) ([]models.ObservationPoint, error)
}
