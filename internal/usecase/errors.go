package usecase

import (
	"context"
	"errors"

	dservice "FinDash/internal/domain/service"
	xhttp "FinDash/pkg/http"
)

// ErrInsufficientData marks a request whose history is too short for the indicator asked for.
var ErrInsufficientData = errors.New("insufficient data")

// toAppError maps plumbing failures to API errors. AppErrors pass through.
func toAppError(err error, subject string) error {
	if err == nil {
		return nil
	}
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, dservice.ErrNotFound):
		return xhttp.NotFoundErrorf("unknown symbol or series %q", subject).WithError(err)
	case errors.Is(err, ErrInsufficientData), errors.Is(err, dservice.ErrNoData):
		return xhttp.InsufficientDataErrorf("not enough history for %q", subject).WithError(err)
	case errors.Is(err, xhttp.ErrCircuitOpen):
		return xhttp.UpstreamError("data provider temporarily unavailable").WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.UpstreamError("data provider timed out").WithError(err)
	default:
		return xhttp.UpstreamError("data provider request failed").WithError(err)
	}
}
