package api

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/metrics"
	"FinDash/internal/usecase"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"
)

type SignalsService interface {
	Signal(ctx context.Context, symbol string) (*models.TechnicalSignal, error)
	Batch(ctx context.Context, symbols []string) (*usecase.BatchResult, error)
}

// SignalsHandler serves composite BUY/SELL/HOLD signals.
type SignalsHandler struct {
	logger  *xlogger.Logger
	svc     SignalsService
	metrics *metrics.Endpoint
}

func NewSignalsHandler(logger *xlogger.Logger, svc SignalsService, m *metrics.Endpoint) *SignalsHandler {
	return &SignalsHandler{logger: logger, svc: svc, metrics: m}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/signals")
	g.GET("", h.Signal)
	g.POST("/batch", h.Batch)
}

func (h *SignalsHandler) Signal(c echo.Context) error {
	code := ""
	defer h.metrics.Observe("signals", time.Now(), &code)

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		code = "ERR_VALIDATION"
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.svc.Signal(c.Request().Context(), strings.ToUpper(req.Symbol))
	if err != nil {
		code = fail(h.logger, "signals", err)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Batch(c echo.Context) error {
	code := ""
	defer h.metrics.Observe("signals_batch", time.Now(), &code)

	req := &models.BatchSignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		code = "ERR_VALIDATION"
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := make([]string, len(req.Symbols))
	for i, s := range req.Symbols {
		symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	res, err := h.svc.Batch(c.Request().Context(), symbols)
	if err != nil {
		code = fail(h.logger, "signals_batch", err)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
