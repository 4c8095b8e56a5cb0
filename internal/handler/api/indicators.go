package api

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/metrics"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"
)

type IndicatorsService interface {
	Snapshot(ctx context.Context, symbol string, period int) (*models.IndicatorSnapshot, error)
	RSISeries(ctx context.Context, symbol string, period int) ([]models.RSIPoint, error)
}

type IndicatorsHandler struct {
	logger  *xlogger.Logger
	svc     IndicatorsService
	metrics *metrics.Endpoint
}

func NewIndicatorsHandler(logger *xlogger.Logger, svc IndicatorsService, m *metrics.Endpoint) *IndicatorsHandler {
	return &IndicatorsHandler{logger: logger, svc: svc, metrics: m}
}

func (h *IndicatorsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/indicators")
	g.GET("", h.Snapshot)
	g.GET("/rsi/series", h.RSISeries)
}

func (h *IndicatorsHandler) Snapshot(c echo.Context) error {
	code := ""
	defer h.metrics.Observe("indicators", time.Now(), &code)

	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		code = "ERR_VALIDATION"
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.svc.Snapshot(c.Request().Context(), strings.ToUpper(req.Symbol), req.Period)
	if err != nil {
		code = fail(h.logger, "indicators", err)
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *IndicatorsHandler) RSISeries(c echo.Context) error {
	code := ""
	defer h.metrics.Observe("rsi_series", time.Now(), &code)

	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		code = "ERR_VALIDATION"
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.svc.RSISeries(c.Request().Context(), strings.ToUpper(req.Symbol), req.Period)
	if err != nil {
		code = fail(h.logger, "rsi_series", err)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}
