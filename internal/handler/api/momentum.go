package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/metrics"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"
	"FinDash/pkg/util"
)

type MomentumService interface {
	Rank(ctx context.Context, symbols []string) ([]models.RelativeStrengthScore, error)
}

type MomentumHandler struct {
	logger   *xlogger.Logger
	svc      MomentumService
	universe []string
	metrics  *metrics.Endpoint
}

// NewMomentumHandler ranks universe when a request names no symbols.
func NewMomentumHandler(logger *xlogger.Logger, svc MomentumService, universe []string, m *metrics.Endpoint) *MomentumHandler {
	return &MomentumHandler{logger: logger, svc: svc, universe: universe, metrics: m}
}

func (h *MomentumHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/momentum", h.Rank)
}

func (h *MomentumHandler) Rank(c echo.Context) error {
	code := ""
	defer h.metrics.Observe("momentum", time.Now(), &code)

	req := &models.MomentumRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		code = "ERR_VALIDATION"
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := util.SplitSymbols(req.Symbols)
	if len(symbols) == 0 {
		symbols = h.universe
	}
	if len(symbols) > 50 {
		code = "ERR_BAD_REQUEST"
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("at most 50 symbols per request").WithParam("max", 50))
	}
	res, err := h.svc.Rank(c.Request().Context(), symbols)
	if err != nil {
		code = fail(h.logger, "momentum", err)
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.ListResponse(c, res, int64(len(res)))
}
