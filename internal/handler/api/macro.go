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

type MacroService interface {
	ZScores(ctx context.Context, ref usecase.SeriesRef, window int) ([]models.ZScorePoint, error)
	Anomalies(ctx context.Context, ref usecase.SeriesRef, threshold float64) ([]models.Anomaly, error)
	Regime(ctx context.Context) (*models.RegimeView, error)
}

// MacroHandler serves economic series analytics and the regime view.
type MacroHandler struct {
	logger  *xlogger.Logger
	svc     MacroService
	metrics *metrics.Endpoint
}

func NewMacroHandler(logger *xlogger.Logger, svc MacroService, m *metrics.Endpoint) *MacroHandler {
	return &MacroHandler{logger: logger, svc: svc, metrics: m}
}

func (h *MacroHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/macro/zscores", h.ZScores)
	g.GET("/macro/anomalies", h.Anomalies)
	g.GET("/regime", h.Regime)
}

func (h *MacroHandler) ZScores(c echo.Context) error {
	code := ""
	defer h.metrics.Observe("macro_zscores", time.Now(), &code)

	req := &models.MacroZScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		code = "ERR_VALIDATION"
		return xhttp.BadRequestResponse(c, verr)
	}
	ref := usecase.SeriesRef{ID: strings.ToUpper(req.Series), Units: req.Units}
	res, err := h.svc.ZScores(c.Request().Context(), ref, req.Window)
	if err != nil {
		code = fail(h.logger, "macro_zscores", err)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *MacroHandler) Anomalies(c echo.Context) error {
	code := ""
	defer h.metrics.Observe("macro_anomalies", time.Now(), &code)

	req := &models.MacroAnomalyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		code = "ERR_VALIDATION"
		return xhttp.BadRequestResponse(c, verr)
	}
	ref := usecase.SeriesRef{ID: strings.ToUpper(req.Series), Units: req.Units}
	res, err := h.svc.Anomalies(c.Request().Context(), ref, req.Threshold)
	if err != nil {
		code = fail(h.logger, "macro_anomalies", err)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *MacroHandler) Regime(c echo.Context) error {
	code := ""
	defer h.metrics.Observe("regime", time.Now(), &code)

	res, err := h.svc.Regime(c.Request().Context())
	if err != nil {
		code = fail(h.logger, "regime", err)
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=3600")
	return xhttp.SuccessResponse(c, res)
}
