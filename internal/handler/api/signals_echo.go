package api

import (
	models "SignalBoard/internal/domain/models"
	"SignalBoard/internal/usecase"
	xhttp "SignalBoard/pkg/http"
	xlogger "SignalBoard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsEchoHandler serves the projected signal board.
type SignalsEchoHandler struct {
	logger    *xlogger.Logger
	board     *usecase.BoardUseCase
	dashboard *usecase.DashboardUseCase
}

func NewSignalsEchoHandler(logger *xlogger.Logger, board *usecase.BoardUseCase, dashboard *usecase.DashboardUseCase) *SignalsEchoHandler {
	return &SignalsEchoHandler{logger: logger, board: board, dashboard: dashboard}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/signals/summary", h.Summary)
	g.GET("/dashboard", h.Dashboard)
}

func (h *SignalsEchoHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	board := h.board.Signals(c.Request().Context(), *req)
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, board)
}

func (h *SignalsEchoHandler) Summary(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.board.Summary(c.Request().Context()))
}

func (h *SignalsEchoHandler) Dashboard(c echo.Context) error {
	view, err := h.dashboard.Home(c.Request().Context())
	if err != nil {
		h.logger.Error("dashboard usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, view)
}
