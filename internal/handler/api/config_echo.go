package api

import (
	"net/http"

	"SignalBoard/internal/domain/models"
	"SignalBoard/internal/usecase"
	xhttp "SignalBoard/pkg/http"
	"SignalBoard/pkg/http/middleware"
	xlogger "SignalBoard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ConfigEchoHandler serves the configuration endpoints.
type ConfigEchoHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.ConfigUseCase
	limiter *middleware.Limiter
}

// NewConfigEchoHandler creates the handler. A nil limiter leaves saves unlimited.
func NewConfigEchoHandler(logger *xlogger.Logger, uc *usecase.ConfigUseCase, limiter *middleware.Limiter) *ConfigEchoHandler {
	return &ConfigEchoHandler{logger: logger, uc: uc, limiter: limiter}
}

func (h *ConfigEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/config", h.GetConfig)
	g.GET("/stocks/enabled", h.EnabledStocks)

	var saveMW []echo.MiddlewareFunc
	if h.limiter != nil {
		saveMW = append(saveMW, middleware.RateLimit(h.limiter))
	}
	g.POST("/save_stock_list", h.SaveStockList, saveMW...)
	g.POST("/save_strategy", h.SaveStrategy, saveMW...)
}

func (h *ConfigEchoHandler) GetConfig(c echo.Context) error {
	view, err := h.uc.View(c.Request().Context())
	if err != nil {
		h.logger.Error("get config usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, view)
}

func (h *ConfigEchoHandler) EnabledStocks(c echo.Context) error {
	codes, err := h.uc.EnabledStocks(c.Request().Context())
	if err != nil {
		h.logger.Error("enabled stocks usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.ListResponse(c, codes, int64(len(codes)))
}

func (h *ConfigEchoHandler) SaveStockList(c echo.Context) error {
	var stocks []models.WireStock
	if verr := xhttp.ReadAndValidateList(c, &stocks); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.SaveWatchlist(c.Request().Context(), stocks)
	if err != nil {
		h.logger.Error("save stock list usecase error",
			xlogger.Int("count", len(stocks)),
			xlogger.String("request_id", middleware.RequestIDFrom(c)),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.MessageResponse(c, http.StatusOK, res.Message, res)
}

func (h *ConfigEchoHandler) SaveStrategy(c echo.Context) error {
	req := &models.SaveStrategyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.SaveStrategy(c.Request().Context(), req.Config)
	if err != nil {
		h.logger.Error("save strategy usecase error",
			xlogger.Strings("keys", req.Config.Keys()),
			xlogger.String("request_id", middleware.RequestIDFrom(c)),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.MessageResponse(c, http.StatusOK, res.Message, res)
}
