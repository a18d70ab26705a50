package api

import (
	"context"
	"net/http"
	"time"

	"SignalBoard/internal/usecase"
	xlogger "SignalBoard/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// StreamHandler pushes the signal board over a websocket: once on connect,
// then every interval until the client goes away.
type StreamHandler struct {
	logger       *xlogger.Logger
	board        *usecase.BoardUseCase
	interval     time.Duration
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

func NewStreamHandler(logger *xlogger.Logger, board *usecase.BoardUseCase, interval, writeTimeout time.Duration) *StreamHandler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &StreamHandler{
		logger:       logger,
		board:        board,
		interval:     interval,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/signals", h.Signals)
}

func (h *StreamHandler) Signals(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	// The server's read/write timeouts stay on the hijacked connection.
	_ = conn.SetReadDeadline(time.Time{})

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Drain client frames so control messages are handled and a close is noticed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	remote := c.RealIP()
	h.logger.Info("signal stream opened", xlogger.String("remote", remote))
	defer h.logger.Info("signal stream closed", xlogger.String("remote", remote))

	if err := h.push(ctx, conn); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(h.writeTimeout))
			return nil
		case <-ticker.C:
			if err := h.push(ctx, conn); err != nil {
				return nil
			}
		}
	}
}

func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn) error {
	board := h.board.Board(ctx)
	_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	if err := conn.WriteJSON(board); err != nil {
		h.logger.Debug("signal stream write failed", xlogger.Error(err))
		return err
	}
	return nil
}
