package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SignalBoard/pkg/config"
	xhttp "SignalBoard/pkg/http"
	applogger "SignalBoard/pkg/logger"
)

// App encapsulates the application lifecycle. Backends are owned by the
// injector and released by its cleanup function after Run returns.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server) *App {
	return &App{cfg: cfg, l: l, httpServer: srv}
}

// Run starts the HTTP server and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("signalboard started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("store", a.cfg.Store.Type),
		applogger.String("snapshots", a.cfg.Snapshots.Source),
	)

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops the HTTP server.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.l.Info("shutdown complete")
	return nil
}
