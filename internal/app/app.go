package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/KaripeHS/marketor-sub002/internal/config"
	"github.com/KaripeHS/marketor-sub002/internal/metrics"
	"github.com/KaripeHS/marketor-sub002/internal/notify"
	"github.com/KaripeHS/marketor-sub002/internal/realtime"
	transporthttp "github.com/KaripeHS/marketor-sub002/internal/transport/http"
)

// App wires together the gateway core and the HTTP transport.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	gateway         *realtime.Gateway
	dispatcher      *notify.Dispatcher
	log             zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg config.Config, logger zerolog.Logger) *App {
	m := metrics.New()
	registry := realtime.NewRegistry()
	gateway := realtime.NewGateway(registry, m, logger, cfg.SessionBuffer)
	dispatcher := notify.NewDispatcher(gateway, m, logger)
	server := transporthttp.NewServer(gateway, dispatcher, m, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		gateway:         gateway,
		dispatcher:      dispatcher,
		log:             logger,
	}
}

// Dispatcher exposes the notification dispatcher for in-process callers.
func (a *App) Dispatcher() *notify.Dispatcher {
	return a.dispatcher
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error. On cancellation the server drains connections within
// the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("addr", a.server.Addr).Msg("gateway listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
