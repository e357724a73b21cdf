package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/RahulSaini202/home-automation/internal/config"
	"github.com/RahulSaini202/home-automation/internal/core"
	"github.com/RahulSaini202/home-automation/internal/ingest/mqtt"
	"github.com/RahulSaini202/home-automation/internal/service/homes"
	"github.com/RahulSaini202/home-automation/internal/store"
	"github.com/RahulSaini202/home-automation/internal/store/sqlite"
	"github.com/RahulSaini202/home-automation/internal/telemetry/influx"
	transporthttp "github.com/RahulSaini202/home-automation/internal/transport/http"
)

// App wires together core, storage, ingestion and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	history         *influx.Writer
	subscriber      *mqtt.Subscriber
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	a := &App{
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}

	var recorder core.Recorder
	if cfg.Influx.Enabled {
		history, err := influx.Connect(ctx, cfg.Influx, logger)
		if err != nil {
			a.cleanup()
			return nil, fmt.Errorf("init influx: %w", err)
		}
		a.history = history
		recorder = history
		logger.Info().Str("url", cfg.Influx.URL).Str("bucket", cfg.Influx.Bucket).Msg("sensor history enabled")
	}

	a.hub = core.NewHub(core.Options{
		DisconnectOnLeave: cfg.Relay.DisconnectOnLeave,
		ClientBuffer:      cfg.Relay.ClientBuffer,
	}, logger)
	relay := core.NewRelay(a.hub, recorder, cfg.Relay.ScopedIngestion, logger)
	homesService := homes.New(st)

	if cfg.MQTT.Enabled {
		sub, err := mqtt.Connect(cfg.MQTT, relay, logger)
		if err != nil {
			a.cleanup()
			return nil, fmt.Errorf("init mqtt: %w", err)
		}
		a.subscriber = sub
	}

	a.server = transporthttp.NewServer(a.hub, relay, homesService, cfg, logger)
	return a, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go a.hub.Run(hubCtx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup stops ingestion first so nothing publishes into a closing relay.
func (a *App) cleanup() {
	if a.subscriber != nil {
		if err := a.subscriber.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close mqtt subscriber")
		}
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to flush sensor history")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
