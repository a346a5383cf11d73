package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	"github.com/silkmart/support-assistant/internal/domain/ingest"
	"github.com/silkmart/support-assistant/internal/domain/storefront"
	"github.com/silkmart/support-assistant/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle and exposes the domain
// services to the CLI commands.
type App struct {
	cfg           *config.Config
	logger        *slog.Logger
	server        *http.Server
	assistantSvc  assistant.Service
	ingestSvc     *ingest.Service
	storefrontSvc *storefront.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, assistantSvc assistant.Service, ingestSvc *ingest.Service, storefrontSvc *storefront.Service) *App {
	return &App{
		cfg:           cfg,
		logger:        logger.With("component", "bootstrap"),
		server:        server,
		assistantSvc:  assistantSvc,
		ingestSvc:     ingestSvc,
		storefrontSvc: storefrontSvc,
	}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the root logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Assistant returns the question answering service.
func (a *App) Assistant() assistant.Service { return a.assistantSvc }

// Ingest returns the ingestion service.
func (a *App) Ingest() *ingest.Service { return a.ingestSvc }

// Storefront returns the read-only shop lookup service.
func (a *App) Storefront() *storefront.Service { return a.storefrontSvc }
