package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/lifecycle"

	httpadapter "github.com/aretw0/hfstol/pkg/adapters/http"
	mcpadapter "github.com/aretw0/hfstol/pkg/adapters/mcp"
)

// ShutdownTimeout bounds the graceful shutdown of the servers.
const ShutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the lookup API for the app's analyzers.
func NewHTTPHandler(app *App) http.Handler {
	opts := []httpadapter.Option{httpadapter.WithLogger(app.Logger)}
	if app.Config.Server.Metrics {
		opts = append(opts, httpadapter.WithMetrics(app.Metrics.Handler()))
	}
	return httpadapter.NewHandler(app.Registry, opts...)
}

// RunServe loads the analyzers and serves the HTTP API on addr (or the
// configured address) until ctx is done. Catalog changes reload the analyzers.
func RunServe(ctx context.Context, app *App, addr string) error {
	if addr == "" {
		addr = app.Config.Server.Addr
	}
	if err := app.Load(ctx); err != nil {
		return err
	}

	watchCatalog(ctx, app)

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHTTPHandler(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		app.Logger.Info("Starting hfstol server", "address", addr, "analyzers", app.Registry.Names())
		serverErrors <- srv.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		app.Logger.Info("Start shutdown", "cause", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		app.Logger.Info("hfstol server stopped gracefully")
		return nil
	}
}

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// RunMCP loads the analyzers and serves them as MCP tools.
func RunMCP(ctx context.Context, app *App, transport, addr, baseURL string) error {
	if err := app.Load(ctx); err != nil {
		return err
	}
	watchCatalog(ctx, app)

	srv := mcpadapter.NewServer(app.Registry, app.Logger)

	switch transport {
	case TransportStdio:
		app.Logger.Info("Starting hfstol MCP server (stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		if addr == "" {
			addr = app.Config.Server.Addr
		}
		err := srv.ServeSSE(ctx, addr, baseURL)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
	}
}

// watchCatalog reloads the analyzers on catalog changes until ctx is done.
func watchCatalog(ctx context.Context, app *App) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		if err := app.Registry.Watch(ctx); err != nil {
			app.Logger.Error("catalog watch stopped", "err", err)
			return err
		}
		return nil
	})
}
