package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/stockboard/stockboard/internal/catalog"
	"github.com/stockboard/stockboard/internal/config"
	"github.com/stockboard/stockboard/internal/logging"
	"github.com/stockboard/stockboard/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded", "config", cfg.String(), "seed_demo", cfg.Seed.Demo)

	store := catalog.NewStore()
	if cfg.Seed.Demo {
		if err := store.Seed(catalog.DemoProducts()); err != nil {
			slog.Error("failed to seed demo products", "error", err)
			os.Exit(1)
		}
		slog.Info("seeded demo products", "count", store.Len())
	}

	importer := catalog.NewImporter(store,
		catalog.WithMaxConcurrentImports(cfg.Import.MaxConcurrent),
		catalog.WithResultRetention(cfg.Import.ResultRetention),
	)

	server := web.NewServer(cfg, store, importer)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let any in-flight import finish before closing the listener
		if importer.ActiveCount() > 0 {
			slog.Info("waiting for imports to complete", "active", importer.ActiveCount())
			if err := importer.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
