/*
main.go - Invoice API server entry point

PURPOSE:
  Initializes and starts the invoice API server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and load YAML config
  2. Open the invoice store (file or SQLite)
  3. Wire providers, reconciler, and settlement watcher
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config path (default: invoiceflow.yaml)
  -listen  Listen address, overrides config (e.g. ":8080")
  -store   Store path, overrides config; a .db suffix selects SQLite

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the settlement watcher
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Config file format
*/
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aliveevie/invoice-flow-btc/api"
	"github.com/aliveevie/invoice-flow-btc/config"
	"github.com/aliveevie/invoice-flow-btc/provider"
	"github.com/aliveevie/invoice-flow-btc/reconcile"
	"github.com/aliveevie/invoice-flow-btc/store"
	"github.com/aliveevie/invoice-flow-btc/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "invoiceflow.yaml", "YAML config path")
	listen := flag.String("listen", "", "listen address (overrides config)")
	storePath := flag.String("store", "", "store path (overrides config; .db selects SQLite)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
		cfg.Store.Driver = "file"
		if strings.HasSuffix(*storePath, ".db") {
			cfg.Store.Driver = "sqlite"
		}
	}

	// Initialize store
	var medium store.Medium
	switch cfg.Store.Driver {
	case "sqlite":
		db, err := sqlite.New(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open sqlite store", "path", cfg.Store.Path, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		medium = db
	default:
		medium = store.NewFile(cfg.Store.Path)
	}
	gateway := store.NewGateway(medium, logger)

	// Providers
	primary := provider.NewBlockchainInfo()
	primary.BaseURL = cfg.Providers.PricePrimaryURL
	primary.Client.Timeout = cfg.Providers.PriceTimeout.Std()

	fallback := provider.NewCoinbase()
	fallback.BaseURL = cfg.Providers.PriceFallbackURL
	fallback.Client.Timeout = cfg.Providers.PriceTimeout.Std()

	prices := &provider.Chain{Sources: []provider.PriceSource{primary, fallback}}

	balances := provider.NewBlockchair()
	balances.BaseURL = cfg.Providers.BalanceURL
	balances.Client.Timeout = cfg.Providers.BalanceTimeout.Std()

	// Reconciliation
	reconciler := reconcile.New(balances, gateway, logger)
	watcher := reconcile.NewWatcher(reconciler, cfg.WatchInterval.Std(), logger)
	watcher.Start()
	defer watcher.Stop()

	// HTTP server
	handler := api.NewHandler(gateway, prices, reconciler, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Listen, "store", cfg.Store.Path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
