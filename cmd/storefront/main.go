package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/notify"
	"storefront/internal/router"
	"storefront/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the durable cart slot with Postgres and local file fallback
	var slot storage.Slot

	if cfg.Database.Enabled {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to connect to database, falling back to local file storage")
		} else {
			defer pool.Close()
			slot, err = storage.NewPostgresSlot(ctx, pool, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise postgres slot, falling back to local file storage")
				slot = nil
			}
		}
	}

	if slot == nil {
		slot, err = storage.NewFileSlot(cfg.Storage.DataDir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize file storage: %w", err)
		}
		logger.Info().Str("dir", cfg.Storage.DataDir).Msg("using local file storage for the cart slot")
	}

	// Initialize the notification feed
	feed := notify.NewFeed(50, logger)

	// Initialize the cart store and restore persisted state
	store := cart.NewStore(slot, cfg.Storage.CartSlot, feed, logger)
	store.Load(ctx)
	defer store.Close()

	// One-shot catalogue fetch; a failure leaves the storefront running with
	// an empty product list
	client := catalog.NewClient(cfg.Catalog, logger)

	fetchCtx, fetchCancel := context.WithTimeout(ctx, time.Duration(cfg.Catalog.FetchTimeout)*time.Second)
	products, err := client.FetchProducts(fetchCtx)
	fetchCancel()
	if err != nil {
		logger.Warn().Err(err).Msg("catalog fetch failed, serving an empty product list")
		products = nil
	}

	cat := catalog.New(products, cfg.Catalog.FallbackMaxPrice)
	logger.Info().
		Int("products", cat.Len()).
		Int("categories", len(cat.Categories())).
		Float64("max_price", cat.MaxPrice()).
		Msg("catalog initialised")

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(cat, client, logger)
	cartHandler := handler.NewCartHandler(store, cat, logger)
	notificationHandler := handler.NewNotificationHandler(feed, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, notificationHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
