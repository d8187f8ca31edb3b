package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/internal/checkout"
	"github.com/loganlanou/podstore/internal/jobs"
	"github.com/loganlanou/podstore/internal/merch"
	"github.com/loganlanou/podstore/internal/printful"
	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	config, err := service.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	catalogService, err := newCatalog(config)
	if err != nil {
		return err
	}

	// Initialize the cart/wishlist store
	backend, err := openStore(ctx, config)
	if err != nil {
		return err
	}
	defer backend.Close()

	if pruner, ok := backend.Backend.(jobs.Pruner); ok && config.Store.Retention > 0 {
		storePruner := jobs.NewStorePruner(pruner, config.Store.Retention, jobs.DefaultPruneInterval)
		storePruner.Start(ctx)
		defer storePruner.Stop()
	}

	gateway := checkout.NewGateway(checkout.Config{
		SecretKey: config.Stripe.SecretKey,
		StoreID:   config.Printful.StoreID,
		BaseURL:   config.BaseURL,
	})

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(service.RequestID())
	e.Use(service.RequestLogger())
	e.Use(service.SecurityHeaders())

	// Initialize service and register routes
	svc := service.New(config, catalogService, gateway, store.NewManager(backend.Backend))
	svc.RegisterRoutes(e)

	addr := fmt.Sprintf(":%s", config.Port)
	slog.Info("storefront starting",
		"url", fmt.Sprintf("http://localhost:%s", config.Port),
		"port", config.Port,
		"environment", config.Environment,
		"store", config.Store.Backend,
		"printful_configured", config.Printful.StoreID != "" && config.Printful.APIKey != "",
		"stripe_configured", config.Stripe.SecretKey != "",
	)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newCatalog(config *service.Config) (*catalog.Service, error) {
	overlay, err := merch.Load(config.MerchConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load merchandising config: %w", err)
	}

	client := newPrintfulClient(config)
	if !client.IsConfigured() {
		slog.Warn("printful is not configured; catalog requests will fail", "store_id_set", config.Printful.StoreID != "")
	}

	return catalog.NewService(client,
		catalog.WithOverlay(overlay),
		catalog.WithFanoutLimit(config.Printful.FanoutLimit),
	), nil
}

func newPrintfulClient(config *service.Config) *printful.Client {
	return printful.NewClient(printful.Config{
		BaseURL: config.Printful.APIURL,
		APIKey:  config.Printful.APIKey,
		StoreID: config.Printful.StoreID,
	})
}
