package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/mailer"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience; the file is absent in deployment.
	_ = godotenv.Load()

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

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)
	oplogRepo := repository.NewOperationLogRepository(pool, logger)
	deviceRepo := repository.NewDeviceRepository(pool, logger)

	// Gateway callback codec from the pre-shared key material
	codec, err := payment.NewCodec(cfg.Payment.HashKey, cfg.Payment.HashIV)
	if err != nil {
		return fmt.Errorf("failed to initialize payment codec: %w", err)
	}

	// Optional outbound card-payment leg
	var intents payment.IntentCreator
	if cfg.Payment.StripeEnabled {
		intents = payment.NewStripeGateway(cfg.Payment.StripeAPIKey, logger)
		logger.Info().Msg("stripe payment intents enabled")
	}

	// Moderation mail, nop when SMTP is not configured
	var notifier mailer.Notifier = mailer.NopNotifier{}
	if cfg.SMTP.Enabled {
		notifier = mailer.NewSMTPNotifier(cfg.SMTP, logger)
	}

	tokens := auth.NewManager(cfg.Auth)
	audit := service.NewRecorder(oplogRepo, logger)

	// Initialize services
	accountService := service.NewAccountService(userRepo, audit, logger)
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, cfg.Policy, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, intents, audit, logger)
	paymentService := service.NewPaymentService(codec, orderRepo, audit, logger)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, userRepo, notifier, cfg.Policy, audit, logger)
	deviceService := service.NewDeviceService(deviceRepo, logger)
	userAdminService := service.NewUserAdminService(userRepo, orderRepo, audit, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Account: handler.NewAccountHandler(accountService, tokens, logger),
		Product: handler.NewProductHandler(productService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Order:   handler.NewOrderHandler(orderService, cartService, logger),
		Payment: handler.NewPaymentHandler(paymentService, logger),
		Review:  handler.NewReviewHandler(reviewService, logger),
		Device:  handler.NewDeviceHandler(deviceService, logger),
		Admin:   handler.NewAdminHandler(productService, orderService, reviewService, userAdminService, audit, logger),
	}

	// Initialize router
	mux := router.New(handlers, tokens, logger)

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
