package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cabinets/internal/auth"
	"cabinets/internal/config"
	"cabinets/internal/events"
	"cabinets/internal/handler"
	"cabinets/internal/registry"
	"cabinets/internal/repository"
	"cabinets/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"driver", cfg.DatabaseDriver,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := auth.NewVerifier(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer verifier.Close()

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	reg, err := registry.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load registry: %v", err)
	}
	logger.Info("registry loaded", "event_namespaces", len(reg.EventNamespaces()))

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("Failed to connect event publisher: %v", err)
		}
		publisher = rabbit
		logger.Info("event publisher connected", "exchange", cfg.AMQPExchange)
	} else {
		logger.Warn("AMQP_URL not set - events are recorded but not published")
	}
	defer publisher.Close()

	services := service.SetupServices(store, reg, publisher, logger)
	logger.Info("services initialized")

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.NewRouter(handler.RouterConfig{
			Services:       services,
			Registry:       reg,
			Verifier:       verifier,
			AllowedOrigins: cfg.AllowedOrigins(),
			Logger:         logger,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
