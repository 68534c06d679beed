package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banking_core/internal/api"
	"banking_core/internal/clock"
	"banking_core/internal/config"
	"banking_core/internal/engine"
	"banking_core/internal/repository/memory"
	"banking_core/internal/service"
	"banking_core/pkg/crypto"
	"banking_core/pkg/metrics"
)

const (
	appName = "banking_core"
)

func main() {
	logger := setupLogger()
	cfg := config.Load()
	logger.Info("Starting application",
		slog.String("name", appName),
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("timezone", cfg.Timezone))

	systemClock, err := clock.NewSystemClock(cfg.Timezone)
	if err != nil {
		logger.Error("Invalid timezone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metricsCollector := metrics.NewMetricsCollector(logger)
	signer := crypto.NewSigner(cfg.SigningKey, logger)

	accountRepo := memory.NewAccountRepository()
	cardRepo := memory.NewCardRepository()
	cardTypeRepo := memory.NewCardTypeRepository()
	transactionRepo := memory.NewTransactionRepository()
	customerRepo := memory.NewCustomerRepository()

	txEngine := engine.NewTransactionEngine(accountRepo, cardRepo, cardTypeRepo, transactionRepo, systemClock, logger)
	notificationService := setupNotificationService(cfg.NotificationWorkers, logger)

	apiHandler := api.NewAPIHandler(txEngine, customerRepo, notificationService, metricsCollector, signer, logger)
	metricsServer := metricsCollector.StartMetricsServer(cfg.MetricsAddr)
	httpServer := startHTTPServer(cfg.HTTPAddr, apiHandler, logger)
	waitForShutdown(logger, httpServer, metricsServer, notificationService)
	logger.Info("Application shutdown complete")
}

func setupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func setupNotificationService(workers int, logger *slog.Logger) *service.NotificationService {
	emailService := &service.MockEmailService{}
	smsService := &service.MockSMSService{}

	return service.NewNotificationService(
		emailService,
		smsService,
		workers,
		logger,
	)
}

func startHTTPServer(addr string, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	apiHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "status": "ok"}`, appName)
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(
	logger *slog.Logger,
	httpServer *http.Server,
	metricsServer *http.Server,
	notificationService *service.NotificationService,
) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}

	if err := notificationService.Shutdown(ctx); err != nil {
		logger.Error("Notification service shutdown failed", slog.String("error", err.Error()))
	}
}
