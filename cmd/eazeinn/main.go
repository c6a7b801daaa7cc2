package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eazeinn/accounts/internal/app"
	"github.com/eazeinn/accounts/internal/insights"
	"github.com/eazeinn/accounts/internal/ledger"
	"github.com/eazeinn/accounts/internal/observability"
	"github.com/eazeinn/accounts/internal/payments"
	"github.com/eazeinn/accounts/internal/procurement"
	"github.com/eazeinn/accounts/internal/sales"
	"github.com/eazeinn/accounts/internal/settings"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("create data directory", slog.Any("error", err))
		os.Exit(1)
	}

	ledgerRepo := ledger.NewRepository(filepath.Join(cfg.DataDir, "inventory.json"), logger, metrics)
	ledgerService := ledger.NewService(ledgerRepo, logger, metrics)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	salesRepo := sales.NewRepository(cfg.DataDir, logger, metrics)
	salesService := sales.NewService(salesRepo, ledgerService, logger)
	salesHandler := sales.NewHandler(logger, salesService)

	procurementRepo := procurement.NewRepository(cfg.DataDir, logger, metrics)
	procurementService := procurement.NewService(procurementRepo, ledgerService, logger)
	procurementHandler := procurement.NewHandler(logger, procurementService)

	paymentsRepo := payments.NewRepository(cfg.DataDir, logger, metrics)
	paymentsService := payments.NewService(paymentsRepo, salesService, procurementService, logger)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	settingsService := settings.NewService(cfg.DataDir, logger)
	settingsHandler := settings.NewHandler(logger, settingsService)

	threshold := decimal.NewFromInt(cfg.LowStockThreshold)
	insightsService := insights.NewService(ledgerService, salesService, procurementService, threshold)
	insightsHandler := insights.NewHandler(logger, insightsService, settingsService)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		LedgerHandler:      ledgerHandler,
		SalesHandler:       salesHandler,
		ProcurementHandler: procurementHandler,
		PaymentsHandler:    paymentsHandler,
		SettingsHandler:    settingsHandler,
		InsightsHandler:    insightsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
