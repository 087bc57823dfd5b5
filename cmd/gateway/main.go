package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DanielPopoola/checkout-link-gateway/internal/adapters/handler"
	"github.com/DanielPopoola/checkout-link-gateway/internal/adapters/signer"
	"github.com/DanielPopoola/checkout-link-gateway/internal/api"
	"github.com/DanielPopoola/checkout-link-gateway/internal/config"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting checkout link gateway",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"provider", cfg.Provider,
	)

	ctx := context.Background()
	doc, err := api.LoadSpec(ctx)
	if err != nil {
		logger.Error("failed to load api document", "error", err)
		os.Exit(1)
	}
	docs, err := api.DocsHandler(doc)
	if err != nil {
		logger.Error("failed to build docs handler", "error", err)
		os.Exit(1)
	}

	integritySigner := signer.NewHMACSigner(cfg.Provider)
	checkoutService := service.NewCheckoutService(integritySigner, cfg.Provider)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, cfg.Server.MaxBodyBytes, logger)

	router := handler.NewRouter(checkoutHandler, logger, handler.RouterOptions{
		RequestTimeout: cfg.Server.RequestTimeout,
		Docs:           docs,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
