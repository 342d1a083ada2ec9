package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/k8s-demo/order-service/internal/config"
	"github.com/k8s-demo/order-service/internal/handlers"
	"github.com/k8s-demo/order-service/internal/middleware"
	"github.com/k8s-demo/order-service/internal/notify"
	"github.com/k8s-demo/order-service/internal/repository"
	"github.com/k8s-demo/order-service/internal/router"
	"github.com/k8s-demo/order-service/internal/service"
	"github.com/k8s-demo/order-service/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	log.Info("starting order service",
		"version", version,
		"address", cfg.Server.Addr(),
		"log_level", cfg.LogLevel,
		"metrics", cfg.Metrics.Enabled,
		"notifications", cfg.Notify.Enabled(),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []service.Option{service.WithLogger(log)}

	if cfg.Notify.Enabled() {
		notifier, err := notify.Dial(ctx, cfg.Notify.RabbitMQURL, cfg.Notify.Queue, config.Seconds(cfg.Notify.Timeout), log)
		if err != nil {
			return fmt.Errorf("failed to set up order notifications: %w", err)
		}
		defer func() {
			if err := notifier.Close(); err != nil {
				log.Error("failed to close notifier", "error", err)
			}
		}()
		opts = append(opts, service.WithNotifier(notifier))
	}

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = middleware.NewMetrics(reg)
		opts = append(opts, service.WithRecorder(metrics))
	}

	orderService := service.NewOrderService(
		repository.NewSampleOrderRepository(),
		service.NewRandomIDGenerator(),
		opts...,
	)

	handler := router.New(
		handlers.NewOrderHandler(orderService, log),
		handlers.NewHealthHandler(orderService, log),
		router.Options{
			Logger:         log,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: config.Seconds(cfg.Server.RequestTimeout),
			Metrics:        metrics,
			MetricsPath:    cfg.Metrics.Path,
		},
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  config.Seconds(cfg.Server.ReadTimeout),
		WriteTimeout: config.Seconds(cfg.Server.WriteTimeout),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.Server.ShutdownTimeout))
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()

	drainCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.Notify.Timeout))
	defer cancel()
	if derr := orderService.Drain(drainCtx); derr != nil {
		log.Warn("pending order notifications not delivered", "error", derr)
	}

	if err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
