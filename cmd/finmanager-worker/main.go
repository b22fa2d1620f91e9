package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finmanager/internal/amqp"
	"finmanager/internal/cli"
	"finmanager/internal/log"
	"finmanager/internal/metrics"
	"finmanager/internal/services"
	"finmanager/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentWorker)

	logger.Info("Starting finmanager-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	loader, err := cli.OpenLoader(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open seed loader", log.FieldError, err)
		os.Exit(1)
	}
	seed, err := cli.ReadSeed(context.Background(), loader.Loader, cfg.DataBackend, logger)
	if err != nil {
		logger.Error("Failed to load seed", log.FieldError, err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledger := services.NewLedger(seed,
		services.WithLogger(logger),
		services.WithMetrics(metrics.New(reg)),
	)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Serving metrics", "addr", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", log.FieldError, err)
			}
		}()
	}

	eventWorker := worker.NewEventWorker(ledger, logger)
	reloader := worker.NewSeedReloader(loader.Loader, ledger, cfg.SeedReloadInterval, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
		if err := loader.Close(); err != nil {
			logger.Warn("Failed to release seed loader", log.FieldError, err)
		}
		applied, skipped := eventWorker.Stats()
		reloads, failures := reloader.Stats()
		logger.Info("Worker stopped",
			"applied", applied,
			"skipped", skipped,
			"reloads", reloads,
			"reload_failures", failures,
			"alerts", len(ledger.Current().Alerts()))
	})

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go reloader.Run(ctx, hup)

	go func() {
		err := amqpClient.ConsumeWithReconnect(ctx, eventWorker.HandleTransactionAdded)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
