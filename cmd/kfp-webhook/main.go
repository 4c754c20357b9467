package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/kfp-webhook/internal/application/relay"
	"github.com/aescanero/kfp-webhook/internal/config"
	"github.com/aescanero/kfp-webhook/pkg/adapters/credentials/file"
	"github.com/aescanero/kfp-webhook/pkg/adapters/kubeflow"
	"github.com/aescanero/kfp-webhook/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/kfp-webhook/pkg/api/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	webhookToken := "not configured"
	if cfg.Webhook.Token != "" {
		webhookToken = "configured"
	}

	logger.Info("starting webhook server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("kubeflow_endpoint", cfg.Kubeflow.Endpoint),
		zap.String("pipeline_id", cfg.DisplayPipelineID()),
		zap.String("kubeflow_token_path", cfg.Kubeflow.TokenPath),
		zap.String("webhook_token", webhookToken))

	if cfg.Webhook.Token == "" {
		if cfg.Webhook.RejectEmptyToken {
			logger.Warn("WEBHOOK_TOKEN is not set, all trigger requests will be rejected")
		} else {
			logger.Warn("WEBHOOK_TOKEN is not set, triggers are accepted with an empty bearer token")
		}
	}

	// Metrics
	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsCollector := prometheus.NewCollector(registry)

	// Initialize adapters
	tokenFile := file.NewTokenFile(cfg.Kubeflow.TokenPath)

	pipelines := kubeflow.NewClient(&kubeflow.Config{
		Endpoint: cfg.Kubeflow.Endpoint,
		Timeout:  cfg.Kubeflow.RequestTimeout,
		Logger:   logger,
	})

	relaySvc := relay.NewService(&relay.Config{
		DefaultPipelineID: cfg.Kubeflow.PipelineID,
		Runs:              pipelines,
		Credentials:       tokenFile,
		Metrics:           metricsCollector,
		Logger:            logger,
	})

	httpServer := http.NewServer(&http.Config{
		Port:              cfg.Port,
		ReadHeaderTimeout: cfg.Timeouts.ReadHeaderTimeout,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		Relay:             relaySvc,
		Authenticator:     relay.NewAuthenticator(cfg.Webhook.Token, cfg.Webhook.RejectEmptyToken),
		TokenProbe:        tokenFile,
		KubeflowEndpoint:  cfg.Kubeflow.Endpoint,
		DefaultPipelineID: cfg.Kubeflow.PipelineID,
		Metrics:           metricsCollector,
		Gatherer:          registry,
		Logger:            logger,
	})

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("webhook server started", zap.String("addr", cfg.GetHTTPAddr()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("webhook server shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
