package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/elum-utils/safetymonitor/adapters/ai"
	"github.com/elum-utils/safetymonitor/adapters/notify"
	"github.com/elum-utils/safetymonitor/analyzer"
	"github.com/elum-utils/safetymonitor/core"
	"github.com/elum-utils/safetymonitor/interfaces"
	"github.com/elum-utils/safetymonitor/logging"
	"github.com/elum-utils/safetymonitor/metrics"
	"github.com/elum-utils/safetymonitor/server"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the moderation webhook server",
	Long: `Start the HTTP server exposing /webhook, /health, /integration-config
and, when enabled, /metrics.

Examples:
  # Start with defaults and environment overrides
  safetymonitor serve

  # Start with a configuration file on another port
  safetymonitor serve --config /etc/safetymonitor.yaml --listen :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Logging.Level = serveFlags.logLevel
	}

	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStorage(ctx, cfg.Lexicon)
	if err != nil {
		return fmt.Errorf("open lexicon storage: %w", err)
	}
	defer closeStore()

	var (
		recorder  interfaces.Recorder
		collector *metrics.Collector
	)
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.Options{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
		}, nil)
		recorder = collector
	}

	registry := ai.NewRegistry(ai.RegistryOptions{
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	})
	if cfg.AI.APIKey != "" {
		if _, err := registry.ClientFor(cfg.AI.APIKey); err != nil {
			logger.Warn("AI client not initialized", map[string]any{"error": err.Error()})
		}
	} else {
		logger.Warn("no AI API key configured; AI checks will block until a key is supplied", nil)
	}

	pipeline := core.New(core.Options{
		Analyzer: analyzer.New(analyzer.Options{
			Provider: registry,
			Recorder: recorder,
			Logger:   logger,
		}),
		Storage:        store,
		Recorder:       recorder,
		Logger:         logger,
		FallbackAPIKey: cfg.AI.APIKey,
		SyncInterval:   cfg.Lexicon.SyncInterval,
	})
	if err := pipeline.SyncOnce(ctx); err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}

	if collector != nil {
		ns := cfg.Metrics.Namespace
		if ns == "" {
			ns = metrics.DefaultNamespace
		}
		if err := collector.RegisterGauge(ns, "lexicon_words", "Number of words in the profanity lexicon", func() float64 {
			return float64(pipeline.LexiconSize())
		}); err != nil {
			return err
		}
	}

	go func() {
		if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("lexicon sync stopped", map[string]any{"error": err.Error()})
		}
	}()

	if fa, ok := store.(watcher); ok && cfg.Lexicon.File.Watch {
		go func() {
			err := fa.Watch(ctx,
				func() {
					if err := pipeline.SyncOnce(ctx); err != nil {
						logger.Warn("lexicon reload failed", map[string]any{"error": err.Error()})
						return
					}
					logger.Info("lexicon reloaded", map[string]any{"words": pipeline.LexiconSize()})
				},
				func(err error) {
					logger.Warn("lexicon watch error", map[string]any{"error": err.Error()})
				},
			)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("lexicon watch stopped", map[string]any{"error": err.Error()})
			}
		}()
	}

	var notifier server.Notifier
	if cfg.Notify.ReturnURL != "" {
		n, err := notify.NewNotifier(notify.Options{
			ReturnURL:        cfg.Notify.ReturnURL,
			DefaultChannelID: cfg.Notify.DefaultChannelID,
			Timeout:          cfg.Notify.Timeout,
			Logger:           logger,
		})
		if err != nil {
			return err
		}
		notifier = n
	}

	gin.SetMode(gin.ReleaseMode)
	opt := server.Options{
		Moderator:    pipeline,
		Notifier:     notifier,
		Logger:       logger,
		MetricsPath:  cfg.Metrics.Path,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Integration:  cfg.Integration,
	}
	if collector != nil {
		opt.Metrics = collector.Handler()
	}
	srv, err := server.New(opt)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", map[string]any{"addr": httpServer.Addr, "lexicon_backend": cfg.Lexicon.Backend})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down", nil)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped", nil)
	return nil
}
