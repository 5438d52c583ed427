// Command voiceagent runs the PestAway Solutions voice receptionist: a
// websocket server that drives streamed LLM turns for live calls and
// dispatches mid-stream function calls to webhook providers.
//
// Usage:
//
//	export OPENAI_API_KEY=sk-...
//	voiceagent -config config.yaml
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pestaway/voiceagent/agent"
	"github.com/pestaway/voiceagent/config"
	"github.com/pestaway/voiceagent/dispatch"
	"github.com/pestaway/voiceagent/logger"
	metrics "github.com/pestaway/voiceagent/metrics/prometheus"
	"github.com/pestaway/voiceagent/providers"
	"github.com/pestaway/voiceagent/relay"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logger.SetVerbose(true)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	apiKey := cfg.APIKey()
	if apiKey == "" {
		logger.Error("backend API key is not set", "env", cfg.Provider.APIKeyEnv)
		os.Exit(1)
	}

	provider := providers.NewOpenAIProvider(
		cfg.Provider.Model,
		cfg.Provider.BaseURL,
		apiKey,
		cfg.Provider.StreamTimeout,
	)
	dispatcher := dispatch.NewDispatcher(
		cfg.Webhooks.CalendarURL,
		cfg.Webhooks.CRMURL,
		cfg.Webhooks.Timeout,
	)
	orch := agent.NewOrchestrator(provider, dispatcher, cfg.Provider.Temperature, cfg.Provider.MaxTokens)
	server := relay.NewServer(cfg.ListenAddr, orch, nil)

	var exporter *metrics.Exporter
	if cfg.MetricsAddr != "" {
		exporter = metrics.NewExporter(cfg.MetricsAddr)
		go func() {
			if err := exporter.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics exporter failed", "error", err)
			}
		}()
		logger.Info("metrics exporter listening", "addr", cfg.MetricsAddr)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown incomplete", "error", err)
	}
	if exporter != nil {
		if err := exporter.Shutdown(ctx); err != nil {
			logger.Warn("metrics exporter shutdown incomplete", "error", err)
		}
	}
	provider.Close()
	dispatcher.Close()

	logger.Info("voice agent stopped")
}
