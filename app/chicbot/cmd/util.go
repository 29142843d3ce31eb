package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/chicbot/chicbot/internal/assistant"
	"github.com/chicbot/chicbot/internal/config"
	"github.com/chicbot/chicbot/internal/session"
	"github.com/chicbot/chicbot/internal/telemetry"
	"github.com/chicbot/chicbot/internal/transport"
)

func setupContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		log.Println("Interrupt signal detected, shutting down gracefully...")
		cancel()
		<-interrupt
		log.Fatal("Forcing shutdown")
	}()

	return ctx
}

func createAssistantClient() *assistant.HTTPClient {
	httpClient := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: transport.WithLogging(nil, "chicbot-cli/"+version),
	}
	return assistant.NewHTTPClient(cfg.APIBaseURL, httpClient)
}

// createHistoryStore picks the configured persistence backend. The returned
// cleanup function releases backend resources and is safe to call once.
func createHistoryStore() (session.HistoryStore, func(), error) {
	path, err := cfg.ResolveHistoryPath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve history path: %w", err)
	}

	if cfg.HistoryBackend == config.BackendSQLite {
		store, err := session.NewSQLiteHistoryStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite history: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	}
	return session.NewFileHistoryStore(path), func() {}, nil
}

func createTelemetryProvider(ctx context.Context) (*telemetry.Provider, error) {
	telemetryConfig := telemetry.Config{
		Enabled:      cfg.TelemetryEnabled,
		OTLPEndpoint: cfg.OTLPEndpoint,
	}
	return telemetry.NewProvider(ctx, telemetryConfig, version)
}
