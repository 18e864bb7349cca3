package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/haasonsaas/agrisense/internal/alerts"
	"github.com/haasonsaas/agrisense/internal/config"
	"github.com/haasonsaas/agrisense/internal/ingest"
	"github.com/haasonsaas/agrisense/internal/llm"
	"github.com/haasonsaas/agrisense/internal/ontology"
	"github.com/haasonsaas/agrisense/internal/router"
	"github.com/haasonsaas/agrisense/internal/sensorstore"
	"github.com/haasonsaas/agrisense/internal/sessionstore"
)

// app holds every long-lived component a running agrisense process needs.
// Built once from configuration and shared by the serve/ask/ingest/alerts
// subcommands so they never disagree about wiring.
type app struct {
	cfg      *config.Config
	registry *ontology.Registry
	sensors  *sensorstore.Store
	sessions *sessionstore.Store
	alerts   *alerts.Store
	router   *router.Router
	pipeline *ingest.Pipeline
	sweeper  *sessionstore.Sweeper
	logger   *slog.Logger
}

// buildApp loads configuration from configPath and wires every component
// per spec §6's configuration option list: the Ontology Registry, the
// three SQLite-backed stores (sharing one store_url path), the LLM
// client (or a graceful Unavailable stand-in when no endpoint is
// configured), the Ingestion Pipeline, and the Intent Router.
func buildApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	registry := ontology.LoadSeed()
	if cfg.Ontology.Path != "" {
		loaded, err := ontology.LoadFromFile(cfg.Ontology.Path)
		if err != nil {
			return nil, fmt.Errorf("load ontology catalog: %w", err)
		}
		registry = loaded
	}

	sensors, err := sensorstore.New(sensorstore.Config{Path: cfg.StoreURL})
	if err != nil {
		return nil, fmt.Errorf("open sensor store: %w", err)
	}
	sessions, err := sessionstore.New(sessionstore.Config{Path: cfg.StoreURL})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	alertStore, err := alerts.New(alerts.Config{Path: cfg.StoreURL})
	if err != nil {
		return nil, fmt.Errorf("open alert store: %w", err)
	}

	var llmClient llm.Client = llm.Unavailable{Reason: "no llm_endpoint configured"}
	if cfg.LLMEndpoint != "" || cfg.LLMAPIKey != "" {
		llmClient = llm.WithRetry(
			llm.NewOpenAICompatibleClient(cfg.LLMEndpoint, cfg.LLMModel, cfg.LLMAPIKey),
			3, time.Second,
		)
	}

	r := router.New(registry, sensors, sessions, alertStore,
		router.WithLogger(logger),
		router.WithLLMClient(llmClient),
	)

	pipeline := ingest.New(sensors, registry,
		ingest.WithLogger(logger),
		ingest.WithBatchSize(cfg.IngestBatchSize),
		ingest.WithFlushInterval(time.Duration(cfg.IngestFlushIntervalMs)*time.Millisecond),
	)

	sweeper := sessionstore.NewSweeper(sessions,
		sessionstore.WithLogger(logger),
		sessionstore.WithIdleAfter(time.Duration(cfg.SessionTTLMin)*time.Minute),
		sessionstore.WithRetain(time.Duration(cfg.SessionRetainDays)*24*time.Hour),
	)

	return &app{
		cfg:      cfg,
		registry: registry,
		sensors:  sensors,
		sessions: sessions,
		alerts:   alertStore,
		router:   r,
		pipeline: pipeline,
		sweeper:  sweeper,
		logger:   logger,
	}, nil
}

func (a *app) Close() {
	a.sensors.Close()
	a.sessions.Close()
	a.alerts.Close()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
