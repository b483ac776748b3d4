// Package app wires configuration into a runnable service graph.
package app

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"

	"github.com/mzanetti/campusmate/internal/assistant"
	"github.com/mzanetti/campusmate/internal/calendar"
	"github.com/mzanetti/campusmate/internal/config"
	"github.com/mzanetti/campusmate/internal/conversation"
	"github.com/mzanetti/campusmate/internal/httpapi"
	"github.com/mzanetti/campusmate/internal/llm"
	"github.com/mzanetti/campusmate/internal/mem0"
	"github.com/mzanetti/campusmate/internal/observability"
	"github.com/mzanetti/campusmate/internal/session"
)

type BuildResult struct {
	Config    config.Config
	API       *httpapi.Server
	Sessions  *session.Manager
	Assistant *assistant.Assistant
	Metrics   *observability.Metrics

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config, logger *charmlog.Logger) (*BuildResult, error) {
	if logger == nil {
		logger = charmlog.Default()
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	store, err := conversation.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("conversation store init failed: %w", err)
	}

	var memory mem0.Client
	if cfg.Mem0APIKey != "" {
		memory = mem0.NewHTTPClient(cfg.Mem0BaseURL, cfg.Mem0APIKey)
	} else {
		logger.Warn("MEM0_API_KEY not set, using in-process memory store")
		memory = mem0.NewMockClient()
	}

	cal := calendar.NewHTTPClient(cfg.CalendarProxyURL, cfg.CalendarID)

	generator, err := llm.New(llm.Config{
		Provider:    cfg.LLMProvider,
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		MaxTokens:   cfg.OpenAIMaxTokens,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("llm client init failed: %w", err)
	}
	if generator == nil {
		logger.Warn("no language model configured, general conversation is degraded")
	}

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	core := assistant.New(store, memory, cal, generator, metrics, logger, assistant.Options{
		HistoryWindow:     cfg.HistoryWindow,
		MemorySearchLimit: cfg.MemorySearchLimit,
		MemoryRecallLimit: cfg.MemoryRecallLimit,
		MaxCalendarEvents: cfg.MaxCalendarEvents,
	})

	api := httpapi.New(cfg, sessions, core, cal, metrics)

	cleanup := func() error {
		if err := store.Close(); err != nil {
			return fmt.Errorf("conversation store close: %w", err)
		}
		return nil
	}

	return &BuildResult{
		Config:    cfg,
		API:       api,
		Sessions:  sessions,
		Assistant: core,
		Metrics:   metrics,
		Cleanup:   cleanup,
	}, nil
}
