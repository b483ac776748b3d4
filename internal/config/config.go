package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the student assistant service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string

	AllowAnyOrigin bool

	LLMProvider       string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITemperature float64
	OpenAIMaxTokens   int

	Mem0APIKey  string
	Mem0BaseURL string

	CalendarProxyURL string
	CalendarID       string

	DatabaseURL string

	HistoryWindow     int
	MemorySearchLimit int
	MemoryRecallLimit int
	MaxCalendarEvents int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "campusmate"),
		AllowAnyOrigin:    false,
		LLMProvider:       envOrDefault("LLM_PROVIDER", "auto"),
		OpenAIAPIKey:      envTrimmed("OPENAI_API_KEY"),
		OpenAIBaseURL:     envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:       envOrDefault("OPENAI_MODEL", "gpt-4"),
		OpenAITemperature: 0.7,
		OpenAIMaxTokens:   500,
		Mem0APIKey:        envTrimmed("MEM0_API_KEY"),
		Mem0BaseURL:       envOrDefault("MEM0_BASE_URL", "https://api.mem0.ai"),
		CalendarProxyURL:  envOrDefault("MCP_SERVER_URL", "http://localhost:3000"),
		CalendarID:        envOrDefault("CALENDAR_ID", "primary"),
		DatabaseURL:       envTrimmed("DATABASE_URL"),
		HistoryWindow:     5,
		MemorySearchLimit: 3,
		MemoryRecallLimit: 10,
		MaxCalendarEvents: 50,
		ShutdownTimeout:   15 * time.Second,
		// One hour of inactivity before a chat session is expired.
		SessionInactivityTimeout: time.Hour,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.OpenAITemperature, err = floatFromEnv("OPENAI_TEMPERATURE", cfg.OpenAITemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.OpenAIMaxTokens, err = intFromEnv("OPENAI_MAX_TOKENS", cfg.OpenAIMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryWindow, err = intFromEnv("MAX_CONVERSATION_HISTORY", cfg.HistoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.MemorySearchLimit, err = intFromEnv("MAX_MEMORY_SEARCH_RESULTS", cfg.MemorySearchLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.MemoryRecallLimit, err = intFromEnv("MAX_MEMORY_RESULTS", cfg.MemoryRecallLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxCalendarEvents, err = intFromEnv("MAX_CALENDAR_EVENTS", cfg.MaxCalendarEvents)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_TIMEOUT must be at least 5s")
	}
	if cfg.OpenAITemperature < 0 || cfg.OpenAITemperature > 2 {
		return Config{}, fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2")
	}
	if cfg.OpenAIMaxTokens <= 0 {
		return Config{}, fmt.Errorf("OPENAI_MAX_TOKENS must be positive")
	}
	if cfg.HistoryWindow <= 0 {
		return Config{}, fmt.Errorf("MAX_CONVERSATION_HISTORY must be positive")
	}
	if cfg.MemorySearchLimit <= 0 {
		return Config{}, fmt.Errorf("MAX_MEMORY_SEARCH_RESULTS must be positive")
	}
	if cfg.MemoryRecallLimit <= 0 {
		return Config{}, fmt.Errorf("MAX_MEMORY_RESULTS must be positive")
	}
	if cfg.MaxCalendarEvents <= 0 {
		return Config{}, fmt.Errorf("MAX_CALENDAR_EVENTS must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(envTrimmed(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
