package config

import (
	"fmt"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"
)

// Validate rejects configurations the gateway, planner or server cannot run with.
func Validate(cfg *Config) error {
	if cfg == nil {
		return apperrors.InvalidInput("config is nil")
	}

	var problems []string
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", cfg.Server.Port))
	}
	if cfg.Gateway.MaxAttempts < 1 {
		problems = append(problems, "gateway.max_attempts must be at least 1")
	}
	if cfg.Planner.TopicBatchSize < 1 {
		problems = append(problems, "planner.topic_batch_size must be at least 1")
	}
	if cfg.Planner.Temperature < 0 || cfg.Planner.Temperature > 2 {
		problems = append(problems, "planner.temperature must be within [0, 2]")
	}
	if strings.TrimSpace(cfg.Models.Default) == "" {
		problems = append(problems, "models.default is required")
	}

	durations := map[string]string{
		"gateway.initial_delay":   cfg.Gateway.InitialDelay,
		"server.read_timeout":     cfg.Server.ReadTimeout,
		"server.write_timeout":    cfg.Server.WriteTimeout,
		"server.idle_timeout":     cfg.Server.IdleTimeout,
		"server.shutdown_timeout": cfg.Server.ShutdownTimeout,
		"store.lock_timeout":      cfg.Store.LockTimeout,
		"store.lock_retry":        cfg.Store.LockRetry,
	}
	for key, value := range durations {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := DurationOrDefault(value, ""); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
		}
	}

	for _, m := range cfg.Models.Registry {
		switch m.Provider {
		case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		default:
			problems = append(problems, fmt.Sprintf("model %q: unknown provider %q", m.Name, m.Provider))
		}
	}

	if len(problems) > 0 {
		return apperrors.InvalidInput("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}
