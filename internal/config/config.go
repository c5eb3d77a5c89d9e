package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/harunnryd/verblume/internal/pathutil"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Models  ModelsConfig  `koanf:"models"`
	Gateway GatewayConfig `koanf:"gateway"`
	Planner PlannerConfig `koanf:"planner"`
	Store   StoreConfig   `koanf:"store"`
}

type ServerConfig struct {
	Port            int      `koanf:"port"`
	LogLevel        string   `koanf:"log_level"`
	ReadTimeout     string   `koanf:"read_timeout"`
	WriteTimeout    string   `koanf:"write_timeout"`
	IdleTimeout     string   `koanf:"idle_timeout"`
	ShutdownTimeout string   `koanf:"shutdown_timeout"`
	CORSOrigins     []string `koanf:"cors_origins"`
}

type ModelsConfig struct {
	Default             string          `koanf:"default"`
	Image               string          `koanf:"image"`
	Fallback            string          `koanf:"fallback"`
	MaxFallbackAttempts int             `koanf:"max_fallback_attempts"`
	Registry            []ModelRegistry `koanf:"registry"`
}

type ModelRegistry struct {
	Name           string `koanf:"name"`
	Provider       string `koanf:"provider"`
	BaseURL        string `koanf:"base_url"`
	APIKey         string `koanf:"api_key"`
	RequestTimeout string `koanf:"request_timeout"`
	MaxTokens      int    `koanf:"max_tokens"`
}

type GatewayConfig struct {
	MaxAttempts  int    `koanf:"max_attempts"`
	InitialDelay string `koanf:"initial_delay"`
}

type PlannerConfig struct {
	Temperature            float64 `koanf:"temperature"`
	ExplanationTemperature float64 `koanf:"explanation_temperature"`
	TopicBatchSize         int     `koanf:"topic_batch_size"`
	ImageAspectRatio       string  `koanf:"image_aspect_ratio"`
}

type StoreConfig struct {
	DataDir      string `koanf:"data_dir"`
	LockTimeout  string `koanf:"lock_timeout"`
	LockRetry    string `koanf:"lock_retry"`
	LockMaxRetry int    `koanf:"lock_max_retry"`
}

const (
	DefaultServerPort                 = 8080
	DefaultServerLogLevel             = "info"
	DefaultServerReadTimeout          = "15s"
	DefaultServerWriteTimeout         = "5m"
	DefaultServerIdleTimeout          = "60s"
	DefaultServerShutdownTimeout      = "10s"
	DefaultModelDefault               = "gemini-2.5-flash"
	DefaultModelImage                 = "imagen-4.0-generate-001"
	DefaultModelFallback              = "gpt-4o-mini"
	DefaultModelMaxFallbackAttempts   = 2
	DefaultModelRequestTimeout        = "120s"
	DefaultModelMaxTokens             = 8192
	DefaultOpenAIImageModel           = "dall-e-3"
	DefaultAnthropicModel             = "claude-3-5-haiku-latest"
	DefaultGatewayMaxAttempts         = 5
	DefaultGatewayInitialDelay        = "2s"
	DefaultPlannerTemperature         = 0.6
	DefaultPlannerExplanationTemp     = 0.3
	DefaultPlannerTopicBatchSize      = 25
	DefaultPlannerImageAspectRatio    = "16:9"
	DefaultStoreLockTimeout           = "10s"
	DefaultStoreLockRetry             = "50ms"
	DefaultStoreLockMaxRetry          = 200
	EnvPrefix                         = "VERBLUME_"
	ConfigFileName                    = "config.yaml"
	ProviderGemini                    = "gemini"
	ProviderOpenAI                    = "openai"
	ProviderAnthropic                 = "anthropic"
	defaultDataDirName                = "data"
	defaultLocalhostOrigin            = "http://localhost:5173"
	defaultProviderWhenMissingInEntry = ProviderGemini
)

// DefaultRegistry lists the models wired out of the box.
func DefaultRegistry() []ModelRegistry {
	return []ModelRegistry{
		{Name: DefaultModelDefault, Provider: ProviderGemini},
		{Name: DefaultModelImage, Provider: ProviderGemini},
		{Name: DefaultModelFallback, Provider: ProviderOpenAI},
		{Name: DefaultOpenAIImageModel, Provider: ProviderOpenAI},
		{Name: DefaultAnthropicModel, Provider: ProviderAnthropic, MaxTokens: DefaultModelMaxTokens},
	}
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                     DefaultServerPort,
		"server.log_level":                DefaultServerLogLevel,
		"server.read_timeout":             DefaultServerReadTimeout,
		"server.write_timeout":            DefaultServerWriteTimeout,
		"server.idle_timeout":             DefaultServerIdleTimeout,
		"server.shutdown_timeout":         DefaultServerShutdownTimeout,
		"server.cors_origins":             []string{defaultLocalhostOrigin},
		"models.default":                  DefaultModelDefault,
		"models.image":                    DefaultModelImage,
		"models.fallback":                 DefaultModelFallback,
		"models.max_fallback_attempts":    DefaultModelMaxFallbackAttempts,
		"models.registry":                 DefaultRegistry(),
		"gateway.max_attempts":            DefaultGatewayMaxAttempts,
		"gateway.initial_delay":           DefaultGatewayInitialDelay,
		"planner.temperature":             DefaultPlannerTemperature,
		"planner.explanation_temperature": DefaultPlannerExplanationTemp,
		"planner.topic_batch_size":        DefaultPlannerTopicBatchSize,
		"planner.image_aspect_ratio":      DefaultPlannerImageAspectRatio,
		"store.data_dir":                  filepath.Join("~", pathutil.AppDirName, defaultDataDirName),
		"store.lock_timeout":              DefaultStoreLockTimeout,
		"store.lock_retry":                DefaultStoreLockRetry,
		"store.lock_max_retry":            DefaultStoreLockMaxRetry,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else if globalPath, err := pathutil.AppDir(ConfigFileName); err == nil {
		if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
			slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
		}
	}

	// VERBLUME_SERVER_PORT -> server.port; the first underscore splits section from key.
	k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envKey(strings.TrimPrefix(s, EnvPrefix))
	}), nil)

	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	for i, m := range cfg.Models.Registry {
		if m.Provider == "" {
			cfg.Models.Registry[i].Provider = defaultProviderWhenMissingInEntry
		}
	}

	dataDir, err := pathutil.Expand(cfg.Store.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Store.DataDir = dataDir

	injectProviderKeys(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func envKey(raw string) string {
	lower := strings.ToLower(raw)
	section, rest, found := strings.Cut(lower, "_")
	if !found {
		return lower
	}
	return section + "." + rest
}

func injectProviderKeys(cfg *Config) {
	envByProvider := map[string]string{
		ProviderGemini:    "GEMINI_API_KEY",
		ProviderOpenAI:    "OPENAI_API_KEY",
		ProviderAnthropic: "ANTHROPIC_API_KEY",
	}
	for provider, envName := range envByProvider {
		key := os.Getenv(envName)
		if key == "" && provider == ProviderGemini {
			key = os.Getenv("API_KEY")
		}
		if key == "" {
			continue
		}
		for i, m := range cfg.Models.Registry {
			if m.Provider == provider && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}
}
