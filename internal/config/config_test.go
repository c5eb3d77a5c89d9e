package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/harunnryd/verblume/internal/errors"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
}

func TestLoadDefaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerLogLevel, cfg.Server.LogLevel)
	assert.Equal(t, DefaultModelDefault, cfg.Models.Default)
	assert.Equal(t, DefaultModelImage, cfg.Models.Image)
	assert.Equal(t, DefaultModelFallback, cfg.Models.Fallback)
	assert.Equal(t, DefaultGatewayMaxAttempts, cfg.Gateway.MaxAttempts)
	assert.Equal(t, DefaultGatewayInitialDelay, cfg.Gateway.InitialDelay)
	assert.Equal(t, DefaultPlannerTopicBatchSize, cfg.Planner.TopicBatchSize)
	assert.InDelta(t, DefaultPlannerTemperature, cfg.Planner.Temperature, 1e-9)
	assert.Equal(t, DefaultPlannerImageAspectRatio, cfg.Planner.ImageAspectRatio)
	assert.Len(t, cfg.Models.Registry, len(DefaultRegistry()))

	home := os.Getenv("HOME")
	assert.Equal(t, filepath.Join(home, ".verblume", "data"), cfg.Store.DataDir)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	clearProviderEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9191
gateway:
  max_attempts: 3
  initial_delay: 500ms
models:
  default: gpt-4o-mini
  registry:
    - name: gpt-4o-mini
      provider: openai
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Setenv("VERBLUME_PLANNER_TOPIC_BATCH_SIZE", "10")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cmd := &cobra.Command{}
	cmd.Flags().String("config", path, "")

	cfg, err := Load(cmd)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Gateway.MaxAttempts)
	assert.Equal(t, "500ms", cfg.Gateway.InitialDelay)
	assert.Equal(t, 10, cfg.Planner.TopicBatchSize)
	require.Len(t, cfg.Models.Registry, 1)
	assert.Equal(t, "sk-test", cfg.Models.Registry[0].APIKey)
}

func TestLoadInjectsGeminiKey(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEMINI_API_KEY", "gm-test")

	cfg, err := Load(nil)
	require.NoError(t, err)

	for _, m := range cfg.Models.Registry {
		if m.Provider == ProviderGemini {
			assert.Equal(t, "gm-test", m.APIKey, m.Name)
		} else {
			assert.Empty(t, m.APIKey, m.Name)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	clearProviderEnv(t)
	cfg, err := Load(nil)
	require.NoError(t, err)

	cfg.Gateway.MaxAttempts = 0
	cfg.Gateway.InitialDelay = "soon"
	cfg.Models.Registry = append(cfg.Models.Registry, ModelRegistry{Name: "x", Provider: "zai"})

	err = Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "gateway.max_attempts")
	assert.Contains(t, err.Error(), "gateway.initial_delay")
	assert.Contains(t, err.Error(), `unknown provider "zai"`)
}

func TestDurationOrDefault(t *testing.T) {
	d, err := DurationOrDefault("", "2s")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	d, err = DurationOrDefault("150ms", "2s")
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, d)

	_, err = DurationOrDefault("", "")
	assert.Error(t, err)

	_, err = DurationOrDefault("-1s", "")
	assert.Error(t, err)

	assert.Equal(t, 2*time.Second, MustDuration("bogus", "2s"))
}
