package logging_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/servicesync/pkg/logging"
)

func TestFromContext(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("returns stored logger", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		assert.Same(t, tl.Logger, logging.FromContext(ctx))
	})
}

func TestDomainFields(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithRun(ctx, "run-1")
	ctx = logging.WithService(ctx, "42")
	ctx = logging.WithRegistry(ctx, "ytr")
	ctx = logging.WithCollection(ctx, "ytr_channels")

	logging.FromContext(ctx).Info().Msg("reconciled")

	require.Len(t, tl.Lines(), 1)
	for _, want := range []string{`"run_id":"run-1"`, `"service_id":"42"`, `"registry":"ytr"`, `"collection":"ytr_channels"`} {
		tl.AssertContains(t, want)
	}
}

func TestWithFields(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithFields(ctx, map[string]any{
		"count": 4,
		"dry":   true,
		"err":   errors.New("boom"),
	})

	logging.FromContext(ctx).Warn().Msg("fields")

	tl.AssertContains(t, `"count":4`)
	tl.AssertContains(t, `"dry":true`)
	tl.AssertContains(t, `"error":"boom"`)
}

func TestNewLoggerFromConfig(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	path := filepath.Join(t.TempDir(), "servicesync.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "warning",
		Format: "json",
		Output: path,
		Fields: map[string]any{"app": "servicesync"},
	})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
	assert.Contains(t, string(data), `"app":"servicesync"`)
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Info().Msg("captured")
	assert.True(t, tl.Contains("captured"))
}

func TestConfigureFromEnv(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_OUTPUT", "discard")
	logging.ConfigureFromEnv()

	assert.Equal(t, zerolog.WarnLevel, logging.Default().GetLevel())
}
