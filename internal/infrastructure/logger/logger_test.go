package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.Equal(t, DefaultTimeFormat, cfg.TimeFormat)
}

func TestProductionConfig(t *testing.T) {
	cfg := ProductionConfig()

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "default config", cfg: DefaultConfig()},
		{name: "production config", cfg: ProductionConfig()},
		{name: "debug to stderr", cfg: &Config{Level: "debug", Format: "json", Output: "stderr"}},
		{name: "empty time format", cfg: &Config{Level: "warn", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNew_ExtraCoresReceiveEntries(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)

	logger, err := New(&Config{Level: "error", Format: "json", Output: "stderr"}, core)
	require.NoError(t, err)

	logger.Info("Vendor registered", zap.String("vendor", "SANMAR"))

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SANMAR", entries[0].ContextMap()["vendor"])
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"production", "development", "test"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNewCore_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	core := NewCore(&Config{Level: "info", Format: "json", Output: path})

	logger := zap.New(core)
	logger.Info("Catalog search completed", zap.Int("products", 3))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "Catalog search completed", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, float64(3), line["products"])
}

func TestNewCore_LevelFiltering(t *testing.T) {
	core := NewCore(&Config{Level: "warn", Format: "json", Output: "stderr"})

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
}

func TestCreateWriter(t *testing.T) {
	for _, output := range []string{"", "stdout", "STDERR", filepath.Join(t.TempDir(), "out.log")} {
		assert.NotNil(t, createWriter(output))
	}
}
