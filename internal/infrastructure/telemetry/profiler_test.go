package telemetry_test

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/promoerp/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	cfg := telemetry.ProfilerConfig{Enabled: false}

	p, err := telemetry.NewProfiler(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.Equal(t, cfg, p.GetConfig())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     telemetry.ProfilerConfig
		wantErr error
	}{
		{
			name:    "missing server",
			cfg:     telemetry.ProfilerConfig{Enabled: true, ApplicationName: "promoerp-backend"},
			wantErr: telemetry.ErrProfilerMissingServer,
		},
		{
			name:    "missing application",
			cfg:     telemetry.ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"},
			wantErr: telemetry.ErrProfilerMissingApp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := telemetry.NewProfiler(tt.cfg, zaptest.NewLogger(t))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, p)
		})
	}
}

func TestDefaultProfileTypes(t *testing.T) {
	assert.Contains(t, telemetry.DefaultProfileTypes, pyroscope.ProfileCPU)
	assert.Contains(t, telemetry.DefaultProfileTypes, pyroscope.ProfileGoroutines)
	assert.NotContains(t, telemetry.DefaultProfileTypes, pyroscope.ProfileMutexCount)
}
