package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/config"
)

func TestNewWritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ajans.log")
	cfg := &config.Config{
		Env: config.EnvDevelopment,
		Log: config.LogConfig{Level: "info", Format: "json", File: path},
	}

	logr, err := New(cfg)
	require.NoError(t, err)
	logr.Info("client created")
	_ = logr.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "client created")
	assert.Contains(t, string(raw), "timestamp")
}

func TestRotatingFileDefaults(t *testing.T) {
	w := RotatingFile(config.LogConfig{File: "x.log", MaxBackups: 10})
	assert.Equal(t, 10, w.MaxSize)
	assert.Equal(t, 10, w.MaxBackups)
}
