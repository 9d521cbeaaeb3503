package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "squant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 960, cfg.Dim)
	assert.Equal(t, 10, cfg.Num)
	assert.True(t, cfg.Sample)
	assert.Equal(t, 0.99, cfg.Quantile)
	assert.Equal(t, 8, cfg.Bits)
	assert.Equal(t, "nearest", cfg.Policy)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
source: s3://datasets/sift/sift_base.fvecs
dim: 128
num: 1000
sample: false
quantile: 0.95
bits: 4
policy: linear
log:
  format: json
  level: debug
s3:
  region: eu-central-1
  path_style: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "s3://datasets/sift/sift_base.fvecs", cfg.Source)
	assert.Equal(t, 128, cfg.Dim)
	assert.Equal(t, 1000, cfg.Num)
	assert.False(t, cfg.Sample)
	assert.Equal(t, 0.95, cfg.Quantile)
	assert.Equal(t, 4, cfg.Bits)
	assert.Equal(t, "linear", cfg.Policy)
	assert.Equal(t, LogConfig{Format: "json", Level: "debug"}, cfg.Log)
	assert.Equal(t, "eu-central-1", cfg.S3.Region)
	assert.True(t, cfg.S3.PathStyle)
	assert.Equal(t, "localhost:9000", cfg.Minio.Endpoint, "unset fields keep their defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "quantil: 0.9\n"))
	assert.ErrorContains(t, err, "YAML syntax error")

	_, err = LoadConfig(writeConfig(t, "dim: [1, 2]\n"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty source", func(c *Config) { c.Source = "" }},
		{"zero dim", func(c *Config) { c.Dim = 0 }},
		{"zero num", func(c *Config) { c.Num = 0 }},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }},
		{"unknown policy", func(c *Config) { c.Policy = "median" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
