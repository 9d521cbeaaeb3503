package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/squant"
	"github.com/hupe1980/squant/quantization"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of the quantize command. Values come from the
// defaults, then the YAML file given with --config, then explicit flags.
type Config struct {
	Source    string  `yaml:"source"`
	Dim       int     `yaml:"dim"`
	Num       int     `yaml:"num"`
	Sample    bool    `yaml:"sample"`
	Seed      uint64  `yaml:"seed"`
	Quantile  float64 `yaml:"quantile"`
	Bits      int     `yaml:"bits"`
	Policy    string  `yaml:"policy"`
	Workers   int     `yaml:"workers"`
	RateLimit int     `yaml:"rate_limit"`
	Metrics   bool    `yaml:"metrics"`

	Log   LogConfig   `yaml:"log"`
	S3    S3Config    `yaml:"s3"`
	Minio MinioConfig `yaml:"minio"`
}

// LogConfig selects the log format ("text" or "json") and minimum level.
type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// S3Config overrides the AWS SDK defaults for s3:// sources.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// MinioConfig configures minio:// sources.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

// DefaultConfig reproduces the classic run: 10 random GIST vectors, 99% quantile.
func DefaultConfig() Config {
	return Config{
		Source:   "gist_base.fvecs",
		Dim:      960,
		Num:      10,
		Sample:   true,
		Quantile: 0.99,
		Bits:     quantization.DefaultBits,
		Policy:   quantization.PolicyNearestRank.String(),
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Minio: MinioConfig{
			Endpoint: "localhost:9000",
		},
	}
}

// LoadConfig reads the YAML configuration file using strict parsing.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("YAML syntax error in config: %w", err)
	}

	return cfg, nil
}

// applyFlags overlays every flag the user set explicitly.
func (cfg *Config) applyFlags(c *cli.Context) {
	if c.IsSet("source") {
		cfg.Source = c.String("source")
	}
	if c.IsSet("dim") {
		cfg.Dim = c.Int("dim")
	}
	if c.IsSet("num") {
		cfg.Num = c.Int("num")
	}
	if c.IsSet("sample") {
		cfg.Sample = c.Bool("sample")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if c.IsSet("quantile") {
		cfg.Quantile = c.Float64("quantile")
	}
	if c.IsSet("bits") {
		cfg.Bits = c.Int("bits")
	}
	if c.IsSet("policy") {
		cfg.Policy = c.String("policy")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("rate-limit") {
		cfg.RateLimit = c.Int("rate-limit")
	}
	if c.IsSet("metrics") {
		cfg.Metrics = c.Bool("metrics")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("s3-region") {
		cfg.S3.Region = c.String("s3-region")
	}
	if c.IsSet("s3-endpoint") {
		cfg.S3.Endpoint = c.String("s3-endpoint")
	}
	if c.IsSet("s3-path-style") {
		cfg.S3.PathStyle = c.Bool("s3-path-style")
	}
	if c.IsSet("minio-endpoint") {
		cfg.Minio.Endpoint = c.String("minio-endpoint")
	}
	if c.IsSet("minio-access-key") {
		cfg.Minio.AccessKey = c.String("minio-access-key")
	}
	if c.IsSet("minio-secret-key") {
		cfg.Minio.SecretKey = c.String("minio-secret-key")
	}
	if c.IsSet("minio-secure") {
		cfg.Minio.Secure = c.Bool("minio-secure")
	}
}

// Validate checks the settings the quantizer does not check itself.
func (cfg Config) Validate() error {
	if cfg.Source == "" {
		return errors.New("source must not be empty")
	}
	if cfg.Dim <= 0 {
		return fmt.Errorf("dim must be positive, got %d", cfg.Dim)
	}
	if cfg.Num <= 0 {
		return fmt.Errorf("num must be positive, got %d", cfg.Num)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %d", cfg.RateLimit)
	}
	if _, err := quantization.ParsePolicy(cfg.Policy); err != nil {
		return err
	}
	_, err := cfg.logger(io.Discard)
	return err
}

// logger builds the configured logger writing to w.
func (cfg Config) logger(w io.Writer) (*squant.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	switch cfg.Log.Format {
	case "text", "":
		return squant.NewTextLogger(w, level), nil
	case "json":
		return squant.NewJSONLogger(w, level), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Log.Format)
	}
}
