package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrNoTokenKey = errors.New("config: token_key is not set")

type Config struct {
	Addr          string
	TLSCert       string
	TLSKey        string
	TokenKey      string
	RateLimit     float64
	RateBurst     int
	MaxIterations int
	LogLevel      string
	LogDir        string
}

// Load reads dir/.env (optional), dir/strut.yaml (optional) and STRUT_*
// environment variables, in increasing order of precedence over the defaults.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("strut")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("STRUT")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8443")
	v.SetDefault("tls_cert", "server.crt")
	v.SetDefault("tls_key", "server.key")
	v.SetDefault("rate_limit", 1.0)
	v.SetDefault("rate_burst", 3)
	v.SetDefault("max_iterations", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", ".")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config: read strut.yaml: %w", err)
		}
	}

	cfg := &Config{
		Addr:          v.GetString("addr"),
		TLSCert:       v.GetString("tls_cert"),
		TLSKey:        v.GetString("tls_key"),
		TokenKey:      v.GetString("token_key"),
		RateLimit:     v.GetFloat64("rate_limit"),
		RateBurst:     v.GetInt("rate_burst"),
		MaxIterations: v.GetInt("max_iterations"),
		LogLevel:      v.GetString("log_level"),
		LogDir:        v.GetString("log_dir"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TokenKey == "" {
		return ErrNoTokenKey
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return errors.New("config: rate_limit and rate_burst must be positive")
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("config: max_iterations must be positive, got %d", c.MaxIterations)
	}
	return nil
}
