package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPort               = "8080"
	DefaultMatchWindowDays    = 7
	DefaultAutoMatchThreshold = 60.0
)

// Config is read from RECON_* environment variables, optionally seeded from
// a .env file.
type Config struct {
	DatabaseDSN        string   `envconfig:"DATABASE_DSN"`
	Port               string   `envconfig:"PORT"`
	AllowedOrigins     []string `envconfig:"ALLOWED_ORIGINS"`
	APIToken           string   `envconfig:"API_TOKEN"`
	LogLevel           string   `envconfig:"LOG_LEVEL"`
	LogFormat          string   `envconfig:"LOG_FORMAT"`
	MatchWindowDays    int      `envconfig:"MATCH_WINDOW_DAYS"`
	AutoMatchThreshold float64  `envconfig:"AUTO_MATCH_THRESHOLD"`

	// OTLPEndpoint is host:port of an OTLP/HTTP collector. Empty disables
	// trace export.
	OTLPEndpoint string `envconfig:"OTLP_ENDPOINT"`
}

// Load reads envFile (a missing file is fine) and then the environment.
func Load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
		logrus.Infof("no %s file found, relying on system env", envFile)
	}

	var cfg Config
	if err := envconfig.Process("recon", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.validateAndAddDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validateAndAddDefaults() error {
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return errors.New("RECON_DATABASE_DSN is required")
	}
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.MatchWindowDays <= 0 {
		c.MatchWindowDays = DefaultMatchWindowDays
	}
	if c.AutoMatchThreshold <= 0 {
		c.AutoMatchThreshold = DefaultAutoMatchThreshold
	}
	if c.AutoMatchThreshold > 100 {
		return fmt.Errorf("RECON_AUTO_MATCH_THRESHOLD must be at most 100, got %v", c.AutoMatchThreshold)
	}
	return nil
}
