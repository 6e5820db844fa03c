package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is the public SSDC SED Builder REST root.
const DefaultBaseURL = "https://tools.ssdc.asi.it/SED/rest"

// Config holds all service settings, populated from environment variables.
type Config struct {
	// SED Builder upstream.
	BaseURL        string        `envconfig:"SEDBUILDER_BASE_URL" default:"https://tools.ssdc.asi.it/SED/rest"`
	RequestTimeout time.Duration `envconfig:"SEDBUILDER_TIMEOUT" default:"30s"`

	// Export sink.
	KafkaBrokersRaw string   `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic      string   `envconfig:"KAFKA_SINK_TOPIC" default:"sed-documents"`
	KafkaBrokers    []string `ignored:"true"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `ignored:"true"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process config: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = shutdownTimeout
	cfg.KafkaBrokers = sharedcfg.ParseBrokers(cfg.KafkaBrokersRaw)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid SEDBUILDER_BASE_URL %q", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("SEDBUILDER_TIMEOUT must be positive")
	}
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.KafkaTopic == "" {
		return errors.New("KAFKA_SINK_TOPIC is required")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}
