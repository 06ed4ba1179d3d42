package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"remit"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"remit"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		Secret   string        `envconfig:"AUTH_SECRET" default:"dev-secret"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	}

	Risk struct {
		// FlagThreshold is in minor units; transfers above it require
		// clearance. 0 disables the amount check.
		FlagThreshold int64    `envconfig:"RISK_FLAG_THRESHOLD" default:"1000000"`
		Jurisdictions []string `envconfig:"RISK_JURISDICTIONS" default:""`
	}

	Engine struct {
		// StepDelay is the default wait between status transitions; Jitter
		// randomizes it by ±fraction.
		StepDelay time.Duration `envconfig:"ENGINE_STEP_DELAY" default:"2s"`
		Jitter    float64       `envconfig:"ENGINE_JITTER" default:"0.25"`

		// ClearanceMode is "auto" (flagged transfers clear on their own) or
		// "manual" (a reviewer must grant clearance).
		ClearanceMode string `envconfig:"ENGINE_CLEARANCE_MODE" default:"auto"`

		StandardWindow time.Duration `envconfig:"ENGINE_STANDARD_WINDOW" default:"72h"`
		ExpressWindow  time.Duration `envconfig:"ENGINE_EXPRESS_WINDOW" default:"4h"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
