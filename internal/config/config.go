package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

const environmentKey = "MMOAWARDS_ENVIRONMENT"

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

type Config struct {
	dBConnectionString string
	dBHost             string
	dBPassword         string
	dBUsername         string
	sentryDSN          string
	gcpProject         string
	port               string
	originSuffixes     []string
	env                environment
}

// Raw values as read from the environment
type rawConfig struct {
	DBConnectionString string `env:"DB_CONNECTION_STRING"`
	DBHost             string `env:"DB_HOST"`
	DBPassword         string `env:"DB_PASSWORD"`
	DBUsername         string `env:"DB_USERNAME"`
	SentryDSN          string `env:"SENTRY_DSN"`
	GCPProject         string `env:"GCP_PROJECT"`
	Port               string `env:"PORT" envDefault:"8123"`

	// Domains whose https subdomains may call the read API from a browser
	AllowedOriginSuffixes []string `env:"ALLOWED_ORIGIN_SUFFIXES" envSeparator:"," envDefault:"guildhall.gg,guildhall-dashboard.pages.dev"`
}

func (c *Config) DBConnectionString() string {
	return c.dBConnectionString
}

func (c *Config) DBHost() string {
	return c.dBHost
}

func (c *Config) DBPassword() string {
	return c.dBPassword
}

func (c *Config) DBUsername() string {
	return c.dBUsername
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) GCPProject() string {
	return c.gcpProject
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) AllowedOriginSuffixes() []string {
	return c.originSuffixes
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf("Config{env: %s, port: %s, ...}", string(c.env), c.port)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var appEnv environment
	rawEnv, ok := os.LookupEnv(environmentKey)
	if !ok {
		return missingKey(environmentKey)
	}
	switch rawEnv {
	case "production":
		appEnv = production
	case "staging":
		appEnv = staging
	case "development":
		appEnv = development
	default:
		return Config{}, fmt.Errorf("%w: %s (%s)", ErrInvalidValue, environmentKey, rawEnv)
	}

	var raw rawConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	if raw.Port == "" {
		return Config{}, fmt.Errorf("%w: PORT is empty", ErrInvalidValue)
	}

	originSuffixes := make([]string, 0, len(raw.AllowedOriginSuffixes))
	for _, suffix := range raw.AllowedOriginSuffixes {
		if suffix = strings.TrimSpace(suffix); suffix != "" {
			originSuffixes = append(originSuffixes, suffix)
		}
	}
	if len(originSuffixes) == 0 {
		return missingKey("ALLOWED_ORIGIN_SUFFIXES")
	}

	if appEnv == production || appEnv == staging {
		// Either a full connection string or host + credentials
		if raw.DBConnectionString == "" {
			if raw.DBHost == "" {
				return missingKey("DB_HOST")
			}
			if raw.DBUsername == "" {
				return missingKey("DB_USERNAME")
			}
			if raw.DBPassword == "" {
				return missingKey("DB_PASSWORD")
			}
		}
		if raw.SentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		dBConnectionString: raw.DBConnectionString,
		dBHost:             raw.DBHost,
		dBPassword:         raw.DBPassword,
		dBUsername:         raw.DBUsername,
		sentryDSN:          raw.SentryDSN,
		gcpProject:         raw.GCPProject,
		port:               raw.Port,
		originSuffixes:     originSuffixes,
		env:                appEnv,
	}, nil
}
