package config_test

import (
	"testing"

	"github.com/guildhall/mmoawards/internal/config"
	"github.com/stretchr/testify/require"
)

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

var credentialVariables = []string{"DB_HOST", "DB_PASSWORD", "DB_USERNAME", "SENTRY_DSN"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, variable := range append(credentialVariables, "DB_CONNECTION_STRING", "GCP_PROJECT") {
		t.Setenv(variable, "")
	}
}

func TestGetConfig(t *testing.T) {
	compareConfig := func(host, username, password, sentryDSN, port string, env environment, conf config.Config) {
		t.Helper()
		require.Equal(t, host, conf.DBHost())
		require.Equal(t, username, conf.DBUsername())
		require.Equal(t, password, conf.DBPassword())
		require.Equal(t, sentryDSN, conf.SentryDSN())
		require.Equal(t, port, conf.Port())
		require.Equal(t, env == production, conf.IsProduction())
		require.Equal(t, env == staging, conf.IsStaging())
		require.Equal(t, env == development, conf.IsDevelopment())
	}

	t.Run("environment is missing", func(t *testing.T) {
		_, err := config.ConfigFromEnv()
		require.ErrorIs(t, err, config.ErrMissingRequiredValue)
	})

	t.Run("development needs nothing else", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MMOAWARDS_ENVIRONMENT", "development")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)
		compareConfig("", "", "", "", "8123", development, conf)
		require.Contains(t, conf.NonSensitiveString(), "development")
	})

	t.Run("values are read correctly", func(t *testing.T) {
		for _, variable := range credentialVariables {
			t.Setenv(variable, variable)
		}
		t.Setenv("PORT", "9000")

		for _, env := range []environment{production, staging, development} {
			t.Run(string(env), func(t *testing.T) {
				t.Setenv("MMOAWARDS_ENVIRONMENT", string(env))

				conf, err := config.ConfigFromEnv()
				require.NoError(t, err)
				compareConfig("DB_HOST", "DB_USERNAME", "DB_PASSWORD", "SENTRY_DSN", "9000", env, conf)
			})
		}
	})

	t.Run("production and staging fail when missing variables", func(t *testing.T) {
		clearEnv(t)
		for _, variable := range credentialVariables {
			t.Setenv(variable, "placeholder_value")
		}

		for _, env := range []environment{production, staging} {
			t.Run(string(env), func(t *testing.T) {
				t.Setenv("MMOAWARDS_ENVIRONMENT", string(env))

				for _, variable := range credentialVariables {
					t.Run(variable, func(t *testing.T) {
						t.Setenv(variable, "")

						_, err := config.ConfigFromEnv()
						require.ErrorIs(t, err, config.ErrMissingRequiredValue)
					})
				}
			})
		}
	})

	t.Run("connection string replaces host and credentials", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MMOAWARDS_ENVIRONMENT", "production")
		t.Setenv("SENTRY_DSN", "dsn")
		t.Setenv("DB_CONNECTION_STRING", "postgres://example")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)
		require.Equal(t, "postgres://example", conf.DBConnectionString())
	})

	t.Run("allowed origin suffixes", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MMOAWARDS_ENVIRONMENT", "development")

		t.Run("default", func(t *testing.T) {
			conf, err := config.ConfigFromEnv()
			require.NoError(t, err)
			require.Equal(t, []string{"guildhall.gg", "guildhall-dashboard.pages.dev"}, conf.AllowedOriginSuffixes())
		})

		t.Run("list is trimmed", func(t *testing.T) {
			t.Setenv("ALLOWED_ORIGIN_SUFFIXES", " example.com,, staging.example.com ")
			conf, err := config.ConfigFromEnv()
			require.NoError(t, err)
			require.Equal(t, []string{"example.com", "staging.example.com"}, conf.AllowedOriginSuffixes())
		})

		t.Run("only separators", func(t *testing.T) {
			t.Setenv("ALLOWED_ORIGIN_SUFFIXES", " , ,")
			_, err := config.ConfigFromEnv()
			require.ErrorIs(t, err, config.ErrMissingRequiredValue)
		})
	})

	t.Run("invalid environment", func(t *testing.T) {
		for _, env := range []string{"", "invalid", "my-env"} {
			t.Run(env, func(t *testing.T) {
				t.Setenv("MMOAWARDS_ENVIRONMENT", env)
				_, err := config.ConfigFromEnv()
				require.ErrorIs(t, err, config.ErrInvalidValue)
			})
		}
	})
}
