package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, if present,
// a config.yaml file in the working directory. Environment variables
// take precedence over file values and use the TASKNEST_ prefix with
// underscores separating nested keys (e.g. TASKNEST_SERVER_PORT).
// Returns a populated Config or an error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TASKNEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything can come from the
		// environment. Any other read error is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for optional settings. Required
// settings without a sensible default get an empty default so viper
// knows the key exists; AutomaticEnv only resolves registered keys
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("email.sendgrid_api_key", "")

	// Session tokens last 7 days unless configured otherwise.
	v.SetDefault("auth.token_lifetime_minutes", 7*24*60)

	v.SetDefault("email.from_name", "TaskNest")
	v.SetDefault("email.from_address", "no-reply@tasknest.io")
	v.SetDefault("email.queue_size", 100)
	v.SetDefault("email.worker_count", 2)
}
