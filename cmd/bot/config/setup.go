package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingBotToken is returned when no bot token was provided.
	ErrMissingBotToken = errors.New("bot token is required")

	// ErrMissingApplicationId is returned when no application ID was provided.
	ErrMissingApplicationId = errors.New("application id is required")

	// ErrUnknownStoreKind is returned when the store kind is not supported.
	ErrUnknownStoreKind = errors.New("unknown store kind")

	// ErrMissingMongoUri is returned when the mongo store is selected without a URI.
	ErrMissingMongoUri = errors.New("mongo uri is required for the mongo store")
)

// Default returns the configuration used when nothing is provided.
func Default() *Config {
	return &Config{
		MonitoringPort: defaultMonitoringPort,
		Store: Store{
			Kind:          StoreKindJSON,
			Path:          dataaccess.DefaultConfigPath,
			MongoDatabase: dataaccess.DefaultMongoDatabase,
			SQLitePath:    defaultSQLitePath,
		},
	}
}

// Parse builds the configuration from the YAML file at path, if any, with the environment taking
// precedence. The result is validated.
func Parse(l *slog.Logger, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		l.Debug("Loaded config file", slog.String("path", path))
	}

	overrides := []struct {
		key string
		dst *string
	}{
		{EnvBotToken, &cfg.BotToken},
		{EnvApplicationId, &cfg.ApplicationId},
		{EnvMonitoringPort, &cfg.MonitoringPort},
		{EnvStoreKind, &cfg.Store.Kind},
		{EnvTicketConfigPath, &cfg.Store.Path},
		{EnvMongoUri, &cfg.Store.MongoUri},
		{EnvMongoDatabase, &cfg.Store.MongoDatabase},
		{EnvSQLitePath, &cfg.Store.SQLitePath},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			l.Debug("Found value in environment", slog.String("key", o.key))
			*o.dst = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.BotToken == "" {
		errs = append(errs, ErrMissingBotToken)
	}
	if c.ApplicationId == "" {
		errs = append(errs, ErrMissingApplicationId)
	}

	switch c.Store.Kind {
	case StoreKindJSON, StoreKindSQLite:
	case StoreKindMongo:
		if c.Store.MongoUri == "" {
			errs = append(errs, ErrMissingMongoUri)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStoreKind, c.Store.Kind))
	}

	return errors.Join(errs...)
}
