package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key used for errors in log attributes.
	KeyError = "err"

	// KeyDal is the key used for the data access layer name.
	KeyDal = "dal"

	// KeyGuild is the key used for guild IDs.
	KeyGuild = "guild_id"

	// KeyUser is the key used for user IDs.
	KeyUser = "user_id"

	// KeyChannel is the key used for channel IDs.
	KeyChannel = "channel_id"

	// KeyApp is the key used for the application name.
	KeyApp = "app"
)

// EnvLogLevel is the environment variable that overrides the log level.
const EnvLogLevel = `LOG_LEVEL`

// Name is the name of the application the logger belongs to.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// AppName is attached to every record.
	AppName Name

	// Level is the minimum level that is written.
	Level slog.Level

	// Writer is where records are written. Defaults to stdout.
	Writer io.Writer
}

// NewConfig creates a new logger configuration for the given application.
func NewConfig(name Name) *Config {
	return &Config{
		AppName: name,
		Level:   levelFromEnv(),
		Writer:  os.Stdout,
	}
}

// CommonLogger creates the JSON logger used across the application and sets it as the default.
func CommonLogger(cfg *Config) (*slog.Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logger config is nil")
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: cfg.Level == slog.LevelDebug,
		Level:     cfg.Level,
	})

	l := slog.New(h).With(slog.String(KeyApp, string(cfg.AppName)))
	slog.SetDefault(l)
	return l, nil
}

// ParseLevel parses a textual log level. Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func levelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(EnvLogLevel))
}
