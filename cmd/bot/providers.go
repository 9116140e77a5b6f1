package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/cmd/bot/config"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/platform"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
)

// configPath is the path of the YAML config file. Empty means environment only.
type configPath string

func provideConfig(l *slog.Logger, path configPath) (*config.Config, error) {
	cfg, err := config.Parse(l, string(path))
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

func provideSession(cfg *config.Config) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return dg, nil
}

// provideBackend connects the configured config store backend. The cleanup closes it.
func provideBackend(ctx context.Context, l *slog.Logger, cfg *config.Config) (dataaccess.Backend, func(), error) {
	var (
		backend dataaccess.Backend
		err     error
	)

	switch cfg.Store.Kind {
	case config.StoreKindJSON:
		backend = dataaccess.NewFileBackend(cfg.Store.Path)
	case config.StoreKindMongo:
		conn := &connection.MongoDB{ConnectionString: cfg.Store.MongoUri}
		client, cErr := conn.Connect(ctx)
		if cErr != nil {
			return nil, nil, cErr
		}
		backend = dataaccess.NewMongoBackend(client, cfg.Store.MongoDatabase)
	case config.StoreKindSQLite:
		conn := &connection.SQLite{Path: cfg.Store.SQLitePath}
		db, cErr := conn.Connect(ctx)
		if cErr != nil {
			return nil, nil, cErr
		}
		backend, err = dataaccess.NewSQLiteBackend(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreKind, cfg.Store.Kind)
	}

	l.Info("Using config store", slog.String("backend", backend.Name()))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(ctx); err != nil {
			l.Error("Error closing config store", slog.String(logging.KeyError, err.Error()))
		}
	}
	return backend, cleanup, nil
}

func provideManager(l *slog.Logger, store dataaccess.ConfigStore, p platform.Adapter) *ticketing.Manager {
	return ticketing.NewManager(l, store, p)
}
