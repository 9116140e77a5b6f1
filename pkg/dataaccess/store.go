package dataaccess

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
)

const storeDalName = "config_store"

// Backend is the durable storage behind the config store.
type Backend interface {
	// Name is the name of the backend, used for logs and metrics.
	Name() string

	// ReadAll reads every stored guild configuration.
	ReadAll(ctx context.Context) (map[string]*entities.GuildTicketConfig, error)

	// WriteAll replaces the stored configurations with the given set.
	WriteAll(ctx context.Context, configs map[string]*entities.GuildTicketConfig) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}

// ConfigStore is the single source of truth for guild ticket configurations.
type ConfigStore interface {
	// Load reads every configuration from durable storage, replacing the in-memory copy.
	Load(ctx context.Context) (map[string]*entities.GuildTicketConfig, error)

	// Get returns a copy of the guild's configuration.
	Get(guildID string) (*entities.GuildTicketConfig, bool)

	// Set applies update to the guild's configuration and persists the result. A guild without a
	// configuration starts from an empty one.
	Set(ctx context.Context, guildID string, update func(cfg *entities.GuildTicketConfig)) (*entities.GuildTicketConfig, error)

	// Persist rewrites durable storage from the in-memory configurations.
	Persist(ctx context.Context) error

	// Ping checks that durable storage is reachable.
	Ping(ctx context.Context) error
}

var _ ConfigStore = (*Store)(nil)

// Store keeps every guild configuration in memory and flushes to its backend on each write.
//
// Writes to different guilds are independent. Two writers on the same guild are not coordinated,
// the last one to persist wins.
type Store struct {
	l *slog.Logger

	backend Backend

	mtx     sync.RWMutex
	configs map[string]*entities.GuildTicketConfig
}

// NewStore creates a config store on top of the given backend. Call Load before use.
func NewStore(l *slog.Logger, backend Backend) *Store {
	return &Store{
		l:       l.With(slog.String(logging.KeyDal, storeDalName), slog.String("backend", backend.Name())),
		backend: backend,
		configs: make(map[string]*entities.GuildTicketConfig),
	}
}

func (s *Store) Load(ctx context.Context) (map[string]*entities.GuildTicketConfig, error) {
	done := monitoring.Observe(s.backend.Name(), "read_all")
	configs, err := s.backend.ReadAll(ctx)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("error loading ticket configs: %w", err)
	}
	if configs == nil {
		configs = make(map[string]*entities.GuildTicketConfig)
	}
	for _, cfg := range configs {
		if cfg.StaffRoles == nil {
			cfg.StaffRoles = make([]custom.Snowflake, 0)
		}
	}

	s.mtx.Lock()
	s.configs = configs
	out := cloneAll(s.configs)
	s.mtx.Unlock()

	monitoring.StoreGuilds.Set(float64(len(out)))
	s.l.Info("Loaded ticket configs", slog.Int("guilds", len(out)))
	return out, nil
}

func (s *Store) Get(guildID string) (*entities.GuildTicketConfig, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	cfg, ok := s.configs[guildID]
	if !ok {
		return nil, false
	}
	return cfg.Clone(), true
}

func (s *Store) Set(ctx context.Context, guildID string, update func(cfg *entities.GuildTicketConfig)) (*entities.GuildTicketConfig, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	next := new(entities.GuildTicketConfig)
	if cur, ok := s.configs[guildID]; ok {
		next = cur.Clone()
	}
	update(next)
	if next.StaffRoles == nil {
		next.StaffRoles = make([]custom.Snowflake, 0)
	}

	// Write the candidate set first so a failed write leaves memory untouched.
	candidate := make(map[string]*entities.GuildTicketConfig, len(s.configs)+1)
	for id, cfg := range s.configs {
		candidate[id] = cfg
	}
	candidate[guildID] = next

	if err := s.persist(ctx, candidate); err != nil {
		return nil, err
	}

	s.configs = candidate
	monitoring.StoreGuilds.Set(float64(len(s.configs)))
	s.l.Debug("Saved ticket config", slog.String(logging.KeyGuild, guildID))
	return next.Clone(), nil
}

func (s *Store) Persist(ctx context.Context) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.persist(ctx, s.configs)
}

func (s *Store) persist(ctx context.Context, configs map[string]*entities.GuildTicketConfig) error {
	done := monitoring.Observe(s.backend.Name(), "write_all")
	err := s.backend.WriteAll(ctx, configs)
	done(err)
	if err != nil {
		return fmt.Errorf("error persisting ticket configs: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	done := monitoring.Observe(s.backend.Name(), "ping")
	err := s.backend.Ping(ctx)
	done(err)
	return err
}

// Close closes the backend.
func (s *Store) Close(ctx context.Context) error {
	return s.backend.Close(ctx)
}

func cloneAll(configs map[string]*entities.GuildTicketConfig) map[string]*entities.GuildTicketConfig {
	out := make(map[string]*entities.GuildTicketConfig, len(configs))
	for id, cfg := range configs {
		out[id] = cfg.Clone()
	}
	return out
}
