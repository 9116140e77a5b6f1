package dataaccess

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
)

const sqliteBackendName = "sqlite"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS guild_ticket_configs (
	guild_id          TEXT PRIMARY KEY,
	embed_title       TEXT NOT NULL DEFAULT '',
	embed_description TEXT NOT NULL DEFAULT '',
	embed_color       TEXT NOT NULL DEFAULT '',
	button_label      TEXT NOT NULL DEFAULT '',
	category_id       INTEGER NOT NULL DEFAULT 0,
	staff_roles       TEXT NOT NULL DEFAULT '[]'
)`

const sqliteUpsert = `
INSERT INTO guild_ticket_configs (guild_id, embed_title, embed_description, embed_color, button_label, category_id, staff_roles)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(guild_id) DO UPDATE SET
	embed_title = excluded.embed_title,
	embed_description = excluded.embed_description,
	embed_color = excluded.embed_color,
	button_label = excluded.button_label,
	category_id = excluded.category_id,
	staff_roles = excluded.staff_roles`

type sqliteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend creates a backend on an open SQLite database, creating the table if needed.
func NewSQLiteBackend(ctx context.Context, db *sql.DB) (Backend, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("error creating guild_ticket_configs table: %w", err)
	}
	return &sqliteBackend{db: db}, nil
}

func (s *sqliteBackend) Name() string {
	return sqliteBackendName
}

func (s *sqliteBackend) ReadAll(ctx context.Context) (map[string]*entities.GuildTicketConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guild_id, embed_title, embed_description, embed_color, button_label, category_id, staff_roles
		FROM guild_ticket_configs`)
	if err != nil {
		return nil, fmt.Errorf("error querying guild_ticket_configs: %w", err)
	}
	defer rows.Close()

	configs := make(map[string]*entities.GuildTicketConfig)
	for rows.Next() {
		var (
			guildID    string
			staffRoles string
			cfg        = new(entities.GuildTicketConfig)
		)
		if err := rows.Scan(&guildID, &cfg.EmbedTitle, &cfg.EmbedDescription, &cfg.EmbedColor,
			&cfg.ButtonLabel, &cfg.CategoryID, &staffRoles); err != nil {
			return nil, fmt.Errorf("error scanning guild_ticket_configs: %w", err)
		}

		cfg.StaffRoles = make([]custom.Snowflake, 0)
		if err := json.Unmarshal([]byte(staffRoles), &cfg.StaffRoles); err != nil {
			return nil, fmt.Errorf("error decoding staff roles of guild %s: %w", guildID, err)
		}
		configs[guildID] = cfg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guild_ticket_configs: %w", err)
	}
	return configs, nil
}

func (s *sqliteBackend) WriteAll(ctx context.Context, configs map[string]*entities.GuildTicketConfig) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return fmt.Errorf("error preparing upsert: %w", err)
	}
	defer stmt.Close()

	for id, cfg := range configs {
		roles := cfg.StaffRoles
		if roles == nil {
			roles = make([]custom.Snowflake, 0)
		}
		staffRoles, err := json.Marshal(roles)
		if err != nil {
			return fmt.Errorf("error encoding staff roles of guild %s: %w", id, err)
		}

		if _, err := stmt.ExecContext(ctx, id, cfg.EmbedTitle, cfg.EmbedDescription, cfg.EmbedColor,
			cfg.ButtonLabel, int64(cfg.CategoryID), string(staffRoles)); err != nil {
			return fmt.Errorf("error saving guild %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (s *sqliteBackend) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteBackend) Close(_ context.Context) error {
	return s.db.Close()
}
