package dataaccess

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ticket_config.json")
	s := NewStore(testLogger(), NewFileBackend(path))
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s, path
}

func sampleConfig(cfg *entities.GuildTicketConfig) {
	cfg.EmbedTitle = "Help"
	cfg.EmbedDescription = "desc"
	cfg.EmbedColor = "0x112233"
	cfg.ButtonLabel = "Open"
	cfg.CategoryID = 1180946546315591770
	cfg.StaffRoles = []custom.Snowflake{5, 6}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s, _ := newFileStore(t)

	_, ok := s.Get("123")
	require.False(t, ok)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, path := newFileStore(t)

	saved, err := s.Set(ctx, "123", sampleConfig)
	require.NoError(t, err)

	reloaded := NewStore(testLogger(), NewFileBackend(path))
	all, err := reloaded.Load(ctx)
	require.NoError(t, err)

	got, ok := reloaded.Get("123")
	require.True(t, ok)
	if diff := cmp.Diff(saved, got); diff != "" {
		t.Errorf("reloaded config mismatch (-saved +got):\n%s", diff)
	}
	require.Len(t, all, 1)
}

func TestStore_FileFormat(t *testing.T) {
	ctx := context.Background()
	s, path := newFileStore(t)

	_, err := s.Set(ctx, "123", func(cfg *entities.GuildTicketConfig) {
		cfg.EmbedTitle = "Help"
		cfg.CategoryID = 99
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	require.Contains(t, content, "\n    \"123\": {\n        \"embed_title\": \"Help\"")
	require.Contains(t, content, `"category_id": 99`)
	require.Contains(t, content, `"staff_roles": []`, "staff roles must default to an empty array")
}

func TestStore_SetMergesPartialUpdates(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	_, err := s.Set(ctx, "123", sampleConfig)
	require.NoError(t, err)

	_, err = s.Set(ctx, "123", func(cfg *entities.GuildTicketConfig) {
		cfg.StaffRoles = []custom.Snowflake{7}
	})
	require.NoError(t, err)

	got, ok := s.Get("123")
	require.True(t, ok)
	require.Equal(t, "Help", got.EmbedTitle)
	require.Equal(t, []custom.Snowflake{7}, got.StaffRoles)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	_, err := s.Set(ctx, "123", sampleConfig)
	require.NoError(t, err)

	got, _ := s.Get("123")
	got.EmbedTitle = "changed"
	got.StaffRoles[0] = 1000

	again, _ := s.Get("123")
	require.Equal(t, "Help", again.EmbedTitle)
	require.Equal(t, custom.Snowflake(5), again.StaffRoles[0])
}

func TestStore_ToleratesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticket_config.json")
	doc := `{
    // edited by hand
    "42": {
        "embed_title": "Support",
        "embed_description": "Click below",
        "embed_color": "0x5865F2",
        "button_label": "Create Ticket",
        "category_id": 7,
        "staff_roles": [1, 2,],
    },
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s := NewStore(testLogger(), NewFileBackend(path))
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	got, ok := s.Get("42")
	require.True(t, ok)
	require.Equal(t, custom.Snowflake(7), got.CategoryID)
	require.Equal(t, []custom.Snowflake{1, 2}, got.StaffRoles)
}

func TestStore_NullStaffRolesLoadAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticket_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": {"category_id": 3, "staff_roles": null}}`), 0o600))

	s := NewStore(testLogger(), NewFileBackend(path))
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	got, _ := s.Get("1")
	require.NotNil(t, got.StaffRoles)
	require.Empty(t, got.StaffRoles)
}

func TestStore_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticket_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": `), 0o600))

	s := NewStore(testLogger(), NewFileBackend(path))
	_, err := s.Load(context.Background())
	require.Error(t, err)
}

type failingBackend struct {
	Backend
	err error
}

func (f *failingBackend) WriteAll(_ context.Context, _ map[string]*entities.GuildTicketConfig) error {
	return f.err
}

func TestStore_FailedWriteLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ticket_config.json")
	backend := &failingBackend{Backend: NewFileBackend(path)}

	s := NewStore(testLogger(), backend)
	_, err := s.Load(ctx)
	require.NoError(t, err)

	backend.err = errors.New("disk full")
	_, err = s.Set(ctx, "123", sampleConfig)
	require.ErrorIs(t, err, backend.err)

	_, ok := s.Get("123")
	require.False(t, ok, "a failed write must not be visible in memory")
}

func TestStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tickets.db")

	conn := &connection.SQLite{Path: path}
	db, err := conn.Connect(ctx)
	require.NoError(t, err)

	backend, err := NewSQLiteBackend(ctx, db)
	require.NoError(t, err)

	s := NewStore(testLogger(), backend)
	_, err = s.Load(ctx)
	require.NoError(t, err)

	saved, err := s.Set(ctx, "123", sampleConfig)
	require.NoError(t, err)
	_, err = s.Set(ctx, "456", func(cfg *entities.GuildTicketConfig) {
		cfg.EmbedTitle = "Other"
	})
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close(ctx))

	db, err = conn.Connect(ctx)
	require.NoError(t, err)
	backend, err = NewSQLiteBackend(ctx, db)
	require.NoError(t, err)

	reloaded := NewStore(testLogger(), backend)
	all, err := reloaded.Load(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reloaded.Close(ctx) })

	require.Len(t, all, 2)
	if diff := cmp.Diff(saved, all["123"]); diff != "" {
		t.Errorf("reloaded config mismatch (-saved +got):\n%s", diff)
	}
	require.Empty(t, all["456"].StaffRoles)
	require.True(t, strings.HasPrefix(all["456"].EmbedTitle, "Other"))
}
