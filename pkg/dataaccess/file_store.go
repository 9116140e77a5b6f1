package dataaccess

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// DefaultConfigPath is where the JSON backend keeps its document when no path is configured.
const DefaultConfigPath = "ticket_config.json"

const fileBackendName = "json"

// fileBackend stores every guild configuration in a single JSON document keyed by guild ID.
type fileBackend struct {
	path string
}

// NewFileBackend creates a backend that reads and rewrites the JSON document at path.
func NewFileBackend(path string) Backend {
	if path == "" {
		path = DefaultConfigPath
	}
	return &fileBackend{path: path}
}

func (f *fileBackend) Name() string {
	return fileBackendName
}

func (f *fileBackend) ReadAll(ctx context.Context) (map[string]*entities.GuildTicketConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]*entities.GuildTicketConfig), nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", f.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]*entities.GuildTicketConfig), nil
	}

	// The file is meant to be human editable, so tolerate comments and trailing commas.
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", f.path, err)
	}

	configs := make(map[string]*entities.GuildTicketConfig)
	if err := json.Unmarshal(standardized, &configs); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", f.path, err)
	}
	return configs, nil
}

func (f *fileBackend) WriteAll(ctx context.Context, configs map[string]*entities.GuildTicketConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(configs, "", "    ")
	if err != nil {
		return fmt.Errorf("error encoding ticket configs: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("error creating %s: %w", dir, err)
		}
	}

	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("error writing %s: %w", f.path, err)
	}
	return nil
}

func (f *fileBackend) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error checking %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func (f *fileBackend) Close(_ context.Context) error {
	return nil
}
