package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// fileSlot implements Slot on the local file system, one file per slot name.
type fileSlot struct {
	dir    string
	logger zerolog.Logger
}

// NewFileSlot creates a file-backed slot store rooted at dir. The directory
// is created if it does not exist.
func NewFileSlot(dir string, logger zerolog.Logger) (Slot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	return &fileSlot{
		dir:    dir,
		logger: logger.With().Str("component", "file-slot").Logger(),
	}, nil
}

// Get returns the value stored under name, or ErrNotFound.
func (s *fileSlot) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("slot", name).Msg("failed to read slot file")
		return nil, fmt.Errorf("failed to read slot %s: %w", name, err)
	}

	return data, nil
}

// Put stores value under name. The write goes to a temporary file first so a
// crash mid-write never leaves a truncated slot behind.
func (s *fileSlot) Put(ctx context.Context, name string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := s.path(name)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		s.logger.Error().Err(err).Str("slot", name).Msg("failed to write slot file")
		return fmt.Errorf("failed to write slot %s: %w", name, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		s.logger.Error().Err(err).Str("slot", name).Msg("failed to replace slot file")
		return fmt.Errorf("failed to replace slot %s: %w", name, err)
	}

	return nil
}

// path maps a slot name onto a file under the storage directory. Separators
// are stripped so a slot name can never escape the directory.
func (s *fileSlot) path(name string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(name)
	return filepath.Join(s.dir, safe+".json")
}
