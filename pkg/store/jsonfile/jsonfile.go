// Package jsonfile persists each session transcript as a single JSON
// file holding the ordered {role, content} list.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
	"github.com/OmkarYeole/ArtifyAI/pkg/store"
)

// Store implements store.Store on a directory of JSON files.
type Store struct {
	dir string
}

// Verify interface compliance.
var _ store.Store = (*Store)(nil)

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id string) string {
	// Identifiers are filename-safe tokens; strip any path components a
	// caller might smuggle in.
	return filepath.Join(s.dir, filepath.Base(id))
}

// Load reads and parses the transcript stored under id.
func (s *Store) Load(ctx context.Context, id string) (domain.Transcript, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrStorage, id, err)
	}

	var transcript domain.Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptRecord, id, err)
	}
	return transcript, nil
}

// Save overwrites the record for id. The transcript is written to a
// temporary file in the same directory and renamed into place so a
// partial write never loads as a truncated transcript.
func (s *Store) Save(ctx context.Context, id string, transcript domain.Transcript) error {
	data, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", domain.ErrStorage, id, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", domain.ErrStorage, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStorage, id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing %s: %v", domain.ErrStorage, id, err)
	}

	if err := os.Rename(tmpPath, s.path(id)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: renaming %s: %v", domain.ErrStorage, id, err)
	}
	return nil
}

// List enumerates stored identifiers, newest first. Enumeration
// failures log and return an empty slice.
func (s *Store) List(ctx context.Context) []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		slog.Warn("Failed to enumerate session records", "dir", s.dir, "error", err)
		return nil
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, name)
	}

	// Timestamp identifiers sort lexicographically; newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids
}

// Delete removes the record for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: deleting %s: %v", domain.ErrStorage, id, err)
	}
	return nil
}
