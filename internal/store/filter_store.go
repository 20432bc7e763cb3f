// Package store implements the flat-file persistence layer. Each store owns
// one JSON collection that is read in full, mutated in memory, and written
// back in full (write-then-rename) on every mutating operation.
//
// Recovery contract: a missing or malformed backing file is treated as an
// empty collection and logged, never surfaced to the caller. Writers are
// serialized per store with a mutex so a concurrent HTTP layer cannot lose
// updates.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hklam/go-ticket-backend/internal/domain"
)

// timeLayout is the timestamp format recorded in filter metadata.
const timeLayout = "2006-01-02 15:04:05"

// FilterPatch carries a partial filter update. Nil fields are left
// untouched; only recognized filter attributes can be patched (the id is
// immutable).
type FilterPatch struct {
	Name          *string `json:"name,omitempty"`
	FromEmail     *string `json:"from_email,omitempty"`
	SubjectFilter *string `json:"subject_filter,omitempty"`
	BodyFilter    *string `json:"body_filter,omitempty"`
	ToEmail       *string `json:"to_email,omitempty"`
	Action        *string `json:"action,omitempty"`
	Description   *string `json:"description,omitempty"`
	Enabled       *bool   `json:"enabled,omitempty"`
}

// FilterStore persists the ordered filter collection in a single JSON file.
type FilterStore struct {
	mu      sync.Mutex
	path    string
	filters []domain.Filter
}

// NewFilterStore opens (or initializes) the filter collection at path.
// Loading never fails: missing or unparseable content yields an empty
// collection.
func NewFilterStore(path string) *FilterStore {
	s := &FilterStore{path: path}
	s.filters = loadCollection[domain.Filter](path)
	return s
}

// List returns the filters in stored order. The result is a copy; callers
// may not mutate store state through it.
func (s *FilterStore) List() []domain.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Filter, len(s.filters))
	copy(out, s.filters)
	return out
}

// NextID returns the id the next created filter will receive: 1 for an
// empty collection, otherwise max(existing ids) + 1. Deleted ids are never
// reassigned because the maximum only grows.
func (s *FilterStore) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextIDLocked()
}

func (s *FilterStore) nextIDLocked() int {
	maxID := 0
	for _, f := range s.filters {
		if f.ID > maxID {
			maxID = f.ID
		}
	}
	return maxID + 1
}

// Create appends a new filter, assigns its id, enables it, stamps
// created_at, and persists the collection. The stored filter is returned.
func (s *FilterStore) Create(f domain.Filter) (domain.Filter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.ID = s.nextIDLocked()
	f.Enabled = true
	f.CreatedAt = time.Now().Format(timeLayout)
	f.UpdatedAt = ""
	s.filters = append(s.filters, f)

	if err := s.saveLocked(); err != nil {
		// Roll back the in-memory append so a retry reuses the same id.
		s.filters = s.filters[:len(s.filters)-1]
		return domain.Filter{}, err
	}
	return f, nil
}

// Edit applies a partial update to the filter with the given id and
// persists. It reports whether a matching filter was found.
func (s *FilterStore) Edit(id int, patch FilterPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.filters {
		if s.filters[i].ID != id {
			continue
		}
		f := &s.filters[i]
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.FromEmail != nil {
			f.FromEmail = *patch.FromEmail
		}
		if patch.SubjectFilter != nil {
			f.SubjectFilter = *patch.SubjectFilter
		}
		if patch.BodyFilter != nil {
			f.BodyFilter = *patch.BodyFilter
		}
		if patch.ToEmail != nil {
			f.ToEmail = *patch.ToEmail
		}
		if patch.Action != nil {
			f.Action = *patch.Action
		}
		if patch.Description != nil {
			f.Description = *patch.Description
		}
		if patch.Enabled != nil {
			f.Enabled = *patch.Enabled
		}
		f.UpdatedAt = time.Now().Format(timeLayout)
		return true, s.saveLocked()
	}
	return false, nil
}

// Delete removes the filter with the given id, persisting only if a
// removal occurred. It reports whether the id was found.
func (s *FilterStore) Delete(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.filters {
		if s.filters[i].ID == id {
			s.filters = append(s.filters[:i], s.filters[i+1:]...)
			return true, s.saveLocked()
		}
	}
	return false, nil
}

// Save persists the current in-memory collection.
func (s *FilterStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *FilterStore) saveLocked() error {
	return writeCollection(s.path, s.filters)
}

// ---- shared flat-file helpers ----

// loadCollection reads a JSON array of T from path. Missing files and
// malformed content both yield an empty (nil) slice; malformed content is
// additionally logged, since it usually means a hand-edited file.
func loadCollection[T any](path string) []T {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("store: read failed, starting empty")
		}
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("store: malformed collection, starting empty")
		return nil
	}
	return items
}

// writeCollection writes items as pretty-printed JSON via a temp file in
// the same directory followed by an atomic rename, so readers never observe
// a partially written file.
func writeCollection[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: replace %s: %w", path, err)
	}
	return nil
}
