package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// document is the on-disk shape of the state file.
type document struct {
	Processed []string `json:"processed"`
	Updated   string   `json:"updated"`
}

func (s *implStore) Path() string {
	return s.path
}

func (s *implStore) Load() ProcessedSet {
	ctx := context.Background()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info(ctx, "No state file at %s, starting empty", s.path)
		} else {
			s.logger.Warn(ctx, "Failed to read state file %s, starting empty: %v", s.path, err)
		}
		return NewProcessedSet()
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn(ctx, "State file %s is malformed, starting empty: %v", s.path, err)
		return NewProcessedSet()
	}

	set := NewProcessedSet()
	for _, name := range doc.Processed {
		if name != "" {
			set.Add(name)
		}
	}
	return set
}

func (s *implStore) Save(set ProcessedSet) error {
	doc := document{
		Processed: set.Sorted(),
		Updated:   s.now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

func (s *implStore) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock state file: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, s.lock.Path())
	}
	return nil
}

func (s *implStore) Release() error {
	return s.lock.Unlock()
}

// writeFileAtomic writes data to a temp file in the target directory, syncs
// it and renames it over path, then syncs the directory entry.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// Some filesystems refuse fsync on directories; the rename is already done.
	_ = d.Sync()
	return nil
}
