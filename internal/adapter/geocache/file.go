package geocache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// FileStore keeps one file per callsign, cache_<CALL>.xml, in a directory.
// Entries are written to a temp file and hard-linked into place, so a reader
// never sees a partial payload and an existing entry is never replaced.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file that holds the entry for call.
func (s *FileStore) Path(call string) string {
	// Portable callsigns such as "W1ABC/P" contain a path separator.
	return filepath.Join(s.dir, "cache_"+url.PathEscape(call)+".xml")
}

func (s *FileStore) Get(_ context.Context, call string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path(call))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	return data, true, nil
}

func (s *FileStore) Put(_ context.Context, call string, payload []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".cache_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp entry: %w", err)
	}

	if err := os.Link(tmpName, s.Path(call)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
