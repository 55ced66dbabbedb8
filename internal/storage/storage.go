// Package storage is a small local key-value store: one JSON file per key.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nibzard/tasks-go/internal/taskdir"
)

var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("storage: key not found")
	// ErrInvalidKey is returned for keys that cannot be used as file names.
	ErrInvalidKey = errors.New("storage: invalid key")

	validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	timeNow  = func() time.Time { return time.Now().UTC() }
)

// Store is a persistent key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(key string, value []byte) error
	// Quarantine moves a value aside so it is no longer returned by Get.
	// It returns a description of where the value went.
	Quarantine(key string) (string, error)
}

// ValidateKey checks that key is usable as a file name.
func ValidateKey(key string) error {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// FileStore keeps each key in <Dir>/<key>.json.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created on
// the first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return taskdir.StoragePath(s.Dir, key)
}

// Get reads the value for key.
func (s *FileStore) Get(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes the value for key atomically.
func (s *FileStore) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := atomicWriteFile(s.Path(key), value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Quarantine renames the file for key to <key>.json.<timestamp>.corrupt.
func (s *FileStore) Quarantine(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	src := s.Path(key)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("stat %s: %w", key, err)
	}
	dst := fmt.Sprintf("%s.%s.corrupt", src, timeNow().Format("20060102T150405.000000000"))
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("move to quarantine: %w", err)
	}
	return dst, nil
}

// Quarantined lists quarantined files for key, oldest first.
func (s *FileStore) Quarantined(key string) ([]string, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read storage dir: %w", err)
	}
	prefix := key + ".json."
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".corrupt") {
			continue
		}
		out = append(out, filepath.Join(s.Dir, name))
	}
	sort.Strings(out)
	return out, nil
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tasks-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	// Rename is atomic on the same filesystem.
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store, mainly for tests.
type MemoryStore struct {
	mu          sync.Mutex
	values      map[string][]byte
	quarantined map[string][][]byte

	// SetErr, when non-nil, is returned by every Set call.
	SetErr error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:      make(map[string][]byte),
		quarantined: make(map[string][][]byte),
	}
}

// Get returns a copy of the value for key.
func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *MemoryStore) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Quarantine moves the value for key into the quarantine list.
func (m *MemoryStore) Quarantine(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.values, key)
	m.quarantined[key] = append(m.quarantined[key], v)
	return fmt.Sprintf("memory:%s#%d", key, len(m.quarantined[key])), nil
}

// QuarantinedValues returns the values moved aside for key.
func (m *MemoryStore) QuarantinedValues(key string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.quarantined[key]...)
}
