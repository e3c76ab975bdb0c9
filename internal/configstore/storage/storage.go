package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/atomicfile"
	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// Storage owns the on-disk byte layout and the in-memory index of current
// entries under baseDir. All reads of current entries are served from the
// index; disk is only consulted at startup and on writes.
type Storage struct {
	baseDir string
	logger  *slog.Logger

	mu    sync.RWMutex
	index map[string]*configDomain.Entry // indexKey(ns, key, env) -> entry
}

// indexKey builds Storage's own "<ns>::<key>::<env>" lookup key. It is
// deliberately double-colon-separated so it can never collide with
// domain.Fingerprint's single-colon "<ns>:<key>:<env>" cache key: the two
// are different keyspaces serving different layers (this package's
// private index vs. the cache's public addressing scheme) even though
// both are built from the same (ns, key, env) triple.
func indexKey(ns, key string, env configDomain.Environment) string {
	return ns + "::" + key + "::" + string(env)
}

// New creates a Storage rooted at baseDir and rebuilds its index by scanning
// configs/. Files that fail to parse are skipped with a warning, never
// silently dropped from disk.
func New(baseDir string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Storage{
		baseDir: baseDir,
		logger:  logger,
		index:   make(map[string]*configDomain.Entry),
	}
	if err := s.rebuildIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) configsDir() string  { return filepath.Join(s.baseDir, "configs") }
func (s *Storage) versionsDir() string { return filepath.Join(s.baseDir, "versions") }

// pathSafe replaces '/' with '_' to produce a filesystem-safe path component.
func pathSafe(s string) string {
	return strings.ReplaceAll(s, "/", "_")
}

func (s *Storage) entryPath(ns, key string, env configDomain.Environment) string {
	filename := fmt.Sprintf("%s_%s_%s.json", pathSafe(ns), pathSafe(key), strings.ToLower(string(env)))
	return filepath.Join(s.configsDir(), filename)
}

func (s *Storage) rebuildIndex() error {
	dir := s.configsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: reading configs directory: %v", apperrors.ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		full := filepath.Join(dir, de.Name())
		data, err := os.ReadFile(full)
		if err != nil {
			s.logger.Warn("storage: failed to read config file during startup scan", slog.String("file", full), slog.Any("error", err))
			continue
		}
		var entry configDomain.Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			s.logger.Warn("storage: failed to parse config file during startup scan", slog.String("file", full), slog.Any("error", err))
			continue
		}
		s.index[indexKey(entry.Namespace, entry.Key, entry.Environment)] = &entry
	}
	return nil
}

// Set writes entry's JSON atomically to its config file and updates the
// in-memory index under the writer lock.
func (s *Storage) Set(entry *configDomain.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: marshaling entry: %v", apperrors.ErrStorage, err)
	}

	path := s.entryPath(entry.Namespace, entry.Key, entry.Environment)
	if err := atomicfile.Write(path, data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[indexKey(entry.Namespace, entry.Key, entry.Environment)] = entry.Clone()
	return nil
}

// Get performs an O(1) in-memory index lookup; it never touches the
// filesystem on the hot path. Returns nil, false if absent.
func (s *Storage) Get(ns, key string, env configDomain.Environment) (*configDomain.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.index[indexKey(ns, key, env)]
	if !ok {
		return nil, false
	}
	return entry.Clone(), true
}

// List returns every current entry for namespace ns in environment env.
func (s *Storage) List(ns string, env configDomain.Environment) []*configDomain.Entry {
	prefix := ns + "::"
	suffix := "::" + string(env)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*configDomain.Entry
	for fp, entry := range s.index {
		if strings.HasPrefix(fp, prefix) && strings.HasSuffix(fp, suffix) {
			out = append(out, entry.Clone())
		}
	}
	return out
}

// Delete removes ns/key/env from the index and unlinks its on-disk file.
// Returns whether a deletion occurred.
func (s *Storage) Delete(ns, key string, env configDomain.Environment) (bool, error) {
	ik := indexKey(ns, key, env)

	s.mu.Lock()
	_, existed := s.index[ik]
	delete(s.index, ik)
	s.mu.Unlock()

	if !existed {
		return false, nil
	}

	path := s.entryPath(ns, key, env)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return true, fmt.Errorf("%w: removing config file: %v", apperrors.ErrStorage, err)
	}
	return true, nil
}

// StoreVersion writes a new versions/<uuid>.json record. The filename UUID
// is freshly generated and unrelated to the entry id it snapshots.
func (s *Storage) StoreVersion(v *configDomain.Version) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: marshaling version: %v", apperrors.ErrStorage, err)
	}

	filename := uuid.New().String() + ".json"
	path := filepath.Join(s.versionsDir(), filename)
	if err := atomicfile.Write(path, data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// GetVersions linearly scans the versions directory for records matching
// (ns, key, env), sorted by version number descending (newest first).
func (s *Storage) GetVersions(ns, key string, env configDomain.Environment) ([]*configDomain.Version, error) {
	dir := s.versionsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading versions directory: %v", apperrors.ErrStorage, err)
	}

	var out []*configDomain.Version
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		full := filepath.Join(dir, de.Name())
		data, err := os.ReadFile(full)
		if err != nil {
			s.logger.Warn("storage: failed to read version file", slog.String("file", full), slog.Any("error", err))
			continue
		}
		var v configDomain.Version
		if err := json.Unmarshal(data, &v); err != nil {
			s.logger.Warn("storage: failed to parse version file", slog.String("file", full), slog.Any("error", err))
			continue
		}
		if v.Namespace == ns && v.Key == key && v.Environment == env {
			out = append(out, &v)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

// ExportAll writes one file per current entry under dir, named to encode
// ns, key, env, and entry id. Returns the count written.
func (s *Storage) ExportAll(dir string) (int, error) {
	s.mu.RLock()
	snapshot := make([]*configDomain.Entry, 0, len(s.index))
	for _, entry := range s.index {
		snapshot = append(snapshot, entry.Clone())
	}
	s.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return 0, fmt.Errorf("%w: creating export directory: %v", apperrors.ErrStorage, err)
	}

	count := 0
	for _, entry := range snapshot {
		data, err := json.Marshal(entry)
		if err != nil {
			return count, fmt.Errorf("%w: marshaling entry during export: %v", apperrors.ErrStorage, err)
		}
		filename := fmt.Sprintf("%s_%s_%s_%s.json",
			pathSafe(entry.Namespace), pathSafe(entry.Key), strings.ToLower(string(entry.Environment)), entry.ID.String())
		if err := os.WriteFile(filepath.Join(dir, filename), data, 0o600); err != nil {
			return count, fmt.Errorf("%w: writing export file: %v", apperrors.ErrStorage, err)
		}
		count++
	}
	return count, nil
}
