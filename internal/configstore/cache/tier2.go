package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/atomicfile"
	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// Tier2 is the durable cache layer: one JSON file per fingerprint under
// dir, named by the hex encoding of the fingerprint's UTF-8 bytes with a
// .cache extension.
type Tier2 struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	index map[string]string // fingerprint -> file path
}

// NewTier2 creates a Tier2 rooted at dir and rebuilds its index by parsing
// every .cache file found there. Files that fail to parse are dropped from
// the index but left on disk for manual recovery.
func NewTier2(dir string, logger *slog.Logger) (*Tier2, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t2 := &Tier2{dir: dir, logger: logger, index: make(map[string]string)}
	if err := t2.rebuildIndex(); err != nil {
		return nil, err
	}
	return t2, nil
}

func (t *Tier2) filePath(fingerprint string) string {
	name := hex.EncodeToString([]byte(fingerprint)) + ".cache"
	return filepath.Join(t.dir, name)
}

func (t *Tier2) rebuildIndex() error {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: reading cache directory: %v", apperrors.ErrStorage, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".cache") {
			continue
		}
		full := filepath.Join(t.dir, de.Name())
		data, err := os.ReadFile(full)
		if err != nil {
			t.logger.Warn("tier2 cache: failed to read file during startup scan", slog.String("file", full), slog.Any("error", err))
			continue
		}
		var entry configDomain.Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			t.logger.Warn("tier2 cache: failed to parse file during startup scan", slog.String("file", full), slog.Any("error", err))
			continue
		}
		t.index[entry.Fingerprint()] = full
	}
	return nil
}

// Get looks up fingerprint's path in the index and reads/parses the file.
func (t *Tier2) Get(fingerprint string) (*configDomain.Entry, bool) {
	t.mu.Lock()
	path, ok := t.index[fingerprint]
	t.mu.Unlock()
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entry configDomain.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// Put writes entry to its fingerprint's file atomically and updates the index.
func (t *Tier2) Put(fingerprint string, entry *configDomain.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: marshaling cache entry: %v", apperrors.ErrStorage, err)
	}

	path := t.filePath(fingerprint)
	if err := atomicfile.Write(path, data); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	t.mu.Lock()
	t.index[fingerprint] = path
	t.mu.Unlock()
	return nil
}

// Invalidate removes fingerprint's entry from the index and unlinks its
// file; a missing file is tolerated.
func (t *Tier2) Invalidate(fingerprint string) {
	t.mu.Lock()
	path, ok := t.index[fingerprint]
	delete(t.index, fingerprint)
	t.mu.Unlock()

	if ok {
		_ = os.Remove(path)
	}
}

// Clear removes every entry from both the index and disk.
func (t *Tier2) Clear() {
	t.mu.Lock()
	paths := make([]string, 0, len(t.index))
	for _, p := range t.index {
		paths = append(paths, p)
	}
	t.index = make(map[string]string)
	t.mu.Unlock()

	for _, p := range paths {
		_ = os.Remove(p)
	}
}

// Has reports whether fingerprint is present in the tier-2 index.
func (t *Tier2) Has(fingerprint string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.index[fingerprint]
	return ok
}
