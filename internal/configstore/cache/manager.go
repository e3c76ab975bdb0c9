package cache

import (
	"log/slog"

	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
)

// Manager composes a Tier1 (in-memory) and Tier2 (durable) cache with
// write-through and tier-2-to-tier-1 promotion. It is independent of the
// Manager configuration engine and the Storage component; callers compose
// it externally around Storage-backed reads and writes.
type Manager struct {
	tier1  *Tier1
	tier2  *Tier2
	logger *slog.Logger
}

// NewManager composes tier1 and tier2 into a CacheManager.
func NewManager(tier1 *Tier1, tier2 *Tier2, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{tier1: tier1, tier2: tier2, logger: logger}
}

// Get consults tier 1 first; on a tier-1 miss it consults tier 2 and, on a
// tier-2 hit, promotes the entry into tier 1 (which may evict). A miss in
// both tiers returns false.
func (m *Manager) Get(fingerprint string) (*configDomain.Entry, bool) {
	if entry, ok := m.tier1.Get(fingerprint); ok {
		return entry, true
	}

	entry, ok := m.tier2.Get(fingerprint)
	if !ok {
		return nil, false
	}

	m.tier1.Put(fingerprint, entry)
	return entry.Clone(), true
}

// Put writes entry through to both tiers. Tier 1 is written before tier 2
// so that once both writes succeed, a reader that sees tier 1 also finds
// the value in tier 2.
func (m *Manager) Put(fingerprint string, entry *configDomain.Entry) error {
	m.tier1.Put(fingerprint, entry)
	if err := m.tier2.Put(fingerprint, entry); err != nil {
		m.logger.Error("cache: tier2 write-through failed", slog.String("fingerprint", fingerprint), slog.Any("error", err))
		return err
	}
	return nil
}

// Invalidate removes fingerprint from both tiers.
func (m *Manager) Invalidate(fingerprint string) {
	m.tier1.Invalidate(fingerprint)
	m.tier2.Invalidate(fingerprint)
}

// Clear empties both tiers.
func (m *Manager) Clear() {
	m.tier1.Clear()
	m.tier2.Clear()
}

// Tier1Stats exposes tier-1 statistics for observability/testing.
func (m *Manager) Tier1Stats() Stats {
	return m.tier1.Stats()
}
