package usecase

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
	cryptoService "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/service"
	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// Manager is the configuration engine: it orchestrates Storage, an optional
// Cache, and optional envelope encryption into get/set/list/delete/history/
// rollback. Storage is the only mandatory dependency; Cache, the crypto
// service, and the encryption key may all be nil, in which case caching and
// secret support are simply disabled.
type Manager struct {
	storage Storage
	cache   Cache
	crypto  cryptoService.CryptoService
	key     *cryptoDomain.SecretKey
	auditor Auditor
	logger  *slog.Logger
}

// NewManager builds a Manager. cache, crypto, key, and auditor may all be
// nil/zero; logger defaults to slog.Default() when nil.
func NewManager(storage Storage, cache Cache, crypto cryptoService.CryptoService, key *cryptoDomain.SecretKey, auditor Auditor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{storage: storage, cache: cache, crypto: crypto, key: key, auditor: auditor, logger: logger}
}

func (m *Manager) logAuditor() Auditor {
	if m.auditor == nil {
		return noopAuditor{}
	}
	return m.auditor
}

// fetchRaw returns the current entry for (ns, key, env) as stored on disk,
// with any Secret value still encrypted. It consults the cache first and
// falls through to Storage on a miss, populating the cache on the way back.
func (m *Manager) fetchRaw(ns, key string, env configDomain.Environment) (*configDomain.Entry, bool) {
	fp := configDomain.Fingerprint(ns, key, env)

	if m.cache != nil {
		if entry, ok := m.cache.Get(fp); ok {
			return entry, true
		}
	}

	entry, ok := m.storage.Get(ns, key, env)
	if !ok {
		return nil, false
	}

	if m.cache != nil {
		if err := m.cache.Put(fp, entry); err != nil {
			m.logger.Warn("manager: cache populate failed", slog.String("fingerprint", fp), slog.Any("error", err))
		}
	}
	return entry, true
}

// decryptIfSecret returns a clone of entry with a Secret value transparently
// decrypted into a String, provided a key is configured. With no key
// configured the Secret value is returned untouched (still a Ciphertext).
func (m *Manager) decryptIfSecret(entry *configDomain.Entry) (*configDomain.Entry, error) {
	clone := entry.Clone()
	if clone.Value.Kind != configDomain.KindSecret || m.key == nil {
		return clone, nil
	}

	plaintext, err := m.crypto.Decrypt(m.key, clone.Value.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypting secret value: %v", apperrors.ErrCrypto, err)
	}
	if !utf8.Valid(plaintext) {
		return nil, configDomain.ErrNonUTF8Plaintext
	}
	clone.Value = configDomain.StringValue(string(plaintext))
	return clone, nil
}

// Set creates or updates the entry at (ns, key, env). An existing entry
// keeps its id and has version incremented by 1; a new entry starts at
// version 1. Every call appends exactly one Version snapshot and, when a
// cache is configured, write-through updates it after Storage.
func (m *Manager) Set(ns, key string, value configDomain.Value, env configDomain.Environment, user string) (*configDomain.Entry, error) {
	now := time.Now().UTC()
	existing, existed := m.storage.Get(ns, key, env)

	var entry *configDomain.Entry
	var previousVersion int
	if existed {
		entry = existing
		entry.Value = value
		entry.Version = existing.Version + 1
		entry.Metadata.UpdatedAt = now
		entry.Metadata.UpdatedBy = user
		previousVersion = existing.Version
	} else {
		entry = &configDomain.Entry{
			ID:          uuid.New(),
			Namespace:   ns,
			Key:         key,
			Value:       value,
			Environment: env,
			Version:     1,
			Metadata: configDomain.Metadata{
				CreatedAt: now,
				CreatedBy: user,
				UpdatedAt: now,
				UpdatedBy: user,
			},
		}
	}

	if err := m.storage.Set(entry); err != nil {
		return nil, err
	}

	version := &configDomain.Version{
		Version:     entry.Version,
		ConfigID:    entry.ID,
		Namespace:   ns,
		Key:         key,
		Value:       value,
		Environment: env,
		CreatedAt:   now,
		CreatedBy:   user,
	}
	if err := m.storage.StoreVersion(version); err != nil {
		return nil, err
	}

	if m.cache != nil {
		if err := m.cache.Put(entry.Fingerprint(), entry); err != nil {
			m.logger.Warn("manager: cache write-through failed", slog.String("fingerprint", entry.Fingerprint()), slog.Any("error", err))
		}
	}

	if existed {
		m.logAuditor().LogConfigUpdated(ns, key, env, user, previousVersion, entry.Version)
	} else {
		m.logAuditor().LogConfigCreated(ns, key, env, user, entry.Version)
	}
	if value.Kind == configDomain.KindSecret {
		m.logAuditor().LogSecretModified(ns, key, env, user)
	}

	return entry.Clone(), nil
}

// SetSecret encrypts plaintext under the Manager's configured key and
// stores it as a Secret value via Set. Fails with
// ErrEncryptionKeyNotConfigured if no key is loaded.
func (m *Manager) SetSecret(ns, key string, plaintext []byte, env configDomain.Environment, user string) (*configDomain.Entry, error) {
	if m.key == nil {
		return nil, configDomain.ErrEncryptionKeyNotConfigured
	}

	ct, err := m.crypto.Encrypt(m.key, plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypting secret value: %v", apperrors.ErrCrypto, err)
	}

	return m.Set(ns, key, configDomain.SecretValue(ct), env, user)
}

// Get returns the current entry at (ns, key, env), transparently decrypting
// a Secret value into a String when a key is configured. Returns false if no
// entry exists.
func (m *Manager) Get(ns, key string, env configDomain.Environment) (*configDomain.Entry, bool, error) {
	raw, ok := m.fetchRaw(ns, key, env)
	if !ok {
		return nil, false, nil
	}

	decrypted, err := m.decryptIfSecret(raw)
	if err != nil {
		return nil, false, err
	}

	m.logAuditor().LogConfigAccessed(ns, key, env, "")
	if raw.Value.Kind == configDomain.KindSecret {
		m.logAuditor().LogSecretAccessed(ns, key, env, "")
	}
	return decrypted, true, nil
}

// GetSecret returns the raw decrypted bytes of a Secret entry, without UTF-8
// conversion. Requires a configured key and fails with ErrNotASecret if the
// stored entry is not the Secret variant.
func (m *Manager) GetSecret(ns, key string, env configDomain.Environment) ([]byte, error) {
	if m.key == nil {
		return nil, configDomain.ErrEncryptionKeyNotConfigured
	}

	raw, ok := m.fetchRaw(ns, key, env)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, configDomain.Fingerprint(ns, key, env))
	}
	if raw.Value.Kind != configDomain.KindSecret {
		return nil, configDomain.ErrNotASecret
	}

	plaintext, err := m.crypto.Decrypt(m.key, raw.Value.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypting secret value: %v", apperrors.ErrCrypto, err)
	}

	m.logAuditor().LogSecretAccessed(ns, key, env, "")
	return plaintext, nil
}

// GetWithOverrides resolves (ns, key, env) via environment-merge: Base is
// always read first, then the override chain for env, with the last
// present value winning. Secrets encountered along the way are decrypted
// when a key is configured.
func (m *Manager) GetWithOverrides(ns, key string, env configDomain.Environment) (*configDomain.Entry, bool, error) {
	chain := append([]configDomain.Environment{configDomain.Base}, configDomain.OverrideChain(env)...)

	var winner *configDomain.Entry
	for _, e := range chain {
		if raw, ok := m.fetchRaw(ns, key, e); ok {
			winner = raw
		}
	}
	if winner == nil {
		return nil, false, nil
	}

	decrypted, err := m.decryptIfSecret(winner)
	if err != nil {
		return nil, false, err
	}

	m.logAuditor().LogConfigAccessed(ns, key, env, "")
	return decrypted, true, nil
}

// List returns every current entry for (ns, env), decrypting any Secret
// values transparently when a key is configured.
func (m *Manager) List(ns string, env configDomain.Environment) ([]*configDomain.Entry, error) {
	raw := m.storage.List(ns, env)
	out := make([]*configDomain.Entry, 0, len(raw))
	for _, entry := range raw {
		decrypted, err := m.decryptIfSecret(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, decrypted)
	}
	return out, nil
}

// Delete removes the entry at (ns, key, env). No Version record is written
// for a deletion; the history remains visible through GetHistory. Returns
// whether a deletion occurred.
func (m *Manager) Delete(ns, key string, env configDomain.Environment, user string) (bool, error) {
	deleted, err := m.storage.Delete(ns, key, env)
	if err != nil {
		return deleted, err
	}
	if !deleted {
		return false, nil
	}

	if m.cache != nil {
		m.cache.Invalidate(configDomain.Fingerprint(ns, key, env))
	}
	m.logAuditor().LogConfigDeleted(ns, key, env, user)
	return true, nil
}

// GetHistory returns all versions matching (ns, key, env), newest-first by
// version number.
func (m *Manager) GetHistory(ns, key string, env configDomain.Environment) ([]*configDomain.Version, error) {
	return m.storage.GetVersions(ns, key, env)
}

// Rollback finds the version record numbered targetVersion and, if found,
// constructs a new entry carrying that snapshot's value at a fresh
// version = head.version + 1, persists it, and appends a Version record
// describing the rollback. Returns false if targetVersion has no matching
// record.
func (m *Manager) Rollback(ns, key string, env configDomain.Environment, targetVersion int) (*configDomain.Entry, bool, error) {
	versions, err := m.storage.GetVersions(ns, key, env)
	if err != nil {
		return nil, false, err
	}

	var target *configDomain.Version
	highestKnown := 0
	for _, v := range versions {
		if v.Version == targetVersion {
			target = v
		}
		if v.Version > highestKnown {
			highestKnown = v.Version
		}
	}
	if target == nil {
		return nil, false, nil
	}

	now := time.Now().UTC()
	head, headExists := m.storage.Get(ns, key, env)

	var entry *configDomain.Entry
	var fromVersion int
	if headExists {
		entry = head
		fromVersion = head.Version
		entry.Version = head.Version + 1
	} else {
		entry = &configDomain.Entry{
			ID:          target.ConfigID,
			Namespace:   ns,
			Key:         key,
			Environment: env,
			Version:     highestKnown + 1,
			Metadata: configDomain.Metadata{
				CreatedAt: target.CreatedAt,
				CreatedBy: target.CreatedBy,
				UpdatedBy: target.CreatedBy,
			},
		}
		fromVersion = highestKnown
	}
	entry.Value = target.Value
	entry.Metadata.UpdatedAt = now

	if err := m.storage.Set(entry); err != nil {
		return nil, false, err
	}

	changeDescription := fmt.Sprintf("Rollback to version %d", targetVersion)
	record := &configDomain.Version{
		Version:           entry.Version,
		ConfigID:          entry.ID,
		Namespace:         ns,
		Key:               key,
		Value:             target.Value,
		Environment:       env,
		CreatedAt:         now,
		CreatedBy:         entry.Metadata.UpdatedBy,
		ChangeDescription: changeDescription,
	}
	if err := m.storage.StoreVersion(record); err != nil {
		return nil, false, err
	}

	if m.cache != nil {
		if err := m.cache.Put(entry.Fingerprint(), entry); err != nil {
			m.logger.Warn("manager: cache write-through failed during rollback", slog.String("fingerprint", entry.Fingerprint()), slog.Any("error", err))
		}
	}

	m.logAuditor().LogConfigRolledBack(ns, key, env, entry.Metadata.UpdatedBy, fromVersion, entry.Version)
	return entry.Clone(), true, nil
}

// noopAuditor discards every event; used when a Manager is constructed
// without an Auditor.
type noopAuditor struct{}

func (noopAuditor) LogConfigCreated(string, string, configDomain.Environment, string, int)         {}
func (noopAuditor) LogConfigUpdated(string, string, configDomain.Environment, string, int, int)     {}
func (noopAuditor) LogConfigDeleted(string, string, configDomain.Environment, string)               {}
func (noopAuditor) LogConfigAccessed(string, string, configDomain.Environment, string)              {}
func (noopAuditor) LogConfigRolledBack(string, string, configDomain.Environment, string, int, int)   {}
func (noopAuditor) LogSecretModified(string, string, configDomain.Environment, string)               {}
func (noopAuditor) LogSecretAccessed(string, string, configDomain.Environment, string)                {}
