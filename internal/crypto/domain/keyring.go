package domain

import "sync"

// KeyRing manages a collection of SecretKeys addressed by key_version, with
// one version designated active for new encryptions. Older versions remain
// retrievable by version so previously-encrypted ciphertext stays
// decryptable across a key rotation.
type KeyRing struct {
	activeVersion int
	keys          sync.Map // map[int]*SecretKey
}

// NewKeyRing creates a ring with a single key at version 1, active.
func NewKeyRing(key *SecretKey) *KeyRing {
	r := &KeyRing{activeVersion: DefaultKeyVersion}
	r.keys.Store(DefaultKeyVersion, key)
	return r
}

// ActiveVersion returns the key_version used for encrypting new Ciphertexts.
func (r *KeyRing) ActiveVersion() int {
	return r.activeVersion
}

// Get retrieves the key for a given key_version.
func (r *KeyRing) Get(version int) (*SecretKey, bool) {
	if v, ok := r.keys.Load(version); ok {
		return v.(*SecretKey), true
	}
	return nil, false
}

// Active returns the currently active SecretKey.
func (r *KeyRing) Active() (*SecretKey, bool) {
	return r.Get(r.activeVersion)
}

// Rotate adds a new key at the next version number and makes it active.
// Older versions remain available so previously encrypted ciphertext that
// carries an older key_version can still be decrypted.
func (r *KeyRing) Rotate(key *SecretKey) int {
	next := r.activeVersion + 1
	r.keys.Store(next, key)
	r.activeVersion = next
	return next
}

// Close scrubs every key in the ring from memory.
func (r *KeyRing) Close() {
	r.keys.Range(func(_, value interface{}) bool {
		if key, ok := value.(*SecretKey); ok {
			key.Close()
		}
		return true
	})
	r.keys.Clear()
	r.activeVersion = 0
}
