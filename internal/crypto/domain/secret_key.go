package domain

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SecretKey is a process-local authenticated-encryption key. The raw bytes are
// never serialized; callers obtain a transport-safe form via ToBase64 and must
// call Close when the key is no longer needed so the bytes are scrubbed from
// memory before the backing array is released.
type SecretKey struct {
	Algorithm Algorithm
	Key       []byte
}

// GenerateKey draws KeySize bytes from the system's cryptographically secure
// random source. Fails with ErrKeyGenerationFailed if randomness is unavailable.
func GenerateKey(algorithm Algorithm) (*SecretKey, error) {
	if algorithm != AESGCM && algorithm != ChaCha20 {
		return nil, ErrUnsupportedAlgorithm
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err)
	}

	return &SecretKey{Algorithm: algorithm, Key: key}, nil
}

// KeyFromBytes wraps raw key material. Fails with ErrInvalidKeySize if the
// byte length does not match the algorithm's required key size.
func KeyFromBytes(algorithm Algorithm, raw []byte) (*SecretKey, error) {
	if algorithm != AESGCM && algorithm != ChaCha20 {
		return nil, ErrUnsupportedAlgorithm
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeySize, KeySize, len(raw))
	}

	key := make([]byte, KeySize)
	copy(key, raw)
	return &SecretKey{Algorithm: algorithm, Key: key}, nil
}

// KeyFromBase64 decodes a base64-encoded key produced by ToBase64.
// Fails with ErrKeyGenerationFailed on malformed input.
func KeyFromBase64(algorithm Algorithm, encoded string) (*SecretKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGenerationFailed, err)
	}
	defer Zero(raw)

	return KeyFromBytes(algorithm, raw)
}

// ToBase64 returns a lossless, reversible base64 encoding of the key bytes,
// suitable for transport through environment variables and CLI flags.
func (k *SecretKey) ToBase64() string {
	return base64.StdEncoding.EncodeToString(k.Key)
}

// Close overwrites the key bytes with zeros before releasing the reference.
// Debug formatting never exposes Key directly; use Close, not fmt.Sprintf.
func (k *SecretKey) Close() {
	if k == nil {
		return
	}
	Zero(k.Key)
}

// String redacts the key bytes from any default/debug formatting.
func (k *SecretKey) String() string {
	if k == nil {
		return "SecretKey(nil)"
	}
	return fmt.Sprintf("SecretKey(algorithm=%s, key=***redacted***)", k.Algorithm)
}
