// Package domain defines the cryptographic domain model: algorithms, secret
// keys, key rings, and ciphertext records for authenticated envelope
// encryption of configuration secrets.
package domain

import (
	"github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// Cryptographic operation errors.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size does not match the algorithm.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrKeyGenerationFailed indicates the system random source was unavailable.
	ErrKeyGenerationFailed = errors.Wrap(errors.ErrInvalidInput, "key generation failed")

	// ErrEncryptionFailed indicates encryption could not be performed (e.g. algorithm mismatch).
	ErrEncryptionFailed = errors.Wrap(errors.ErrInvalidInput, "encryption failed")

	// ErrDecryptionFailed indicates decryption failed due to wrong key, nonce, or tampering.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyNotFound indicates no key exists for the requested key_version.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "secret key not found")

	// ErrActiveKeyNotSet indicates the key ring has no active version configured.
	ErrActiveKeyNotSet = errors.Wrap(errors.ErrInvalidInput, "active key version not set")
)
