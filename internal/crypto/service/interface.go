// Package service provides cryptographic service interfaces and implementations.
//
// This package implements the service layer for authenticated envelope
// encryption of configuration secrets, providing concrete implementations of
// AEAD ciphers and a higher-level CryptoService covering key generation,
// password-derived keys, and encrypt/decrypt of Ciphertext records.
//
// # Services Overview
//
// AEADManagerService: Factory for creating AEAD cipher instances.
// Supports AES-256-GCM and ChaCha20-Poly1305 algorithms.
//
// CryptoService: Generates and derives SecretKeys, verifies passwords, and
// encrypts/decrypts values into the Ciphertext record stored alongside a
// configuration entry.
//
// AESGCMCipher: Implements AEAD using AES-256-GCM with hardware acceleration support.
//
// ChaCha20Poly1305Cipher: Implements AEAD using ChaCha20-Poly1305 for platforms
// without AES hardware acceleration.
//
// # Usage Example
//
//	aeadManager := NewAEADManager()
//	crypto := NewCryptoManager(aeadManager)
//
//	key, err := domain.GenerateKey(domain.AESGCM)
//	if err != nil {
//	    return err
//	}
//	defer key.Close()
//
//	ct, err := crypto.Encrypt(key, []byte("plaintext"), nil)
//	if err != nil {
//	    return err
//	}
//	plaintext, err := crypto.Decrypt(key, ct, nil)
//
// # Thread Safety
//
// All service implementations are stateless and thread-safe. Multiple goroutines
// can safely use the same service instances for concurrent operations.
//
// # Algorithm Selection
//
//   - Use AESGCM on servers and modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on mobile devices, embedded systems, or platforms without AES-NI
//   - Both provide equivalent 256-bit security when properly implemented
//
// # Dependencies
//
// The service layer depends on the crypto/domain package for models and errors,
// following Clean Architecture principles. Services should be injected as
// dependencies rather than instantiated directly in business logic.
package service

import (
	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
//
// AEAD encryption provides both confidentiality and authenticity guarantees,
// protecting against unauthorized access and tampering. Implementations ensure
// that any modification to the ciphertext or AAD will be detected during decryption.
//
// Security requirements:
//   - Nonces must be unique for each encryption with the same key
//   - Keys should be at least 256 bits for strong security
//   - The same AAD used during encryption must be provided during decryption
//
// Implementations: AESGCMCipher, ChaCha20Poly1305Cipher
type AEAD interface {
	// Encrypt encrypts plaintext with optional additional authenticated data (AAD).
	//
	// The AAD parameter allows binding the ciphertext to additional context
	// (e.g., user ID, record ID, metadata) without encrypting it. This prevents
	// ciphertext from being used in a different context even if intercepted.
	//
	// A unique nonce is automatically generated for each encryption operation.
	// The nonce must be stored alongside the ciphertext for later decryption.
	//
	// Parameters:
	//   - plaintext: The data to encrypt (can be empty)
	//   - aad: Additional data to authenticate but not encrypt (can be nil)
	//
	// Returns:
	//   - ciphertext: The encrypted data including authentication tag
	//   - nonce: The randomly generated nonce used for this encryption
	//   - err: Any error encountered during encryption or nonce generation
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	//
	// This method verifies the authentication tag before returning plaintext,
	// ensuring the ciphertext hasn't been tampered with. If authentication fails,
	// no plaintext is returned to prevent processing of modified data.
	//
	// Parameters:
	//   - ciphertext: The encrypted data to decrypt (including authentication tag)
	//   - nonce: The nonce that was used during encryption
	//   - aad: The same additional data provided during encryption (can be nil)
	//
	// Returns:
	//   - plaintext: The decrypted data
	//   - err: Authentication failure, invalid nonce, or other decryption errors
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
//
// This interface acts as a factory for creating authenticated encryption cipher
// instances. It abstracts the cipher creation logic, allowing callers to obtain
// cipher instances without knowing the specific implementation details.
//
// The manager supports two algorithms:
//   - AESGCM: AES-256-GCM (best on hardware with AES-NI acceleration)
//   - ChaCha20: ChaCha20-Poly1305 (best on mobile/embedded systems)
//
// Both algorithms provide authenticated encryption with associated data (AEAD),
// ensuring confidentiality and authenticity of encrypted data.
//
// Usage pattern:
//  1. Create an AEADManager instance
//  2. Call CreateCipher with a 32-byte key and desired algorithm
//  3. Use the returned AEAD cipher to encrypt/decrypt data
//
// Example:
//
//	manager := NewAEADManager()
//	cipher, err := manager.CreateCipher(dekKey, cryptoDomain.AESGCM)
//	if err != nil {
//	    return err
//	}
//	ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
//
// Implementation: AEADManagerService
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	//
	// This factory method instantiates the appropriate cipher implementation
	// based on the provided algorithm. The key must be exactly 32 bytes (256 bits)
	// for both supported algorithms.
	//
	// The returned cipher is stateless and thread-safe, allowing concurrent
	// encryption/decryption operations with the same cipher instance.
	//
	// Parameters:
	//   - key: The encryption key (must be exactly 32 bytes)
	//   - alg: The algorithm to use (AESGCM or ChaCha20)
	//
	// Returns:
	//   - An AEAD cipher instance ready for encryption/decryption operations
	//   - ErrInvalidKeySize if key is not 32 bytes
	//   - ErrUnsupportedAlgorithm if algorithm is not supported
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// CryptoService defines the interface for key management and authenticated
// encryption of configuration secret values.
//
// Unlike AEADManager, which only builds stateless ciphers from raw key bytes,
// CryptoService owns the higher-level operations a secret store needs:
// generating and deriving SecretKeys, verifying a password against a stored
// verifier without ever comparing in variable time, and encrypting/decrypting
// plaintext into the Ciphertext record persisted on disk.
//
// Implementation: CryptoManagerService
type CryptoService interface {
	// GenerateKey creates a new random SecretKey for the given algorithm.
	GenerateKey(alg cryptoDomain.Algorithm) (*cryptoDomain.SecretKey, error)

	// DeriveKey derives a SecretKey from a password using Argon2id. If salt is
	// nil, a fresh random salt is generated. Returns the derived key together
	// with an encoded verifier string suitable for persisting and later
	// checking with VerifyPassword.
	DeriveKey(password string, salt []byte) (*cryptoDomain.SecretKey, string, error)

	// VerifyPassword checks a password against a verifier produced by
	// DeriveKey, in constant time. It never panics or returns a distinguishable
	// error for a mismatch versus a malformed verifier; both yield false.
	VerifyPassword(password, verifier string) bool

	// Encrypt authenticates and encrypts plaintext under key, optionally
	// binding it to aad (additional authenticated data, e.g. "namespace/key").
	// The result is a self-describing Ciphertext ready to persist as JSON.
	Encrypt(key *cryptoDomain.SecretKey, plaintext, aad []byte) (*cryptoDomain.Ciphertext, error)

	// Decrypt authenticates and decrypts a Ciphertext under key. aad must
	// match what was supplied to Encrypt or decryption fails.
	Decrypt(key *cryptoDomain.SecretKey, ct *cryptoDomain.Ciphertext, aad []byte) ([]byte, error)
}
