package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
)

// Argon2id parameters for password-derived keys. These match the memory-hard
// defaults recommended for interactive key derivation: enough memory cost to
// resist GPU/ASIC cracking without making single-process derivation slow.
const (
	argon2Memory      = 64 * 1024 // KiB, i.e. 64 MiB
	argon2Iterations  = 3
	argon2Parallelism = 4
	argon2SaltSize    = 16
)

// CryptoManagerService implements CryptoService using an AEADManager for the
// underlying authenticated encryption and Argon2id for password-derived keys.
type CryptoManagerService struct {
	aeadManager AEADManager
}

// NewCryptoManager creates a CryptoManagerService backed by the given AEADManager.
func NewCryptoManager(aeadManager AEADManager) *CryptoManagerService {
	return &CryptoManagerService{aeadManager: aeadManager}
}

// GenerateKey creates a new random SecretKey for the given algorithm.
func (c *CryptoManagerService) GenerateKey(alg cryptoDomain.Algorithm) (*cryptoDomain.SecretKey, error) {
	return cryptoDomain.GenerateKey(alg)
}

// DeriveKey derives a 32-byte AES-256-GCM key from password using Argon2id.
// If salt is nil, a fresh random salt is generated. The returned verifier
// string encodes the algorithm parameters, the salt, and the derived key
// bytes themselves (see encodeVerifier), so VerifyPassword can confirm a
// candidate password; the verifier is therefore as sensitive as the key.
func (c *CryptoManagerService) DeriveKey(password string, salt []byte) (*cryptoDomain.SecretKey, string, error) {
	if salt == nil {
		salt = make([]byte, argon2SaltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, "", fmt.Errorf("%w: %v", cryptoDomain.ErrKeyGenerationFailed, err)
		}
	}

	derived := argon2.IDKey([]byte(password), salt, argon2Iterations, argon2Memory, argon2Parallelism, cryptoDomain.KeySize)
	key, err := cryptoDomain.KeyFromBytes(cryptoDomain.AESGCM, derived)
	if err != nil {
		return nil, "", err
	}

	verifier := encodeVerifier(salt, derived)
	return key, verifier, nil
}

// VerifyPassword checks password against a verifier produced by DeriveKey.
// It re-derives the key using the verifier's embedded salt and parameters and
// compares the result in constant time. Any malformed verifier or mismatched
// password returns false; it never panics or distinguishes the two cases.
func (c *CryptoManagerService) VerifyPassword(password, verifier string) bool {
	salt, want, err := decodeVerifier(verifier)
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, argon2Iterations, argon2Memory, argon2Parallelism, cryptoDomain.KeySize)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// Encrypt authenticates and encrypts plaintext under key, optionally bound
// to aad, returning a self-describing Ciphertext record.
func (c *CryptoManagerService) Encrypt(key *cryptoDomain.SecretKey, plaintext, aad []byte) (*cryptoDomain.Ciphertext, error) {
	if key == nil {
		return nil, cryptoDomain.ErrActiveKeyNotSet
	}

	cipher, err := c.aeadManager.CreateCipher(key.Key, key.Algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	return cryptoDomain.NewCiphertext(key.Algorithm, nonce, ciphertext, cryptoDomain.DefaultKeyVersion, string(aad)), nil
}

// Decrypt authenticates and decrypts a Ciphertext under key. aad must match
// what was supplied to Encrypt.
func (c *CryptoManagerService) Decrypt(key *cryptoDomain.SecretKey, ct *cryptoDomain.Ciphertext, aad []byte) ([]byte, error) {
	if key == nil {
		return nil, cryptoDomain.ErrActiveKeyNotSet
	}
	if ct == nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	cipher, err := c.aeadManager.CreateCipher(key.Key, ct.Algorithm)
	if err != nil {
		return nil, err
	}

	nonce, err := ct.NonceBytes()
	if err != nil {
		return nil, err
	}
	ciphertext, err := ct.CiphertextBytes()
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(ciphertext, nonce, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// encodeVerifier packs the Argon2id parameters, salt, and derived key into a
// single "$argon2id$v=.." style string, modeled on the PHC string format.
func encodeVerifier(salt, derived []byte) string {
	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Iterations, argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(derived),
	)
}

// decodeVerifier parses a string produced by encodeVerifier back into its
// salt and derived-key components.
func decodeVerifier(verifier string) (salt, derived []byte, err error) {
	parts := strings.Split(verifier, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, fmt.Errorf("malformed verifier")
	}

	var memory, iterations, parallelism int
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return nil, nil, fmt.Errorf("malformed verifier parameters: %w", err)
	}
	if memory != argon2Memory || iterations != argon2Iterations || parallelism != argon2Parallelism {
		return nil, nil, fmt.Errorf("unsupported verifier parameters")
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, fmt.Errorf("malformed salt: %w", err)
	}
	derived, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, fmt.Errorf("malformed derived key: %w", err)
	}

	return salt, derived, nil
}
