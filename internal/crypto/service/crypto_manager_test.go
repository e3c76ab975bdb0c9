package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
)

func newTestCryptoManager() *CryptoManagerService {
	return NewCryptoManager(NewAEADManager())
}

func TestCryptoManagerEncryptDecrypt(t *testing.T) {
	crypto := newTestCryptoManager()
	key, err := cryptoDomain.GenerateKey(cryptoDomain.AESGCM)
	require.NoError(t, err)
	defer key.Close()

	t.Run("round trips plaintext", func(t *testing.T) {
		ct, err := crypto.Encrypt(key, []byte("super secret value"), nil)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.AESGCM, ct.Algorithm)

		plaintext, err := crypto.Decrypt(key, ct, nil)
		require.NoError(t, err)
		assert.Equal(t, "super secret value", string(plaintext))
	})

	t.Run("round trips with AAD", func(t *testing.T) {
		aad := []byte("prod/database-url")
		ct, err := crypto.Encrypt(key, []byte("postgres://..."), aad)
		require.NoError(t, err)

		plaintext, err := crypto.Decrypt(key, ct, aad)
		require.NoError(t, err)
		assert.Equal(t, "postgres://...", string(plaintext))
	})

	t.Run("fails when AAD mismatches", func(t *testing.T) {
		ct, err := crypto.Encrypt(key, []byte("value"), []byte("context-a"))
		require.NoError(t, err)

		_, err = crypto.Decrypt(key, ct, []byte("context-b"))
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("fails when key differs", func(t *testing.T) {
		other, err := cryptoDomain.GenerateKey(cryptoDomain.AESGCM)
		require.NoError(t, err)
		defer other.Close()

		ct, err := crypto.Encrypt(key, []byte("value"), nil)
		require.NoError(t, err)

		_, err = crypto.Decrypt(other, ct, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("fails when ciphertext is tampered", func(t *testing.T) {
		ct, err := crypto.Encrypt(key, []byte("value"), nil)
		require.NoError(t, err)
		ct.Ciphertext = ct.Ciphertext[:len(ct.Ciphertext)-2] + "00"

		_, err = crypto.Decrypt(key, ct, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("rejects nil key", func(t *testing.T) {
		_, err := crypto.Encrypt(nil, []byte("value"), nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrActiveKeyNotSet)

		_, err = crypto.Decrypt(nil, &cryptoDomain.Ciphertext{}, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrActiveKeyNotSet)
	})
}

func TestCryptoManagerDeriveKey(t *testing.T) {
	crypto := newTestCryptoManager()

	t.Run("derives a usable AES-256-GCM key", func(t *testing.T) {
		key, verifier, err := crypto.DeriveKey("correct horse battery staple", nil)
		require.NoError(t, err)
		defer key.Close()

		assert.Len(t, key.Key, cryptoDomain.KeySize)
		assert.Equal(t, cryptoDomain.AESGCM, key.Algorithm)
		assert.NotEmpty(t, verifier)
	})

	t.Run("same password and salt derive identical keys", func(t *testing.T) {
		salt := make([]byte, argon2SaltSize)
		key1, _, err := crypto.DeriveKey("hunter2", salt)
		require.NoError(t, err)
		defer key1.Close()

		key2, _, err := crypto.DeriveKey("hunter2", salt)
		require.NoError(t, err)
		defer key2.Close()

		assert.Equal(t, key1.Key, key2.Key)
	})

	t.Run("different passwords derive different keys", func(t *testing.T) {
		salt := make([]byte, argon2SaltSize)
		key1, _, err := crypto.DeriveKey("password-one", salt)
		require.NoError(t, err)
		defer key1.Close()

		key2, _, err := crypto.DeriveKey("password-two", salt)
		require.NoError(t, err)
		defer key2.Close()

		assert.NotEqual(t, key1.Key, key2.Key)
	})
}

func TestCryptoManagerVerifyPassword(t *testing.T) {
	crypto := newTestCryptoManager()

	key, verifier, err := crypto.DeriveKey("correct horse battery staple", nil)
	require.NoError(t, err)
	defer key.Close()

	t.Run("accepts the correct password", func(t *testing.T) {
		assert.True(t, crypto.VerifyPassword("correct horse battery staple", verifier))
	})

	t.Run("rejects the wrong password", func(t *testing.T) {
		assert.False(t, crypto.VerifyPassword("wrong password", verifier))
	})

	t.Run("rejects a malformed verifier", func(t *testing.T) {
		assert.False(t, crypto.VerifyPassword("correct horse battery staple", "not-a-verifier"))
	})

	t.Run("rejects an empty verifier", func(t *testing.T) {
		assert.False(t, crypto.VerifyPassword("correct horse battery staple", ""))
	})
}
