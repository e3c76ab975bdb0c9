package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	t.Run("generates AES-GCM key of correct size", func(t *testing.T) {
		key, err := GenerateKey(AESGCM)
		require.NoError(t, err)
		defer key.Close()

		assert.Equal(t, AESGCM, key.Algorithm)
		assert.Len(t, key.Key, KeySize)
	})

	t.Run("generates ChaCha20 key of correct size", func(t *testing.T) {
		key, err := GenerateKey(ChaCha20)
		require.NoError(t, err)
		defer key.Close()

		assert.Equal(t, ChaCha20, key.Algorithm)
		assert.Len(t, key.Key, KeySize)
	})

	t.Run("rejects unsupported algorithm", func(t *testing.T) {
		_, err := GenerateKey(Algorithm("rot13"))
		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	})

	t.Run("two generated keys never collide", func(t *testing.T) {
		a, err := GenerateKey(AESGCM)
		require.NoError(t, err)
		defer a.Close()

		b, err := GenerateKey(AESGCM)
		require.NoError(t, err)
		defer b.Close()

		assert.NotEqual(t, a.Key, b.Key)
	})
}

func TestKeyFromBytes(t *testing.T) {
	t.Run("accepts exact key size", func(t *testing.T) {
		raw := make([]byte, KeySize)
		key, err := KeyFromBytes(AESGCM, raw)
		require.NoError(t, err)
		defer key.Close()

		assert.Len(t, key.Key, KeySize)
	})

	t.Run("rejects short key", func(t *testing.T) {
		_, err := KeyFromBytes(AESGCM, make([]byte, 16))
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("rejects long key", func(t *testing.T) {
		_, err := KeyFromBytes(AESGCM, make([]byte, 64))
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("copies input so mutation does not alias", func(t *testing.T) {
		raw := make([]byte, KeySize)
		raw[0] = 0xAB
		key, err := KeyFromBytes(AESGCM, raw)
		require.NoError(t, err)
		defer key.Close()

		raw[0] = 0x00
		assert.Equal(t, byte(0xAB), key.Key[0])
	})
}

func TestKeyBase64RoundTrip(t *testing.T) {
	key, err := GenerateKey(AESGCM)
	require.NoError(t, err)
	defer key.Close()

	encoded := key.ToBase64()
	decoded, err := KeyFromBase64(AESGCM, encoded)
	require.NoError(t, err)
	defer decoded.Close()

	assert.Equal(t, key.Key, decoded.Key)
}

func TestKeyFromBase64Malformed(t *testing.T) {
	_, err := KeyFromBase64(AESGCM, "not-valid-base64!!!")
	assert.ErrorIs(t, err, ErrKeyGenerationFailed)
}

func TestSecretKeyCloseScrubs(t *testing.T) {
	key, err := GenerateKey(AESGCM)
	require.NoError(t, err)

	key.Close()
	for _, b := range key.Key {
		assert.Equal(t, byte(0), b)
	}
}

func TestSecretKeyStringRedacted(t *testing.T) {
	key, err := GenerateKey(AESGCM)
	require.NoError(t, err)
	defer key.Close()

	assert.NotContains(t, key.String(), key.ToBase64())
	assert.Contains(t, key.String(), "redacted")

	var nilKey *SecretKey
	assert.Equal(t, "SecretKey(nil)", nilKey.String())
}
