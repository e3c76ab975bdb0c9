package commands

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
	cryptoService "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/service"
)

func TestRunDeriveKeyRejectsEmptyPassword(t *testing.T) {
	var out bytes.Buffer
	err := RunDeriveKey(&out, "")
	assert.Error(t, err)
}

func TestRunDeriveKeyPrintsKeyAndVerifier(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunDeriveKey(&out, "correct horse battery staple"))

	var encoded, verifier string
	for _, line := range strings.Split(out.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "LLM_CONFIG_KEY="):
			encoded = strings.Trim(strings.TrimPrefix(line, "LLM_CONFIG_KEY="), `"`)
		case strings.HasPrefix(line, "LLM_CONFIG_KEY_VERIFIER="):
			verifier = strings.Trim(strings.TrimPrefix(line, "LLM_CONFIG_KEY_VERIFIER="), `"`)
		}
	}
	require.NotEmpty(t, encoded)
	require.NotEmpty(t, verifier)

	key, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Len(t, key, cryptoDomain.KeySize)

	crypto := cryptoService.NewCryptoManager(cryptoService.NewAEADManager())
	assert.True(t, crypto.VerifyPassword("correct horse battery staple", verifier))
	assert.False(t, crypto.VerifyPassword("wrong password", verifier))
}

func TestRunDeriveKeyUsesFreshSaltEachRun(t *testing.T) {
	var out1, out2 bytes.Buffer
	require.NoError(t, RunDeriveKey(&out1, "same-password"))
	require.NoError(t, RunDeriveKey(&out2, "same-password"))
	// Independent random salts mean independent derivations.
	assert.NotEqual(t, out1.String(), out2.String())
}
