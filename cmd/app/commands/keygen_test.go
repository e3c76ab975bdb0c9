package commands

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
)

func TestRunKeygenPrintsValidBase64Key(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunKeygen(&out))

	var encoded string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "LLM_CONFIG_KEY=") {
			encoded = strings.Trim(strings.TrimPrefix(line, "LLM_CONFIG_KEY="), `"`)
		}
	}
	require.NotEmpty(t, encoded)

	key, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Len(t, key, cryptoDomain.KeySize)
}

func TestRunKeygenGeneratesDistinctKeys(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, RunKeygen(&a))
	require.NoError(t, RunKeygen(&b))
	assert.NotEqual(t, a.String(), b.String())
}
