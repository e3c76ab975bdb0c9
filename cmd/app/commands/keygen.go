package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
)

// RunKeygen generates a fresh 32-byte AES-256-GCM key and prints it
// base64-encoded, matching the LLM_CONFIG_KEY / --encryption-key format.
// Key material is zeroed from memory after encoding.
func RunKeygen(writer io.Writer) error {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	for i := range key {
		key[i] = 0
	}

	_, _ = fmt.Fprintln(writer, "# Encryption key configuration")
	_, _ = fmt.Fprintln(writer, "# Copy this to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "LLM_CONFIG_KEY=\"%s\"\n", encoded)
	return nil
}
