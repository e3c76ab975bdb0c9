package commands

import (
	"encoding/base64"
	"fmt"
	"io"

	cryptoService "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/service"
)

// RunDeriveKey derives an encryption key from an operator-supplied
// password via CryptoManagerService.DeriveKey (Argon2id), printing both
// the base64 key (LLM_CONFIG_KEY format, as RunKeygen does) and the
// verifier string the password can later be checked against with
// VerifyPassword, without ever persisting the password itself.
func RunDeriveKey(writer io.Writer, password string) error {
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	crypto := cryptoService.NewCryptoManager(cryptoService.NewAEADManager())
	key, verifier, err := crypto.DeriveKey(password, nil)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	defer key.Close()

	encoded := base64.StdEncoding.EncodeToString(key.Key)

	_, _ = fmt.Fprintln(writer, "# Password-derived encryption key")
	_, _ = fmt.Fprintln(writer, "# Store the verifier alongside the key to check a candidate password later")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "LLM_CONFIG_KEY=\"%s\"\n", encoded)
	_, _ = fmt.Fprintf(writer, "LLM_CONFIG_KEY_VERIFIER=\"%s\"\n", verifier)
	return nil
}
