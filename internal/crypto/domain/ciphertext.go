package domain

import (
	"encoding/hex"
	"fmt"
)

// Ciphertext is the self-describing, JSON-persistable record produced by an
// encryption operation. It carries everything needed to decrypt later:
// the algorithm in force at encryption time, the nonce, the authenticated
// ciphertext bytes (tag included), the key_version that produced it, and an
// optional hint of the additional authenticated data context it was bound to.
type Ciphertext struct {
	Algorithm  Algorithm `json:"algorithm"`
	Nonce      string    `json:"nonce"`
	Ciphertext string    `json:"ciphertext"`
	KeyVersion int       `json:"key_version"`
	AADContext string    `json:"aad_context,omitempty"`
}

// NewCiphertext builds a Ciphertext record from raw encryption output,
// hex-encoding the nonce and ciphertext bytes for safe JSON transport.
func NewCiphertext(alg Algorithm, nonce, ciphertext []byte, keyVersion int, aadContext string) *Ciphertext {
	if keyVersion == 0 {
		keyVersion = DefaultKeyVersion
	}
	return &Ciphertext{
		Algorithm:  alg,
		Nonce:      hex.EncodeToString(nonce),
		Ciphertext: hex.EncodeToString(ciphertext),
		KeyVersion: keyVersion,
		AADContext: aadContext,
	}
}

// NonceBytes decodes the hex-encoded nonce back to raw bytes.
func (c *Ciphertext) NonceBytes() ([]byte, error) {
	b, err := hex.DecodeString(c.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed nonce hex: %v", ErrDecryptionFailed, err)
	}
	return b, nil
}

// CiphertextBytes decodes the hex-encoded ciphertext back to raw bytes.
func (c *Ciphertext) CiphertextBytes() ([]byte, error) {
	b, err := hex.DecodeString(c.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed ciphertext hex: %v", ErrDecryptionFailed, err)
	}
	return b, nil
}
