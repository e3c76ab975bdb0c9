// Package service implements the audit log writer, signer, and query
// operations over the append-only event log.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/audit/domain"
	cryptoDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/crypto/domain"
)

// Signer derives a dedicated HMAC-SHA256 signing key from the system's
// encryption key via HKDF-SHA256 key separation, and signs/verifies audit
// events against it. Deriving a separate signing key keeps a compromise of
// the audit log's integrity tag from exposing anything about the
// encryption key itself.
type Signer struct{}

// NewSigner creates an audit event signer.
func NewSigner() *Signer {
	return &Signer{}
}

// deriveSigningKey derives a 32-byte signing key from masterKey, separating
// signing-key usage from the encryption-key usage of the same root secret.
func (s *Signer) deriveSigningKey(masterKey []byte) ([]byte, error) {
	info := []byte("audit-log-signing-v1")
	kdf := hkdf.New(sha256.New, masterKey, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, signingKey); err != nil {
		return nil, err
	}
	return signingKey, nil
}

// canonicalize builds the length-prefixed byte encoding of event signed over,
// excluding the HMAC field itself.
func canonicalize(event *auditDomain.Event) ([]byte, error) {
	buf := make([]byte, 0, 512)

	buf = append(buf, event.ID[:]...)
	buf = appendLengthPrefixed(buf, []byte(event.Type))
	buf = appendLengthPrefixed(buf, []byte(event.Severity))
	buf = appendLengthPrefixed(buf, []byte(event.Namespace))
	buf = appendLengthPrefixed(buf, []byte(event.Key))
	buf = appendLengthPrefixed(buf, []byte(event.Environment))
	buf = appendLengthPrefixed(buf, []byte(event.User))
	buf = appendLengthPrefixed(buf, []byte(event.Message))

	var intFields [8]byte
	binary.BigEndian.PutUint32(intFields[0:4], uint32(event.OldVersion))
	binary.BigEndian.PutUint32(intFields[4:8], uint32(event.NewVersion))
	buf = append(buf, intFields[:]...)
	binary.BigEndian.PutUint32(intFields[0:4], uint32(event.FromVersion))
	binary.BigEndian.PutUint32(intFields[4:8], uint32(event.ToVersion))
	buf = append(buf, intFields[:]...)

	if event.Metadata != nil {
		metadataBytes, err := json.Marshal(event.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshaling metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(event.Timestamp.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf, nil
}

func appendLengthPrefixed(buf, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	return append(buf, data...)
}

// Sign computes the HMAC-SHA256 signature of event under masterKey, returning
// the raw 32-byte signature.
func (s *Signer) Sign(masterKey []byte, event *auditDomain.Event) ([]byte, error) {
	signingKey, err := s.deriveSigningKey(masterKey)
	if err != nil {
		return nil, fmt.Errorf("deriving signing key: %w", err)
	}
	defer cryptoDomain.Zero(signingKey)

	canonical, err := canonicalize(event)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing event: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Verify recomputes event's signature under masterKey and compares it in
// constant time against signatureHex (hex-decoded). Returns an error if the
// signature cannot be decoded or the signatures differ.
func (s *Signer) Verify(masterKey []byte, event *auditDomain.Event, signatureHex string) error {
	expected, err := s.Sign(masterKey, event)
	if err != nil {
		return err
	}
	actual, err := hex.DecodeString(signatureHex)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}
	if !hmac.Equal(actual, expected) {
		return ErrSignatureInvalid
	}
	return nil
}
