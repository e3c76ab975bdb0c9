package service

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/audit/domain"
)

func TestSignerSignAndVerify(t *testing.T) {
	signer := NewSigner()
	key := []byte("0123456789abcdef0123456789abcdef")

	e := auditDomain.New(auditDomain.ConfigCreated)
	e.Namespace, e.Key, e.User = "ns", "key", "admin"

	sig, err := signer.Sign(key, e)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	err = signer.Verify(key, e, hex.EncodeToString(sig))
	assert.NoError(t, err)
}

func TestSignerVerifyFailsOnTamperedField(t *testing.T) {
	signer := NewSigner()
	key := []byte("0123456789abcdef0123456789abcdef")

	e := auditDomain.New(auditDomain.ConfigCreated)
	e.Namespace = "ns"

	sig, err := signer.Sign(key, e)
	require.NoError(t, err)

	e.Namespace = "tampered"
	err = signer.Verify(key, e, hex.EncodeToString(sig))
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestSignerVerifyFailsOnWrongKey(t *testing.T) {
	signer := NewSigner()
	key := []byte("0123456789abcdef0123456789abcdef")
	otherKey := []byte("ffffffffffffffffffffffffffffffff")

	e := auditDomain.New(auditDomain.ConfigCreated)
	sig, err := signer.Sign(key, e)
	require.NoError(t, err)

	err = signer.Verify(otherKey, e, hex.EncodeToString(sig))
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestSignerDeterministic(t *testing.T) {
	signer := NewSigner()
	key := []byte("0123456789abcdef0123456789abcdef")
	e := auditDomain.New(auditDomain.SystemEvent)

	sig1, err := signer.Sign(key, e)
	require.NoError(t, err)
	sig2, err := signer.Sign(key, e)
	require.NoError(t, err)
	assert.Equal(t, sig1, sig2)
}
