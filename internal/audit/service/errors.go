package service

import (
	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// ErrSignatureInvalid indicates an audit event's HMAC did not match its
// recomputed signature: either the line was tampered with, or it was signed
// under a different key.
var ErrSignatureInvalid = apperrors.Wrap(apperrors.ErrCrypto, "audit event signature invalid")

// ErrSignatureMissing indicates an audit log line has no hmac field to verify.
var ErrSignatureMissing = apperrors.Wrap(apperrors.ErrCrypto, "audit event has no signature")
