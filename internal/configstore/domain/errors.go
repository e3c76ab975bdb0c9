package domain

import (
	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// Configuration-engine errors, extending the shared apperrors sentinel set.
var (
	// ErrInvalidEnvironment indicates an environment name/alias was not recognized.
	ErrInvalidEnvironment = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid environment")

	// ErrEncryptionKeyNotConfigured indicates a secret operation was attempted
	// with no SecretKey loaded into the Manager.
	ErrEncryptionKeyNotConfigured = apperrors.Wrap(apperrors.ErrInvalidInput, "encryption key not configured")

	// ErrNotASecret indicates get_secret was called on an entry whose value
	// is not the Secret variant.
	ErrNotASecret = apperrors.Wrap(apperrors.ErrInvalidInput, "not a secret value")

	// ErrNonUTF8Plaintext indicates decrypted secret bytes could not be
	// interpreted as UTF-8 for the transparent-decrypt String conversion.
	ErrNonUTF8Plaintext = apperrors.Wrap(apperrors.ErrInvalidInput, "decrypted plaintext is not valid UTF-8")

	// ErrVersionNotFound indicates rollback referenced a version number with
	// no matching Version record.
	ErrVersionNotFound = apperrors.Wrap(apperrors.ErrNotFound, "version not found")
)
