// Package dto holds the HTTP-facing request bodies for the configuration
// API, kept decoupled from the configstore domain types so wire-format
// changes don't ripple into the domain layer.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	customValidation "github.com/globalbusinessadvisors/llm-config-manager/internal/validation"
)

// SetConfigRequest is the POST /api/v1/configs/{ns}/{key} body:
// `{value,env,user,secret}`. Value is kept as raw JSON because its
// decoding depends on Secret: a plain value decodes through
// domain.Value's own untagged-union UnmarshalJSON, while a secret value
// is always a JSON string holding the plaintext to encrypt.
type SetConfigRequest struct {
	Value  json.RawMessage `json:"value"`
	Env    string          `json:"env"`
	User   string          `json:"user"`
	Secret bool            `json:"secret"`
}

// Validate requires non-blank Env and User fields, since both become
// audit-log and storage-key material.
func (r *SetConfigRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Env, validation.Required, customValidation.NotBlank),
		validation.Field(&r.User, validation.Required, customValidation.NotBlank),
	)
}
