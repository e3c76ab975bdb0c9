package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
)

func TestParseEnv(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      configDomain.Environment
		shouldErr bool
	}{
		{name: "base", raw: "base", want: configDomain.Base},
		{name: "dev alias", raw: "dev", want: configDomain.Development},
		{name: "stage alias", raw: "stage", want: configDomain.Staging},
		{name: "prod alias", raw: "prod", want: configDomain.Production},
		{name: "empty is an error", raw: "", shouldErr: true},
		{name: "unknown is an error", raw: "nowhere", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEnv(tt.raw)
			if tt.shouldErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain string", raw: "hello"},
		{name: "json string", raw: `"hello"`},
		{name: "integer", raw: "42"},
		{name: "boolean", raw: "true"},
		{name: "array", raw: "[1,2,3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parseValue(tt.raw)
			assert.NoError(t, err)
			assert.NotEmpty(t, v.Kind)
		})
	}
}

func TestValidateNamespaceKey(t *testing.T) {
	assert.NoError(t, validateNamespaceKey("ns1", "key1"))
	assert.Error(t, validateNamespaceKey("", "key1"))
	assert.Error(t, validateNamespaceKey("ns1", ""))
	assert.Error(t, validateNamespaceKey(" ns1 ", "key1"))
	assert.Error(t, validateNamespaceKey("ns1", "key with space"))
}

func TestValidateNamespace(t *testing.T) {
	assert.NoError(t, validateNamespace("ns1"))
	assert.Error(t, validateNamespace(""))
	assert.Error(t, validateNamespace("   "))
}
