package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	cases := map[string]Environment{
		"base":        Base,
		"dev":         Development,
		"development": Development,
		"staging":     Staging,
		"stage":       Staging,
		"prod":        Production,
		"production":  Production,
		"edge":        Edge,
	}

	for alias, want := range cases {
		got, err := ParseEnvironment(alias)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseEnvironment("nonexistent")
	assert.ErrorIs(t, err, ErrInvalidEnvironment)
}

func TestOverrideChain(t *testing.T) {
	assert.Empty(t, OverrideChain(Base))
	assert.Equal(t, []Environment{Development}, OverrideChain(Development))
	assert.Equal(t, []Environment{Development, Staging}, OverrideChain(Staging))
	assert.Equal(t, []Environment{Development, Staging, Production}, OverrideChain(Production))
	assert.Equal(t, []Environment{Edge}, OverrideChain(Edge))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "ns:key:production", Fingerprint("ns", "key", Production))
}

func TestEntryClone(t *testing.T) {
	entry := &Entry{
		Namespace: "ns",
		Key:       "key",
		Metadata:  Metadata{Tags: []string{"a", "b"}},
	}

	clone := entry.Clone()
	clone.Metadata.Tags[0] = "mutated"

	assert.Equal(t, "a", entry.Metadata.Tags[0])
	assert.Equal(t, "mutated", clone.Metadata.Tags[0])
}
