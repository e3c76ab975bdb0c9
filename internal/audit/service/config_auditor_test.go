package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/audit/domain"
	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
)

func TestConfigAuditorLogsEachEventKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	s, err := New(path, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	auditor := NewConfigAuditor(s)
	auditor.LogConfigCreated("ns", "key", configDomain.Base, "admin", 1)
	auditor.LogConfigUpdated("ns", "key", configDomain.Base, "admin", 1, 2)
	auditor.LogConfigDeleted("ns", "key", configDomain.Base, "admin")
	auditor.LogConfigAccessed("ns", "key", configDomain.Base, "admin")
	auditor.LogConfigRolledBack("ns", "key", configDomain.Base, "admin", 2, 3)
	auditor.LogSecretModified("ns", "secret-key", configDomain.Base, "admin")
	auditor.LogSecretAccessed("ns", "secret-key", configDomain.Base, "admin")

	require.Eventually(t, func() bool {
		count, err := s.Count()
		return err == nil && count == 7
	}, time.Second, 10*time.Millisecond)

	events, err := s.Query(time.Time{}, time.Now().Add(time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, events, 7)

	types := make(map[auditDomain.EventType]bool)
	for _, e := range events {
		types[e.Type] = true
	}
	for _, want := range []auditDomain.EventType{
		auditDomain.ConfigCreated, auditDomain.ConfigUpdated, auditDomain.ConfigDeleted,
		auditDomain.ConfigAccessed, auditDomain.ConfigRolledBack, auditDomain.SecretModified,
		auditDomain.SecretAccessed,
	} {
		assert.True(t, types[want], "expected event type %s to be logged", want)
	}
}

func TestConfigAuditorRollbackCarriesVersionFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	s, err := New(path, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	auditor := NewConfigAuditor(s)
	auditor.LogConfigRolledBack("ns", "key", configDomain.Base, "admin", 3, 4)

	require.Eventually(t, func() bool {
		count, err := s.Count()
		return err == nil && count == 1
	}, time.Second, 10*time.Millisecond)

	events, err := s.Query(time.Time{}, time.Now().Add(time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].FromVersion)
	assert.Equal(t, 4, events[0].ToVersion)
}
