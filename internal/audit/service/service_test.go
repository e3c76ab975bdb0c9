package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/audit/domain"
)

func newTestService(t *testing.T, signingKey []byte) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.log")
	s, err := New(path, signingKey, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestServiceLogAndCount(t *testing.T) {
	s := newTestService(t, []byte("0123456789abcdef0123456789abcdef"))

	e := auditDomain.New(auditDomain.ConfigCreated)
	e.Namespace, e.Key = "ns", "key"
	s.Log(e)

	// Log blocks only until the consumer goroutine receives; give it a
	// moment to flush to disk before querying.
	require.Eventually(t, func() bool {
		count, err := s.Count()
		return err == nil && count == 1
	}, time.Second, 10*time.Millisecond)
}

func TestServiceLogSignsEvents(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	s := newTestService(t, key)

	e := auditDomain.New(auditDomain.ConfigCreated)
	e.Namespace, e.Key = "ns", "key"
	s.Log(e)

	require.Eventually(t, func() bool {
		events, err := s.Query(time.Time{}, time.Now().Add(time.Hour), 0)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	events, err := s.Query(time.Time{}, time.Now().Add(time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].HMAC)
}

func TestServiceQueryByUser(t *testing.T) {
	s := newTestService(t, nil)

	alice := auditDomain.New(auditDomain.ConfigAccessed)
	alice.User = "alice"
	s.Log(alice)

	bob := auditDomain.New(auditDomain.ConfigAccessed)
	bob.User = "bob"
	s.Log(bob)

	require.Eventually(t, func() bool {
		count, err := s.Count()
		return err == nil && count == 2
	}, time.Second, 10*time.Millisecond)

	events, err := s.QueryByUser("alice", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "alice", events[0].User)
}

func TestServiceQueryRespectsLimit(t *testing.T) {
	s := newTestService(t, nil)

	for i := 0; i < 5; i++ {
		s.Log(auditDomain.New(auditDomain.SystemEvent))
	}

	require.Eventually(t, func() bool {
		count, err := s.Count()
		return err == nil && count == 5
	}, time.Second, 10*time.Millisecond)

	events, err := s.Query(time.Time{}, time.Now().Add(time.Hour), 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestServiceVerifyAllAcceptsRightKeyAndFlagsWrongKey(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	path := filepath.Join(t.TempDir(), "audit.log")
	s, err := New(path, key, nil)
	require.NoError(t, err)

	e := auditDomain.New(auditDomain.ConfigCreated)
	e.Namespace = "ns"
	s.Log(e)

	require.Eventually(t, func() bool {
		count, err := s.Count()
		return err == nil && count == 1
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, s.Close())

	checked, invalid, _, err := s.VerifyAll(key)
	require.NoError(t, err)
	assert.Equal(t, 1, checked)
	assert.Equal(t, 0, invalid)

	wrongKey := []byte("ffffffffffffffffffffffffffffffff")
	checked, invalid, invalidIDs, err := s.VerifyAll(wrongKey)
	require.NoError(t, err)
	assert.Equal(t, 1, checked)
	assert.Equal(t, 1, invalid)
	assert.Len(t, invalidIDs, 1)
}

func TestServiceQueryOnMissingFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	s, err := New(path, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.NoError(t, os.Remove(path))

	events, err := s.Query(time.Time{}, time.Now(), 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}
