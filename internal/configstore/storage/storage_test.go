package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/atomicfile"
	configDomain "github.com/globalbusinessadvisors/llm-config-manager/internal/configstore/domain"
)

func newEntry(ns, key string, env configDomain.Environment, version int) *configDomain.Entry {
	return &configDomain.Entry{
		ID:          uuid.New(),
		Namespace:   ns,
		Key:         key,
		Value:       configDomain.StringValue("value"),
		Environment: env,
		Version:     version,
		Metadata: configDomain.Metadata{
			CreatedAt: time.Now().UTC(),
			CreatedBy: "admin",
			UpdatedAt: time.Now().UTC(),
			UpdatedBy: "admin",
		},
	}
}

func TestIndexKeyUsesDoubleColonSeparator(t *testing.T) {
	key := indexKey("ns", "key", configDomain.Base)
	assert.Equal(t, "ns::key::base", key)
	assert.NotEqual(t, configDomain.Fingerprint("ns", "key", configDomain.Base), key)
}

func TestStorageSetGet(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, nil)
	require.NoError(t, err)

	entry := newEntry("prod/api", "endpoint", configDomain.Production, 1)
	require.NoError(t, s.Set(entry))

	got, ok := s.Get("prod/api", "endpoint", configDomain.Production)
	require.True(t, ok)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "value", got.Value.String)
}

func TestStorageGetMiss(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	_, ok := s.Get("ns", "missing", configDomain.Base)
	assert.False(t, ok)
}

func TestStorageFilenameReplacesSlashes(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, nil)
	require.NoError(t, err)

	entry := newEntry("prod/api", "database/url", configDomain.Production, 1)
	require.NoError(t, s.Set(entry))

	expected := filepath.Join(dir, "configs", "prod_api_database_url_production.json")
	assert.FileExists(t, expected)
}

func TestStorageList(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Set(newEntry("app", "a", configDomain.Production, 1)))
	require.NoError(t, s.Set(newEntry("app", "b", configDomain.Production, 1)))
	require.NoError(t, s.Set(newEntry("app", "a", configDomain.Staging, 1)))
	require.NoError(t, s.Set(newEntry("other", "a", configDomain.Production, 1)))

	got := s.List("app", configDomain.Production)
	assert.Len(t, got, 2)
}

func TestStorageDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, nil)
	require.NoError(t, err)

	entry := newEntry("ns", "key", configDomain.Base, 1)
	require.NoError(t, s.Set(entry))

	deleted, err := s.Delete("ns", "key", configDomain.Base)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok := s.Get("ns", "key", configDomain.Base)
	assert.False(t, ok)

	path := filepath.Join(dir, "configs", "ns_key_base.json")
	assert.NoFileExists(t, path)

	deletedAgain, err := s.Delete("ns", "key", configDomain.Base)
	require.NoError(t, err)
	assert.False(t, deletedAgain)
}

func TestStorageStoreAndGetVersions(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	entryID := uuid.New()
	for i := 1; i <= 3; i++ {
		v := &configDomain.Version{
			Version:     i,
			ConfigID:    entryID,
			Namespace:   "ns",
			Key:         "key",
			Value:       configDomain.IntegerValue(int64(i)),
			Environment: configDomain.Base,
			CreatedAt:   time.Now().UTC(),
			CreatedBy:   "admin",
		}
		require.NoError(t, s.StoreVersion(v))
	}

	versions, err := s.GetVersions("ns", "key", configDomain.Base)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].Version)
	assert.Equal(t, 2, versions[1].Version)
	assert.Equal(t, 1, versions[2].Version)
}

func TestStorageGetVersionsEmptyForUntouchedKey(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	versions, err := s.GetVersions("ns", "never-written", configDomain.Base)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestStorageRebuildsIndexOnStartup(t *testing.T) {
	dir := t.TempDir()
	s1, err := New(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s1.Set(newEntry("ns", "key", configDomain.Base, 1)))

	s2, err := New(dir, nil)
	require.NoError(t, err)

	got, ok := s2.Get("ns", "key", configDomain.Base)
	require.True(t, ok)
	assert.Equal(t, "value", got.Value.String)
}

func TestStorageSkipsUnparseableFilesOnStartup(t *testing.T) {
	dir := t.TempDir()
	configsDir := filepath.Join(dir, "configs")
	require.NoError(t, atomicfile.Write(filepath.Join(configsDir, "broken.json"), []byte("not json")))

	s, err := New(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, s.List("", configDomain.Base))
}

func TestStorageExportAll(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Set(newEntry("ns", "a", configDomain.Base, 1)))
	require.NoError(t, s.Set(newEntry("ns", "b", configDomain.Base, 1)))

	exportDir := t.TempDir()
	count, err := s.ExportAll(exportDir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
