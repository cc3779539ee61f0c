package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "db_credentials.json"))
}

func record(id string) Record {
	return Record{
		DBID:          id,
		ConnectionURL: "neo4j+s://" + id + ".databases.neo4j.io",
		Username:      "neo4j",
		Password:      "pw-" + id,
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	records, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_EmptyFileIsEmpty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("  \n"), 0o600))
	records, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_UpsertRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	rec := record("db1")
	require.NoError(t, s.Upsert("WS-1", rec))

	records, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records["WS-1"])
}

func TestStore_UpsertIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Upsert("WS-1", record("old")))
	require.NoError(t, s.Upsert("WS-1", record("old")))
	final := record("new")
	require.NoError(t, s.Upsert("WS-1", final))

	records, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, final, records["WS-1"])
}

func TestStore_RemoveAllFiltered(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Upsert("WS-1", record("db1")))
	require.NoError(t, s.Upsert("WS-2", record("db2")))
	require.NoError(t, s.Upsert("OTHER-1", record("db3")))

	removed, err := s.RemoveAll(func(name string) bool {
		return strings.HasPrefix(name, "WS-")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	records, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record("db3"), records["OTHER-1"])
}

func TestStore_RemoveAllNoMatchLeavesFileUntouched(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Upsert("WS-1", record("db1")))
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	removed, err := s.RemoveAll(func(string) bool { return false })
	require.NoError(t, err)
	assert.Zero(t, removed)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStore_MalformedFileIsAnError(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"WS-1": {`), 0o600))

	_, err := s.LoadAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), s.Path())
}

func TestStore_LegacyFragmentFile(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	legacy := `{"WS-1": {"db_id": "db1", "connection_url": "u1", "username": "neo4j", "password": "p1"}},
{"WS-2": {"db_id": "db2", "connection_url": "u2", "username": "neo4j", "password": "p2"}},
`
	require.NoError(t, os.WriteFile(s.Path(), []byte(legacy), 0o600))

	records, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "db2", records["WS-2"].DBID)
}

func TestStore_FileStaysParsableAsAWhole(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Upsert("WS-1", record("db1")))
	require.NoError(t, s.Upsert("WS-2", Record{DBID: "db2", Status: StatusFailed, Error: "quota exceeded", RunID: "run-1"}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var parsed map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Len(t, parsed, 2)
	// Ready records carry no status marker.
	assert.NotContains(t, parsed["WS-1"], "status")
	assert.Equal(t, "failed", parsed["WS-2"]["status"])
}

func TestStore_ConcurrentUpserts(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	var wg sync.WaitGroup
	names := []string{"WS-1", "WS-2", "WS-3", "WS-4", "WS-5", "WS-6", "WS-7", "WS-8"}
	for _, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Upsert(name, record(name)))
		}()
	}
	wg.Wait()

	records, err := s.LoadAll()
	require.NoError(t, err)
	assert.Len(t, records, len(names))
}
