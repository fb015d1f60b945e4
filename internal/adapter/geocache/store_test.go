package geocache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/qso-mapper/internal/config"
)

const samplePayload = `<?xml version="1.0"?><HamQTH version="2.8"><dxcc><lat>39.0</lat><lng>-77.0</lng></dxcc></HamQTH>`

func storeBackends(t *testing.T) map[string]Store {
	t.Helper()

	file, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	sqlite, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"file":   file,
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_MissThenHit(t *testing.T) {
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Get(ctx, "W1ABC")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, "W1ABC", []byte(samplePayload)))

			got, ok, err := s.Get(ctx, "W1ABC")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, samplePayload, string(got))
		})
	}
}

func TestStore_FirstWriteWins(t *testing.T) {
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Put(ctx, "W1ABC", []byte("first")))
			require.NoError(t, s.Put(ctx, "W1ABC", []byte("second")))

			got, ok, err := s.Get(ctx, "W1ABC")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "first", string(got))
		})
	}
}

func TestStore_KeysAreCaseSensitive(t *testing.T) {
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Put(ctx, "W1ABC", []byte("upper")))

			_, ok, err := s.Get(ctx, "w1abc")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_PortableCallsign(t *testing.T) {
	for name, s := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Put(ctx, "VE3/W1ABC/P", []byte("portable")))

			got, ok, err := s.Get(ctx, "VE3/W1ABC/P")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "portable", string(got))
		})
	}
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "W1ABC", []byte(samplePayload)))

	data, err := os.ReadFile(filepath.Join(dir, "cache_W1ABC.xml"))
	require.NoError(t, err)
	assert.Equal(t, samplePayload, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileStore_ReadsExistingEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cache_K2XYZ.xml"), []byte("from-previous-run"), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	got, ok, err := s.Get(context.Background(), "K2XYZ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "from-previous-run", string(got))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "W1ABC", []byte(samplePayload)))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "W1ABC")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, samplePayload, string(got))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	payload := []byte("abc")
	require.NoError(t, s.Put(context.Background(), "W1ABC", payload))
	payload[0] = 'x'

	got, _, err := s.Get(context.Background(), "W1ABC")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, 1, s.Len())
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, &config.Config{CacheBackend: config.CacheMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, &config.Config{CacheBackend: config.CacheFile, CacheDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, &config.Config{CacheBackend: config.CacheSQLite, SQLitePath: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, &config.Config{CacheBackend: "etcd"})
	require.Error(t, err)
}
