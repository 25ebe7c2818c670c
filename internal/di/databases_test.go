package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/folioview/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDatabases(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &config.Config{DataDir: tmpDir}

	container, err := InitializeDatabases(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, container)
	defer container.Close()

	assert.NotNil(t, container.PortfolioDB)
	assert.NotNil(t, container.ConfigDB)
	assert.NotNil(t, container.CacheDB)
	assert.Len(t, container.Databases(), 3)

	assert.FileExists(t, filepath.Join(tmpDir, "portfolio.db"))
	assert.FileExists(t, filepath.Join(tmpDir, "config.db"))
	assert.FileExists(t, filepath.Join(tmpDir, "cache.db"))
}

func TestInitializeDatabases_SchemaMigration(t *testing.T) {
	container, err := InitializeDatabases(&config.Config{DataDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	for _, q := range []struct {
		db    string
		query string
	}{
		{"portfolio", "SELECT COUNT(*) FROM holdings"},
		{"portfolio", "SELECT COUNT(*) FROM watchlist"},
		{"config", "SELECT COUNT(*) FROM settings"},
		{"cache", "SELECT COUNT(*) FROM saved_views"},
	} {
		var n int
		conn := container.PortfolioDB.Conn()
		switch q.db {
		case "config":
			conn = container.ConfigDB.Conn()
		case "cache":
			conn = container.CacheDB.Conn()
		}
		assert.NoError(t, conn.QueryRow(q.query).Scan(&n), q.query)
		assert.Zero(t, n)
	}
}

func TestInitializeDatabases_InvalidPath(t *testing.T) {
	// a regular file where the data directory should be
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	container, err := InitializeDatabases(&config.Config{DataDir: file}, zerolog.Nop())
	assert.Error(t, err)
	assert.Nil(t, container)
}
