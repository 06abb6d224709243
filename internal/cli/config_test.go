package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gitcs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_AllFields(t *testing.T) {
	path := writeConfig(t, `
git_binary: /usr/local/bin/git
cache_capacity: 500
index_db: /tmp/sequences.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/git", cfg.GitBinary)
	assert.Equal(t, 500, cfg.CacheCapacity)
	assert.Equal(t, "/tmp/sequences.db", cfg.IndexDB)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.GitBinary)
	assert.Zero(t, cfg.CacheCapacity)
	assert.Empty(t, cfg.IndexDB)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "cache_capacity: [not a number")

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_NegativeCapacity(t *testing.T) {
	path := writeConfig(t, "cache_capacity: -5")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache_capacity")
}
