package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.True(t, cfg.Server.Watch)
	assert.True(t, cfg.Server.LocalMode)
	assert.Equal(t, DefaultStatePath, cfg.Store.Path)
	assert.Equal(t, DefaultBoardsDir, cfg.Store.BoardsDir)
	assert.Equal(t, DefaultColumns, cfg.Grid.Columns)
	assert.Empty(t, cfg.Query.DuckDBPath)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: 9000
  watch: false
store:
  boards_dir: dashboards
query:
  duckdb_path: data/warehouse.duckdb
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.False(t, cfg.Server.Watch)
	assert.Equal(t, "dashboards", cfg.Store.BoardsDir)
	assert.Equal(t, "data/warehouse.duckdb", cfg.Query.DuckDBPath)

	// Keys the file does not mention keep their defaults.
	assert.Equal(t, DefaultStatePath, cfg.Store.Path)
}

func TestLoad_AltConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt),
		[]byte("server:\n  port: 9100\n"), 0o644))

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("server:\n  port: 9000\n"), 0o644))

	t.Setenv("GLASSBOARD_SERVER__PORT", "9200")
	t.Setenv("GLASSBOARD_SERVER__SESSION_SECRET", "hunter2")

	cfg, err := Load(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "hunter2", cfg.Server.SessionSecret)
}

func TestLoad_FlagsWinLast(t *testing.T) {
	t.Setenv("GLASSBOARD_SERVER__PORT", "9200")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("server.port", DefaultPort, "")
	require.NoError(t, flags.Parse([]string{"--server.port=9300"}))

	cfg, err := Load(t.TempDir(), flags)
	require.NoError(t, err)
	assert.Equal(t, 9300, cfg.Server.Port)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("server: [not: a map"), 0o644))

	_, err := Load(dir, nil)
	assert.Error(t, err)
}
