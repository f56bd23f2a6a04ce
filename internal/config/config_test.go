package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Load from an explicit empty config file so a developer's ~/.cachefang
	// cannot leak into the test.
	path := filepath.Join(t.TempDir(), "cachefang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.TUStats.Enabled)
	assert.Empty(t, cfg.TUStats.StatsFile)
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cachefang.yaml")

	contents := "tu_stats:\n  enabled: true\n  stats_file: /tmp/custom_stats.db\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.TUStats.Enabled)
	assert.Equal(t, "/tmp/custom_stats.db", cfg.TUStats.StatsFile)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("CACHEFANG_TU_STATS_ENABLED", "true")

	path := filepath.Join(t.TempDir(), "cachefang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.TUStats.Enabled)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cachefang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tu_stats: ["), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestResolveStatsPath_ExplicitFile(t *testing.T) {
	t.Parallel()

	cfg := TUStatsConfig{StatsFile: "/data/stats.db"}

	path, err := cfg.ResolveStatsPath()
	require.NoError(t, err)
	assert.Equal(t, "/data/stats.db", path)
}

func TestResolveStatsPath_DefaultUnderCacheDir(t *testing.T) {
	t.Parallel()

	cfg := TUStatsConfig{}

	path, err := cfg.ResolveStatsPath()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("cachefang", "tu_stats.db"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
