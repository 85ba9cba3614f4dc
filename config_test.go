package sprig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigYAML(t *testing.T) {
	cfg, err := ParseConfig([]byte("static_age: 8\ndebug: true\n"), "yaml")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.StaticAge)
	assert.True(t, cfg.Debug)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL, "missing fields keep defaults")
	assert.Equal(t, DefaultCacheSweepInterval, cfg.CacheSweepInterval)
}

func TestParseConfigTOML(t *testing.T) {
	cfg, err := ParseConfig([]byte("cache_ttl = 30\ncache_sweep_interval = 5\n"), "toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultStaticAge, cfg.StaticAge)
	assert.Equal(t, 30, cfg.CacheTTL)
	assert.Equal(t, 5, cfg.CacheSweepInterval)
}

func TestParseConfigZeroFallsBack(t *testing.T) {
	cfg, err := ParseConfig([]byte("static_age: 0\ncache_ttl: -3\n"), "yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("static_age: [1, 2"), "yaml")
	assert.Error(t, err)

	_, err = ParseConfig([]byte("x"), "json")
	assert.ErrorContains(t, err, `unsupported format "json"`)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "sprig.yaml")
	tml := filepath.Join(dir, "sprig.TOML")
	require.NoError(t, os.WriteFile(yml, []byte("static_age: 2\n"), 0o644))
	require.NoError(t, os.WriteFile(tml, []byte("static_age = 3\n"), 0o644))

	cfg, err := LoadConfig(yml)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.StaticAge)

	cfg, err = LoadConfig(tml)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.StaticAge)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigWithDefaults(t *testing.T) {
	got := Config{StaticAge: 1}.withDefaults()
	assert.Equal(t, 1, got.StaticAge)
	assert.Equal(t, DefaultCacheTTL, got.CacheTTL)
}
