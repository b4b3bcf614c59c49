package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromDefaultsWhenMissing(t *testing.T) {
	t.Setenv("MARQUEE_TMDB_API_KEY", "")
	t.Setenv("TMDB_API_KEY", "")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3/", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/", cfg.TMDB.ImageBaseURL)
	assert.Equal(t, "en_US", cfg.TMDB.Language)
	assert.Equal(t, 1, cfg.TMDB.Page)
	assert.Equal(t, 300*time.Millisecond, cfg.Favorites.LookupDelay)
	assert.True(t, cfg.UI.RankSearchResults)
	assert.False(t, cfg.IsConfigured())
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("MARQUEE_TMDB_API_KEY", "")
	t.Setenv("TMDB_API_KEY", "")
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.TMDB.APIKey = "secret"
	cfg.TMDB.Language = "pt_BR"
	cfg.Favorites.LookupDelay = time.Second
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	require.NoError(t, SaveConfigTo(cfg, dir))

	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	loaded, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "secret", loaded.TMDB.APIKey)
	assert.Equal(t, "pt_BR", loaded.TMDB.Language)
	assert.Equal(t, time.Second, loaded.Favorites.LookupDelay)
	assert.Equal(t, filepath.Join(dir, "data"), loaded.Storage.DataDir)
	assert.True(t, loaded.IsConfigured())
}

func TestEnvironmentOverridesAPIKey(t *testing.T) {
	t.Setenv("MARQUEE_TMDB_API_KEY", "")
	t.Setenv("TMDB_API_KEY", "from-env")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TMDB.APIKey)
}

func TestEnvironmentOverridesNestedKey(t *testing.T) {
	t.Setenv("MARQUEE_TMDB_LANGUAGE", "de_DE")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "de_DE", cfg.TMDB.Language)
}

func TestEphemeral(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ephemeral()
	assert.Empty(t, cfg.Storage.DataDir)
	assert.Empty(t, cfg.Logging.File)
}

func TestNewViperBindsBothAPIKeyVariables(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "bare")
	t.Setenv("MARQUEE_TMDB_API_KEY", "")

	v, err := newViper(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "bare", v.GetString("tmdb.api_key"))

	t.Setenv("MARQUEE_TMDB_API_KEY", "prefixed")
	assert.Equal(t, "prefixed", v.GetString("tmdb.api_key"))
}
