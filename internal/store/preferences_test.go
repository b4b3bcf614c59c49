package store

import (
	"context"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openPreferences(t *testing.T, dir string) *PreferenceStore {
	t.Helper()
	s, err := OpenPreferences(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferenceDefaultWhenUnset(t *testing.T) {
	for _, dir := range []string{"", t.TempDir()} {
		s := openPreferences(t, dir)

		v, err := s.Preference(domain.PrefUserName, "guest")
		require.NoError(t, err)
		assert.Equal(t, "guest", v)
	}
}

func TestPreferenceSetOverwriteRemove(t *testing.T) {
	s := openPreferences(t, t.TempDir())

	require.NoError(t, s.SetPreference(domain.PrefUserName, "Ana"))
	require.NoError(t, s.SetPreference(domain.PrefUserName, "Bia"))

	v, err := s.Preference(domain.PrefUserName, "")
	require.NoError(t, err)
	assert.Equal(t, "Bia", v)

	require.NoError(t, s.RemovePreference(domain.PrefUserName))
	v, err = s.Preference(domain.PrefUserName, "none")
	require.NoError(t, err)
	assert.Equal(t, "none", v)
}

func TestPreferenceKeysAreIndependent(t *testing.T) {
	s := openPreferences(t, "")

	require.NoError(t, s.SetPreference(domain.PrefProfilePicture, "file:///p.png"))
	require.NoError(t, s.SetPreference(domain.PrefProfileBackground, "file:///b.png"))

	pic, _ := s.Preference(domain.PrefProfilePicture, "")
	bg, _ := s.Preference(domain.PrefProfileBackground, "")
	name, _ := s.Preference(domain.PrefUserName, "")
	assert.Equal(t, "file:///p.png", pic)
	assert.Equal(t, "file:///b.png", bg)
	assert.Empty(t, name)
}

func TestClearPreferences(t *testing.T) {
	s := openPreferences(t, t.TempDir())
	require.NoError(t, s.SetPreference(domain.PrefUserName, "Ana"))
	require.NoError(t, s.SetPreference(domain.PrefProfilePicture, "file:///p.png"))

	require.NoError(t, s.ClearPreferences())

	name, _ := s.Preference(domain.PrefUserName, "")
	pic, _ := s.Preference(domain.PrefProfilePicture, "")
	assert.Empty(t, name)
	assert.Empty(t, pic)

	// Store remains writable after clear
	require.NoError(t, s.SetPreference(domain.PrefUserName, "Caio"))
}

func TestPreferencesPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenPreferences(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetPreference(domain.PrefUserName, "Ana"))
	require.NoError(t, s.Close())

	reopened := openPreferences(t, dir)
	v, err := reopened.Preference(domain.PrefUserName, "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", v)
}

func TestWatchPreferenceSkipsUnrelatedChanges(t *testing.T) {
	s := openPreferences(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.WatchPreference(ctx, domain.PrefUserName, "")
	assert.Equal(t, "", next(t, ch))

	require.NoError(t, s.SetPreference(domain.PrefProfilePicture, "file:///p.png"))
	require.NoError(t, s.SetPreference(domain.PrefUserName, "Ana"))
	assert.Equal(t, "Ana", next(t, ch))

	require.NoError(t, s.ClearPreferences())
	assert.Equal(t, "", next(t, ch))
}
