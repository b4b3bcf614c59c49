package user

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (*Repository, string) {
	t.Helper()
	favs, err := store.OpenFavorites("", nil)
	require.NoError(t, err)
	prefs, err := store.OpenPreferences("", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		favs.Close()
		prefs.Close()
	})

	dir := filepath.Join(t.TempDir(), "pictures")
	return NewRepository(favs, prefs, dir, nil), dir
}

func TestFavoritesDelegateToStore(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertFavorite(ctx, domain.FavoriteMovieID{ID: 550, Title: "Fight Club"}))
	ok, err := repo.IsFavorite(ctx, 550)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := repo.CountFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPreferencesDelegateToStore(t *testing.T) {
	repo, _ := newRepository(t)

	require.NoError(t, repo.SetPreference(domain.PrefUserName, "Ana"))
	v, err := repo.Preference(domain.PrefUserName, "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", v)

	require.NoError(t, repo.ClearPreferences())
	v, err = repo.Preference(domain.PrefUserName, "default")
	require.NoError(t, err)
	assert.Equal(t, "default", v)
}

func TestImportPictureCopiesAndReplaces(t *testing.T) {
	repo, dir := newRepository(t)
	src := filepath.Join(t.TempDir(), "Me.PNG")

	require.NoError(t, os.WriteFile(src, []byte("first"), 0644))
	uri, err := repo.ImportPicture(domain.PrefProfilePicture, src)
	require.NoError(t, err)

	dest := filepath.Join(dir, "profile_picture_uri.png")
	assert.True(t, strings.HasPrefix(uri, "file://"))
	assert.True(t, strings.HasSuffix(uri, "/profile_picture_uri.png"))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	stored, err := repo.Preference(domain.PrefProfilePicture, "")
	require.NoError(t, err)
	assert.Equal(t, uri, stored)

	require.NoError(t, os.WriteFile(src, []byte("second"), 0644))
	_, err = repo.ImportPicture(domain.PrefProfilePicture, src)
	require.NoError(t, err)

	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestImportPictureMissingSource(t *testing.T) {
	repo, _ := newRepository(t)

	_, err := repo.ImportPicture(domain.PrefProfileBackground, filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)

	v, _ := repo.Preference(domain.PrefProfileBackground, "")
	assert.Empty(t, v)
}
