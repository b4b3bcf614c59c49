package domain

import "context"

// FavoritesStore handles the local favorites table.
// Watch methods deliver the current result first, then a fresh result after
// every mutation, until ctx is done.
type FavoritesStore interface {
	// === Queries ===
	Favorites(ctx context.Context) ([]FavoriteMovieID, error)
	SearchFavorites(ctx context.Context, term string) ([]FavoriteMovieID, error)
	IsFavorite(ctx context.Context, movieID int) (bool, error)
	CountFavorites(ctx context.Context) (int, error)

	// === Mutations ===
	InsertFavorite(ctx context.Context, fav FavoriteMovieID) error
	DeleteFavorite(ctx context.Context, movieID int) error
	ClearFavorites(ctx context.Context) error

	// === Observable queries ===
	WatchFavorites(ctx context.Context) <-chan Update[[]FavoriteMovieID]
	WatchSearch(ctx context.Context, term string) <-chan Update[[]FavoriteMovieID]
	WatchCount(ctx context.Context) <-chan Update[int]
}

// PreferenceStore handles the local key-value preference store.
type PreferenceStore interface {
	Preference(key PreferenceKey, defaultValue string) (string, error)
	SetPreference(key PreferenceKey, value string) error
	RemovePreference(key PreferenceKey) error
	ClearPreferences() error
	WatchPreference(ctx context.Context, key PreferenceKey, defaultValue string) <-chan Update[string]

	Close() error
}

// Update carries one result of an observable query
type Update[T any] struct {
	Value T
	Err   error
}
