package domain

import (
	"context"
)

// MovieRepository provides normalized access to the remote movie catalog
type MovieRepository interface {
	// TrendingMovies returns this week's trending titles
	TrendingMovies(ctx context.Context) ([]Movie, error)

	// PopularMovies returns the current popular movies
	PopularMovies(ctx context.Context) ([]Movie, error)

	// UpcomingMovies returns movies about to be released
	UpcomingMovies(ctx context.Context) ([]Movie, error)

	// MovieDetails returns the full record for a single movie, including genres
	MovieDetails(ctx context.Context, movieID int) (Movie, error)

	// SearchMovies performs a text search against the catalog
	SearchMovies(ctx context.Context, term string) ([]Movie, error)
}

// UserRepository provides access to everything stored locally for the user
type UserRepository interface {
	FavoritesStore

	// Preference returns the value for key, or defaultValue if unset
	Preference(key PreferenceKey, defaultValue string) (string, error)

	// SetPreference overwrites the value for key
	SetPreference(key PreferenceKey, value string) error

	// RemovePreference deletes key
	RemovePreference(key PreferenceKey) error

	// ClearPreferences deletes every preference
	ClearPreferences() error

	// WatchPreference streams the value for key, current value first
	WatchPreference(ctx context.Context, key PreferenceKey, defaultValue string) <-chan Update[string]

	// ImportPicture copies a picture file into local storage and records its URI under key
	ImportPicture(key PreferenceKey, sourcePath string) (string, error)
}
