package user

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// Repository implements domain.UserRepository: the favorites table and the
// preference store of the local user, plus imported profile pictures.
type Repository struct {
	domain.FavoritesStore
	prefs       domain.PreferenceStore
	picturesDir string
	logger      *slog.Logger
}

var _ domain.UserRepository = (*Repository)(nil)

// NewRepository creates a new user repository. Imported pictures are copied
// into picturesDir.
func NewRepository(favorites domain.FavoritesStore, prefs domain.PreferenceStore, picturesDir string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		FavoritesStore: favorites,
		prefs:          prefs,
		picturesDir:    picturesDir,
		logger:         logger,
	}
}

func (r *Repository) Preference(key domain.PreferenceKey, defaultValue string) (string, error) {
	return r.prefs.Preference(key, defaultValue)
}

func (r *Repository) SetPreference(key domain.PreferenceKey, value string) error {
	return r.prefs.SetPreference(key, value)
}

func (r *Repository) RemovePreference(key domain.PreferenceKey) error {
	return r.prefs.RemovePreference(key)
}

func (r *Repository) ClearPreferences() error {
	return r.prefs.ClearPreferences()
}

func (r *Repository) WatchPreference(ctx context.Context, key domain.PreferenceKey, defaultValue string) <-chan domain.Update[string] {
	return r.prefs.WatchPreference(ctx, key, defaultValue)
}

// ImportPicture copies sourcePath into the pictures directory under a name
// derived from key, replacing any earlier copy, stores the copy's file URI
// under key and returns it.
func (r *Repository) ImportPicture(key domain.PreferenceKey, sourcePath string) (string, error) {
	if r.picturesDir == "" {
		return "", fmt.Errorf("no pictures directory configured")
	}
	if err := os.MkdirAll(r.picturesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create pictures directory: %w", err)
	}

	dest := filepath.Join(r.picturesDir, key.String()+strings.ToLower(filepath.Ext(sourcePath)))
	if err := copyFile(sourcePath, dest); err != nil {
		r.logger.Error("failed to import picture", "key", key, "source", sourcePath, "error", err)
		return "", err
	}

	uri := FileURI(dest)
	if err := r.prefs.SetPreference(key, uri); err != nil {
		return "", err
	}

	r.logger.Info("imported picture", "key", key, "uri", uri)
	return uri, nil
}

// FileURI returns the file:// URI for path
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// copyFile writes src to dst through a temporary file so a failed copy
// never leaves a truncated picture behind
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open picture: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".import-*")
	if err != nil {
		return fmt.Errorf("failed to create picture: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy picture: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to copy picture: %w", err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to replace picture: %w", err)
	}
	return nil
}
