package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// favoriteRow is the favorite_movies table row
type favoriteRow struct {
	ID    int    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title string `gorm:"column:title"`
}

func (favoriteRow) TableName() string {
	return "favorite_movies"
}

// FavoritesStore implements domain.FavoritesStore on an embedded SQLite table.
// Every statement stands alone; there are no multi-statement transactions.
type FavoritesStore struct {
	db      *gorm.DB
	changes *notifier
	logger  *slog.Logger
}

var _ domain.FavoritesStore = (*FavoritesStore)(nil)

// OpenFavorites opens (creating if needed) the favorites database in dir.
// An empty dir opens an in-memory database.
func OpenFavorites(dir string, logger *slog.Logger) (*FavoritesStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := ":memory:"
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		dsn = filepath.Join(dir, "favorites.db")
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites db: %w", err)
	}
	// One connection: an in-memory database exists per connection, and
	// a single writer avoids SQLITE_BUSY on the file database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&favoriteRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate favorites db: %w", err)
	}

	return &FavoritesStore{db: db, changes: newNotifier(), logger: logger}, nil
}

func (s *FavoritesStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// === Queries ===

// Favorites returns every favorite, most recent first
func (s *FavoritesStore) Favorites(ctx context.Context) ([]domain.FavoriteMovieID, error) {
	var rows []favoriteRow
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return toFavorites(rows), nil
}

// SearchFavorites returns favorites whose title contains term, most recent first
func (s *FavoritesStore) SearchFavorites(ctx context.Context, term string) ([]domain.FavoriteMovieID, error) {
	var rows []favoriteRow
	err := s.db.WithContext(ctx).
		Where(`title LIKE ? ESCAPE '\'`, "%"+escapeLike(term)+"%").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search favorites: %w", err)
	}
	return toFavorites(rows), nil
}

func (s *FavoritesStore) IsFavorite(ctx context.Context, movieID int) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&favoriteRow{}).Where("id = ?", movieID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}
	return n > 0, nil
}

func (s *FavoritesStore) CountFavorites(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&favoriteRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return int(n), nil
}

// === Mutations ===

// InsertFavorite adds a favorite, replacing the stored title if the id exists
func (s *FavoritesStore) InsertFavorite(ctx context.Context, fav domain.FavoriteMovieID) error {
	if fav.ID <= 0 {
		return fmt.Errorf("invalid movie id %d", fav.ID)
	}
	row := favoriteRow{ID: fav.ID, Title: fav.Title}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	s.logger.Debug("inserted favorite", "movieID", fav.ID, "title", fav.Title)
	s.changes.notify()
	return nil
}

func (s *FavoritesStore) DeleteFavorite(ctx context.Context, movieID int) error {
	if err := s.db.WithContext(ctx).Delete(&favoriteRow{}, movieID).Error; err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	s.logger.Debug("deleted favorite", "movieID", movieID)
	s.changes.notify()
	return nil
}

func (s *FavoritesStore) ClearFavorites(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&favoriteRow{}).Error; err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	s.changes.notify()
	return nil
}

// === Observable queries ===

func (s *FavoritesStore) WatchFavorites(ctx context.Context) <-chan domain.Update[[]domain.FavoriteMovieID] {
	return watch(ctx, s.changes, s.logger, func() ([]domain.FavoriteMovieID, error) {
		return s.Favorites(ctx)
	})
}

func (s *FavoritesStore) WatchSearch(ctx context.Context, term string) <-chan domain.Update[[]domain.FavoriteMovieID] {
	return watch(ctx, s.changes, s.logger, func() ([]domain.FavoriteMovieID, error) {
		return s.SearchFavorites(ctx, term)
	})
}

func (s *FavoritesStore) WatchCount(ctx context.Context) <-chan domain.Update[int] {
	return watch(ctx, s.changes, s.logger, func() (int, error) {
		return s.CountFavorites(ctx)
	})
}

func toFavorites(rows []favoriteRow) []domain.FavoriteMovieID {
	favs := make([]domain.FavoriteMovieID, len(rows))
	for i, r := range rows {
		favs[i] = domain.FavoriteMovieID{ID: r.ID, Title: r.Title}
	}
	return favs
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
