package screen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/state"
	"golang.org/x/time/rate"
)

// Favorites backs the favorites screen. The favorites table only stores ids,
// so every id list coming out of the store is resolved into full movies one
// lookup at a time.
type Favorites struct {
	ctx    context.Context
	movies domain.MovieRepository
	users  domain.UserRepository
	limit  rate.Limit
	logger *slog.Logger

	favorites *field[[]domain.Movie]
	searched  *field[[]domain.Movie]
}

// NewFavorites creates the favorites container. Detail lookups are spaced
// delay apart; zero disables pacing. Actions stop when ctx is done.
func NewFavorites(ctx context.Context, movies domain.MovieRepository, users domain.UserRepository, delay time.Duration, logger *slog.Logger) *Favorites {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Favorites{
		ctx:       ctx,
		movies:    movies,
		users:     users,
		limit:     limit,
		logger:    logger,
		favorites: newField(state.Loading[[]domain.Movie]()),
		searched:  newField(state.Success([]domain.Movie{})), // Idle until the first search
	}
}

func (f *Favorites) Favorites() *state.Observable[MoviesState] { return f.favorites.obs }
func (f *Favorites) Searched() *state.Observable[MoviesState]  { return f.searched.obs }

// Load follows the favorites table, newest first
func (f *Favorites) Load() {
	ctx, gen := f.favorites.begin(f.ctx, true)
	go f.resolve(ctx, f.favorites, gen, f.users.WatchFavorites(ctx))
}

// Search follows the favorites whose title contains term
func (f *Favorites) Search(term string) {
	ctx, gen := f.searched.begin(f.ctx, true)
	go f.resolve(ctx, f.searched, gen, f.users.WatchSearch(ctx, term))
}

// Close stops every action in flight
func (f *Favorites) Close() {
	f.favorites.stop()
	f.searched.stop()
}

func (f *Favorites) resolve(ctx context.Context, target *field[[]domain.Movie], gen uint64, updates <-chan domain.Update[[]domain.FavoriteMovieID]) {
	for u := range updates {
		if u.Err != nil {
			target.result(gen, nil, u.Err)
			continue
		}

		movies, err := f.lookup(ctx, u.Value)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			f.logger.Error("failed to resolve favorites", "count", len(u.Value), "error", err)
		}
		target.result(gen, movies, err)
	}
}

// lookup fetches the details of every favorite in order, pausing before
// each one
func (f *Favorites) lookup(ctx context.Context, ids []domain.FavoriteMovieID) ([]domain.Movie, error) {
	limiter := rate.NewLimiter(f.limit, 1)
	limiter.Allow() // Spend the initial token so the first lookup waits too

	movies := make([]domain.Movie, 0, len(ids))
	for _, fav := range ids {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		movie, err := f.movies.MovieDetails(ctx, fav.ID)
		if err != nil {
			return nil, fmt.Errorf("favorite %d: %w", fav.ID, err)
		}
		movies = append(movies, movie)
	}
	return movies, nil
}
