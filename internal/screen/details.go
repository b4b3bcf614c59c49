package screen

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/state"
)

// Details backs the movie details screen
type Details struct {
	ctx    context.Context
	movies domain.MovieRepository
	users  domain.UserRepository
	logger *slog.Logger

	movie      *field[domain.Movie]
	isFavorite *field[bool]

	mu         sync.Mutex
	favoriteID int // Movie the IsFavorite answer belongs to
}

// NewDetails creates the details container. Actions stop when ctx is done.
func NewDetails(ctx context.Context, movies domain.MovieRepository, users domain.UserRepository, logger *slog.Logger) *Details {
	if logger == nil {
		logger = slog.Default()
	}
	return &Details{
		ctx:        ctx,
		movies:     movies,
		users:      users,
		logger:     logger,
		movie:      newField(state.Loading[domain.Movie]()),
		isFavorite: newField(state.Success(false)),
	}
}

func (d *Details) Movie() *state.Observable[state.UIState[domain.Movie]] { return d.movie.obs }
func (d *Details) IsFavorite() *state.Observable[state.UIState[bool]]    { return d.isFavorite.obs }

// Load fetches the full record of movieID
func (d *Details) Load(movieID int) {
	ctx, gen := d.movie.begin(d.ctx, true)
	go func() {
		movie, err := d.movies.MovieDetails(ctx, movieID)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			d.logger.Error("failed to load movie details", "movieID", movieID, "error", err)
		}
		d.movie.result(gen, movie, err)
	}()
}

// AddFavorite stores movie as a favorite, then refreshes IsFavorite
func (d *Details) AddFavorite(movie domain.Movie) {
	d.toggle(movie.ID, func(ctx context.Context) error {
		return d.users.InsertFavorite(ctx, movie.Favorite())
	})
}

// RemoveFavorite deletes movie from the favorites, then refreshes IsFavorite
func (d *Details) RemoveFavorite(movie domain.Movie) {
	d.toggle(movie.ID, func(ctx context.Context) error {
		return d.users.DeleteFavorite(ctx, movie.ID)
	})
}

// RefreshIsFavorite re-reads whether movieID is a favorite
func (d *Details) RefreshIsFavorite(movieID int) {
	d.toggle(movieID, nil)
}

// Close stops every action in flight
func (d *Details) Close() {
	d.movie.stop()
	d.isFavorite.stop()
}

func (d *Details) toggle(movieID int, mutate func(context.Context) error) {
	// The last answer stays visible only while it is about the same movie
	d.mu.Lock()
	sameMovie := d.favoriteID == movieID
	d.favoriteID = movieID
	d.mu.Unlock()

	ctx, gen := d.isFavorite.begin(d.ctx, !sameMovie)
	go func() {
		if mutate != nil {
			if err := mutate(ctx); err != nil {
				d.logger.Error("failed to update favorite", "movieID", movieID, "error", err)
				d.isFavorite.result(gen, false, err)
				return
			}
		}
		fav, err := d.users.IsFavorite(ctx, movieID)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			d.logger.Error("failed to check favorite", "movieID", movieID, "error", err)
		}
		d.isFavorite.result(gen, fav, err)
	}()
}
