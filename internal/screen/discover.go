package screen

import (
	"context"
	"log/slog"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/search"
	"github.com/mmcdole/marquee/internal/state"
)

// Discover backs the discover screen: three remote lists and a search.
type Discover struct {
	ctx    context.Context
	movies domain.MovieRepository
	rank   bool
	logger *slog.Logger

	trending *field[[]domain.Movie]
	popular  *field[[]domain.Movie]
	upcoming *field[[]domain.Movie]
	searched *field[[]domain.Movie]
}

// NewDiscover creates the discover container. Actions stop when ctx is done.
// With rank set, search results are re-ordered by fuzzy title closeness.
func NewDiscover(ctx context.Context, movies domain.MovieRepository, rank bool, logger *slog.Logger) *Discover {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discover{
		ctx:      ctx,
		movies:   movies,
		rank:     rank,
		logger:   logger,
		trending: newField(state.Loading[[]domain.Movie]()),
		popular:  newField(state.Loading[[]domain.Movie]()),
		upcoming: newField(state.Loading[[]domain.Movie]()),
		searched: newField(state.Success([]domain.Movie{})), // Idle until the first search
	}
}

func (d *Discover) Trending() *state.Observable[MoviesState] { return d.trending.obs }
func (d *Discover) Popular() *state.Observable[MoviesState]  { return d.popular.obs }
func (d *Discover) Upcoming() *state.Observable[MoviesState] { return d.upcoming.obs }
func (d *Discover) Searched() *state.Observable[MoviesState] { return d.searched.obs }

// Load (re)fetches the trending, popular and upcoming lists
func (d *Discover) Load() {
	d.fetch("trending", d.trending, d.movies.TrendingMovies)
	d.fetch("popular", d.popular, d.movies.PopularMovies)
	d.fetch("upcoming", d.upcoming, d.movies.UpcomingMovies)
}

// Search runs a remote search for term, replacing any search in flight
func (d *Discover) Search(term string) {
	d.fetch("search", d.searched, func(ctx context.Context) ([]domain.Movie, error) {
		movies, err := d.movies.SearchMovies(ctx, term)
		if err != nil || !d.rank {
			return movies, err
		}
		return search.Rank(term, movies), nil
	})
}

// Close stops every action in flight
func (d *Discover) Close() {
	for _, f := range []*field[[]domain.Movie]{d.trending, d.popular, d.upcoming, d.searched} {
		f.stop()
	}
}

func (d *Discover) fetch(list string, f *field[[]domain.Movie], load func(context.Context) ([]domain.Movie, error)) {
	ctx, gen := f.begin(d.ctx, true)
	go func() {
		movies, err := load(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			d.logger.Error("failed to load movies", "list", list, "error", err)
		} else {
			d.logger.Debug("loaded movies", "list", list, "count", len(movies))
		}
		f.result(gen, movies, err)
	}()
}
