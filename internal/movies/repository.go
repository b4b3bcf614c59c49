package movies

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tmdb"
)

// DefaultImageBaseURL is the prefix prepended to raw poster paths
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/original/"

// Source is the remote catalog the repository normalizes (consumer-defined interface)
type Source interface {
	Trending(ctx context.Context) (*tmdb.MovieList, error)
	Popular(ctx context.Context) (*tmdb.MovieList, error)
	Upcoming(ctx context.Context) (*tmdb.MovieList, error)
	MovieDetails(ctx context.Context, movieID int) (*tmdb.Movie, error)
	Search(ctx context.Context, term string) (*tmdb.MovieList, error)
}

// Repository implements domain.MovieRepository on top of a remote Source.
// List results drop entries that cannot be rendered as a card (no title or
// no poster); every returned movie carries a display date and a full poster URL.
type Repository struct {
	source       Source
	imageBaseURL string
	logger       *slog.Logger
}

var _ domain.MovieRepository = (*Repository)(nil)

// NewRepository creates a new movie repository
func NewRepository(source Source, imageBaseURL string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	if imageBaseURL == "" {
		imageBaseURL = DefaultImageBaseURL
	}
	return &Repository{source: source, imageBaseURL: imageBaseURL, logger: logger}
}

func (r *Repository) TrendingMovies(ctx context.Context) ([]domain.Movie, error) {
	return r.list(ctx, "trending", r.source.Trending)
}

func (r *Repository) PopularMovies(ctx context.Context) ([]domain.Movie, error) {
	return r.list(ctx, "popular", r.source.Popular)
}

func (r *Repository) UpcomingMovies(ctx context.Context) ([]domain.Movie, error) {
	return r.list(ctx, "upcoming", r.source.Upcoming)
}

func (r *Repository) MovieDetails(ctx context.Context, movieID int) (domain.Movie, error) {
	raw, err := r.source.MovieDetails(ctx, movieID)
	if err != nil {
		r.logger.Error("failed to fetch movie details", "movieID", movieID, "error", err)
		return domain.Movie{}, err
	}
	return r.normalize(*raw), nil
}

func (r *Repository) SearchMovies(ctx context.Context, term string) ([]domain.Movie, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Movie{}, nil
	}
	return r.list(ctx, "search", func(ctx context.Context) (*tmdb.MovieList, error) {
		return r.source.Search(ctx, term)
	})
}

// MovieList fetches one of the list endpoints and returns the normalized envelope
func (r *Repository) MovieList(ctx context.Context, fetch func(context.Context) (*tmdb.MovieList, error)) (domain.MovieList, error) {
	raw, err := fetch(ctx)
	if err != nil {
		return domain.MovieList{}, err
	}
	return domain.MovieList{
		Page:         raw.Page,
		Results:      r.normalizeAll(raw.Results),
		TotalPages:   raw.TotalPages,
		TotalResults: raw.TotalResults,
	}, nil
}

func (r *Repository) list(ctx context.Context, name string, fetch func(context.Context) (*tmdb.MovieList, error)) ([]domain.Movie, error) {
	list, err := r.MovieList(ctx, fetch)
	if err != nil {
		r.logger.Error("failed to fetch movie list", "list", name, "error", err)
		return nil, err
	}
	r.logger.Debug("fetched movie list", "list", name, "count", len(list.Results), "total", list.TotalResults)
	return list.Results, nil
}

// normalizeAll filters out incomplete entries and normalizes the rest
func (r *Repository) normalizeAll(raw []tmdb.Movie) []domain.Movie {
	result := make([]domain.Movie, 0, len(raw))
	for _, m := range raw {
		if isBlank(m.Title) || isBlank(m.PosterPath) {
			continue
		}
		result = append(result, r.normalize(m))
	}
	return result
}

func (r *Repository) normalize(m tmdb.Movie) domain.Movie {
	movie := domain.Movie{
		ID:          m.ID,
		Title:       deref(m.Title),
		Overview:    m.Overview,
		ReleaseDate: r.displayDate(m.ID, deref(m.ReleaseDate)),
		PosterPath:  PosterURL(r.imageBaseURL, deref(m.PosterPath)),
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
	}
	if m.Genres != nil {
		movie.Genres = make([]domain.Genre, len(m.Genres))
		for i, g := range m.Genres {
			movie.Genres[i] = domain.Genre{ID: g.ID, Name: g.Name}
		}
	}
	return movie
}

func (r *Repository) displayDate(movieID int, raw string) string {
	date, err := FormatReleaseDate(raw)
	if err != nil {
		r.logger.Debug("unparsable release date", "movieID", movieID, "date", raw)
		return raw
	}
	return date
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
