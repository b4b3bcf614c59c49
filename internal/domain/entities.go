package domain

import "fmt"

// Genre is a TMDB genre attached to a movie
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is a normalized movie record ready for display
type Movie struct {
	ID          int     // TMDB movie identifier
	Title       string  // Display title (empty if upstream omitted it)
	Overview    string  // Plot synopsis
	ReleaseDate string  // Display date, MM/DD/YYYY (empty if unknown)
	PosterPath  string  // Absolute poster image URL (empty if unknown)
	VoteAverage float64 // Average score, 0-10
	VoteCount   int     // Number of votes behind VoteAverage
	Genres      []Genre // Nil when the endpoint does not return genres
}

// HasPoster reports whether the movie has a poster image URL
func (m Movie) HasPoster() bool {
	return m.PosterPath != ""
}

// ReleaseYear returns the year part of ReleaseDate, or "" if unknown
func (m Movie) ReleaseYear() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[len(m.ReleaseDate)-4:]
}

// FormattedScore returns the average score as "7.4 (1,234 votes)"
func (m Movie) FormattedScore() string {
	if m.VoteCount == 0 {
		return "no votes"
	}
	return fmt.Sprintf("%.1f (%s votes)", m.VoteAverage, groupThousands(m.VoteCount))
}

// GenreNames returns the names of the movie's genres in order
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Favorite converts the movie to the id/title pair persisted as a favorite
func (m Movie) Favorite() FavoriteMovieID {
	return FavoriteMovieID{ID: m.ID, Title: m.Title}
}

// MovieList is a page of movies as returned by a list endpoint
type MovieList struct {
	Page         int
	Results      []Movie
	TotalPages   int
	TotalResults int
}

// FavoriteMovieID is the only entity persisted for favorites.
// A favorite may reference a movie that no longer exists upstream.
type FavoriteMovieID struct {
	ID    int
	Title string
}

func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return s
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
