package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/marquee/internal/domain"
	sfuzzy "github.com/sahilm/fuzzy"
)

// Match is a movie that survived Filter, with highlight positions
type Match struct {
	Movie          domain.Movie
	MatchedIndexes []int // Byte positions in the lowercased title that matched
	Score          int   // Higher is better
}

// movieIndex implements sahilm/fuzzy.Source over movie titles
type movieIndex struct {
	movies      []domain.Movie
	lowerTitles []string // Pre-computed lowercase titles
}

func newMovieIndex(movies []domain.Movie) *movieIndex {
	idx := &movieIndex{movies: movies, lowerTitles: make([]string, len(movies))}
	for i, m := range movies {
		idx.lowerTitles[i] = strings.ToLower(m.Title)
	}
	return idx
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *movieIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of movies (implements fuzzy.Source)
func (idx *movieIndex) Len() int { return len(idx.movies) }

// Filter narrows an already loaded list to the movies whose title fuzzy
// matches query, best match first. An empty query keeps every movie in order.
func Filter(query string, movies []domain.Movie) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		matches := make([]Match, len(movies))
		for i, m := range movies {
			matches[i] = Match{Movie: m}
		}
		return matches
	}

	idx := newMovieIndex(movies)
	found := sfuzzy.FindFrom(strings.ToLower(query), idx)

	matches := make([]Match, len(found))
	for i, f := range found {
		matches[i] = Match{
			Movie:          movies[f.Index],
			MatchedIndexes: f.MatchedIndexes,
			Score:          f.Score,
		}
	}
	return matches
}

// Rank re-orders remote search results by how closely each title matches
// query. Titles that do not fuzzy match keep their relative order at the end.
// The input slice is not modified.
func Rank(query string, movies []domain.Movie) []domain.Movie {
	query = strings.TrimSpace(query)
	if query == "" || len(movies) < 2 {
		return movies
	}

	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	ranked := make([]domain.Movie, 0, len(movies))
	seen := make([]bool, len(movies))
	for _, r := range ranks {
		ranked = append(ranked, movies[r.OriginalIndex])
		seen[r.OriginalIndex] = true
	}
	for i, m := range movies {
		if !seen[i] {
			ranked = append(ranked, m)
		}
	}
	return ranked
}
