package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/screen"
	"github.com/mmcdole/marquee/internal/search"
	"github.com/mmcdole/marquee/internal/state"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// ListID names one of the movie lists shown by the UI
type ListID int

const (
	ListTrending ListID = iota
	ListPopular
	ListUpcoming
	ListSearch
	ListFavorites
	ListFavoriteSearch
)

// Title returns the list's tab label
func (id ListID) Title() string {
	switch id {
	case ListTrending:
		return "Trending"
	case ListPopular:
		return "Popular"
	case ListUpcoming:
		return "Upcoming"
	case ListSearch, ListFavoriteSearch:
		return "Search"
	case ListFavorites:
		return "All"
	default:
		return "?"
	}
}

// movieList is a scrollable, locally filterable list of movies
type movieList struct {
	state     screen.MoviesState
	filter    string
	matches   []search.Match // Movies passing the filter, in display order
	cursor    int
	offset    int
	lastQuery string // Remote search behind this list, if any
}

func newMovieList() *movieList {
	return &movieList{state: state.Loading[[]domain.Movie]()}
}

// SetState replaces the list contents, keeping the cursor where possible
func (l *movieList) SetState(s screen.MoviesState) {
	l.state = s
	l.refilter()
}

// SetFilter narrows the visible movies to fuzzy matches of query
func (l *movieList) SetFilter(query string) {
	l.filter = query
	l.cursor = 0
	l.offset = 0
	l.refilter()
}

func (l *movieList) refilter() {
	l.matches = search.Filter(l.filter, l.state.Data)
	l.clamp()
}

// Len returns the number of visible movies
func (l *movieList) Len() int { return len(l.matches) }

// Selected returns the movie under the cursor
func (l *movieList) Selected() (domain.Movie, bool) {
	if !l.state.IsSuccess() || l.cursor >= len(l.matches) {
		return domain.Movie{}, false
	}
	return l.matches[l.cursor].Movie, true
}

// Move shifts the cursor by delta, clamped to the list
func (l *movieList) Move(delta int) {
	l.cursor += delta
	l.clamp()
}

// JumpTo places the cursor at index i, negative counting from the end
func (l *movieList) JumpTo(i int) {
	if i < 0 {
		i = len(l.matches) + i
	}
	l.cursor = i
	l.clamp()
}

func (l *movieList) clamp() {
	if l.cursor >= len(l.matches) {
		l.cursor = len(l.matches) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// View renders the list into width x height cells
func (l *movieList) View(width, height int, spinner string) string {
	switch l.state.Status {
	case state.StatusLoading:
		return spinner + " " + styles.DimStyle.Render("Loading...")
	case state.StatusError:
		return styles.ErrorStyle.Render("Error: "+l.state.Message) + "\n" +
			styles.DimStyle.Render("press r to retry")
	}

	if len(l.matches) == 0 {
		if l.filter != "" {
			return styles.DimStyle.Render(fmt.Sprintf("No movies match %q", l.filter))
		}
		return styles.DimStyle.Render("Nothing here yet")
	}

	if height < 1 {
		height = 1
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+height {
		l.offset = l.cursor - height + 1
	}
	end := l.offset + height
	if end > len(l.matches) {
		end = len(l.matches)
	}

	var rows []string
	for i := l.offset; i < end; i++ {
		rows = append(rows, renderRow(l.matches[i], i == l.cursor, width))
	}
	return strings.Join(rows, "\n")
}

func renderRow(m search.Match, selected bool, width int) string {
	year := m.Movie.ReleaseYear()
	suffix := ""
	if year != "" {
		suffix = " (" + year + ")"
	}

	title := m.Movie.Title
	matched := m.MatchedIndexes
	if avail := width - lipgloss.Width(suffix) - 2; lipgloss.Width(title) > avail {
		title = styles.Truncate(title, avail)
		matched = nil // Indexes no longer line up
	}

	row := " " + styles.HighlightMatches(title, matched, selected)
	if selected {
		row += styles.SelectedItemStyle.Render(suffix + " ")
	} else {
		row += styles.DimStyle.Render(suffix)
	}
	return row
}
