package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/screen"
	"github.com/mmcdole/marquee/internal/state"
)

// Message types for the TUI. Every state message carries the command that
// waits for the next value of the same observable.

// MoviesStateMsg carries a new state of one movie list
type MoviesStateMsg struct {
	List  ListID
	State screen.MoviesState
	Next  tea.Cmd
}

// DetailsStateMsg carries a new state of the opened movie
type DetailsStateMsg struct {
	State state.UIState[domain.Movie]
	Next  tea.Cmd
}

// FavoriteStateMsg carries whether the opened movie is a favorite
type FavoriteStateMsg struct {
	State state.UIState[bool]
	Next  tea.Cmd
}

// ProfileStateMsg carries a new state of one profile preference
type ProfileStateMsg struct {
	Key   domain.PreferenceKey
	State state.UIState[string]
	Next  tea.Cmd
}

// CountStateMsg carries the number of favorites
type CountStateMsg struct {
	State state.UIState[int]
	Next  tea.Cmd
}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}
