package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/screen"
	"github.com/mmcdole/marquee/internal/state"
)

// subscribe bridges an observable into Bubble Tea. The returned command
// reads one value and wraps it together with the command reading the next.
func subscribe[T any](ctx context.Context, obs *state.Observable[T], wrap func(T, tea.Cmd) tea.Msg) tea.Cmd {
	ch := obs.Subscribe(ctx)
	var next tea.Cmd
	next = func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil // Program is shutting down
		}
		return wrap(v, next)
	}
	return next
}

func subscribeList(ctx context.Context, list ListID, obs *state.Observable[screen.MoviesState]) tea.Cmd {
	return subscribe(ctx, obs, func(s screen.MoviesState, next tea.Cmd) tea.Msg {
		return MoviesStateMsg{List: list, State: s, Next: next}
	})
}

func subscribePreference(ctx context.Context, key domain.PreferenceKey, obs *state.Observable[state.UIState[string]]) tea.Cmd {
	return subscribe(ctx, obs, func(s state.UIState[string], next tea.Cmd) tea.Msg {
		return ProfileStateMsg{Key: key, State: s, Next: next}
	})
}

// SubscribeAllCmd subscribes to every observable of the screens
func SubscribeAllCmd(ctx context.Context, s Screens) tea.Cmd {
	return tea.Batch(
		subscribeList(ctx, ListTrending, s.Discover.Trending()),
		subscribeList(ctx, ListPopular, s.Discover.Popular()),
		subscribeList(ctx, ListUpcoming, s.Discover.Upcoming()),
		subscribeList(ctx, ListSearch, s.Discover.Searched()),
		subscribeList(ctx, ListFavorites, s.Favorites.Favorites()),
		subscribeList(ctx, ListFavoriteSearch, s.Favorites.Searched()),
		subscribe(ctx, s.Details.Movie(), func(v state.UIState[domain.Movie], next tea.Cmd) tea.Msg {
			return DetailsStateMsg{State: v, Next: next}
		}),
		subscribe(ctx, s.Details.IsFavorite(), func(v state.UIState[bool], next tea.Cmd) tea.Msg {
			return FavoriteStateMsg{State: v, Next: next}
		}),
		subscribePreference(ctx, domain.PrefUserName, s.Profile.UserName()),
		subscribePreference(ctx, domain.PrefProfilePicture, s.Profile.ProfilePicture()),
		subscribePreference(ctx, domain.PrefProfileBackground, s.Profile.ProfileBackground()),
		subscribe(ctx, s.Profile.FavoriteCount(), func(v state.UIState[int], next tea.Cmd) tea.Msg {
			return CountStateMsg{State: v, Next: next}
		}),
	)
}

// LoadAllCmd starts loading every screen
func LoadAllCmd(s Screens) tea.Cmd {
	return func() tea.Msg {
		s.Discover.Load()
		s.Favorites.Load()
		s.Profile.Load()
		return nil
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
