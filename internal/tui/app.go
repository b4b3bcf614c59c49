package tui

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/screen"
	"github.com/mmcdole/marquee/internal/state"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Page is the screen currently shown
type Page int

const (
	PageDiscover Page = iota
	PageFavorites
	PageProfile
	PageDetails
)

func (p Page) String() string {
	switch p {
	case PageDiscover:
		return "Discover"
	case PageFavorites:
		return "Favorites"
	case PageProfile:
		return "Profile"
	case PageDetails:
		return "Details"
	default:
		return "?"
	}
}

// inputMode is what the text input is collecting
type inputMode int

const (
	inputNone inputMode = iota
	inputFilter
	inputSearch
	inputName
	inputPicture
	inputBackground
)

const statusDuration = 3 * time.Second

var (
	tabPages      = []Page{PageDiscover, PageFavorites, PageProfile}
	discoverLists = []ListID{ListTrending, ListPopular, ListUpcoming, ListSearch}
	favoriteLists = []ListID{ListFavorites, ListFavoriteSearch}
)

// Screens are the state containers the UI renders and drives
type Screens struct {
	Discover  *screen.Discover
	Details   *screen.Details
	Favorites *screen.Favorites
	Profile   *screen.Profile
}

// Model is the main Bubble Tea model for the application
type Model struct {
	ctx     context.Context
	screens Screens
	logger  *slog.Logger

	Page     Page
	prevPage Page // Page to return to when leaving details
	Ready    bool
	Width    int
	Height   int

	// List pages
	lists        map[ListID]*movieList
	discoverTab  int
	favoritesTab int

	// Details page
	detailID   int
	details    state.UIState[domain.Movie]
	isFavorite state.UIState[bool]

	// Profile page
	prefs map[domain.PreferenceKey]state.UIState[string]
	count state.UIState[int]

	// UI components
	input     textinput.Model
	inputMode inputMode
	spinner   spinner.Model
	help      help.Model

	StatusMsg   string
	StatusIsErr bool
}

// NewModel creates a new application model. Subscriptions end when ctx is done.
func NewModel(ctx context.Context, screens Screens, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	lists := make(map[ListID]*movieList)
	for _, id := range append(append([]ListID{}, discoverLists...), favoriteLists...) {
		lists[id] = newMovieList()
	}
	// Search lists stay idle until the first search
	lists[ListSearch].SetState(state.Success([]domain.Movie{}))
	lists[ListFavoriteSearch].SetState(state.Success([]domain.Movie{}))

	return Model{
		ctx:        ctx,
		screens:    screens,
		logger:     logger,
		Page:       PageDiscover,
		lists:      lists,
		details:    state.Loading[domain.Movie](),
		isFavorite: state.Success(false),
		prefs: map[domain.PreferenceKey]state.UIState[string]{
			domain.PrefUserName:          state.Loading[string](),
			domain.PrefProfilePicture:    state.Loading[string](),
			domain.PrefProfileBackground: state.Loading[string](),
		},
		count:   state.Loading[int](),
		input:   ti,
		spinner: sp,
		help:    newHelp(),
	}
}

// Init subscribes to every screen and starts loading them
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		SubscribeAllCmd(m.ctx, m.screens),
		LoadAllCmd(m.screens),
		m.spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.handleInputKey(msg)
		}
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MoviesStateMsg:
		if l, ok := m.lists[msg.List]; ok {
			l.SetState(msg.State)
		}
		return m, msg.Next

	case DetailsStateMsg:
		m.details = msg.State
		return m, msg.Next

	case FavoriteStateMsg:
		m.isFavorite = msg.State
		if msg.State.IsError() {
			return m, tea.Batch(msg.Next, m.setStatus("Favorite update failed: "+msg.State.Message, true))
		}
		return m, msg.Next

	case ProfileStateMsg:
		m.prefs[msg.Key] = msg.State
		return m, msg.Next

	case CountStateMsg:
		m.count = msg.State
		return m, msg.Next

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.NextTab):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, Keys.PrevTab):
		m.switchTab(-1)
		return m, nil
	}

	switch m.Page {
	case PageDiscover, PageFavorites:
		return m.handleListKey(msg)
	case PageDetails:
		return m.handleDetailsKey(msg)
	case PageProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.activeList()

	switch {
	case key.Matches(msg, Keys.Up):
		l.Move(-1)
	case key.Matches(msg, Keys.Down):
		l.Move(1)
	case key.Matches(msg, Keys.Home):
		l.JumpTo(0)
	case key.Matches(msg, Keys.End):
		l.JumpTo(-1)
	case key.Matches(msg, Keys.Left):
		m.switchList(-1)
	case key.Matches(msg, Keys.Right):
		m.switchList(1)
	case key.Matches(msg, Keys.Enter):
		if movie, ok := l.Selected(); ok {
			m.openDetails(movie)
		}
	case key.Matches(msg, Keys.Filter):
		return m, m.openInput(inputFilter, "Filter", l.filter)
	case key.Matches(msg, Keys.Search):
		return m, m.openInput(inputSearch, "Search "+strings.ToLower(m.Page.String()), "")
	case key.Matches(msg, Keys.Escape):
		l.SetFilter("")
	case key.Matches(msg, Keys.Retry):
		return m, m.retry()
	}
	return m, nil
}

func (m Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back):
		m.Page = m.prevPage
	case key.Matches(msg, Keys.Favorite):
		if !m.details.IsSuccess() || !m.isFavorite.IsSuccess() {
			return m, nil
		}
		movie := m.details.Data
		if m.isFavorite.Data {
			m.screens.Details.RemoveFavorite(movie)
			return m, m.setStatus("Removed "+movie.Title+" from favorites", false)
		}
		m.screens.Details.AddFavorite(movie)
		return m, m.setStatus("Added "+movie.Title+" to favorites", false)
	case key.Matches(msg, Keys.Retry):
		return m, m.retry()
	}
	return m, nil
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.EditName):
		return m, m.openInput(inputName, "User name", m.prefs[domain.PrefUserName].Data)
	case key.Matches(msg, Keys.Picture):
		return m, m.openInput(inputPicture, "Profile picture file", "")
	case key.Matches(msg, Keys.Backdrop):
		return m, m.openInput(inputBackground, "Background picture file", "")
	case key.Matches(msg, Keys.Retry):
		return m, m.retry()
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, Keys.Escape):
		if m.inputMode == inputFilter {
			m.activeList().SetFilter("")
		}
		m.closeInput()
		return m, nil
	case key.Matches(msg, Keys.Submit):
		mode, value := m.inputMode, strings.TrimSpace(m.input.Value())
		m.closeInput()
		return m, m.submit(mode, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inputMode == inputFilter {
		m.activeList().SetFilter(m.input.Value())
	}
	return m, cmd
}

// submit hands a finished input to the matching screen action
func (m *Model) submit(mode inputMode, value string) tea.Cmd {
	switch mode {
	case inputSearch:
		if value == "" {
			return nil
		}
		if m.Page == PageFavorites {
			m.screens.Favorites.Search(value)
			m.favoritesTab = indexOf(favoriteLists, ListFavoriteSearch)
		} else {
			m.screens.Discover.Search(value)
			m.discoverTab = indexOf(discoverLists, ListSearch)
		}
		m.activeList().SetFilter("")
		m.lists[m.activeListID()].lastQuery = value
	case inputName:
		m.screens.Profile.SetUserName(value)
		return m.setStatus("Name saved", false)
	case inputPicture, inputBackground:
		if value == "" {
			return nil
		}
		path := expandHome(value)
		if mode == inputPicture {
			m.screens.Profile.SetProfilePicture(path)
		} else {
			m.screens.Profile.SetProfileBackground(path)
		}
		return m.setStatus("Importing "+path, false)
	}
	return nil
}

// retry re-runs the actions behind the current page
func (m *Model) retry() tea.Cmd {
	switch m.Page {
	case PageDiscover:
		m.screens.Discover.Load()
		if q := m.lists[ListSearch].lastQuery; q != "" {
			m.screens.Discover.Search(q)
		}
	case PageFavorites:
		m.screens.Favorites.Load()
		if q := m.lists[ListFavoriteSearch].lastQuery; q != "" {
			m.screens.Favorites.Search(q)
		}
	case PageProfile:
		m.screens.Profile.Load()
	case PageDetails:
		m.screens.Details.Load(m.detailID)
		m.screens.Details.RefreshIsFavorite(m.detailID)
	}
	m.logger.Debug("retry", "page", m.Page.String())
	return nil
}

func (m *Model) openDetails(movie domain.Movie) {
	m.prevPage = m.Page
	m.Page = PageDetails
	m.detailID = movie.ID
	m.details = state.Loading[domain.Movie]()
	m.isFavorite = state.Loading[bool]()
	m.screens.Details.Load(movie.ID)
	m.screens.Details.RefreshIsFavorite(movie.ID)
}

func (m *Model) openInput(mode inputMode, placeholder, value string) tea.Cmd {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.inputMode = inputNone
	m.input.Blur()
}

func (m *Model) switchTab(delta int) {
	current := m.Page
	if current == PageDetails {
		current = m.prevPage
	}
	i := (indexOf(tabPages, current) + delta + len(tabPages)) % len(tabPages)
	m.Page = tabPages[i]
}

func (m *Model) switchList(delta int) {
	switch m.Page {
	case PageDiscover:
		m.discoverTab = (m.discoverTab + delta + len(discoverLists)) % len(discoverLists)
	case PageFavorites:
		m.favoritesTab = (m.favoritesTab + delta + len(favoriteLists)) % len(favoriteLists)
	}
}

// activeListID returns the list shown on the current list page
func (m Model) activeListID() ListID {
	if m.Page == PageFavorites {
		return favoriteLists[m.favoritesTab]
	}
	return discoverLists[m.discoverTab]
}

func (m Model) activeList() *movieList {
	return m.lists[m.activeListID()]
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusDuration)
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullDesc = styles.HelpDescStyle
	return h
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return 0
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
