package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/state"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	header := m.renderTabs()
	footer := m.renderFooter()
	bodyHeight := m.Height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	// BrowserStyle pads one cell on every side
	innerWidth, innerHeight := m.Width-4, bodyHeight-2

	var body string
	switch m.Page {
	case PageDiscover:
		body = m.renderListPage(discoverLists, m.discoverTab, innerWidth, innerHeight)
	case PageFavorites:
		body = m.renderListPage(favoriteLists, m.favoritesTab, innerWidth, innerHeight)
	case PageProfile:
		body = m.renderProfile()
	case PageDetails:
		body = m.renderDetails(innerWidth)
	}

	body = styles.BrowserStyle.
		Width(m.Width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderTabs() string {
	current := m.Page
	if current == PageDetails {
		current = m.prevPage
	}

	tabs := []string{styles.AccentStyle.Bold(true).Render("marquee ")}
	for _, p := range tabPages {
		if p == current {
			tabs = append(tabs, styles.ActiveTabStyle.Render(p.String()))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(p.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderListPage(ids []ListID, active, width, height int) string {
	var subTabs []string
	for i, id := range ids {
		label := id.Title()
		if q := m.lists[id].lastQuery; q != "" {
			label += ": " + styles.Truncate(q, 20)
		}
		if i == active {
			subTabs = append(subTabs, styles.ActiveSubTabStyle.Render(label))
		} else {
			subTabs = append(subTabs, styles.SubTabStyle.Render(label))
		}
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, subTabs...)}

	l := m.lists[ids[active]]
	switch {
	case m.inputMode == inputFilter || m.inputMode == inputSearch:
		lines = append(lines, m.renderInput())
	case l.filter != "":
		lines = append(lines, styles.PromptStyle.Render("/ ")+styles.SubtitleStyle.Render(l.filter)+
			styles.DimStyle.Render(fmt.Sprintf("  %d/%d", l.Len(), len(l.state.Data))))
	default:
		lines = append(lines, "")
	}

	lines = append(lines, l.View(width, height-len(lines), m.spinner.View()))
	return strings.Join(lines, "\n")
}

func (m Model) renderDetails(width int) string {
	switch m.details.Status {
	case state.StatusLoading:
		return m.spinner.View() + " " + styles.DimStyle.Render("Loading details...")
	case state.StatusError:
		return styles.ErrorStyle.Render("Error: "+m.details.Message) + "\n" +
			styles.DimStyle.Render("press r to retry, esc to go back")
	}

	movie := m.details.Data
	title := styles.TitleStyle.Render(movie.Title)
	if year := movie.ReleaseYear(); year != "" {
		title += styles.DimStyle.Render(" (" + year + ")")
	}

	fav := styles.DimStyle.Render(styles.NotFavoriteChar + " not a favorite")
	if m.isFavorite.IsSuccess() && m.isFavorite.Data {
		fav = styles.AccentStyle.Render(styles.FavoriteChar + " favorite")
	}

	lines := []string{title, fav, ""}
	lines = append(lines, detailRow("Released", movie.ReleaseDate))
	lines = append(lines, detailRow("Score", movie.FormattedScore()))
	lines = append(lines, detailRow("Genres", strings.Join(movie.GenreNames(), ", ")))
	if movie.HasPoster() {
		lines = append(lines, detailRow("Poster", movie.PosterPath))
	} else {
		lines = append(lines, detailRow("Poster", styles.DimStyle.Render("no poster")))
	}

	if movie.Overview != "" {
		wrap := width - 6 // DetailsStyle border and padding
		if wrap < 20 {
			wrap = 20
		}
		lines = append(lines, "", styles.SubtitleStyle.Width(wrap).Render(movie.Overview))
	}

	return styles.DetailsStyle.Render(strings.Join(lines, "\n"))
}

func detailRow(label, value string) string {
	if value == "" {
		value = "-"
	}
	return styles.DimStyle.Render(fmt.Sprintf("%-10s", label)) + styles.SubtitleStyle.Render(value)
}

func (m Model) renderProfile() string {
	spin := m.spinner.View()
	lines := []string{
		detailRow("Name", renderField(m.prefs[domain.PrefUserName], spin, orDefault("(not set)"))),
		detailRow("Picture", renderField(m.prefs[domain.PrefProfilePicture], spin, orDefault("(none)"))),
		detailRow("Background", renderField(m.prefs[domain.PrefProfileBackground], spin, orDefault("(none)"))),
		detailRow("Favorites", renderField(m.count, spin, strconv.Itoa)),
	}

	switch m.inputMode {
	case inputName, inputPicture, inputBackground:
		lines = append(lines, "", m.renderInput())
	}
	return strings.Join(lines, "\n")
}

// renderField renders one tri-state value on a single line
func renderField[T any](s state.UIState[T], spin string, format func(T) string) string {
	switch s.Status {
	case state.StatusLoading:
		return spin
	case state.StatusError:
		return styles.ErrorStyle.Render("error: " + s.Message)
	default:
		return format(s.Data)
	}
}

func orDefault(def string) func(string) string {
	return func(v string) string {
		if v == "" {
			return def
		}
		return v
	}
}

func (m Model) renderInput() string {
	return styles.PromptStyle.Render(m.input.Placeholder+": ") + m.input.View()
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusMsg)
		}
		return styles.SuccessStyle.Render(m.StatusMsg)
	}
	return m.help.ShortHelpView(m.footerKeys())
}

// footerKeys returns the bindings that apply to the current page
func (m Model) footerKeys() []key.Binding {
	if m.inputMode != inputNone {
		return []key.Binding{Keys.Submit, Keys.Escape}
	}
	switch m.Page {
	case PageDiscover, PageFavorites:
		return []key.Binding{Keys.Up, Keys.Down, Keys.Left, Keys.Right, Keys.Enter, Keys.Filter, Keys.Search, Keys.Retry, Keys.NextTab, Keys.Quit}
	case PageDetails:
		return []key.Binding{Keys.Favorite, Keys.Back, Keys.Retry, Keys.Quit}
	case PageProfile:
		return []key.Binding{Keys.EditName, Keys.Picture, Keys.Backdrop, Keys.Retry, Keys.NextTab, Keys.Quit}
	}
	return nil
}
