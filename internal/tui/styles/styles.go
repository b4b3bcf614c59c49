package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Gold       = lipgloss.Color("#F5C518")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Gold)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Tab bar styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Gold).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)

	SubTabStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Padding(0, 1)

	ActiveSubTabStyle = lipgloss.NewStyle().
				Foreground(Gold).
				Underline(true).
				Padding(0, 1)
)

// Panel styles
var (
	BrowserStyle = lipgloss.NewStyle().
			Padding(1, 2)

	DetailsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(1, 2)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Gold).
				Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
					Foreground(Gold).
					Background(SlateLight).
					Bold(true)
)

// Input styles
var (
	PromptStyle = lipgloss.NewStyle().
			Foreground(Gold).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Gold)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Gold)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

const (
	FavoriteChar    = "★"
	NotFavoriteChar = "☆"
)

// Helper functions

// Truncate shortens s to width cells, ending with an ellipsis when cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:width])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// HighlightMatches renders text with the bytes at matchedIndexes emphasized
func HighlightMatches(text string, matchedIndexes []int, selected bool) string {
	normal, match := NormalItemStyle, MatchHighlightStyle
	if selected {
		normal, match = SelectedItemStyle, MatchHighlightSelectedStyle
	}
	if len(matchedIndexes) == 0 {
		return normal.Render(text)
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder
	for i, r := range text {
		if matchSet[i] {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(normal.Render(string(r)))
		}
	}
	return b.String()
}
