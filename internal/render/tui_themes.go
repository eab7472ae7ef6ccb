package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultTUITheme is the theme used when tui_theme is empty or unknown
const DefaultTUITheme = "luz"

// TUITheme defines the colour scheme of the terminal interface
type TUITheme struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	Primary   lipgloss.Color // headings, active tab
	Secondary lipgloss.Color // user messages
	Accent    lipgloss.Color // Scripture, highlights
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// LuzTheme pairs sky blue with gold on a dark background
	LuzTheme = TUITheme{
		Name:        "luz",
		Description: "Celeste y dorado sobre fondo oscuro",

		Surface: lipgloss.Color("#1e293b"),
		Border:  lipgloss.Color("#334155"),

		Primary:   lipgloss.Color(colorSky),
		Secondary: lipgloss.Color("#a5b4fc"),
		Accent:    lipgloss.Color(colorGold),
		Success:   lipgloss.Color("#86efac"),
		Warning:   lipgloss.Color("#fdba74"),
		Error:     lipgloss.Color("#fca5a5"),

		Text:     lipgloss.Color("#e2e8f0"),
		TextDim:  lipgloss.Color(colorMist),
		TextMute: lipgloss.Color("#64748b"),
	}

	// NocheTheme is a muted night palette
	NocheTheme = TUITheme{
		Name:        "noche",
		Description: "Azul nocturno con acentos violetas",

		Surface: lipgloss.Color("#24283b"),
		Border:  lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Success:   lipgloss.Color("#9ece6a"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// AlbaTheme is meant for light terminals
	AlbaTheme = TUITheme{
		Name:        "alba",
		Description: "Tonos cálidos para terminales claras",

		Surface: lipgloss.Color("#f8fafc"),
		Border:  lipgloss.Color("#cbd5e1"),

		Primary:   lipgloss.Color("#0369a1"),
		Secondary: lipgloss.Color("#4338ca"),
		Accent:    lipgloss.Color("#b45309"),
		Success:   lipgloss.Color("#15803d"),
		Warning:   lipgloss.Color("#c2410c"),
		Error:     lipgloss.Color("#b91c1c"),

		Text:     lipgloss.Color("#1e293b"),
		TextDim:  lipgloss.Color("#475569"),
		TextMute: lipgloss.Color("#94a3b8"),
	}
)

var currentTUITheme = LuzTheme

// GetTUITheme returns the active theme.
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme activates the named theme. Unknown names leave the theme unchanged.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
	}
	return ok
}

// GetTUIThemeByName looks a theme up case-insensitively.
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes lists the built-in themes, default first.
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{LuzTheme, NocheTheme, AlbaTheme}
}

// TUIThemeNames returns the theme names.
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
