// Package tui is the full-screen terminal interface: a tab bar over the chat,
// verse finder and prayer panes.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/luzyverdad/luz/internal/errors"
	"github.com/luzyverdad/luz/internal/render"
)

// Colours of the active theme
var (
	colorSurface lipgloss.Color
	colorBorder  lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Styles, rebuilt by UpdateTheme
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	tabStyle       lipgloss.Style
	activeTabStyle lipgloss.Style
	tabGapStyle    lipgloss.Style

	panelStyle lipgloss.Style

	userLabelStyle       lipgloss.Style
	userBubbleStyle      lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	assistantBubbleStyle lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	verseTextStyle lipgloss.Style
	verseRefStyle  lipgloss.Style
	badgeStyle     lipgloss.Style

	listItemStyle     lipgloss.Style
	listSelectedStyle lipgloss.Style
	listCursorStyle   lipgloss.Style

	statusBarStyle lipgloss.Style
	noticeStyle    lipgloss.Style
	errorStyle     lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style
)

func init() {
	UpdateTheme()
}

// ApplyTheme activates the named theme and rebuilds the styles. Unknown names
// fall back to the default theme.
func ApplyTheme(name string) {
	if !render.SetTUITheme(name) {
		render.SetTUITheme(render.DefaultTUITheme)
	}
	UpdateTheme()
}

// UpdateTheme rebuilds every style from the active theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorSuccess = theme.Success
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	tabBorder := lipgloss.RoundedBorder()
	tabStyle = lipgloss.NewStyle().
		Border(tabBorder, true, true, false, true).
		BorderForeground(colorBorder).
		Foreground(colorTextDim).
		Padding(0, 2)

	activeTabStyle = tabStyle.
		BorderForeground(colorPrimary).
		Foreground(colorPrimary).
		Bold(true)

	tabGapStyle = lipgloss.NewStyle().
		Foreground(colorBorder)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Foreground(colorText).
		Padding(0, 1).
		MarginLeft(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	verseTextStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Italic(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(colorAccent).
		PaddingLeft(1)

	verseRefStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	badgeStyle = lipgloss.NewStyle().
		Foreground(colorSurface).
		Background(colorPrimary).
		Padding(0, 1)

	listItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	listSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	listCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Align(lipgloss.Center)
}

// helpStyles returns the help bubble styles for the active theme
func helpStyles() help.Styles {
	return help.Styles{
		Ellipsis:       lipgloss.NewStyle().Foreground(colorTextMute),
		ShortKey:       lipgloss.NewStyle().Foreground(colorTextDim).Bold(true),
		ShortDesc:      lipgloss.NewStyle().Foreground(colorTextMute),
		ShortSeparator: lipgloss.NewStyle().Foreground(colorBorder),
		FullKey:        lipgloss.NewStyle().Foreground(colorTextDim).Bold(true),
		FullDesc:       lipgloss.NewStyle().Foreground(colorTextMute),
		FullSeparator:  lipgloss.NewStyle().Foreground(colorBorder),
	}
}

// ErrorHint returns a short suggestion for err, or "" when there is none
func ErrorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case apierrors.IsAuthError(err):
		return "Configura tu clave con 'luz config set api_key <clave>' o la variable GEMINI_API_KEY"
	case apierrors.IsRateLimitError(err):
		return "Se alcanzó el límite de uso. Espera un momento o prueba otro modelo con --model"
	case apierrors.IsBlockedError(err):
		return "La respuesta fue bloqueada por los filtros de seguridad. Reformula tu mensaje"
	case apierrors.IsTimeoutError(err):
		return "La solicitud tardó demasiado. Inténtalo de nuevo o aumenta request_timeout"
	case apierrors.IsNetworkError(err):
		return "Revisa tu conexión a internet"
	case apierrors.IsNotFoundError(err):
		return "Comprueba el libro, el capítulo y los versículos"
	case apierrors.IsValidationError(err):
		return ""
	}
	return ""
}

// FormatError renders err with its HTTP details and a hint
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("HTTP %d", status)))
	}
	if hint := ErrorHint(err); hint != "" {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Foreground(colorWarning).Render("→ " + hint))
	}

	return sb.String()
}
