package render

import (
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// StyleLuz is the markdown style built into luz
const StyleLuz = "luz"

// Palette shared by the markdown style and the default TUI theme
const (
	colorSky      = "#7dd3fc"
	colorSkyDeep  = "#0ea5e9"
	colorGold     = "#facc15"
	colorGoldSoft = "#fde68a"
	colorInk      = "#0f172a"
	colorMist     = "#94a3b8"
)

// LuzStyleConfig returns the glamour style for StyleLuz: the dark style with
// sky-blue headings, gold emphasis and gold block quotes for Scripture.
func LuzStyleConfig() ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	cfg.Heading.Color = strPtr(colorSky)
	cfg.Heading.Bold = boolPtr(true)

	cfg.H1.Color = strPtr(colorInk)
	cfg.H1.BackgroundColor = strPtr(colorGold)
	cfg.H1.Bold = boolPtr(true)

	cfg.H2.Color = strPtr(colorGold)

	cfg.Strong.Color = strPtr(colorGold)
	cfg.Emph.Color = strPtr(colorGoldSoft)

	cfg.BlockQuote.Color = strPtr(colorGoldSoft)
	cfg.BlockQuote.Italic = boolPtr(true)
	cfg.BlockQuote.IndentToken = strPtr("┃ ")

	cfg.Link.Color = strPtr(colorSkyDeep)
	cfg.LinkText.Color = strPtr(colorSky)

	cfg.HorizontalRule.Color = strPtr(colorMist)
	cfg.HorizontalRule.Format = "\n──────── ✦ ────────\n"

	return cfg
}

// IsBuiltinStyle reports whether style names a style shipped with luz or glamour.
func IsBuiltinStyle(style string) bool {
	if style == StyleLuz {
		return true
	}
	_, ok := styles.DefaultStyles[style]
	return ok
}

// StyleInfo describes a markdown style for display
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the markdown styles accepted by the markdown.style setting.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleLuz, Description: "Celeste y dorado (predeterminado)"},
		{Name: styles.DarkStyle, Description: "Oscuro"},
		{Name: styles.LightStyle, Description: "Claro, para terminales de fondo blanco"},
		{Name: styles.DraculaStyle, Description: "Dracula"},
		{Name: styles.TokyoNightStyle, Description: "Tokyo Night"},
		{Name: styles.NoTTYStyle, Description: "Texto plano sin estilos"},
		{Name: styles.AsciiStyle, Description: "Solo ASCII"},
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
