// Package render turns markdown answers into styled terminal text and holds
// the colour themes used by the TUI.
package render

// Options configures the markdown renderer.
type Options struct {
	// Width is the word-wrap column
	Width int

	// Style is StyleLuz, a glamour style name or a path to a JSON style
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleLuz,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// WithWidth returns a copy with the given wrap width.
func (o Options) WithWidth(width int) Options {
	if width < 20 {
		width = 20
	}
	o.Width = width
	return o
}

// WithStyle returns a copy with the given style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
