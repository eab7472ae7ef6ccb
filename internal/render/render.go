package render

import "strings"

// Markdown renders content for the terminal. Safe for concurrent use.
func Markdown(content string, opts Options) (string, error) {
	tr, err := shared.borrow(opts)
	if err != nil {
		return "", err
	}
	defer shared.release(opts, tr)

	return tr.Render(content)
}

// MarkdownOrPlain renders content and falls back to the raw text if glamour
// fails. Trailing blank lines added by glamour are removed.
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
