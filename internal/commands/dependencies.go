package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/luzyverdad/luz/internal/api"
	"github.com/luzyverdad/luz/internal/tui"
)

// TUIRunner starts the full-screen interface.
type TUIRunner interface {
	Run(opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client is the Gemini client. When nil it is built from the config.
	Client api.GeminiClientInterface

	// HTTP is the transport for bible-api.com. When nil the Gemini
	// client's TLS client is shared.
	HTTP api.HTTPDoer

	// TUI is the terminal user interface.
	TUI TUIRunner

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clipboard receives text copied by one-shot commands.
	Clipboard func(string) error
}

// DefaultTUI is the production implementation of TUIRunner.
type DefaultTUI struct{}

func (DefaultTUI) Run(opts tui.Options) error {
	return tui.Run(opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       DefaultTUI{},
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Clipboard: clipboard.WriteAll,
	}
}
