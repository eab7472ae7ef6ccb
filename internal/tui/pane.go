package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luzyverdad/luz/internal/nav"
)

// Pane is one collaborator view. Panes never navigate; they only react to
// the messages the root model routes to them.
type Pane interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Pane, tea.Cmd)
	View() string

	// SetSize gives the pane the area below the tab bar
	SetSize(width, height int) Pane
	Focus() (Pane, tea.Cmd)
	Blur() Pane

	// Busy reports a request in flight, shown as a mark on the tab
	Busy() bool
	ShortHelp() []key.Binding
}

// paneMsg is implemented by results of asynchronous work. The root model
// delivers them to the pane that started the work, even when it is hidden.
type paneMsg interface {
	target() nav.View
}
