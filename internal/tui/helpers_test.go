package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luzyverdad/luz/internal/nav"
)

// runCmd executes cmd and every command of a batch, returning their messages
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// findMsg returns the first message of type T
func findMsg[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func keyPress(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func typeRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeAndSend focuses p, types text and presses enter
func typeAndSend(p Pane, text string) (Pane, tea.Cmd) {
	p, _ = p.Focus()
	p, _ = p.Update(typeRunes(text))
	return p.Update(keyPress(tea.KeyEnter))
}

// stubClipboard replaces the clipboard writer for the test
func stubClipboard(t *testing.T) *string {
	t.Helper()
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { copyToClipboard = orig })
	return &copied
}

// fakePane records what the root model routes to it
type fakePane struct {
	name     string
	received []tea.Msg
	focused  bool
	busy     bool
	width    int
	height   int
}

func (f fakePane) Init() tea.Cmd { return nil }

func (f fakePane) Update(msg tea.Msg) (Pane, tea.Cmd) {
	f.received = append(f.received, msg)
	return f, nil
}

func (f fakePane) View() string { return "pane:" + f.name }

func (f fakePane) SetSize(w, h int) Pane {
	f.width, f.height = w, h
	return f
}

func (f fakePane) Focus() (Pane, tea.Cmd) {
	f.focused = true
	return f, nil
}

func (f fakePane) Blur() Pane {
	f.focused = false
	return f
}

func (f fakePane) Busy() bool { return f.busy }

func (f fakePane) ShortHelp() []key.Binding { return nil }

func newFakeApp(initial nav.View) App {
	return NewApp(
		fakePane{name: "chat"},
		fakePane{name: "verse"},
		fakePane{name: "prayer"},
		initial,
		"gemini-test",
	)
}

func fakeAt(a App, v nav.View) fakePane {
	return a.Pane(v).(fakePane)
}
