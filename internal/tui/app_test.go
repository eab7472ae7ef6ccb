package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luzyverdad/luz/internal/nav"
)

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	app, ok := m.(App)
	require.True(t, ok, "Update must return App")
	return app, cmd
}

func TestApp_InitialView(t *testing.T) {
	assert.Equal(t, nav.Chat, newFakeApp(nav.Chat).ActiveView())
	assert.Equal(t, nav.Prayer, newFakeApp(nav.Prayer).ActiveView())
}

func TestApp_InitFocusesActivePane(t *testing.T) {
	a := newFakeApp(nav.VerseFinder)
	a.Init()

	assert.True(t, fakeAt(a, nav.VerseFinder).focused)
	assert.False(t, fakeAt(a, nav.Chat).focused)
}

func TestApp_Navigation(t *testing.T) {
	tests := []struct {
		name  string
		start nav.View
		key   tea.KeyType
		want  nav.View
	}{
		{"tab from chat", nav.Chat, tea.KeyTab, nav.VerseFinder},
		{"tab wraps", nav.Prayer, tea.KeyTab, nav.Chat},
		{"shift+tab wraps", nav.Chat, tea.KeyShiftTab, nav.Prayer},
		{"shift+tab", nav.Prayer, tea.KeyShiftTab, nav.VerseFinder},
		{"f1", nav.Prayer, tea.KeyF1, nav.Chat},
		{"f2", nav.Chat, tea.KeyF2, nav.VerseFinder},
		{"f3", nav.Chat, tea.KeyF3, nav.Prayer},
		{"f1 on chat stays", nav.Chat, tea.KeyF1, nav.Chat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newFakeApp(tt.start)
			a, _ = update(t, a, keyPress(tt.key))

			assert.Equal(t, tt.want, a.ActiveView())
			// navigation keys never reach a pane
			for _, v := range nav.Views() {
				assert.Empty(t, fakeAt(a, v).received)
			}
		})
	}
}

func TestApp_NavigationMovesFocus(t *testing.T) {
	a := newFakeApp(nav.Chat)
	a.Init()

	a, _ = update(t, a, keyPress(tea.KeyTab))

	assert.False(t, fakeAt(a, nav.Chat).focused)
	assert.True(t, fakeAt(a, nav.VerseFinder).focused)
}

func TestApp_ChatVersePrayerChatScenario(t *testing.T) {
	a := newFakeApp(nav.Chat)
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})

	a, _ = update(t, a, keyPress(tea.KeyF2))
	assert.Contains(t, a.View(), "pane:verse")
	a, _ = update(t, a, keyPress(tea.KeyF3))
	assert.Contains(t, a.View(), "pane:prayer")
	a, _ = update(t, a, keyPress(tea.KeyF1))
	assert.Contains(t, a.View(), "pane:chat")
	assert.Equal(t, nav.Chat, a.ActiveView())
}

func TestApp_QuitKey(t *testing.T) {
	a := newFakeApp(nav.Chat)
	_, cmd := update(t, a, keyPress(tea.KeyCtrlC))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_KeysGoToActivePaneOnly(t *testing.T) {
	a := newFakeApp(nav.Prayer)
	a, _ = update(t, a, typeRunes("x"))

	assert.Len(t, fakeAt(a, nav.Prayer).received, 1)
	assert.Empty(t, fakeAt(a, nav.Chat).received)
	assert.Empty(t, fakeAt(a, nav.VerseFinder).received)
}

func TestApp_TaggedResultReachesHiddenPane(t *testing.T) {
	a := newFakeApp(nav.Chat)
	a, _ = update(t, a, verseResultMsg{seq: 1})

	verse := fakeAt(a, nav.VerseFinder)
	require.Len(t, verse.received, 1)
	assert.IsType(t, verseResultMsg{}, verse.received[0])
	assert.Empty(t, fakeAt(a, nav.Chat).received)
	assert.Equal(t, nav.Chat, a.ActiveView())
}

func TestApp_WindowSizeReachesAllPanes(t *testing.T) {
	a := newFakeApp(nav.Chat)
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})

	for _, v := range nav.Views() {
		f := fakeAt(a, v)
		assert.Equal(t, 120, f.width, v.String())
		assert.Equal(t, 40-chromeHeight, f.height, v.String())
	}
}

func TestApp_OtherMessagesBroadcast(t *testing.T) {
	type ping struct{}
	a := newFakeApp(nav.Chat)
	a, _ = update(t, a, ping{})

	for _, v := range nav.Views() {
		assert.Len(t, fakeAt(a, v).received, 1, v.String())
	}
}

func TestApp_UnknownViewRendersChat(t *testing.T) {
	a := newFakeApp(nav.View(42))
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := a.View()
	assert.Contains(t, view, "pane:chat")
	assert.NotContains(t, view, "pane:verse")
	assert.NotContains(t, view, "pane:prayer")
}

func TestApp_ViewShowsTabsAndBusyMark(t *testing.T) {
	a := NewApp(
		fakePane{name: "chat"},
		fakePane{name: "verse", busy: true},
		fakePane{name: "prayer"},
		nav.Chat,
		"gemini-test",
	)
	assert.Contains(t, a.View(), "Iniciando")

	a, _ = update(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	view := a.View()

	assert.Contains(t, view, "Luz y Verdad")
	assert.Contains(t, view, "gemini-test")
	for _, v := range nav.Views() {
		assert.Contains(t, view, v.Label())
	}
	assert.Contains(t, view, "Buscar Versículo •")
}
