package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luzyverdad/luz/internal/nav"
)

// AppTitle is shown in the header
const AppTitle = "✦ Luz y Verdad"

// Rows taken by the header, the tab bar and the help line
const chromeHeight = 5

// App is the root bubbletea model: header, tab bar, active pane and help.
type App struct {
	ctrl      *nav.Controller[Pane]
	keys      keyMap
	help      help.Model
	modelName string

	width  int
	height int
	ready  bool
}

// NewApp builds the root model with initial as the active view.
func NewApp(chat, verse, prayer Pane, initial nav.View, modelName string) App {
	h := help.New()
	h.Styles = helpStyles()
	h.ShortSeparator = " · "

	ctrl := nav.NewController(chat, verse, prayer)
	ctrl.SetActiveView(initial)

	return App{
		ctrl:      ctrl,
		keys:      newKeyMap(),
		help:      h,
		modelName: modelName,
	}
}

// ActiveView returns the view on screen
func (a App) ActiveView() nav.View {
	return a.ctrl.ActiveView()
}

// Pane returns the collaborator bound to v
func (a App) Pane(v nav.View) Pane {
	return a.ctrl.Collaborator(v)
}

// Init starts every pane and focuses the active one
func (a App) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, 4)
	for _, v := range nav.Views() {
		cmds = append(cmds, a.ctrl.Collaborator(v).Init())
	}
	active, cmd := a.ctrl.Render().Focus()
	a.ctrl.Replace(a.ctrl.ActiveView(), active)
	return tea.Batch(append(cmds, cmd)...)
}

// Update routes messages: navigation keys are handled here, other keys go
// to the active pane, tagged results go to their pane and the rest to all.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true
		w, h := a.paneSize()
		for _, v := range nav.Views() {
			a.ctrl.Replace(v, a.ctrl.Collaborator(v).SetSize(w, h))
		}
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.NextTab):
			return a, a.navigate(func() { a.ctrl.Next() })
		case key.Matches(msg, a.keys.PrevTab):
			return a, a.navigate(func() { a.ctrl.Prev() })
		case key.Matches(msg, a.keys.ChatTab):
			return a, a.navigate(func() { a.ctrl.SetActiveView(nav.Chat) })
		case key.Matches(msg, a.keys.VerseTab):
			return a, a.navigate(func() { a.ctrl.SetActiveView(nav.VerseFinder) })
		case key.Matches(msg, a.keys.PrayerTab):
			return a, a.navigate(func() { a.ctrl.SetActiveView(nav.Prayer) })
		}
		return a, a.updatePane(a.ctrl.ActiveView(), msg)

	case tea.MouseMsg:
		return a, a.updatePane(a.ctrl.ActiveView(), msg)

	case paneMsg:
		return a, a.updatePane(msg.target(), msg)
	}

	cmds := make([]tea.Cmd, 0, 3)
	for _, v := range nav.Views() {
		cmds = append(cmds, a.updatePane(v, msg))
	}
	return a, tea.Batch(cmds...)
}

// navigate applies one navigation event and moves focus when the view changed
func (a App) navigate(event func()) tea.Cmd {
	prev := a.ctrl.ActiveView()
	event()
	next := a.ctrl.ActiveView()
	if prev == next {
		return nil
	}

	a.ctrl.Replace(prev, a.ctrl.Collaborator(prev).Blur())
	focused, cmd := a.ctrl.Collaborator(next).Focus()
	a.ctrl.Replace(next, focused)
	return cmd
}

func (a App) updatePane(v nav.View, msg tea.Msg) tea.Cmd {
	pane, cmd := a.ctrl.Collaborator(v).Update(msg)
	a.ctrl.Replace(v, pane)
	return cmd
}

func (a App) paneSize() (int, int) {
	h := a.height - chromeHeight
	if h < 5 {
		h = 5
	}
	return a.width, h
}

// View renders the whole screen
func (a App) View() string {
	if !a.ready {
		return loadingStyle.Render("  Iniciando…")
	}

	header := headerStyle.Render(
		titleStyle.Render(AppTitle) + subtitleStyle.Render("  ·  "+a.modelName),
	)

	helpLine := statusBarStyle.Render(a.help.View(helpKeys{
		pane: a.ctrl.Render().ShortHelp(),
		nav:  a.keys,
	}))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.renderTabs(),
		a.ctrl.Render().View(),
		helpLine,
	)
}

// renderTabs draws the three navigation controls, highlighting the active one
func (a App) renderTabs() string {
	active := a.ctrl.ActiveView()
	if !active.Valid() {
		active = nav.Chat
	}

	tabs := make([]string, 0, 3)
	for _, v := range nav.Views() {
		label := v.Label()
		if a.ctrl.Collaborator(v).Busy() {
			label += " •"
		}
		if v == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
	if a.width <= 0 {
		return row
	}
	return lipgloss.JoinVertical(lipgloss.Left, row, tabGapStyle.Render(strings.Repeat("─", a.width)))
}
