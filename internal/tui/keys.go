package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the navigation bindings owned by the root model
type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	ChatTab   key.Binding
	VerseTab  key.Binding
	PrayerTab key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "siguiente")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "anterior")),
		ChatTab:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "chat")),
		VerseTab:  key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "versículo")),
		PrayerTab: key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "oración")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "salir")),
	}
}

// paneKeys are the bindings shared by the panes
type paneKeys struct {
	Send             key.Binding
	NewLine          key.Binding
	Cancel           key.Binding
	Scroll           key.Binding
	Copy             key.Binding
	CycleTranslation key.Binding
	CycleStyle       key.Binding
	Up               key.Binding
	Down             key.Binding
}

var keys = paneKeys{
	Send:             key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "enviar")),
	NewLine:          key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("alt+enter", "nueva línea")),
	Cancel:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancelar")),
	Scroll:           key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "desplazar")),
	Copy:             key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copiar")),
	CycleTranslation: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "traducción")),
	CycleStyle:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "estilo")),
	Up:               key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "elegir")),
	Down:             key.NewBinding(key.WithKeys("down", "j")),
}

// helpKeys joins the pane bindings with the navigation ones for the help bar
type helpKeys struct {
	pane []key.Binding
	nav  keyMap
}

func (h helpKeys) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(h.pane)+3)
	out = append(out, h.pane...)
	return append(out, h.nav.NextTab, h.nav.ChatTab, h.nav.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		h.pane,
		{h.nav.NextTab, h.nav.PrevTab, h.nav.ChatTab, h.nav.VerseTab, h.nav.PrayerTab, h.nav.Quit},
	}
}
