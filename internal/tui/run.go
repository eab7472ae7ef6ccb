package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luzyverdad/luz/internal/models"
	"github.com/luzyverdad/luz/internal/nav"
	"github.com/luzyverdad/luz/internal/prayer"
	"github.com/luzyverdad/luz/internal/render"
)

// Options wires the three panes and the root model
type Options struct {
	Chat ChatConfig

	Finder       VerseFinder
	Translations []models.Translation
	Translation  string

	Generator   PrayerGenerator
	PrayerStyle prayer.Style

	Markdown    render.Options
	Theme       string
	InitialView nav.View
	ModelName   string
}

// New builds the root model from opts
func New(opts Options) App {
	if opts.Theme != "" {
		ApplyTheme(opts.Theme)
	}
	if opts.Chat.Markdown.Width == 0 {
		opts.Chat.Markdown = opts.Markdown
	}
	if opts.Chat.ModelName == "" {
		opts.Chat.ModelName = opts.ModelName
	}

	chat := NewChatPane(opts.Chat)
	verse := NewVersePane(opts.Finder, opts.Translations, opts.Translation)
	pr := NewPrayerPane(opts.Generator, opts.PrayerStyle, opts.Markdown)

	return NewApp(chat, verse, pr, opts.InitialView, opts.ModelName)
}

// Run starts the full-screen interface and blocks until the user quits
func Run(opts Options) error {
	p := tea.NewProgram(
		New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
