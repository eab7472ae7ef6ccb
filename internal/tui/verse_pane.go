package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luzyverdad/luz/internal/bible"
	"github.com/luzyverdad/luz/internal/models"
	"github.com/luzyverdad/luz/internal/nav"
)

// VerseFinder is implemented by bible.Finder
type VerseFinder interface {
	Find(ctx context.Context, query, translation string) (*bible.Result, error)
}

type verseResultMsg struct {
	seq    int
	result *bible.Result
	err    error
}

func (verseResultMsg) target() nav.View { return nav.VerseFinder }

// VersePane looks up a passage by reference or by topic
type VersePane struct {
	finder       VerseFinder
	translations []models.Translation
	current      int

	input   textinput.Model
	spinner spinner.Model

	result  *bible.Result
	loading bool
	seq     int
	cancel  context.CancelFunc
	err     error
	notice  string

	width  int
	height int
}

// NewVersePane creates the verse pane. translation selects the initial
// entry of translations; an unknown id selects the first one.
func NewVersePane(finder VerseFinder, translations []models.Translation, translation string) VersePane {
	ti := textinput.New()
	ti.Placeholder = "Juan 3:16, Salmos 23 o un tema como \"esperanza\""
	ti.Prompt = "❯ "
	ti.CharLimit = 200
	ti.PromptStyle = inputLabelStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)

	p := VersePane{
		finder:       finder,
		translations: translations,
		input:        ti,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(loadingStyle)),
	}
	for i, t := range translations {
		if strings.EqualFold(t.ID, translation) {
			p.current = i
			break
		}
	}
	return p
}

func (p VersePane) Init() tea.Cmd {
	return nil
}

func (p VersePane) Busy() bool {
	return p.loading
}

// Translation returns the selected translation
func (p VersePane) Translation() models.Translation {
	if len(p.translations) == 0 {
		return models.Translation{}
	}
	return p.translations[p.current]
}

// Result returns the last passage found
func (p VersePane) Result() *bible.Result {
	return p.result
}

func (p VersePane) ShortHelp() []key.Binding {
	if p.loading {
		return []key.Binding{keys.Cancel}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "buscar")),
		keys.CycleTranslation,
		keys.Copy,
	}
}

func (p VersePane) Focus() (Pane, tea.Cmd) {
	cmd := p.input.Focus()
	return p, cmd
}

func (p VersePane) Blur() Pane {
	p.input.Blur()
	return p
}

func (p VersePane) SetSize(width, height int) Pane {
	p.width = width
	p.height = height
	p.input.Width = max(20, width-10)
	return p
}

func (p VersePane) Update(msg tea.Msg) (Pane, tea.Cmd) {
	switch msg := msg.(type) {
	case verseResultMsg:
		if msg.seq != p.seq {
			return p, nil
		}
		p.loading = false
		p.cancel = nil
		if msg.err != nil {
			p.err = msg.err
			return p, nil
		}
		p.result = msg.result
		return p, nil

	case spinner.TickMsg:
		if !p.loading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p VersePane) handleKey(msg tea.KeyMsg) (Pane, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		if p.loading {
			p.cancel()
			p.cancel = nil
			p.loading = false
			p.seq++
			p.notice = "Búsqueda cancelada"
		}
		return p, nil

	case key.Matches(msg, keys.CycleTranslation):
		if len(p.translations) > 0 {
			p.current = (p.current + 1) % len(p.translations)
			p.notice = "Traducción: " + p.translations[p.current].Name
		}
		return p, nil

	case key.Matches(msg, keys.Copy):
		p.copyVerse()
		return p, nil

	case key.Matches(msg, keys.Send):
		if p.loading {
			return p, nil
		}
		query := strings.TrimSpace(p.input.Value())
		if query == "" {
			return p, nil
		}
		return p.search(query)
	}

	if p.loading {
		return p, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p VersePane) search(query string) (Pane, tea.Cmd) {
	p.err = nil
	p.notice = ""

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.loading = true
	p.seq++

	finder, seq, translation := p.finder, p.seq, p.Translation().ID
	request := func() tea.Msg {
		res, err := finder.Find(ctx, query, translation)
		return verseResultMsg{seq: seq, result: res, err: err}
	}
	return p, tea.Batch(request, p.spinner.Tick)
}

func (p *VersePane) copyVerse() {
	if p.result == nil || p.result.Verse == nil {
		p.notice = "Todavía no hay un versículo para copiar"
		return
	}
	v := p.result.Verse
	if err := copyToClipboard(fmt.Sprintf("%s — %s", strings.TrimSpace(v.Text), v.Reference)); err != nil {
		p.err = fmt.Errorf("no se pudo copiar: %w", err)
		return
	}
	p.notice = "Versículo copiado al portapapeles"
}

func (p VersePane) View() string {
	contentWidth := max(20, p.width-4)

	translation := p.Translation()
	label := inputLabelStyle.Render("Buscar Versículo")
	if translation.Name != "" {
		label += hintStyle.Render("  ·  " + translation.Name)
	}
	inputPanel := inputPanelStyle.Width(contentWidth).Render(p.input.View())

	var body string
	switch {
	case p.loading:
		body = p.spinner.View() + loadingStyle.Render(" Buscando en las Escrituras…") +
			hintStyle.Render("  (esc para cancelar)")
	case p.result != nil && p.result.Verse != nil:
		body = p.renderVerse(contentWidth - 4)
	default:
		body = welcomeStyle.Width(contentWidth - 4).Render(
			"Escribe una cita como \"1 Corintios 13:4-7\" o un tema, y encontraré el pasaje.")
	}

	resultHeight := max(3, p.height-8)
	resultPanel := panelStyle.Width(contentWidth).Height(resultHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		label,
		inputPanel,
		resultPanel,
		p.renderStatus(),
	)
}

func (p VersePane) renderVerse(width int) string {
	v := p.result.Verse

	header := verseRefStyle.Render(v.Reference)
	if v.TranslationName != "" {
		header += subtitleStyle.Render("  " + v.TranslationName)
	}
	if p.result.FromTopic {
		header += "  " + badgeStyle.Render("sugerido por tema")
	}

	text := verseTextStyle.Width(max(10, width-2)).Render(strings.TrimSpace(v.Text))

	parts := []string{header, "", text}
	if p.result.FromTopic && p.result.Query != "" {
		parts = append(parts, "", hintStyle.Render(fmt.Sprintf("Tema: %s", p.result.Query)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (p VersePane) renderStatus() string {
	switch {
	case p.err != nil:
		return FormatError(p.err)
	case p.notice != "":
		return noticeStyle.Render(p.notice)
	}
	return ""
}
