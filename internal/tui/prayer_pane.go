package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luzyverdad/luz/internal/nav"
	"github.com/luzyverdad/luz/internal/prayer"
	"github.com/luzyverdad/luz/internal/render"
)

// PrayerGenerator is implemented by prayer.Generator
type PrayerGenerator interface {
	Generate(ctx context.Context, req prayer.Request) (*prayer.Prayer, error)
}

type prayerResultMsg struct {
	seq    int
	prayer *prayer.Prayer
	err    error
}

func (prayerResultMsg) target() nav.View { return nav.Prayer }

// PrayerPane turns an intention into a prayer
type PrayerPane struct {
	generator PrayerGenerator
	style     prayer.Style
	mdOpts    render.Options

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	prayer  *prayer.Prayer
	loading bool
	seq     int
	cancel  context.CancelFunc
	err     error
	notice  string

	width  int
	height int
}

// NewPrayerPane creates the prayer pane with the given initial style
func NewPrayerPane(generator PrayerGenerator, style prayer.Style, mdOpts render.Options) PrayerPane {
	ta := textarea.New()
	ta.Placeholder = "¿Por qué o por quién quieres orar?"
	ta.CharLimit = prayer.MaxIntentionLength
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = keys.NewLine
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextMute)
	ta.BlurredStyle = ta.FocusedStyle

	if !style.Valid() {
		style = prayer.DefaultStyle
	}
	if mdOpts.Width == 0 {
		mdOpts = render.DefaultOptions()
	}

	return PrayerPane{
		generator: generator,
		style:     style,
		mdOpts:    mdOpts,
		input:     ta,
		viewport:  viewport.New(80, 10),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Points), spinner.WithStyle(loadingStyle)),
	}
}

func (p PrayerPane) Init() tea.Cmd {
	return nil
}

func (p PrayerPane) Busy() bool {
	return p.loading
}

// Style returns the selected prayer style
func (p PrayerPane) Style() prayer.Style {
	return p.style
}

// Prayer returns the last generated prayer
func (p PrayerPane) Prayer() *prayer.Prayer {
	return p.prayer
}

func (p PrayerPane) ShortHelp() []key.Binding {
	if p.loading {
		return []key.Binding{keys.Cancel}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "orar")),
		keys.CycleStyle,
		keys.Scroll,
		keys.Copy,
	}
}

func (p PrayerPane) Focus() (Pane, tea.Cmd) {
	cmd := p.input.Focus()
	return p, cmd
}

func (p PrayerPane) Blur() Pane {
	p.input.Blur()
	return p
}

func (p PrayerPane) SetSize(width, height int) Pane {
	p.width = width
	p.height = height

	contentWidth := max(20, width-4)
	p.input.SetWidth(contentWidth - 2)
	p.viewport.Width = contentWidth - 2
	// label (1) + input panel (5) + status (2) + result border (2)
	p.viewport.Height = max(3, height-10)
	p.refreshViewport()
	return p
}

func (p PrayerPane) Update(msg tea.Msg) (Pane, tea.Cmd) {
	switch msg := msg.(type) {
	case prayerResultMsg:
		if msg.seq != p.seq {
			return p, nil
		}
		p.loading = false
		p.cancel = nil
		if msg.err != nil {
			p.err = msg.err
			return p, nil
		}
		p.prayer = msg.prayer
		p.refreshViewport()
		p.viewport.GotoTop()
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

	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	cmds = append(cmds, cmd)
	p.viewport, cmd = p.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return p, tea.Batch(cmds...)
}

func (p PrayerPane) handleKey(msg tea.KeyMsg) (Pane, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		if p.loading {
			p.cancel()
			p.cancel = nil
			p.loading = false
			p.seq++
			p.notice = "Oración cancelada"
		}
		return p, nil

	case key.Matches(msg, keys.CycleStyle):
		p.style = p.style.Next()
		p.notice = "Estilo: " + p.style.Label()
		return p, nil

	case key.Matches(msg, keys.Scroll):
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return p, cmd

	case key.Matches(msg, keys.Copy):
		p.copyPrayer()
		return p, nil

	case key.Matches(msg, keys.Send):
		if p.loading {
			return p, nil
		}
		return p.generate(p.input.Value())
	}

	if p.loading {
		return p, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p PrayerPane) generate(intention string) (Pane, tea.Cmd) {
	p.notice = ""

	req := prayer.Request{Intention: intention, Style: p.style}
	if err := req.Validate(); err != nil {
		p.err = err
		return p, nil
	}
	p.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.loading = true
	p.seq++

	generator, seq := p.generator, p.seq
	request := func() tea.Msg {
		pr, err := generator.Generate(ctx, req)
		return prayerResultMsg{seq: seq, prayer: pr, err: err}
	}
	return p, tea.Batch(request, p.spinner.Tick)
}

func (p *PrayerPane) copyPrayer() {
	if p.prayer == nil {
		p.notice = "Todavía no hay una oración para copiar"
		return
	}
	if err := copyToClipboard(p.prayer.PlainText()); err != nil {
		p.err = fmt.Errorf("no se pudo copiar: %w", err)
		return
	}
	p.notice = "Oración copiada al portapapeles"
}

func (p *PrayerPane) refreshViewport() {
	if p.prayer == nil {
		p.viewport.SetContent("")
		return
	}
	opts := p.mdOpts.WithWidth(p.viewport.Width - 2)
	p.viewport.SetContent(render.MarkdownOrPlain(p.prayer.Text, opts))
}

func (p PrayerPane) View() string {
	contentWidth := max(20, p.width-4)

	count := utf8.RuneCountInString(p.input.Value())
	label := inputLabelStyle.Render("Generar Oración") +
		hintStyle.Render(fmt.Sprintf("  ·  estilo: %s  ·  %d/%d", p.style.Label(), count, prayer.MaxIntentionLength))
	inputPanel := inputPanelStyle.Width(contentWidth).Render(p.input.View())

	var body string
	switch {
	case p.loading:
		body = p.spinner.View() + loadingStyle.Render(" Escribiendo tu oración…") +
			hintStyle.Render("  (esc para cancelar)")
	case p.prayer != nil:
		body = p.viewport.View()
	default:
		body = welcomeStyle.Width(contentWidth - 4).Render(strings.Join([]string{
			"Escribe tu intención y pulsa enter.",
			"Con ctrl+s eliges el estilo: tradicional, contemporánea, salmo o breve.",
		}, "\n"))
	}
	resultPanel := panelStyle.Width(contentWidth).Height(p.viewport.Height).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		label,
		inputPanel,
		resultPanel,
		p.renderStatus(),
	)
}

func (p PrayerPane) renderStatus() string {
	switch {
	case p.err != nil:
		return FormatError(p.err)
	case p.notice != "":
		return noticeStyle.Render(p.notice)
	}
	return ""
}
