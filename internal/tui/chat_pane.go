package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luzyverdad/luz/internal/config"
	apierrors "github.com/luzyverdad/luz/internal/errors"
	"github.com/luzyverdad/luz/internal/history"
	"github.com/luzyverdad/luz/internal/models"
	"github.com/luzyverdad/luz/internal/nav"
	"github.com/luzyverdad/luz/internal/render"
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// ChatSender is the part of api.ChatSession the chat pane drives
type ChatSender interface {
	SendMessage(ctx context.Context, prompt string) (*models.ModelOutput, error)
	SetHistory(msgs []models.Message)
	Reset()
	SetSystemInstruction(instruction string)
	SetTemperature(t float64)
}

// ConversationStore is the part of history.Store the chat pane persists to
type ConversationStore interface {
	ListConversations() ([]*history.Conversation, error)
	CreateConversation(model, persona string) (*history.Conversation, error)
	AddMessage(id string, msg models.Message) error
}

// PersonaResolver looks a persona up by name; "" means the default
type PersonaResolver func(name string) (*config.Persona, error)

// ChatConfig wires the chat pane
type ChatConfig struct {
	Session   ChatSender
	Store     ConversationStore // nil disables history
	Personas  PersonaResolver   // nil disables /persona
	Persona   string
	ModelName string
	Resume    *history.Conversation
	Markdown  render.Options
}

type chatResponseMsg struct {
	seq    int
	prompt models.Message
	output *models.ModelOutput
	err    error
}

func (chatResponseMsg) target() nav.View { return nav.Chat }

// ChatPane is the conversation view
type ChatPane struct {
	session   ChatSender
	store     ConversationStore
	personas  PersonaResolver
	persona   string
	modelName string
	mdOpts    render.Options

	conv     *history.Conversation
	messages []models.Message

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	picker   *historyPicker

	loading bool
	seq     int
	cancel  context.CancelFunc
	err     error
	notice  string

	width  int
	height int
}

// NewChatPane creates the chat pane, resuming cfg.Resume when set
func NewChatPane(cfg ChatConfig) ChatPane {
	ta := textarea.New()
	ta.Placeholder = "Escribe tu mensaje… (/ayuda para ver los comandos)"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = keys.NewLine
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextMute)
	ta.BlurredStyle = ta.FocusedStyle

	sp := spinner.New(spinner.WithSpinner(spinner.Points), spinner.WithStyle(loadingStyle))

	p := ChatPane{
		session:   cfg.Session,
		store:     cfg.Store,
		personas:  cfg.Personas,
		persona:   cfg.Persona,
		modelName: cfg.ModelName,
		mdOpts:    cfg.Markdown,
		textarea:  ta,
		viewport:  viewport.New(80, 10),
		spinner:   sp,
	}
	if p.mdOpts.Width == 0 {
		p.mdOpts = render.DefaultOptions()
	}
	if cfg.Resume != nil {
		p.resume(cfg.Resume)
	}
	return p
}

func (p ChatPane) Init() tea.Cmd {
	return textarea.Blink
}

func (p ChatPane) Busy() bool {
	return p.loading
}

// Messages returns the transcript on screen
func (p ChatPane) Messages() []models.Message {
	return p.messages
}

// Conversation returns the history entry being written, if any
func (p ChatPane) Conversation() *history.Conversation {
	return p.conv
}

func (p ChatPane) ShortHelp() []key.Binding {
	if p.loading {
		return []key.Binding{keys.Cancel, keys.Scroll}
	}
	return []key.Binding{keys.Send, keys.NewLine, keys.Scroll, keys.Copy}
}

func (p ChatPane) Focus() (Pane, tea.Cmd) {
	cmd := p.textarea.Focus()
	return p, cmd
}

func (p ChatPane) Blur() Pane {
	p.textarea.Blur()
	return p
}

func (p ChatPane) SetSize(width, height int) Pane {
	p.width = width
	p.height = height

	contentWidth := max(20, width-4)
	p.textarea.SetWidth(contentWidth - 2)

	// input panel (5) + label (1) + status (2) + transcript border (2)
	p.viewport.Width = contentWidth
	p.viewport.Height = max(3, height-10)
	p.refreshViewport()
	return p
}

func (p ChatPane) Update(msg tea.Msg) (Pane, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if p.picker != nil {
			loaded := p.picker.loaded(msg)
			p.picker = &loaded
		}
		return p, nil

	case chatResponseMsg:
		if msg.seq != p.seq {
			return p, nil
		}
		p.loading = false
		p.cancel = nil
		if msg.err != nil {
			p.err = msg.err
			return p, nil
		}
		reply := models.NewMessage(models.SenderAI, msg.output.Text())
		p.messages = append(p.messages, reply)
		p.persist(msg.prompt)
		p.persist(reply)
		p.refreshViewport()
		p.viewport.GotoBottom()
		return p, nil

	case spinner.TickMsg:
		if !p.loading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		if p.picker != nil {
			return p.updatePicker(msg)
		}
		return p.handleKey(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(msg)
	cmds = append(cmds, cmd)
	p.viewport, cmd = p.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return p, tea.Batch(cmds...)
}

func (p ChatPane) handleKey(msg tea.KeyMsg) (Pane, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		if p.loading {
			p.cancelRequest()
			p.notice = "Solicitud cancelada"
		}
		return p, nil

	case key.Matches(msg, keys.Scroll):
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return p, cmd

	case key.Matches(msg, keys.Copy):
		p.copyLastAnswer()
		return p, nil

	case key.Matches(msg, keys.Send):
		if p.loading {
			return p, nil
		}
		input := strings.TrimSpace(p.textarea.Value())
		if input == "" {
			return p, nil
		}
		p.textarea.Reset()
		if strings.HasPrefix(input, "/") {
			return p.runCommand(input)
		}
		return p.send(input)
	}

	if p.loading {
		return p, nil
	}
	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(msg)
	return p, cmd
}

// send appends the user message and starts the request. Both turns are
// saved once the answer arrives.
func (p ChatPane) send(input string) (Pane, tea.Cmd) {
	p.err = nil
	p.notice = ""

	msg := models.NewMessage(models.SenderUser, input)
	p.messages = append(p.messages, msg)
	p.refreshViewport()
	p.viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.loading = true
	p.seq++

	session, seq := p.session, p.seq
	request := func() tea.Msg {
		out, err := session.SendMessage(ctx, input)
		return chatResponseMsg{seq: seq, prompt: msg, output: out, err: err}
	}
	return p, tea.Batch(request, p.spinner.Tick)
}

func (p *ChatPane) cancelRequest() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.loading = false
	p.seq++
}

// runCommand handles the slash commands
func (p ChatPane) runCommand(input string) (Pane, tea.Cmd) {
	p.err = nil
	p.notice = ""

	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/salir", "/exit", "/quit":
		return p, tea.Quit

	case "/nuevo", "/new":
		p.startOver()
		p.notice = "Nueva conversación"

	case "/historial", "/history":
		if p.store == nil {
			p.notice = "El historial está desactivado (save_history)"
			return p, nil
		}
		picker := newHistoryPicker()
		p.picker = &picker
		return p, loadConversations(p.store)

	case "/persona":
		return p.switchPersona(arg)

	case "/copiar", "/copy":
		p.copyLastAnswer()

	case "/ayuda", "/help":
		p.notice = "/nuevo · /historial · /persona [nombre] · /copiar · /salir"

	default:
		p.err = apierrors.NewValidationError("command", fmt.Sprintf("comando desconocido: %s (usa /ayuda)", name))
	}
	return p, nil
}

func (p ChatPane) switchPersona(name string) (Pane, tea.Cmd) {
	if name == "" {
		p.notice = fmt.Sprintf("Persona actual: %s", p.persona)
		return p, nil
	}
	if p.personas == nil {
		p.notice = "No hay personas disponibles"
		return p, nil
	}
	persona, err := p.personas(name)
	if err != nil {
		p.err = err
		return p, nil
	}

	p.startOver()
	p.session.SetSystemInstruction(persona.SystemPrompt)
	p.session.SetTemperature(persona.Temperature)
	p.persona = persona.Name
	p.notice = fmt.Sprintf("Ahora hablas con: %s", persona.Name)
	return p, nil
}

func (p ChatPane) updatePicker(msg tea.KeyMsg) (Pane, tea.Cmd) {
	picker, outcome := p.picker.update(msg)
	p.picker = &picker

	switch outcome {
	case pickerCancelled:
		p.picker = nil
	case pickerChosen:
		chosen := picker.selected()
		p.picker = nil
		if chosen == nil {
			p.startOver()
			p.notice = "Nueva conversación"
		} else {
			p.resume(chosen)
			p.notice = fmt.Sprintf("Conversación reanudada: %s", chosen.Title)
		}
	}
	return p, nil
}

func (p *ChatPane) startOver() {
	p.cancelRequest()
	p.session.Reset()
	p.messages = nil
	p.conv = nil
	p.refreshViewport()
}

func (p *ChatPane) resume(conv *history.Conversation) {
	p.cancelRequest()
	p.conv = conv
	p.messages = append([]models.Message(nil), conv.Messages...)
	p.session.SetHistory(answeredTurns(conv.Messages))
	if conv.Persona != "" && p.personas != nil {
		if persona, err := p.personas(conv.Persona); err == nil {
			p.session.SetSystemInstruction(persona.SystemPrompt)
			p.session.SetTemperature(persona.Temperature)
			p.persona = persona.Name
		}
	}
	p.refreshViewport()
	p.viewport.GotoBottom()
}

// answeredTurns drops trailing user messages that never got a reply
func answeredTurns(msgs []models.Message) []models.Message {
	end := len(msgs)
	for end > 0 && msgs[end-1].IsUser() {
		end--
	}
	return msgs[:end]
}

// persist writes msg to the history store; failures are shown, not fatal
func (p *ChatPane) persist(msg models.Message) {
	if p.store == nil {
		return
	}
	if p.conv == nil {
		conv, err := p.store.CreateConversation(p.modelName, p.persona)
		if err != nil {
			p.notice = fmt.Sprintf("No se pudo guardar el historial: %v", err)
			return
		}
		p.conv = conv
	}
	if err := p.store.AddMessage(p.conv.ID, msg); err != nil {
		p.notice = fmt.Sprintf("No se pudo guardar el historial: %v", err)
	}
}

func (p *ChatPane) copyLastAnswer() {
	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].Sender == models.SenderAI {
			if err := copyToClipboard(p.messages[i].Text); err != nil {
				p.err = fmt.Errorf("no se pudo copiar: %w", err)
				return
			}
			p.notice = "Respuesta copiada al portapapeles"
			return
		}
	}
	p.notice = "Todavía no hay respuestas para copiar"
}

func (p *ChatPane) refreshViewport() {
	if len(p.messages) == 0 {
		p.viewport.SetContent("")
		return
	}

	bubbleWidth := max(20, p.viewport.Width-6)
	opts := p.mdOpts.WithWidth(bubbleWidth - 4)

	var sb strings.Builder
	for i, msg := range p.messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		if msg.IsUser() {
			sb.WriteString(userLabelStyle.Render("● Tú"))
			sb.WriteString("\n")
			sb.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Text))
		} else {
			sb.WriteString(assistantLabelStyle.Render("✦ Luz"))
			sb.WriteString("\n")
			sb.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(render.MarkdownOrPlain(msg.Text, opts)))
		}
		sb.WriteString("\n")
	}
	p.viewport.SetContent(sb.String())
}

func (p ChatPane) View() string {
	contentWidth := max(20, p.width-4)

	if p.picker != nil {
		return p.picker.view(contentWidth, p.height)
	}

	var transcript string
	if len(p.messages) == 0 {
		transcript = p.renderWelcome()
	} else {
		transcript = p.viewport.View()
	}
	transcriptPanel := panelStyle.
		Width(contentWidth).
		Height(p.viewport.Height).
		Render(transcript)

	var input string
	if p.loading {
		input = p.spinner.View() + loadingStyle.Render(" Luz está escribiendo…") +
			hintStyle.Render("  (esc para cancelar)")
	} else {
		input = p.textarea.View()
	}
	label := inputLabelStyle.Render("Tú") + hintStyle.Render("  ·  persona: "+p.persona)
	inputPanel := inputPanelStyle.Width(contentWidth).Render(input)

	return lipgloss.JoinVertical(lipgloss.Left,
		transcriptPanel,
		label,
		inputPanel,
		p.renderStatus(),
	)
}

func (p ChatPane) renderStatus() string {
	switch {
	case p.err != nil:
		return FormatError(p.err)
	case p.notice != "":
		return noticeStyle.Render(p.notice)
	}
	return ""
}

func (p ChatPane) renderWelcome() string {
	width := max(20, p.viewport.Width-2)

	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Chat Espiritual"),
		"",
		welcomeStyle.Width(width).Render("Comparte lo que hay en tu corazón. Responderé con amor y con la Palabra."),
		welcomeStyle.Width(width).Render("Escribe /ayuda para ver los comandos."),
	)

	top := max(0, (p.viewport.Height-lipgloss.Height(content))/2)
	return strings.Repeat("\n", top) + content
}
