package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luzyverdad/luz/internal/history"
	"github.com/luzyverdad/luz/internal/nav"
)

// historyLoadedMsg carries the saved conversations for the picker
type historyLoadedMsg struct {
	conversations []*history.Conversation
	err           error
}

func (historyLoadedMsg) target() nav.View { return nav.Chat }

// pickerOutcome is what a key press did to the picker
type pickerOutcome int

const (
	pickerOpen pickerOutcome = iota
	pickerChosen
	pickerCancelled
)

// historyPicker lets the user resume a saved conversation from inside the
// chat pane. Row 0 is always "new conversation".
type historyPicker struct {
	conversations []*history.Conversation
	cursor        int
	loading       bool
	err           error
}

func newHistoryPicker() historyPicker {
	return historyPicker{loading: true}
}

func loadConversations(store ConversationStore) tea.Cmd {
	return func() tea.Msg {
		convs, err := store.ListConversations()
		return historyLoadedMsg{conversations: convs, err: err}
	}
}

func (p historyPicker) loaded(msg historyLoadedMsg) historyPicker {
	p.loading = false
	p.err = msg.err
	p.conversations = msg.conversations
	p.cursor = 0
	return p
}

func (p historyPicker) update(msg tea.KeyMsg) (historyPicker, pickerOutcome) {
	if msg.String() == "esc" {
		return p, pickerCancelled
	}
	if p.loading {
		return p, pickerOpen
	}

	rows := len(p.conversations) + 1
	switch msg.String() {
	case "up", "k":
		p.cursor = (p.cursor - 1 + rows) % rows
	case "down", "j":
		p.cursor = (p.cursor + 1) % rows
	case "home", "g":
		p.cursor = 0
	case "end", "G":
		p.cursor = rows - 1
	case "enter":
		if p.err != nil {
			return p, pickerCancelled
		}
		return p, pickerChosen
	}
	return p, pickerOpen
}

// selected returns the chosen conversation, nil for a new one
func (p historyPicker) selected() *history.Conversation {
	if p.cursor == 0 || p.cursor > len(p.conversations) {
		return nil
	}
	return p.conversations[p.cursor-1]
}

func (p historyPicker) view(width, height int) string {
	var sb strings.Builder
	sb.WriteString(inputLabelStyle.Render("Conversaciones guardadas"))
	sb.WriteString("\n\n")

	switch {
	case p.loading:
		sb.WriteString(loadingStyle.Render("  Cargando…"))
	case p.err != nil:
		sb.WriteString(FormatError(p.err))
	default:
		sb.WriteString(p.renderRow(0, "+ Nueva conversación", ""))
		sb.WriteString("\n")
		if len(p.conversations) == 0 {
			sb.WriteString(hintStyle.Render("  No hay conversaciones guardadas"))
			sb.WriteString("\n")
		}

		maxItems := max(3, height-8)
		offset := 0
		if p.cursor > maxItems {
			offset = p.cursor - maxItems
		}
		end := min(offset+maxItems, len(p.conversations))
		if offset > 0 {
			sb.WriteString(hintStyle.Render("  …"))
			sb.WriteString("\n")
		}
		for i := offset; i < end; i++ {
			conv := p.conversations[i]
			meta := fmt.Sprintf(" · %d mensajes · %s", len(conv.Messages), history.FormatRelativeTime(conv.UpdatedAt))
			sb.WriteString(p.renderRow(i+1, conv.Title, meta))
			sb.WriteString("\n")
		}
		if end < len(p.conversations) {
			sb.WriteString(hintStyle.Render("  …"))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("↑/↓ elegir · enter abrir · esc volver"))

	return panelStyle.
		BorderForeground(colorPrimary).
		Width(max(40, width-2)).
		Render(sb.String())
}

func (p historyPicker) renderRow(index int, title, meta string) string {
	cursor := "  "
	style := listItemStyle
	if index == p.cursor {
		cursor = listCursorStyle.Render("▸ ")
		style = listSelectedStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cursor, style.Render(title), hintStyle.Render(meta))
}
