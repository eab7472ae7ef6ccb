package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luzyverdad/luz/internal/api"
	"github.com/luzyverdad/luz/internal/config"
	apierrors "github.com/luzyverdad/luz/internal/errors"
	"github.com/luzyverdad/luz/internal/history"
	"github.com/luzyverdad/luz/internal/models"
)

type chatFixture struct {
	client  *api.MockGeminiClient
	session *api.ChatSession
	store   *history.Store
}

func newChatFixture(t *testing.T, reply string) chatFixture {
	t.Helper()
	client := api.NewMockClient(reply)
	store, err := history.NewStore(t.TempDir())
	require.NoError(t, err)
	return chatFixture{
		client:  client,
		session: api.NewChatSession(client, "Eres un consejero", models.DefaultModel),
		store:   store,
	}
}

func (f chatFixture) pane(personas PersonaResolver) ChatPane {
	p := NewChatPane(ChatConfig{
		Session:   f.session,
		Store:     f.store,
		Personas:  personas,
		Persona:   "consejero",
		ModelName: "gemini-test",
	})
	sized := p.SetSize(100, 30)
	return sized.(ChatPane)
}

func testPersonas(name string) (*config.Persona, error) {
	if name == "pastor" {
		return &config.Persona{Name: "pastor", SystemPrompt: "Eres un pastor", Temperature: 0.4}, nil
	}
	return nil, apierrors.NewNotFoundError("persona " + name)
}

// send types text, submits it and feeds the response back
func send(t *testing.T, p Pane, text string) Pane {
	t.Helper()
	p, cmd := typeAndSend(p, text)
	require.NotNil(t, cmd)
	resp := findMsg[chatResponseMsg](t, runCmd(cmd))
	p, _ = p.Update(resp)
	return p
}

func TestChatPane_SendAndReceive(t *testing.T) {
	f := newChatFixture(t, "La paz sea contigo")
	var p Pane = f.pane(nil)

	p, cmd := typeAndSend(p, "Me siento solo")
	require.NotNil(t, cmd)
	assert.True(t, p.Busy())

	chat := p.(ChatPane)
	require.Len(t, chat.Messages(), 1)
	assert.Equal(t, models.SenderUser, chat.Messages()[0].Sender)
	assert.Equal(t, "Me siento solo", chat.Messages()[0].Text)

	resp := findMsg[chatResponseMsg](t, runCmd(cmd))
	require.NoError(t, resp.err)
	p, _ = p.Update(resp)

	chat = p.(ChatPane)
	assert.False(t, chat.Busy())
	require.Len(t, chat.Messages(), 2)
	assert.Equal(t, models.SenderAI, chat.Messages()[1].Sender)
	assert.Equal(t, "La paz sea contigo", chat.Messages()[1].Text)
	assert.Equal(t, "Me siento solo", f.client.LastPrompt)
	assert.Len(t, f.session.Messages(), 2)
}

func TestChatPane_PersistsConversation(t *testing.T) {
	f := newChatFixture(t, "Amén")
	p := send(t, f.pane(nil), "Oremos por mi familia")

	conv := p.(ChatPane).Conversation()
	require.NotNil(t, conv)

	saved, err := f.store.GetConversation(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oremos por mi familia", saved.Title)
	assert.Equal(t, "consejero", saved.Persona)
	assert.Equal(t, "gemini-test", saved.Model)
	require.Len(t, saved.Messages, 2)
	assert.True(t, saved.Messages[0].IsUser())
	assert.Equal(t, "Amén", saved.Messages[1].Text)
}

func TestChatPane_NoStoreNoPersistence(t *testing.T) {
	f := newChatFixture(t, "Hola")
	p := NewChatPane(ChatConfig{Session: f.session})
	out := send(t, p, "hola")

	assert.Nil(t, out.(ChatPane).Conversation())
	assert.Len(t, out.(ChatPane).Messages(), 2)
}

func TestChatPane_EmptyInputIgnored(t *testing.T) {
	f := newChatFixture(t, "x")
	p, cmd := typeAndSend(f.pane(nil), "   ")

	assert.Nil(t, cmd)
	assert.False(t, p.Busy())
	assert.Empty(t, p.(ChatPane).Messages())
}

func TestChatPane_CancelDropsLateResponse(t *testing.T) {
	f := newChatFixture(t, "respuesta tardía")
	p, cmd := typeAndSend(f.pane(nil), "hola")
	require.True(t, p.Busy())

	p, _ = p.Update(keyPress(tea.KeyEsc))
	assert.False(t, p.Busy())
	assert.Contains(t, p.View(), "Solicitud cancelada")

	p, _ = p.Update(findMsg[chatResponseMsg](t, runCmd(cmd)))
	assert.Len(t, p.(ChatPane).Messages(), 1)
}

func TestChatPane_ErrorShownWithHint(t *testing.T) {
	f := newChatFixture(t, "")
	f.client.GenerateContentVal = nil
	f.client.GenerateContentErr = apierrors.NewAuthError("API key not valid")

	p := send(t, f.pane(nil), "hola")

	view := p.View()
	assert.False(t, p.Busy())
	assert.Contains(t, view, "✗")
	assert.Contains(t, view, "api_key")
	assert.Len(t, p.(ChatPane).Messages(), 1)
	assert.Empty(t, f.session.Messages())
}

func TestChatPane_UnansweredTurnNotSaved(t *testing.T) {
	f := newChatFixture(t, "respuesta")
	p, cmd := typeAndSend(f.pane(nil), "primera")
	require.NotNil(t, cmd)

	p, _ = p.Update(keyPress(tea.KeyEsc))
	assert.Nil(t, p.(ChatPane).Conversation())
	convs, err := f.store.ListConversations()
	require.NoError(t, err)
	assert.Empty(t, convs)

	p = send(t, p, "segunda")
	conv := p.(ChatPane).Conversation()
	require.NotNil(t, conv)

	saved, err := f.store.GetConversation(conv.ID)
	require.NoError(t, err)
	require.Len(t, saved.Messages, 2)
	assert.Equal(t, "segunda", saved.Messages[0].Text)
	assert.True(t, saved.Messages[0].IsUser())
	assert.False(t, saved.Messages[1].IsUser())
}

func TestChatPane_FailedTurnNotSaved(t *testing.T) {
	f := newChatFixture(t, "")
	f.client.GenerateContentVal = nil
	f.client.GenerateContentErr = apierrors.NewAuthError("API key not valid")

	p := send(t, f.pane(nil), "hola")
	assert.Nil(t, p.(ChatPane).Conversation())
	convs, err := f.store.ListConversations()
	require.NoError(t, err)
	assert.Empty(t, convs)
}

func TestChatPane_ResumeSkipsUnansweredTail(t *testing.T) {
	f := newChatFixture(t, "x")
	conv := &history.Conversation{
		ID: "abc",
		Messages: []models.Message{
			models.NewMessage(models.SenderUser, "¿Qué es la fe?"),
			models.NewMessage(models.SenderAI, "La certeza de lo que se espera"),
			models.NewMessage(models.SenderUser, "sin respuesta"),
		},
	}

	p := NewChatPane(ChatConfig{Session: f.session, Resume: conv})

	assert.Len(t, p.Messages(), 3)
	require.Len(t, f.session.Messages(), 2)
	assert.False(t, f.session.Messages()[1].IsUser())
}

func TestChatPane_NewCommandClears(t *testing.T) {
	f := newChatFixture(t, "respuesta")
	p := send(t, f.pane(nil), "primera")
	require.NotNil(t, p.(ChatPane).Conversation())

	p, cmd := typeAndSend(p, "/nuevo")
	assert.Nil(t, cmd)

	chat := p.(ChatPane)
	assert.Empty(t, chat.Messages())
	assert.Nil(t, chat.Conversation())
	assert.Empty(t, f.session.Messages())
	assert.Contains(t, p.View(), "Chat Espiritual")
}

func TestChatPane_QuitCommand(t *testing.T) {
	f := newChatFixture(t, "x")
	_, cmd := typeAndSend(f.pane(nil), "/salir")

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestChatPane_UnknownCommand(t *testing.T) {
	f := newChatFixture(t, "x")
	p, _ := typeAndSend(f.pane(nil), "/bailar")

	chat := p.(ChatPane)
	require.Error(t, chat.err)
	assert.True(t, apierrors.IsValidationError(chat.err))
	assert.Zero(t, f.client.CallCount())
}

func TestChatPane_PersonaCommand(t *testing.T) {
	f := newChatFixture(t, "x")
	p := send(t, f.pane(testPersonas), "hola")
	first := p.(ChatPane).Conversation()
	require.NotNil(t, first)

	p, _ = typeAndSend(p, "/persona pastor")
	chat := p.(ChatPane)
	assert.NoError(t, chat.err)
	assert.Equal(t, "pastor", chat.persona)
	assert.Equal(t, "Eres un pastor", f.session.SystemInstruction())
	assert.Empty(t, f.session.Messages())
	assert.Empty(t, chat.Messages())
	assert.Nil(t, chat.Conversation())

	p = send(t, p, "bendíceme")
	second := p.(ChatPane).Conversation()
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "pastor", second.Persona)

	saved, err := f.store.GetConversation(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "consejero", saved.Persona)
	assert.Len(t, saved.Messages, 2)

	p, _ = typeAndSend(p, "/persona nadie")
	chat = p.(ChatPane)
	assert.True(t, apierrors.IsNotFoundError(chat.err))
	assert.Equal(t, "pastor", chat.persona)
}

func TestChatPane_HistoryPickerResumes(t *testing.T) {
	f := newChatFixture(t, "x")
	conv, err := f.store.CreateConversation("gemini-test", "")
	require.NoError(t, err)
	require.NoError(t, f.store.AddMessage(conv.ID, models.NewMessage(models.SenderUser, "¿Qué es la gracia?")))
	require.NoError(t, f.store.AddMessage(conv.ID, models.NewMessage(models.SenderAI, "Un regalo inmerecido")))

	p, cmd := typeAndSend(f.pane(nil), "/historial")
	require.NotNil(t, cmd)
	require.NotNil(t, p.(ChatPane).picker)

	p, _ = p.Update(findMsg[historyLoadedMsg](t, runCmd(cmd)))
	assert.Contains(t, p.View(), "¿Qué es la gracia?")

	p, _ = p.Update(keyPress(tea.KeyDown))
	p, _ = p.Update(keyPress(tea.KeyEnter))

	chat := p.(ChatPane)
	assert.Nil(t, chat.picker)
	require.NotNil(t, chat.Conversation())
	assert.Equal(t, conv.ID, chat.Conversation().ID)
	assert.Len(t, chat.Messages(), 2)
	assert.Len(t, f.session.Messages(), 2)
}

func TestChatPane_HistoryPickerEscCloses(t *testing.T) {
	f := newChatFixture(t, "x")
	p, cmd := typeAndSend(f.pane(nil), "/historial")
	p, _ = p.Update(findMsg[historyLoadedMsg](t, runCmd(cmd)))

	p, _ = p.Update(keyPress(tea.KeyEsc))
	assert.Nil(t, p.(ChatPane).picker)
}

func TestChatPane_ResumeFromConfig(t *testing.T) {
	f := newChatFixture(t, "x")
	conv := &history.Conversation{
		ID:      "abc",
		Title:   "Perdón",
		Persona: "pastor",
		Messages: []models.Message{
			models.NewMessage(models.SenderUser, "¿Cómo perdono?"),
			models.NewMessage(models.SenderAI, "Como Cristo nos perdonó"),
		},
	}

	p := NewChatPane(ChatConfig{Session: f.session, Personas: testPersonas, Resume: conv})

	assert.Len(t, p.Messages(), 2)
	assert.Len(t, f.session.Messages(), 2)
	assert.Equal(t, "pastor", p.persona)
	assert.Equal(t, "Eres un pastor", f.session.SystemInstruction())
}

func TestChatPane_CopyLastAnswer(t *testing.T) {
	copied := stubClipboard(t)
	f := newChatFixture(t, "Dios es amor")

	var p Pane = f.pane(nil)
	p, _ = p.Update(keyPress(tea.KeyCtrlY))
	assert.Empty(t, *copied)

	p = send(t, p, "¿Quién es Dios?")
	p, _ = p.Update(keyPress(tea.KeyCtrlY))

	assert.Equal(t, "Dios es amor", *copied)
	assert.Contains(t, p.View(), "copiada")
}

func TestChatPane_EnterIgnoredWhileLoading(t *testing.T) {
	f := newChatFixture(t, "x")
	p, _ := typeAndSend(f.pane(nil), "hola")

	p, cmd := p.Update(keyPress(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Len(t, p.(ChatPane).Messages(), 1)
}
