package api

import (
	"context"
	"sync"

	"github.com/luzyverdad/luz/internal/models"
)

// ContentGenerator is the single call a ChatSession needs from a client
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, opts *GenerateOptions) (*models.ModelOutput, error)
}

// ChatSession keeps a multi-turn conversation and resends it on every message
type ChatSession struct {
	client            ContentGenerator
	mu                sync.RWMutex // Protects everything below
	model             models.Model
	systemInstruction string
	temperature       float64
	history           []models.Message
	lastOutput        *models.ModelOutput
}

// NewChatSession creates a session backed by client
func NewChatSession(client ContentGenerator, systemInstruction string, model models.Model) *ChatSession {
	return &ChatSession{
		client:            client,
		model:             model,
		systemInstruction: systemInstruction,
	}
}

// copyMessages creates a copy of the history slice to avoid races
func copyMessages(m []models.Message) []models.Message {
	if m == nil {
		return nil
	}
	result := make([]models.Message, len(m))
	copy(result, m)
	return result
}

// SendMessage sends prompt with the prior turns and records both sides on success.
// A failed request leaves the history unchanged.
func (s *ChatSession) SendMessage(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	s.mu.RLock()
	opts := &GenerateOptions{
		Model:             s.model,
		SystemInstruction: s.systemInstruction,
		History:           copyMessages(s.history),
		Temperature:       s.temperature,
	}
	s.mu.RUnlock()

	output, err := s.client.GenerateContent(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.history = append(s.history,
		models.NewMessage(models.SenderUser, prompt),
		models.NewMessage(models.SenderAI, output.Text()),
	)
	s.lastOutput = output
	s.mu.Unlock()

	return output, nil
}

// Messages returns a copy of the conversation so far
func (s *ChatSession) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMessages(s.history)
}

// SetHistory replaces the conversation, used when resuming from history
func (s *ChatSession) SetHistory(msgs []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = copyMessages(msgs)
}

// Reset clears the conversation
func (s *ChatSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.lastOutput = nil
}

// GetModel returns the session's model
func (s *ChatSession) GetModel() models.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// SetModel changes the session's model
func (s *ChatSession) SetModel(model models.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// SystemInstruction returns the persona instruction sent with each request
func (s *ChatSession) SystemInstruction() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.systemInstruction
}

// SetSystemInstruction changes the persona instruction
func (s *ChatSession) SetSystemInstruction(instruction string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemInstruction = instruction
}

// SetTemperature overrides the client temperature for this session; 0 keeps the default
func (s *ChatSession) SetTemperature(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temperature = t
}

// LastOutput returns the last response from the session
func (s *ChatSession) LastOutput() *models.ModelOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastOutput
}
