package api

import (
	"context"
	"sync"

	"github.com/luzyverdad/luz/internal/models"
)

// GeminiClientInterface is what the TUI, the verse finder and the prayer generator need
type GeminiClientInterface interface {
	ContentGenerator
	GetModel() models.Model
	SetModel(model models.Model)
	IsClosed() bool
	Close()
	StartChat(systemInstruction string, model ...models.Model) *ChatSession
}

// Ensure GeminiClient implements GeminiClientInterface
var _ GeminiClientInterface = (*GeminiClient)(nil)

// MockGeminiClient is a mock implementation of GeminiClientInterface for testing
type MockGeminiClient struct {
	// Mock return values
	Model              models.Model
	IsClosedVal        bool
	GenerateContentVal *models.ModelOutput
	GenerateContentErr error
	// GenerateContentFunc, when set, takes precedence over Val/Err
	GenerateContentFunc func(ctx context.Context, prompt string, opts *GenerateOptions) (*models.ModelOutput, error)

	// Call counters/recorders
	mu          sync.Mutex
	CloseCalled bool
	Calls       int
	LastPrompt  string
	LastOptions *GenerateOptions
}

// Ensure MockGeminiClient implements GeminiClientInterface
var _ GeminiClientInterface = (*MockGeminiClient)(nil)

// NewMockClient returns a mock that answers every prompt with text
func NewMockClient(text string) *MockGeminiClient {
	return &MockGeminiClient{
		Model:              models.DefaultModel,
		GenerateContentVal: TextOutput(text),
	}
}

// TextOutput builds a single-candidate output, handy in tests
func TextOutput(text string) *models.ModelOutput {
	return &models.ModelOutput{
		Model:      models.DefaultModel.Name,
		Candidates: []models.Candidate{{Text: text, FinishReason: "STOP"}},
	}
}

func (m *MockGeminiClient) GenerateContent(ctx context.Context, prompt string, opts *GenerateOptions) (*models.ModelOutput, error) {
	m.mu.Lock()
	m.Calls++
	m.LastPrompt = prompt
	m.LastOptions = opts
	fn := m.GenerateContentFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, opts)
	}
	return m.GenerateContentVal, m.GenerateContentErr
}

// CallCount returns how many times GenerateContent ran
func (m *MockGeminiClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockGeminiClient) GetModel() models.Model {
	return m.Model
}

func (m *MockGeminiClient) SetModel(model models.Model) {
	m.Model = model
}

func (m *MockGeminiClient) IsClosed() bool {
	return m.IsClosedVal
}

func (m *MockGeminiClient) Close() {
	m.CloseCalled = true
}

func (m *MockGeminiClient) StartChat(systemInstruction string, model ...models.Model) *ChatSession {
	mdl := m.Model
	if len(model) > 0 {
		mdl = model[0]
	}
	return NewChatSession(m, systemInstruction, mdl)
}
