// Package api provides the Gemini generateContent client and chat sessions.
package api

import (
	"fmt"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/luzyverdad/luz/internal/models"
	"github.com/luzyverdad/luz/internal/telemetry"
)

// HTTPDoer is the part of the HTTP client the backends use
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultTimeout bounds a single request when no timeout is configured
const DefaultTimeout = 60 * time.Second

// NewHTTPClient creates the TLS client shared by the Gemini and Bible backends
func NewHTTPClient(timeout time.Duration) (HTTPDoer, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(timeout.Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return httpClient, nil
}

// GeminiClient calls the Gemini generateContent endpoint
type GeminiClient struct {
	httpClient  HTTPDoer
	apiKey      string
	baseURL     string
	model       models.Model
	temperature float64
	timeout     time.Duration
	logger      zerolog.Logger
	tracer      oteltrace.Tracer
	mu          sync.RWMutex
	closed      bool
}

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the default model for the client
func WithModel(model models.Model) ClientOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GeminiClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the TLS client, mainly for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = doer
	}
}

// WithTemperature sets the default sampling temperature
func WithTemperature(t float64) ClientOption {
	return func(c *GeminiClient) {
		c.temperature = t
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *GeminiClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *GeminiClient) {
		c.logger = l
	}
}

// NewClient creates a new GeminiClient. An empty apiKey is accepted; requests
// then fail with an authentication error so the TUI can still start.
func NewClient(apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	client := &GeminiClient{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     models.EndpointGeminiBase,
		model:       models.DefaultModel,
		temperature: 0.7,
		timeout:     DefaultTimeout,
		logger:      zerolog.Nop(),
		tracer:      telemetry.Tracer("github.com/luzyverdad/luz/internal/api"),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		httpClient, err := NewHTTPClient(client.timeout)
		if err != nil {
			return nil, err
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Close marks the client closed; later requests fail
func (c *GeminiClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *GeminiClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// HasAPIKey reports whether a key is configured
func (c *GeminiClient) HasAPIKey() bool {
	return c.apiKey != ""
}

// GetModel returns the default model
func (c *GeminiClient) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel sets the default model
func (c *GeminiClient) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// GetHTTPClient returns the underlying HTTP client so other backends can share it
func (c *GeminiClient) GetHTTPClient() HTTPDoer {
	return c.httpClient
}

// Timeout returns the per-request timeout
func (c *GeminiClient) Timeout() time.Duration {
	return c.timeout
}

// StartChat creates a new chat session with the given system instruction
func (c *GeminiClient) StartChat(systemInstruction string, model ...models.Model) *ChatSession {
	m := c.GetModel()
	if len(model) > 0 && model[0].Name != "" {
		m = model[0]
	}
	return NewChatSession(c, systemInstruction, m)
}

func (c *GeminiClient) endpoint(model models.Model) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model.Name)
}
