package api

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/luzyverdad/luz/internal/models"
)

// MockHttpClient answers every request with a canned response and records the last request
type MockHttpClient struct {
	mu         sync.Mutex
	StatusCode int
	Body       string
	Err        error
	Requests   []*fhttp.Request
	Bodies     []string
}

func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.Bodies = append(m.Bodies, string(data))
	}
	if m.Err != nil {
		return nil, m.Err
	}

	status := m.StatusCode
	if status == 0 {
		status = 200
	}
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(m.Body)),
		Request:    req,
	}, nil
}

func (m *MockHttpClient) LastRequest() *fhttp.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	return m.Requests[len(m.Requests)-1]
}

func (m *MockHttpClient) LastBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Bodies) == 0 {
		return ""
	}
	return m.Bodies[len(m.Bodies)-1]
}

func newTestClient(t *testing.T, mock *MockHttpClient, opts ...ClientOption) *GeminiClient {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(mock), WithBaseURL("https://gemini.test")}, opts...)
	client, err := NewClient("test-key", opts...)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		opts      []ClientOption
		wantModel models.Model
		wantBase  string
		wantTO    time.Duration
	}{
		{
			name:      "defaults",
			wantModel: models.DefaultModel,
			wantBase:  models.EndpointGeminiBase,
			wantTO:    DefaultTimeout,
		},
		{
			name:      "with custom model",
			opts:      []ClientOption{WithModel(models.Model25Pro)},
			wantModel: models.Model25Pro,
			wantBase:  models.EndpointGeminiBase,
			wantTO:    DefaultTimeout,
		},
		{
			name:      "base URL trailing slash trimmed",
			opts:      []ClientOption{WithBaseURL("http://localhost:9000/")},
			wantModel: models.DefaultModel,
			wantBase:  "http://localhost:9000",
			wantTO:    DefaultTimeout,
		},
		{
			name:      "zero timeout ignored",
			opts:      []ClientOption{WithTimeout(0)},
			wantModel: models.DefaultModel,
			wantBase:  models.EndpointGeminiBase,
			wantTO:    DefaultTimeout,
		},
		{
			name:      "custom timeout",
			opts:      []ClientOption{WithTimeout(5 * time.Second)},
			wantModel: models.DefaultModel,
			wantBase:  models.EndpointGeminiBase,
			wantTO:    5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]ClientOption{WithHTTPClient(&MockHttpClient{})}, tt.opts...)
			client, err := NewClient(" key ", opts...)
			if err != nil {
				t.Fatalf("NewClient() error: %v", err)
			}
			if client.GetModel() != tt.wantModel {
				t.Errorf("model = %v, want %v", client.GetModel(), tt.wantModel)
			}
			if client.baseURL != tt.wantBase {
				t.Errorf("baseURL = %q, want %q", client.baseURL, tt.wantBase)
			}
			if client.Timeout() != tt.wantTO {
				t.Errorf("timeout = %v, want %v", client.Timeout(), tt.wantTO)
			}
			if client.apiKey != "key" {
				t.Errorf("api key should be trimmed, got %q", client.apiKey)
			}
		})
	}
}

func TestNewClient_EmptyKeyAllowed(t *testing.T) {
	client, err := NewClient("", WithHTTPClient(&MockHttpClient{}))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if client.HasAPIKey() {
		t.Error("HasAPIKey() should be false")
	}
}

func TestGeminiClient_CloseAndModel(t *testing.T) {
	client := newTestClient(t, &MockHttpClient{})

	if client.IsClosed() {
		t.Error("new client should not be closed")
	}
	client.Close()
	client.Close()
	if !client.IsClosed() {
		t.Error("client should be closed")
	}

	client.SetModel(models.Model25FlashLite)
	if client.GetModel() != models.Model25FlashLite {
		t.Errorf("SetModel not applied")
	}
}

func TestGeminiClient_Endpoint(t *testing.T) {
	client := newTestClient(t, &MockHttpClient{})

	got := client.endpoint(models.Model25Pro)
	want := "https://gemini.test/v1beta/models/gemini-2.5-pro:generateContent"
	if got != want {
		t.Errorf("endpoint() = %q, want %q", got, want)
	}
}

func TestGeminiClient_StartChat(t *testing.T) {
	client := newTestClient(t, &MockHttpClient{}, WithModel(models.Model25Flash))

	s := client.StartChat("be kind")
	if s.GetModel() != models.Model25Flash {
		t.Errorf("session model = %v", s.GetModel())
	}
	if s.SystemInstruction() != "be kind" {
		t.Errorf("system instruction = %q", s.SystemInstruction())
	}

	s = client.StartChat("", models.Model25Pro)
	if s.GetModel() != models.Model25Pro {
		t.Errorf("explicit model ignored, got %v", s.GetModel())
	}
}

func TestGeminiClient_GetHTTPClient(t *testing.T) {
	mock := &MockHttpClient{}
	client := newTestClient(t, mock)

	if client.GetHTTPClient() != HTTPDoer(mock) {
		t.Error("GetHTTPClient should return the injected doer")
	}
}

func TestMockHttpClient_Error(t *testing.T) {
	mock := &MockHttpClient{Err: errors.New("boom")}
	req, _ := fhttp.NewRequest(fhttp.MethodGet, "https://example.test", nil)
	if _, err := mock.Do(req); err == nil {
		t.Error("expected error")
	}
}
