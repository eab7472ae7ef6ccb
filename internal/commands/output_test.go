package commands

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	apierrors "github.com/luzyverdad/luz/internal/errors"
)

// syncBuffer guards a bytes.Buffer written from the spinner goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFormatErrorMessage_Nil(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Fatalf("expected empty for nil error, got %s", got)
	}
}

func TestFormatErrorMessage_APIError(t *testing.T) {
	e := apierrors.NewAPIErrorWithBody(500, "/v1beta/models", "failure", "detailed body")
	out := formatErrorMessage(e, "Failed")

	for _, want := range []string{"Failed", "HTTP Status: 500", "Endpoint: /v1beta/models", "detailed body"} {
		if !strings.Contains(out, want) {
			t.Errorf("message missing %q: %s", want, out)
		}
	}
}

func TestFormatErrorMessage_Hints(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"auth", apierrors.NewAuthError("invalid key")},
		{"usage", apierrors.NewUsageLimitError("quota")},
		{"network", apierrors.NewNetworkError("fetch", "/endpoint", errors.New("refused"))},
		{"timeout", apierrors.NewTimeoutError("slow")},
		{"blocked", apierrors.NewBlockedError("safety")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatErrorMessage(tt.err, "Error")
			if !strings.Contains(out, tt.err.Error()) {
				t.Errorf("message missing the error text: %s", out)
			}
			if !strings.Contains(out, "Sugerencia:") {
				t.Errorf("message missing a hint: %s", out)
			}
		})
	}
}

func TestFormatErrorMessage_LongBodyTruncated(t *testing.T) {
	e := apierrors.NewAPIErrorWithBody(400, "/x", "bad", strings.Repeat("z", 2000))
	out := formatErrorMessage(e, "Error")
	if strings.Contains(out, strings.Repeat("z", 601)) {
		t.Error("body should be truncated")
	}
	if !strings.Contains(out, "...") {
		t.Error("truncated body should end with ...")
	}
}

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, "Buscando")
	s.start()
	time.Sleep(200 * time.Millisecond)
	s.stopWithSuccess("Encontrado")

	out := buf.String()
	if !strings.Contains(out, "Buscando") {
		t.Errorf("spinner never rendered its message: %q", out)
	}
	if !strings.Contains(out, "Encontrado") {
		t.Errorf("missing success message: %q", out)
	}
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, "Buscando")
	s.start()
	time.Sleep(30 * time.Millisecond)
	s.stopWithError()
	// second stop is a no-op
	s.stopOnce()
}

func TestProgress_NotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := startProgress(&buf, "Buscando")
	p.success("listo")
	p.fail()
	if buf.Len() != 0 {
		t.Errorf("progress wrote to a non-terminal: %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"corto", 10, "corto"},
		{"exacto", 6, "exacto"},
		{"oración larga", 7, "oración..."},
		{"", 3, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestBubbleWidth_NotTerminal(t *testing.T) {
	if got := bubbleWidth(&bytes.Buffer{}); got != 76 {
		t.Errorf("bubbleWidth = %d, want 76", got)
	}
}
