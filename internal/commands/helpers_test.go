package commands

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/luzyverdad/luz/internal/api"
	"github.com/luzyverdad/luz/internal/config"
	"github.com/luzyverdad/luz/internal/tui"
)

const john316JSON = `{
  "reference": "John 3:16",
  "verses": [{"book_id": "JHN", "book_name": "John", "chapter": 3, "verse": 16, "text": "For God so loved the world...\n"}],
  "text": "For God so loved the world...\n",
  "translation_id": "web",
  "translation_name": "World English Bible"
}`

// fakeDoer answers every bible-api request with the same body
type fakeDoer struct {
	mu     sync.Mutex
	status int
	body   string
	urls   []string
}

func (f *fakeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, req.URL.String())
	status := f.status
	if status == 0 {
		status = 200
	}
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{},
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Request:    req,
	}, nil
}

// fakeTUI records the options instead of starting the interface
type fakeTUI struct {
	calls int
	opts  tui.Options
	err   error
}

func (f *fakeTUI) Run(opts tui.Options) error {
	f.calls++
	f.opts = opts
	return f.err
}

type testEnv struct {
	home   string
	deps   *Dependencies
	client *api.MockGeminiClient
	doer   *fakeDoer
	tui    *fakeTUI
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	copied []string
}

// newTestEnv points the config directory at a temp dir and wires fakes
// for the Gemini client, bible-api and the TUI.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("LUZ_HOME", home)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LUZ_API_KEY", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Cleanup(func() { config.SetConfigFile("") })

	env := &testEnv{
		home:   home,
		client: api.NewMockClient("ok"),
		doer:   &fakeDoer{body: john316JSON},
		tui:    &fakeTUI{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	env.deps = &Dependencies{
		Client: env.client,
		HTTP:   env.doer,
		TUI:    env.tui,
		Stdin:  strings.NewReader(""),
		Stdout: env.stdout,
		Stderr: env.stderr,
		Clipboard: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
	}
	return env
}

// run executes the root command with args
func (e *testEnv) run(args ...string) error {
	e.stdout.Reset()
	e.stderr.Reset()
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}
