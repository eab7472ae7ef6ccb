package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/luzyverdad/luz/internal/api"
	"github.com/luzyverdad/luz/internal/history"
	"github.com/luzyverdad/luz/internal/models"
	"github.com/luzyverdad/luz/internal/nav"
)

func TestRootCommand_Metadata(t *testing.T) {
	cmd := NewRootCmd(&Dependencies{})
	if cmd.Use != "luz" {
		t.Errorf("Use = %q, want luz", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	want := []string{"chat", "verse", "prayer", "config", "history", "personas"}
	for _, name := range want {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, alias := range []string{"versiculo", "oracion", "persona"} {
		if _, _, err := cmd.Find([]string{alias}); err != nil {
			t.Errorf("alias %q not registered: %v", alias, err)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("--version"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "luz "+Version) {
		t.Errorf("stdout = %q, want version", env.stdout.String())
	}
	if env.tui.calls != 0 {
		t.Error("--version should not start the TUI")
	}
}

func TestRootCommand_StartsTUI(t *testing.T) {
	tests := []struct {
		args []string
		want nav.View
	}{
		{nil, nav.Chat},
		{[]string{"--view", "verse"}, nav.VerseFinder},
		{[]string{"--view", "prayer"}, nav.Prayer},
		{[]string{"chat"}, nav.Chat},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			env := newTestEnv(t)
			if err := env.run(tt.args...); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if env.tui.calls != 1 {
				t.Fatalf("TUI calls = %d, want 1", env.tui.calls)
			}
			opts := env.tui.opts
			if opts.InitialView != tt.want {
				t.Errorf("InitialView = %v, want %v", opts.InitialView, tt.want)
			}
			if opts.Finder == nil || opts.Generator == nil {
				t.Error("finder and generator should be wired")
			}
			if opts.Translation != "web" || len(opts.Translations) == 0 {
				t.Errorf("translation = %q (%d options)", opts.Translation, len(opts.Translations))
			}
			if opts.Chat.Persona != "consejero" {
				t.Errorf("persona = %q, want consejero", opts.Chat.Persona)
			}
			if opts.Chat.Store == nil {
				t.Error("history store should be set when save_history is on")
			}
		})
	}
}

func TestRootCommand_UnknownView(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("--view", "sermon")
	if err == nil || !strings.Contains(err.Error(), "unknown view") {
		t.Fatalf("err = %v, want unknown view", err)
	}
	if env.tui.calls != 0 {
		t.Error("TUI should not start")
	}
}

func TestChatCommand_Persona(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("chat", "--persona", "pastor"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := env.tui.opts.Chat
	if cfg.Persona != "pastor" {
		t.Errorf("persona = %q, want pastor", cfg.Persona)
	}
	session, ok := cfg.Session.(*api.ChatSession)
	if !ok {
		t.Fatalf("session type = %T", cfg.Session)
	}
	if !strings.Contains(session.SystemInstruction(), "pastor") {
		t.Errorf("system instruction = %q", session.SystemInstruction())
	}
	if cfg.Personas == nil {
		t.Error("persona resolver should be set")
	}
}

func TestChatCommand_UnknownPersona(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("chat", "-p", "nadie")
	if err == nil || !strings.Contains(err.Error(), "nadie") {
		t.Fatalf("err = %v, want persona error", err)
	}
	if env.tui.calls != 0 {
		t.Error("TUI should not start")
	}
}

func TestChatCommand_Resume(t *testing.T) {
	env := newTestEnv(t)

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatalf("DefaultStore: %v", err)
	}
	conv, err := store.CreateConversation("gemini-2.5-flash", "consejero")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if err := store.AddMessage(conv.ID, models.NewMessage(models.SenderUser, "¿Cómo perdonar?")); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	if err := env.run("chat", "--resume", "@last"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resume := env.tui.opts.Chat.Resume
	if resume == nil || resume.ID != conv.ID {
		t.Fatalf("resume = %+v, want %s", resume, conv.ID)
	}
	if len(resume.Messages) != 1 {
		t.Errorf("messages = %d, want 1", len(resume.Messages))
	}
}

func TestChatCommand_ResumeMissing(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("chat", "-r", "@last"); err == nil {
		t.Fatal("expected an error when there is nothing to resume")
	}
}

func TestChatCommand_NoHistory(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("LUZ_SAVE_HISTORY", "false")

	if err := env.run("chat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.tui.opts.Chat.Store != nil {
		t.Error("store should stay nil when save_history is off")
	}
}

func TestChatCommand_TUIError(t *testing.T) {
	env := newTestEnv(t)
	env.tui.err = errors.New("no tty")

	err := env.run()
	if err == nil || !strings.Contains(err.Error(), "no tty") {
		t.Fatalf("err = %v, want wrapped TUI error", err)
	}
}

func TestExecute_Success(t *testing.T) {
	env := newTestEnv(t)

	old := rootCmd
	rootCmd = NewRootCmd(env.deps)
	rootCmd.SetArgs([]string{"--version"})
	defer func() { rootCmd = old }()

	// returns without os.Exit
	Execute()

	if !strings.Contains(env.stdout.String(), Version) {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}
