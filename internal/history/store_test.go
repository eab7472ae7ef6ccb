package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	apierrors "github.com/luzyverdad/luz/internal/errors"
	"github.com/luzyverdad/luz/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	historyDir := filepath.Join(tmpDir, "history")
	if store.Dir() != historyDir {
		t.Errorf("Dir() = %s, want %s", store.Dir(), historyDir)
	}
	if _, err := os.Stat(historyDir); os.IsNotExist(err) {
		t.Error("history directory was not created")
	}
}

func TestDefaultStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LUZ_HOME", dir)

	store, err := DefaultStore()
	if err != nil {
		t.Fatalf("DefaultStore failed: %v", err)
	}
	if store.Dir() != filepath.Join(dir, "history") {
		t.Errorf("Dir() = %s", store.Dir())
	}
}

func TestStore_CreateConversation(t *testing.T) {
	store := newTestStore(t)

	conv, err := store.CreateConversation("gemini-2.5-flash", "consejero")
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	if conv.ID == "" {
		t.Error("conversation ID is empty")
	}
	if conv.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %s, want gemini-2.5-flash", conv.Model)
	}
	if conv.Persona != "consejero" {
		t.Errorf("Persona = %s, want consejero", conv.Persona)
	}
	if conv.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if len(conv.Messages) != 0 {
		t.Errorf("expected 0 messages, got %d", len(conv.Messages))
	}

	info, err := os.Stat(filepath.Join(store.Dir(), conv.ID+".json"))
	if err != nil {
		t.Fatalf("conversation file missing: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %o, want 600", info.Mode().Perm())
	}
}

func TestStore_GetConversation(t *testing.T) {
	store := newTestStore(t)
	created, _ := store.CreateConversation("m", "")

	got, err := store.GetConversation(created.ID)
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if got.ID != created.ID || got.Model != "m" {
		t.Errorf("got %+v, want %+v", got, created)
	}

	_, err = store.GetConversation("missing")
	if !apierrors.IsNotFoundError(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestStore_AddMessage(t *testing.T) {
	store := newTestStore(t)
	conv, _ := store.CreateConversation("m", "")

	user := models.NewMessage(models.SenderUser, "¿Cómo puedo encontrar paz en medio de la tormenta que estoy viviendo?")
	if err := store.AddMessage(conv.ID, user); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if err := store.AddMessage(conv.ID, models.NewMessage(models.SenderAI, "Filipenses 4:6-7 dice...")); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if err := store.AddMessage(conv.ID, models.NewMessage(models.SenderUser, "Gracias")); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	got, _ := store.GetConversation(conv.ID)
	if len(got.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].ID != user.ID {
		t.Error("message id not preserved")
	}
	if got.Messages[1].Sender != models.SenderAI {
		t.Errorf("sender = %s, want ai", got.Messages[1].Sender)
	}

	wantTitle := TitleFrom(user.Text)
	if got.Title != wantTitle {
		t.Errorf("Title = %q, want %q", got.Title, wantTitle)
	}
	if !got.UpdatedAt.After(conv.UpdatedAt) && !got.UpdatedAt.Equal(conv.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}
}

func TestStore_AddMessage_SetsTimestamp(t *testing.T) {
	store := newTestStore(t)
	conv, _ := store.CreateConversation("m", "")

	if err := store.AddMessage(conv.ID, models.Message{ID: "x", Text: "hola", Sender: models.SenderUser}); err != nil {
		t.Fatal(err)
	}
	got, _ := store.GetConversation(conv.ID)
	if got.Messages[0].Timestamp.IsZero() {
		t.Error("timestamp should be filled in")
	}
}

func TestStore_AddMessage_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.AddMessage("missing", models.NewMessage(models.SenderUser, "x"))
	if !apierrors.IsNotFoundError(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestTitleFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hola", "Hola"},
		{"  con espacios  ", "con espacios"},
		{"primera línea\nsegunda", "primera línea"},
		{strings.Repeat("á", 50), strings.Repeat("á", 50)},
		{strings.Repeat("á", 51), strings.Repeat("á", 49) + "…"},
		{strings.Repeat("palabra ", 20), strings.Repeat("palabra ", 6) + "p…"},
	}
	for _, tt := range tests {
		got := TitleFrom(tt.in)
		if got != tt.want {
			t.Errorf("TitleFrom(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if n := utf8.RuneCountInString(got); n > MaxTitleLength {
			t.Errorf("TitleFrom(%q) has %d runes, max %d", tt.in, n, MaxTitleLength)
		}
	}
}

func TestStore_ListConversations(t *testing.T) {
	store := newTestStore(t)

	first, _ := store.CreateConversation("m", "")
	time.Sleep(10 * time.Millisecond)
	second, _ := store.CreateConversation("m", "")
	time.Sleep(10 * time.Millisecond)
	_ = store.AddMessage(first.ID, models.NewMessage(models.SenderUser, "reciente"))

	// Corrupted and unrelated files are skipped
	_ = os.WriteFile(filepath.Join(store.Dir(), "broken.json"), []byte("{"), 0o600)
	_ = os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0o600)

	list, err := store.ListConversations()
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Error("conversations should be sorted by UpdatedAt descending")
	}
}

func TestStore_UpdateTitle(t *testing.T) {
	store := newTestStore(t)
	conv, _ := store.CreateConversation("m", "")

	if err := store.UpdateTitle(conv.ID, "Nuevo título"); err != nil {
		t.Fatalf("UpdateTitle failed: %v", err)
	}
	got, _ := store.GetConversation(conv.ID)
	if got.Title != "Nuevo título" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestStore_DeleteConversation(t *testing.T) {
	store := newTestStore(t)
	conv, _ := store.CreateConversation("m", "")

	if err := store.DeleteConversation(conv.ID); err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}
	if _, err := store.GetConversation(conv.ID); err == nil {
		t.Error("conversation should be gone")
	}
	if err := store.DeleteConversation(conv.ID); !apierrors.IsNotFoundError(err) {
		t.Errorf("second delete should be NotFound, got %v", err)
	}
}

func TestStore_ClearAll(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, _ = store.CreateConversation("m", "")
	}

	n, err := store.ClearAll()
	if err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if n != 3 {
		t.Errorf("removed %d, want 3", n)
	}
	list, _ := store.ListConversations()
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d", len(list))
	}
}

func TestStore_PathTraversal(t *testing.T) {
	store := newTestStore(t)

	path := store.conversationPath("../../etc/passwd")
	if filepath.Dir(path) != store.Dir() {
		t.Errorf("path escaped the history dir: %s", path)
	}
}
