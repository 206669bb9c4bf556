package chat

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmorales/opotutor/internal/llm"
	"github.com/rmorales/opotutor/internal/store"
)

func testState(t *testing.T) store.StateRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.StateRepo()
}

func TestNewConversation_SeedMessage(t *testing.T) {
	c := NewConversation()

	if len(c.Messages) != 1 {
		t.Fatalf("expected 1 seed message, got %d", len(c.Messages))
	}
	if c.Messages[0].Role != RoleAssistant {
		t.Errorf("seed role = %q", c.Messages[0].Role)
	}
	if !strings.Contains(c.Messages[0].Text, "Seguridad Social") {
		t.Errorf("seed text = %q", c.Messages[0].Text)
	}
	if c.Title != "Nueva conversación" {
		t.Errorf("title = %q", c.Title)
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hola", "Hola"},
		{strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{"¿Qué es la base reguladora de la incapacidad temporal?", "¿Qué es la base reguladora de " + "..."},
	}
	for _, tt := range tests {
		if got := DeriveTitle(tt.input); got != tt.want {
			t.Errorf("DeriveTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSendMessage_TitleSetOnce(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("primera respuesta")},
		llm.MockResponse{Content: json.RawMessage("segunda respuesta")},
	)
	m := NewManager(mock, testState(t))
	c := m.CreateConversation()

	if err := m.SendMessage(context.Background(), c.ID, "¿Cuándo prescribe la pensión de jubilación?", nil); err != nil {
		t.Fatalf("first send: %v", err)
	}
	wantTitle := DeriveTitle("¿Cuándo prescribe la pensión de jubilación?")
	if got := m.Active().Title; got != wantTitle {
		t.Errorf("title after first send = %q, want %q", got, wantTitle)
	}

	if err := m.SendMessage(context.Background(), c.ID, "Otra pregunta distinta", nil); err != nil {
		t.Fatalf("second send: %v", err)
	}
	if got := m.Active().Title; got != wantTitle {
		t.Errorf("title changed after second send: %q", got)
	}
}

func TestSendMessage_BlankRejected(t *testing.T) {
	m := NewManager(llm.NewMockProvider(), testState(t))
	c := m.CreateConversation()

	if err := m.SendMessage(context.Background(), c.ID, "   ", nil); err != ErrBlankMessage {
		t.Fatalf("err = %v, want ErrBlankMessage", err)
	}
	if len(m.Active().Messages) != 1 {
		t.Fatalf("blank send must not append messages, got %d", len(m.Active().Messages))
	}
}

func TestSendMessage_UnknownConversation(t *testing.T) {
	m := NewManager(llm.NewMockProvider(), testState(t))

	if err := m.SendMessage(context.Background(), "nope", "hola", nil); err != ErrNoConversation {
		t.Fatalf("err = %v, want ErrNoConversation", err)
	}
}

func TestSendMessage_StreamsFragmentsInOrder(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{
			Content:   json.RawMessage("La base reguladora se calcula..."),
			Fragments: []string{"La base ", "reguladora ", "se calcula..."},
		},
	)
	m := NewManager(mock, testState(t))
	c := m.CreateConversation()

	var fragments []string
	err := m.SendMessage(context.Background(), c.ID, "¿Base reguladora?", func(f string) {
		fragments = append(fragments, f)
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(fragments))
	}

	msgs := m.Active().Messages
	last := msgs[len(msgs)-1]
	if last.Role != RoleAssistant {
		t.Fatalf("last message role = %q", last.Role)
	}
	if last.Text != "La base reguladora se calcula..." {
		t.Errorf("assistant text = %q", last.Text)
	}
}

func TestSendMessage_ErrorReplacesText(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	m := NewManager(mock, testState(t))
	c := m.CreateConversation()

	err := m.SendMessage(context.Background(), c.ID, "hola", nil)
	if err == nil {
		t.Fatal("expected error")
	}

	msgs := m.Active().Messages
	last := msgs[len(msgs)-1]
	if last.Text != "Lo siento, ha ocurrido un error. Por favor, inténtalo de nuevo." {
		t.Errorf("assistant text = %q", last.Text)
	}
	if m.InFlight(c.ID) {
		t.Error("send must be marked done after failure")
	}
}

func TestSelectConversation(t *testing.T) {
	m := NewManager(llm.NewMockProvider(), testState(t))
	first := m.CreateConversation()
	second := m.CreateConversation()

	if m.Active().ID != second.ID {
		t.Fatal("newest conversation should be active")
	}

	m.SelectConversation(first.ID)
	if m.Active().ID != first.ID {
		t.Fatal("select did not switch")
	}

	m.SelectConversation("unknown")
	if m.Active().ID != first.ID {
		t.Fatal("unknown id must be a no-op")
	}
}

func TestDeleteConversation(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("ok")},
	)
	m := NewManager(mock, testState(t))
	first := m.CreateConversation()
	second := m.CreateConversation()

	if err := m.SendMessage(context.Background(), second.ID, "hola", nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.sessions.len() != 1 {
		t.Fatalf("expected 1 live session, got %d", m.sessions.len())
	}

	m.DeleteConversation(second.ID)
	if m.sessions.len() != 0 {
		t.Error("deleting a conversation must dispose its session")
	}
	if m.Active().ID != first.ID {
		t.Error("active should fall back to the remaining conversation")
	}
	if len(m.Conversations()) != 1 {
		t.Errorf("conversations = %d, want 1", len(m.Conversations()))
	}
}

func TestSessionRegistry_LRUEviction(t *testing.T) {
	r := newSessionRegistry(2)

	r.get("a")
	r.get("b")
	r.get("a") // refresh a
	r.get("c") // evicts b

	if r.len() != 2 {
		t.Fatalf("len = %d, want 2", r.len())
	}
	if _, ok := r.elements["b"]; ok {
		t.Error("b should have been evicted")
	}
	if _, ok := r.elements["a"]; !ok {
		t.Error("a should survive (recently used)")
	}
}

func TestManager_RestoresPersistedConversations(t *testing.T) {
	state := testState(t)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("respuesta")},
	)

	m := NewManager(mock, state)
	c := m.CreateConversation()
	if err := m.SendMessage(context.Background(), c.ID, "pregunta de prueba", nil); err != nil {
		t.Fatalf("send: %v", err)
	}

	restored := NewManager(llm.NewMockProvider(), state)
	convs := restored.Conversations()
	if len(convs) != 1 {
		t.Fatalf("restored %d conversations, want 1", len(convs))
	}
	if convs[0].Title != DeriveTitle("pregunta de prueba") {
		t.Errorf("restored title = %q", convs[0].Title)
	}
	if len(convs[0].Messages) != 3 {
		t.Errorf("restored %d messages, want 3", len(convs[0].Messages))
	}
}

func TestTranscript_CopiesMessages(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("respuesta")},
	)
	m := NewManager(mock, testState(t))
	c := m.CreateConversation()
	if err := m.SendMessage(context.Background(), c.ID, "pregunta", nil); err != nil {
		t.Fatalf("send: %v", err)
	}

	title, msgs, ok := m.Transcript(c.ID)
	if !ok {
		t.Fatal("transcript not found")
	}
	if title != DeriveTitle("pregunta") {
		t.Errorf("title = %q", title)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}

	// The copy must not alias the live transcript.
	msgs[0].Text = "mutado"
	if m.Active().Messages[0].Text == "mutado" {
		t.Error("transcript copy aliases live messages")
	}

	if _, _, ok := m.Transcript("desconocido"); ok {
		t.Error("unknown conversation should not resolve")
	}
}

func TestAttachDocument(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("según el documento, sí")},
	)
	m := NewManager(mock, testState(t))
	c := m.CreateConversation()

	if err := m.AttachDocument(c.ID, "ley.txt", "Artículo 1. Texto de prueba."); err != nil {
		t.Fatalf("attach: %v", err)
	}

	msgs := m.Active().Messages
	notice := msgs[len(msgs)-1]
	if notice.Role != RoleAssistant || !strings.Contains(notice.Text, "ley.txt") {
		t.Errorf("notice message = %+v", notice)
	}

	// The document must reach the model with the next question.
	if err := m.SendMessage(context.Background(), c.ID, "¿Qué dice el artículo 1?", nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	req := mock.Calls[len(mock.Calls)-1]
	var found bool
	for _, msg := range req.Messages {
		if strings.Contains(msg.Content, "Artículo 1. Texto de prueba.") {
			found = true
		}
	}
	if !found {
		t.Error("attached document missing from model request")
	}
}

func TestAttachDocument_BlankAndUnknown(t *testing.T) {
	m := NewManager(llm.NewMockProvider(), testState(t))
	c := m.CreateConversation()

	if err := m.AttachDocument(c.ID, "x.txt", "   "); err != ErrBlankMessage {
		t.Errorf("blank document: got %v, want ErrBlankMessage", err)
	}
	if err := m.AttachDocument("desconocido", "x.txt", "texto"); err != ErrNoConversation {
		t.Errorf("unknown conversation: got %v, want ErrNoConversation", err)
	}
}
