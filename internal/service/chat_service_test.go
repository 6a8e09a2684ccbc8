package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

const (
	sessionA = "8a0f7c2e-3b1d-4c5e-9f60-1a2b3c4d5e6f"
	sessionB = "0b1c2d3e-4f50-6172-8394-a5b6c7d8e9f0"
)

func TestChatService_SendVisitorMessage_CreatesSessionLazily(t *testing.T) {
	var sessions []*model.ChatSession
	var inserted []*model.ChatMessage
	repo := &mockChatRepository{
		createSessionFunc: func(ctx context.Context, s *model.ChatSession) error {
			s.ID = sessionA
			sessions = append(sessions, s)
			return nil
		},
		insertMessageFunc: func(ctx context.Context, m *model.ChatMessage) error {
			m.ID = "m1"
			inserted = append(inserted, m)
			return nil
		},
	}

	m, err := NewChatService(repo).SendVisitorMessage(context.Background(), VisitorMessage{Content: "Olá, qual o preço?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 || len(inserted) != 1 {
		t.Fatalf("expected one session and one message, got %d and %d", len(sessions), len(inserted))
	}
	if sessions[0].UserName != model.DefaultVisitorName || sessions[0].Status != model.ChatActive {
		t.Errorf("unexpected session %+v", sessions[0])
	}
	if m.SessionID != sessionA || m.SenderType != model.SenderUser || m.IsRead {
		t.Errorf("unexpected message %+v", m)
	}
}

func TestChatService_SendVisitorMessage_ReusesActiveSession(t *testing.T) {
	repo := &mockChatRepository{
		createSessionFunc: func(ctx context.Context, s *model.ChatSession) error {
			t.Error("should not create a session when the old one is active")
			return nil
		},
	}
	m, err := NewChatService(repo).SendVisitorMessage(context.Background(), VisitorMessage{SessionID: sessionA, Content: "again"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SessionID != sessionA {
		t.Errorf("expected session %s, got %s", sessionA, m.SessionID)
	}
}

func TestChatService_SendVisitorMessage_ClosedSessionStartsNewOne(t *testing.T) {
	repo := &mockChatRepository{
		insertMessageFunc: func(ctx context.Context, m *model.ChatMessage) error {
			if m.SessionID == sessionA {
				return repository.ErrNotFound
			}
			return nil
		},
		createSessionFunc: func(ctx context.Context, s *model.ChatSession) error {
			s.ID = sessionB
			return nil
		},
	}
	m, err := NewChatService(repo).SendVisitorMessage(context.Background(), VisitorMessage{SessionID: sessionA, Content: "hello?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.SessionID != sessionB {
		t.Errorf("expected new session %s, got %s", sessionB, m.SessionID)
	}
}

func TestChatService_SendVisitorMessage_EmptyContentSkipsDatabase(t *testing.T) {
	repo := &mockChatRepository{
		createSessionFunc: func(ctx context.Context, s *model.ChatSession) error {
			t.Error("repository should not be called")
			return nil
		},
	}
	_, err := NewChatService(repo).SendVisitorMessage(context.Background(), VisitorMessage{Content: "  "})
	if !model.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestChatService_SchemaMissing(t *testing.T) {
	missing := &repository.Error{Code: repository.CodeUndefinedTable, Message: `relation "chat_sessions" does not exist`}
	repo := &mockChatRepository{
		listActiveFunc: func(ctx context.Context) ([]*model.ChatSession, error) {
			return nil, missing
		},
		createSessionFunc: func(ctx context.Context, s *model.ChatSession) error {
			return missing
		},
	}
	svc := NewChatService(repo)
	if _, err := svc.ListActiveSessions(context.Background()); !errors.Is(err, ErrChatSchemaMissing) {
		t.Errorf("ListActiveSessions: expected ErrChatSchemaMissing, got %v", err)
	}
	if _, err := svc.SendVisitorMessage(context.Background(), VisitorMessage{Content: "hi"}); !errors.Is(err, ErrChatSchemaMissing) {
		t.Errorf("SendVisitorMessage: expected ErrChatSchemaMissing, got %v", err)
	}
}

func TestChatService_SendAdminMessage(t *testing.T) {
	var inserted *model.ChatMessage
	repo := &mockChatRepository{
		insertMessageFunc: func(ctx context.Context, m *model.ChatMessage) error {
			inserted = m
			return nil
		},
	}
	if _, err := NewChatService(repo).SendAdminMessage(context.Background(), sessionA, "Bom dia"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted.SenderType != model.SenderAdmin || !inserted.IsRead {
		t.Errorf("expected read admin message, got %+v", inserted)
	}
}

func TestChatService_SendAdminMessage_ClosedSession(t *testing.T) {
	repo := &mockChatRepository{
		insertMessageFunc: func(ctx context.Context, m *model.ChatMessage) error {
			return repository.ErrNotFound
		},
		getSessionFunc: func(ctx context.Context, id string) (*model.ChatSession, error) {
			return &model.ChatSession{ID: id, Status: model.ChatClosed}, nil
		},
	}
	_, err := NewChatService(repo).SendAdminMessage(context.Background(), sessionA, "still there?")
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
}

func TestChatService_OpenSession_MarksVisitorMessagesRead(t *testing.T) {
	marked := ""
	repo := &mockChatRepository{
		listMessagesFunc: func(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
			return []*model.ChatMessage{
				{ID: "1", SessionID: sessionID, SenderType: model.SenderUser},
				{ID: "2", SessionID: sessionID, SenderType: model.SenderAdmin, IsRead: true},
			}, nil
		},
		markVisitorReadFunc: func(ctx context.Context, sessionID string) error {
			marked = sessionID
			return nil
		},
	}
	_, msgs, err := NewChatService(repo).OpenSession(context.Background(), sessionA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if marked != sessionA {
		t.Errorf("expected mark read for %s, got %q", sessionA, marked)
	}
	for _, m := range msgs {
		if !m.IsRead {
			t.Errorf("message %s should be read", m.ID)
		}
	}
}

func TestChatService_InvalidSessionIDIsNotFound(t *testing.T) {
	svc := NewChatService(&mockChatRepository{})
	if err := svc.CloseSession(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("CloseSession: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.History(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("History: expected ErrNotFound, got %v", err)
	}
}
