package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
	"github.com/google/uuid"
)

// VisitorMessage is a message typed into the public chat widget.
type VisitorMessage struct {
	// SessionID is the id the visitor kept from an earlier message, if any.
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Content   string `json:"content"`
}

// ChatService は ライブチャットのビジネスロジック
type ChatService interface {
	// SendVisitorMessage stores a visitor message, opening a new session when
	// the visitor has none or the previous one is closed or unknown. The
	// returned message carries the session id to keep.
	SendVisitorMessage(ctx context.Context, in VisitorMessage) (*model.ChatMessage, error)
	SendAdminMessage(ctx context.Context, sessionID, content string) (*model.ChatMessage, error)
	ListActiveSessions(ctx context.Context) ([]*model.ChatSession, error)
	// OpenSession returns the history and marks the visitor's messages read.
	OpenSession(ctx context.Context, sessionID string) (*model.ChatSession, []*model.ChatMessage, error)
	CloseSession(ctx context.Context, sessionID string) error
	History(ctx context.Context, sessionID string) ([]*model.ChatMessage, error)
}

// ChatServiceImpl は ChatService の実装
type ChatServiceImpl struct {
	repo repository.ChatRepository
}

// NewChatService は ChatServiceImpl を生成する
func NewChatService(repo repository.ChatRepository) ChatService {
	return &ChatServiceImpl{repo: repo}
}

// chatErr maps a missing chat schema to ErrChatSchemaMissing.
func chatErr(err error) error {
	if repository.IsTableMissing(err) {
		slog.Error("chat tables missing", "error", err)
		return ErrChatSchemaMissing
	}
	return err
}

func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validateContent(content string) error {
	return model.Validate(struct {
		Content string `json:"content" validate:"required,max=4000"`
	}{strings.TrimSpace(content)})
}

// newChatMessage builds an unsaved message. Admin messages start read.
func newChatMessage(sessionID, sender, content string) *model.ChatMessage {
	return &model.ChatMessage{
		SessionID:  sessionID,
		SenderType: sender,
		Content:    strings.TrimSpace(content),
		IsRead:     sender == model.SenderAdmin,
	}
}

func (s *ChatServiceImpl) SendVisitorMessage(ctx context.Context, in VisitorMessage) (*model.ChatMessage, error) {
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}

	if validSessionID(in.SessionID) {
		m := newChatMessage(in.SessionID, model.SenderUser, in.Content)
		err := s.repo.InsertMessage(ctx, m)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("chat: visitor message failed", "session_id", in.SessionID, "error", err)
			return nil, chatErr(err)
		}
		slog.Info("chat: session closed or unknown, opening a new one", "session_id", in.SessionID)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = model.DefaultVisitorName
	}
	session := &model.ChatSession{
		UserName:  name,
		UserEmail: strings.TrimSpace(in.Email),
		Status:    model.ChatActive,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		slog.Error("chat: create session failed", "error", err)
		return nil, chatErr(err)
	}
	m := newChatMessage(session.ID, model.SenderUser, in.Content)
	if err := s.repo.InsertMessage(ctx, m); err != nil {
		slog.Error("chat: visitor message failed", "session_id", session.ID, "error", err)
		return nil, chatErr(err)
	}
	slog.Info("chat session opened", "session_id", session.ID)
	return m, nil
}

func (s *ChatServiceImpl) SendAdminMessage(ctx context.Context, sessionID, content string) (*model.ChatMessage, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if !validSessionID(sessionID) {
		return nil, repository.ErrNotFound
	}
	m := newChatMessage(sessionID, model.SenderAdmin, content)
	if err := s.repo.InsertMessage(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if _, gerr := s.repo.GetSession(ctx, sessionID); gerr == nil {
				return nil, ErrSessionClosed
			}
			return nil, repository.ErrNotFound
		}
		slog.Error("chat: admin message failed", "session_id", sessionID, "error", err)
		return nil, chatErr(err)
	}
	return m, nil
}

func (s *ChatServiceImpl) ListActiveSessions(ctx context.Context) ([]*model.ChatSession, error) {
	sessions, err := s.repo.ListActiveSessions(ctx)
	if err != nil {
		return nil, chatErr(err)
	}
	return sessions, nil
}

func (s *ChatServiceImpl) OpenSession(ctx context.Context, sessionID string) (*model.ChatSession, []*model.ChatMessage, error) {
	if !validSessionID(sessionID) {
		return nil, nil, repository.ErrNotFound
	}
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, chatErr(err)
	}
	msgs, err := s.repo.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, nil, chatErr(err)
	}
	if err := s.repo.MarkVisitorMessagesRead(ctx, sessionID); err != nil {
		slog.Error("chat: mark read failed", "session_id", sessionID, "error", err)
		return nil, nil, chatErr(err)
	}
	for _, m := range msgs {
		if m.SenderType == model.SenderUser {
			m.IsRead = true
		}
	}
	return session, msgs, nil
}

func (s *ChatServiceImpl) CloseSession(ctx context.Context, sessionID string) error {
	if !validSessionID(sessionID) {
		return repository.ErrNotFound
	}
	if err := s.repo.CloseSession(ctx, sessionID); err != nil {
		return chatErr(err)
	}
	slog.Info("chat session closed", "session_id", sessionID)
	return nil
}

func (s *ChatServiceImpl) History(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	if !validSessionID(sessionID) {
		return nil, repository.ErrNotFound
	}
	msgs, err := s.repo.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, chatErr(err)
	}
	return msgs, nil
}
