package repository

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	chatSessionColumns = `id, user_name, COALESCE(user_email, ''), status, last_message_at, created_at`
	chatMessageColumns = `id, session_id, sender_type, content, is_read, created_at`
)

// PgChatRepository is the PostgreSQL implementation of ChatRepository.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

// NewPgChatRepository creates a PgChatRepository backed by the given pool.
func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ ChatRepository = (*PgChatRepository)(nil)

func scanChatSession(row rowScanner) (*model.ChatSession, error) {
	var s model.ChatSession
	if err := row.Scan(&s.ID, &s.UserName, &s.UserEmail, &s.Status, &s.LastMessageAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgChatRepository) CreateSession(ctx context.Context, s *model.ChatSession) error {
	return wrap("chat_sessions", r.pool.QueryRow(ctx,
		`INSERT INTO chat_sessions (user_name, user_email, status)
		 VALUES ($1, NULLIF($2, ''), $3)
		 RETURNING id, last_message_at, created_at`,
		s.UserName, s.UserEmail, s.Status,
	).Scan(&s.ID, &s.LastMessageAt, &s.CreatedAt))
}

func (r *PgChatRepository) GetSession(ctx context.Context, id string) (*model.ChatSession, error) {
	s, err := scanChatSession(r.pool.QueryRow(ctx,
		`SELECT `+chatSessionColumns+` FROM chat_sessions WHERE id=$1`, id))
	if err != nil {
		return nil, wrap("chat_sessions", err)
	}
	return s, nil
}

// ListActiveSessions returns open conversations, most recent activity first.
func (r *PgChatRepository) ListActiveSessions(ctx context.Context) ([]*model.ChatSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+chatSessionColumns+` FROM chat_sessions
		 WHERE status = 'active'
		 ORDER BY last_message_at DESC`)
	if err != nil {
		return nil, wrap("chat_sessions", err)
	}
	defer rows.Close()

	var out []*model.ChatSession
	for rows.Next() {
		s, err := scanChatSession(rows)
		if err != nil {
			return nil, wrap("chat_sessions", err)
		}
		out = append(out, s)
	}
	return out, wrap("chat_sessions", rows.Err())
}

// CloseSession moves an active session to closed. A session that is
// already closed or missing yields ErrNotFound.
func (r *PgChatRepository) CloseSession(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE chat_sessions SET status='closed' WHERE id=$1 AND status='active'`, id)
	if err != nil {
		return wrap("chat_sessions", err)
	}
	return notFoundIfNone(tag)
}

func (r *PgChatRepository) InsertMessage(ctx context.Context, m *model.ChatMessage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrap("chat_messages", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE chat_sessions SET last_message_at=NOW() WHERE id=$1 AND status='active'`, m.SessionID)
	if err != nil {
		return wrap("chat_sessions", err)
	}
	if err := notFoundIfNone(tag); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO chat_messages (session_id, sender_type, content, is_read)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		m.SessionID, m.SenderType, m.Content, m.IsRead,
	).Scan(&m.ID, &m.CreatedAt); err != nil {
		return wrap("chat_messages", err)
	}
	return wrap("chat_messages", tx.Commit(ctx))
}

// ListMessages returns a session's messages oldest first.
func (r *PgChatRepository) ListMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+chatMessageColumns+` FROM chat_messages
		 WHERE session_id=$1
		 ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, wrap("chat_messages", err)
	}
	defer rows.Close()

	var out []*model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.SenderType, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, wrap("chat_messages", err)
		}
		out = append(out, &m)
	}
	return out, wrap("chat_messages", rows.Err())
}

// MarkVisitorMessagesRead flags every visitor-sent message of the session as read.
func (r *PgChatRepository) MarkVisitorMessagesRead(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE chat_messages SET is_read=true
		 WHERE session_id=$1 AND sender_type='user' AND is_read=false`, sessionID)
	return wrap("chat_messages", err)
}
