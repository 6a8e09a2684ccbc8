package repository

import (
	"context"
	"encoding/json"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// EventRepository persists events.
type EventRepository interface {
	List(ctx context.Context) ([]*model.Event, error)
	ListPublished(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id string) error
}

// NewsRepository persists news articles.
type NewsRepository interface {
	List(ctx context.Context) ([]*model.NewsArticle, error)
	ListPublished(ctx context.Context) ([]*model.NewsArticle, error)
	GetByID(ctx context.Context, id string) (*model.NewsArticle, error)
	Create(ctx context.Context, n *model.NewsArticle) error
	Update(ctx context.Context, n *model.NewsArticle) error
	Delete(ctx context.Context, id string) error
}

// CalendarRepository persists calendar entries.
type CalendarRepository interface {
	List(ctx context.Context) ([]*model.CalendarEntry, error)
	GetByID(ctx context.Context, id string) (*model.CalendarEntry, error)
	Create(ctx context.Context, c *model.CalendarEntry) error
	Update(ctx context.Context, c *model.CalendarEntry) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// PartnerRepository persists partners.
type PartnerRepository interface {
	List(ctx context.Context, activeOnly bool) ([]*model.Partner, error)
	Create(ctx context.Context, p *model.Partner) error
	Update(ctx context.Context, p *model.Partner) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// FairRepository persists fairs.
type FairRepository interface {
	List(ctx context.Context, heroOnly bool) ([]*model.Fair, error)
	Create(ctx context.Context, f *model.Fair) error
	Update(ctx context.Context, f *model.Fair) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// SubscriberRepository persists newsletter subscribers.
type SubscriberRepository interface {
	List(ctx context.Context) ([]*model.Subscriber, error)
	Create(ctx context.Context, s *model.Subscriber) error
	UpdateStatus(ctx context.Context, id, status string) (*model.Subscriber, error)
	Delete(ctx context.Context, id string) error
}

// MessageRepository persists contact messages.
type MessageRepository interface {
	List(ctx context.Context) ([]*model.Message, error)
	Create(ctx context.Context, m *model.Message) error
	UpdateStatus(ctx context.Context, id, status string) (*model.Message, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationRepository persists registrations.
type RegistrationRepository interface {
	List(ctx context.Context) ([]*model.Registration, error)
	Create(ctx context.Context, r *model.Registration) error
	UpdateStatus(ctx context.Context, id, status string) (*model.Registration, error)
}

// ChatRepository persists chat sessions and their messages.
type ChatRepository interface {
	CreateSession(ctx context.Context, s *model.ChatSession) error
	GetSession(ctx context.Context, id string) (*model.ChatSession, error)
	ListActiveSessions(ctx context.Context) ([]*model.ChatSession, error)
	CloseSession(ctx context.Context, id string) error
	// InsertMessage stores m and advances the session's last_message_at in
	// one transaction. It yields ErrNotFound when the session is not active.
	InsertMessage(ctx context.Context, m *model.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error)
	MarkVisitorMessagesRead(ctx context.Context, sessionID string) error
}

// SiteConfigRepository is the generic key/value store.
type SiteConfigRepository interface {
	// Get returns nil, nil when the key is absent.
	Get(ctx context.Context, key string) (*model.SiteConfig, error)
	Upsert(ctx context.Context, key string, value json.RawMessage) (*model.SiteConfig, error)
}

// UserRepository はユーザー永続化のインターフェース
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	IsAdmin(ctx context.Context, email string) (bool, error)
	GrantAdmin(ctx context.Context, email string) error
}

// SearchRepository runs the site-wide content search.
type SearchRepository interface {
	Search(ctx context.Context, term string) (*model.SearchResult, error)
}

// StatsRepository computes the admin dashboard counters.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}
