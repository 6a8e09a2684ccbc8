package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

// ---------------------------------------------------------------------------
// function-field repository mocks
// ---------------------------------------------------------------------------

type mockEventRepository struct {
	listFunc          func(ctx context.Context) ([]*model.Event, error)
	listPublishedFunc func(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	getByIDFunc       func(ctx context.Context, id string) (*model.Event, error)
	createFunc        func(ctx context.Context, e *model.Event) error
	updateFunc        func(ctx context.Context, e *model.Event) error
	deleteFunc        func(ctx context.Context, id string) error
}

func (m *mockEventRepository) List(ctx context.Context) ([]*model.Event, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockEventRepository) ListPublished(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	if m.listPublishedFunc != nil {
		return m.listPublishedFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockEventRepository) Create(ctx context.Context, e *model.Event) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, e)
	}
	return nil
}

func (m *mockEventRepository) Update(ctx context.Context, e *model.Event) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, e)
	}
	return nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockCalendarRepository struct {
	listFunc    func(ctx context.Context) ([]*model.CalendarEntry, error)
	createFunc  func(ctx context.Context, c *model.CalendarEntry) error
	updateFunc  func(ctx context.Context, c *model.CalendarEntry) error
	reorderFunc func(ctx context.Context, ids []string) error
}

func (m *mockCalendarRepository) List(ctx context.Context) ([]*model.CalendarEntry, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockCalendarRepository) GetByID(ctx context.Context, id string) (*model.CalendarEntry, error) {
	return nil, nil
}

func (m *mockCalendarRepository) Create(ctx context.Context, c *model.CalendarEntry) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}

func (m *mockCalendarRepository) Update(ctx context.Context, c *model.CalendarEntry) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	return nil
}

func (m *mockCalendarRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockCalendarRepository) Reorder(ctx context.Context, ids []string) error {
	if m.reorderFunc != nil {
		return m.reorderFunc(ctx, ids)
	}
	return nil
}

type mockSubscriberRepository struct {
	listFunc   func(ctx context.Context) ([]*model.Subscriber, error)
	createFunc func(ctx context.Context, s *model.Subscriber) error
}

func (m *mockSubscriberRepository) List(ctx context.Context) ([]*model.Subscriber, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockSubscriberRepository) Create(ctx context.Context, s *model.Subscriber) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return nil
}

func (m *mockSubscriberRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Subscriber, error) {
	return &model.Subscriber{ID: id, Status: status}, nil
}

func (m *mockSubscriberRepository) Delete(ctx context.Context, id string) error { return nil }

type mockMessageRepository struct {
	createFunc       func(ctx context.Context, msg *model.Message) error
	listFunc         func(ctx context.Context) ([]*model.Message, error)
	updateStatusFunc func(ctx context.Context, id, status string) (*model.Message, error)
}

func (m *mockMessageRepository) List(ctx context.Context) ([]*model.Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Message, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return &model.Message{ID: id, Status: status}, nil
}

func (m *mockMessageRepository) Delete(ctx context.Context, id string) error { return nil }

type mockRegistrationRepository struct {
	createFunc func(ctx context.Context, r *model.Registration) error
	listFunc   func(ctx context.Context) ([]*model.Registration, error)
}

func (m *mockRegistrationRepository) List(ctx context.Context) ([]*model.Registration, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockRegistrationRepository) Create(ctx context.Context, r *model.Registration) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, r)
	}
	return nil
}

func (m *mockRegistrationRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Registration, error) {
	return &model.Registration{ID: id, Status: status}, nil
}

type mockChatRepository struct {
	createSessionFunc   func(ctx context.Context, s *model.ChatSession) error
	getSessionFunc      func(ctx context.Context, id string) (*model.ChatSession, error)
	listActiveFunc      func(ctx context.Context) ([]*model.ChatSession, error)
	closeSessionFunc    func(ctx context.Context, id string) error
	insertMessageFunc   func(ctx context.Context, m *model.ChatMessage) error
	listMessagesFunc    func(ctx context.Context, sessionID string) ([]*model.ChatMessage, error)
	markVisitorReadFunc func(ctx context.Context, sessionID string) error
}

func (m *mockChatRepository) CreateSession(ctx context.Context, s *model.ChatSession) error {
	if m.createSessionFunc != nil {
		return m.createSessionFunc(ctx, s)
	}
	return nil
}

func (m *mockChatRepository) GetSession(ctx context.Context, id string) (*model.ChatSession, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, id)
	}
	return &model.ChatSession{ID: id, Status: model.ChatActive}, nil
}

func (m *mockChatRepository) ListActiveSessions(ctx context.Context) ([]*model.ChatSession, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockChatRepository) CloseSession(ctx context.Context, id string) error {
	if m.closeSessionFunc != nil {
		return m.closeSessionFunc(ctx, id)
	}
	return nil
}

func (m *mockChatRepository) InsertMessage(ctx context.Context, msg *model.ChatMessage) error {
	if m.insertMessageFunc != nil {
		return m.insertMessageFunc(ctx, msg)
	}
	return nil
}

func (m *mockChatRepository) ListMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	if m.listMessagesFunc != nil {
		return m.listMessagesFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockChatRepository) MarkVisitorMessagesRead(ctx context.Context, sessionID string) error {
	if m.markVisitorReadFunc != nil {
		return m.markVisitorReadFunc(ctx, sessionID)
	}
	return nil
}

type mockSiteConfigRepository struct {
	getFunc    func(ctx context.Context, key string) (*model.SiteConfig, error)
	upsertFunc func(ctx context.Context, key string, value json.RawMessage) (*model.SiteConfig, error)
}

func (m *mockSiteConfigRepository) Get(ctx context.Context, key string) (*model.SiteConfig, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockSiteConfigRepository) Upsert(ctx context.Context, key string, value json.RawMessage) (*model.SiteConfig, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, key, value)
	}
	return &model.SiteConfig{Key: key, Value: value}, nil
}

type mockUserRepository struct {
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	createFunc      func(ctx context.Context, u *model.User) error
	isAdminFunc     func(ctx context.Context, email string) (bool, error)
	grantAdminFunc  func(ctx context.Context, email string) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, u *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	if m.isAdminFunc != nil {
		return m.isAdminFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) GrantAdmin(ctx context.Context, email string) error {
	if m.grantAdminFunc != nil {
		return m.grantAdminFunc(ctx, email)
	}
	return nil
}

type mockSessionRepository struct {
	sessions      map[string]*model.Session
	deleteExpired func(ctx context.Context, now time.Time) (int64, error)
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*model.Session)}
}

func (m *mockSessionRepository) Create(ctx context.Context, s *model.Session) error {
	m.sessions[s.Token] = s
	return nil
}

func (m *mockSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpired != nil {
		return m.deleteExpired(ctx, now)
	}
	var n int64
	for token, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}
