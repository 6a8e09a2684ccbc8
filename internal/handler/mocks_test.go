package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}

// ---------------------------------------------------------------------------
// service mocks
// ---------------------------------------------------------------------------

type mockEventService struct {
	listPublishedFunc func(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	getPublishedFunc  func(ctx context.Context, id string) (*model.Event, error)
}

func (m *mockEventService) ListPublished(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	if m.listPublishedFunc != nil {
		return m.listPublishedFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockEventService) GetPublished(ctx context.Context, id string) (*model.Event, error) {
	if m.getPublishedFunc != nil {
		return m.getPublishedFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockEventService) List(ctx context.Context, q string) ([]*model.Event, error) {
	return nil, nil
}

func (m *mockEventService) Get(ctx context.Context, id string) (*model.Event, error) {
	return nil, repository.ErrNotFound
}

func (m *mockEventService) Save(ctx context.Context, e *model.Event) error { return nil }

func (m *mockEventService) Delete(ctx context.Context, id string) error { return nil }

type mockContactService struct {
	submitFunc func(ctx context.Context, msg *model.Message) error
}

func (m *mockContactService) Submit(ctx context.Context, msg *model.Message) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, msg)
	}
	return nil
}

func (m *mockContactService) List(ctx context.Context, q string) ([]*model.Message, error) {
	return nil, nil
}

func (m *mockContactService) Update(ctx context.Context, id string, upd model.MessageUpdate) (*model.Message, error) {
	return &model.Message{ID: id, Status: upd.Status}, nil
}

func (m *mockContactService) Delete(ctx context.Context, id string) error { return nil }

type mockNewsletterService struct {
	subscribeFunc func(ctx context.Context, name, email, source string) (*model.Subscriber, error)
}

func (m *mockNewsletterService) Subscribe(ctx context.Context, name, email, source string) (*model.Subscriber, error) {
	if m.subscribeFunc != nil {
		return m.subscribeFunc(ctx, name, email, source)
	}
	return &model.Subscriber{ID: "s1", Email: email, Status: model.SubscriberActive}, nil
}

func (m *mockNewsletterService) List(ctx context.Context, q string) ([]*model.Subscriber, error) {
	return nil, nil
}

func (m *mockNewsletterService) SetStatus(ctx context.Context, id, status string) (*model.Subscriber, error) {
	return &model.Subscriber{ID: id, Status: status}, nil
}

func (m *mockNewsletterService) Delete(ctx context.Context, id string) error { return nil }

type mockChatService struct {
	sendVisitorFunc func(ctx context.Context, in service.VisitorMessage) (*model.ChatMessage, error)
	closeFunc       func(ctx context.Context, id string) error
}

func (m *mockChatService) SendVisitorMessage(ctx context.Context, in service.VisitorMessage) (*model.ChatMessage, error) {
	return m.sendVisitorFunc(ctx, in)
}

func (m *mockChatService) SendAdminMessage(ctx context.Context, sessionID, content string) (*model.ChatMessage, error) {
	return &model.ChatMessage{ID: "a1", SessionID: sessionID, SenderType: model.SenderAdmin, Content: content}, nil
}

func (m *mockChatService) ListActiveSessions(ctx context.Context) ([]*model.ChatSession, error) {
	return nil, nil
}

func (m *mockChatService) OpenSession(ctx context.Context, sessionID string) (*model.ChatSession, []*model.ChatMessage, error) {
	return &model.ChatSession{ID: sessionID, Status: model.ChatActive}, nil, nil
}

func (m *mockChatService) CloseSession(ctx context.Context, sessionID string) error {
	if m.closeFunc != nil {
		return m.closeFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockChatService) History(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	return nil, nil
}

type mockSiteConfigService struct {
	values map[string]json.RawMessage
}

func (m *mockSiteConfigService) Get(ctx context.Context, key string) (*model.SiteConfig, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return &model.SiteConfig{Key: key, Value: v}, nil
}

func (m *mockSiteConfigService) Put(ctx context.Context, key string, value json.RawMessage) (*model.SiteConfig, error) {
	if key != "contact_info" {
		return nil, service.ErrUnknownConfigKey
	}
	m.values[key] = value
	return &model.SiteConfig{Key: key, Value: value, UpdatedAt: time.Now()}, nil
}

type mockAuthService struct {
	loginFunc   func(ctx context.Context, email, password string) (*model.Session, *model.User, error)
	isAdminFunc func(ctx context.Context, userID string) (bool, error)
	logouts     []string
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	m.logouts = append(m.logouts, token)
	return nil
}

func (m *mockAuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	if token == "good-token" {
		return "user-1", nil
	}
	return "", service.ErrInvalidSession
}

func (m *mockAuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return &model.User{ID: userID, Email: "admin@example.com"}, nil
}

func (m *mockAuthService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if m.isAdminFunc != nil {
		return m.isAdminFunc(ctx, userID)
	}
	return false, nil
}

func (m *mockAuthService) CreateAdmin(ctx context.Context, email, name, password string) (*model.User, error) {
	return nil, nil
}

func (m *mockAuthService) PurgeExpired(ctx context.Context) (int64, error) { return 0, nil }

// ---------------------------------------------------------------------------
// repository mocks for the registration wizard
// ---------------------------------------------------------------------------

type mockCalendarRepo struct {
	entries []*model.CalendarEntry
}

func (m *mockCalendarRepo) List(ctx context.Context) ([]*model.CalendarEntry, error) {
	return m.entries, nil
}

func (m *mockCalendarRepo) GetByID(ctx context.Context, id string) (*model.CalendarEntry, error) {
	return nil, repository.ErrNotFound
}

func (m *mockCalendarRepo) Create(ctx context.Context, c *model.CalendarEntry) error { return nil }

func (m *mockCalendarRepo) Update(ctx context.Context, c *model.CalendarEntry) error { return nil }

func (m *mockCalendarRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockCalendarRepo) Reorder(ctx context.Context, ids []string) error { return nil }

type mockRegistrationRepo struct {
	created []*model.Registration
}

func (m *mockRegistrationRepo) List(ctx context.Context) ([]*model.Registration, error) {
	return m.created, nil
}

func (m *mockRegistrationRepo) Create(ctx context.Context, r *model.Registration) error {
	r.ID = "reg-1"
	r.CreatedAt = time.Now()
	m.created = append(m.created, r)
	return nil
}

func (m *mockRegistrationRepo) UpdateStatus(ctx context.Context, id, status string) (*model.Registration, error) {
	return nil, repository.ErrNotFound
}
