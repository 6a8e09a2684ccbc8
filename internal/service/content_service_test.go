package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

func TestEventService_Save_InsertsWithoutID(t *testing.T) {
	created, updated := 0, 0
	repo := &mockEventRepository{
		createFunc: func(ctx context.Context, e *model.Event) error {
			created++
			e.ID = "new-id"
			return nil
		},
		updateFunc: func(ctx context.Context, e *model.Event) error {
			updated++
			return nil
		},
	}
	svc := NewEventService(repo)

	e := &model.Event{Title: "FILDA 2026", Date: "2026-07-10"}
	if err := svc.Save(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 || updated != 0 {
		t.Errorf("expected one insert, got created=%d updated=%d", created, updated)
	}
	if e.Status != model.StatusDraft {
		t.Errorf("expected default status draft, got %q", e.Status)
	}

	if err := svc.Save(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 || updated != 1 {
		t.Errorf("expected update for existing id, got created=%d updated=%d", created, updated)
	}
}

func TestEventService_Save_ValidationBeforeRepository(t *testing.T) {
	repo := &mockEventRepository{
		createFunc: func(ctx context.Context, e *model.Event) error {
			t.Error("repository should not be called for invalid event")
			return nil
		},
	}
	err := NewEventService(repo).Save(context.Background(), &model.Event{Date: "2026-07-10"})
	var ve *model.ValidationError
	if !errors.As(err, &ve) || ve.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}
}

func TestEventService_GetPublished_HidesDrafts(t *testing.T) {
	repo := &mockEventRepository{
		getByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return &model.Event{ID: id, Status: model.StatusDraft}, nil
		},
	}
	_, err := NewEventService(repo).GetPublished(context.Background(), "e1")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for draft, got %v", err)
	}
}

func TestEventService_List_FiltersCaseInsensitive(t *testing.T) {
	repo := &mockEventRepository{
		listFunc: func(ctx context.Context) ([]*model.Event, error) {
			return []*model.Event{
				{ID: "1", Title: "FILDA 2026"},
				{ID: "2", Title: "Expo Indústria", Location: "Luanda"},
				{ID: "3", Title: "Feira do Livro"},
			}, nil
		},
	}
	got, err := NewEventService(repo).List(context.Background(), "filda")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("expected only FILDA, got %v", got)
	}
	all, _ := NewEventService(repo).List(context.Background(), "")
	if len(all) != 3 {
		t.Errorf("expected empty query to return all, got %d", len(all))
	}
}

func TestCalendarService_Reorder_RejectsDuplicates(t *testing.T) {
	repo := &mockCalendarRepository{
		reorderFunc: func(ctx context.Context, ids []string) error {
			t.Error("repository should not be called")
			return nil
		},
	}
	err := NewCalendarService(repo).Reorder(context.Background(), []string{"a", "b", "a"})
	if !model.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNewsletterService_Subscribe_DuplicateIsAlreadySubscribed(t *testing.T) {
	repo := &mockSubscriberRepository{
		createFunc: func(ctx context.Context, s *model.Subscriber) error {
			return &repository.Error{Code: repository.CodeUniqueViolation, Message: "duplicate key"}
		},
	}
	_, err := NewNewsletterService(repo).Subscribe(context.Background(), "", "ana@example.com", "")
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Errorf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestNewsletterService_Subscribe_NormalizesEmail(t *testing.T) {
	var saved *model.Subscriber
	repo := &mockSubscriberRepository{
		createFunc: func(ctx context.Context, s *model.Subscriber) error {
			saved = s
			return nil
		},
	}
	if _, err := NewNewsletterService(repo).Subscribe(context.Background(), " Ana ", " Ana@Example.com ", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Email != "ana@example.com" || saved.Status != model.SubscriberActive || saved.Source != model.SourceSite {
		t.Errorf("unexpected subscriber %+v", saved)
	}
}

func TestNewsletterService_Subscribe_InvalidEmail(t *testing.T) {
	repo := &mockSubscriberRepository{
		createFunc: func(ctx context.Context, s *model.Subscriber) error {
			t.Error("repository should not be called")
			return nil
		},
	}
	_, err := NewNewsletterService(repo).Subscribe(context.Background(), "", "not-an-email", "")
	if !model.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestContactService_Submit_Defaults(t *testing.T) {
	var saved *model.Message
	repo := &mockMessageRepository{
		createFunc: func(ctx context.Context, msg *model.Message) error {
			saved = msg
			return nil
		},
	}
	msg := &model.Message{Sender: "Ana", Email: "ana@example.com", Content: "Olá", Status: model.MessageReplied}
	if err := NewContactService(repo).Submit(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected Create to be called")
	}
	if saved.Status != model.MessageUnread {
		t.Errorf("expected status=unread, got %q", saved.Status)
	}
	if saved.Subject != DefaultContactSubject {
		t.Errorf("expected default subject, got %q", saved.Subject)
	}
	if saved.Source != model.SourceSite {
		t.Errorf("expected source=site, got %q", saved.Source)
	}
}

func TestContactService_Submit_RequiresContent(t *testing.T) {
	repo := &mockMessageRepository{
		createFunc: func(ctx context.Context, msg *model.Message) error {
			t.Error("repository should not be called")
			return nil
		},
	}
	err := NewContactService(repo).Submit(context.Background(), &model.Message{Sender: "Ana", Email: "ana@example.com", Content: "   "})
	if !model.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRegistrationService_SetStatus_RejectsUnknown(t *testing.T) {
	_, err := NewRegistrationService(&mockRegistrationRepository{}).SetStatus(context.Background(), "r1", "done")
	if !model.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	reg, err := NewRegistrationService(&mockRegistrationRepository{}).SetStatus(context.Background(), "r1", model.RegistrationConfirmed)
	if err != nil || reg.Status != model.RegistrationConfirmed {
		t.Errorf("expected confirmed, got %v, %v", reg, err)
	}
}

func TestSiteConfigService_PutReplacesValue(t *testing.T) {
	var got json.RawMessage
	repo := &mockSiteConfigRepository{
		upsertFunc: func(ctx context.Context, key string, value json.RawMessage) (*model.SiteConfig, error) {
			got = value
			return &model.SiteConfig{Key: key, Value: value}, nil
		},
	}
	svc := NewSiteConfigService(repo)

	saved, err := svc.Put(context.Background(), model.ConfigContactInfo, json.RawMessage(`{"phone":"+244923000000"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"phone":"+244923000000"}` || string(saved.Value) != string(got) {
		t.Errorf("expected value passed through unchanged, got %s", got)
	}
}

func TestSiteConfigService_UnknownKeyAndInvalidJSON(t *testing.T) {
	svc := NewSiteConfigService(&mockSiteConfigRepository{})

	if _, err := svc.Get(context.Background(), "secrets"); !errors.Is(err, ErrUnknownConfigKey) {
		t.Errorf("expected ErrUnknownConfigKey, got %v", err)
	}
	if _, err := svc.Put(context.Background(), model.ConfigAboutInfo, json.RawMessage(`{broken`)); !model.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	cfg, err := svc.Get(context.Background(), model.ConfigCalendarFile)
	if err != nil || cfg != nil {
		t.Errorf("expected nil, nil for absent key, got %v, %v", cfg, err)
	}
}
