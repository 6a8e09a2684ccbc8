package service

import (
	"context"
	"strings"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

// DefaultContactSubject is used when the contact form leaves the subject blank.
const DefaultContactSubject = "Contato pelo Site"

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit stores a new contact message as unread. The msg.ID and
	// CreatedAt will be populated by the implementation.
	Submit(ctx context.Context, msg *model.Message) error
	List(ctx context.Context, q string) ([]*model.Message, error)
	Update(ctx context.Context, id string, upd model.MessageUpdate) (*model.Message, error)
	Delete(ctx context.Context, id string) error
}

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.MessageRepository
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.MessageRepository) ContactService {
	return &contactServiceImpl{repo: repo}
}

func (s *contactServiceImpl) Submit(ctx context.Context, msg *model.Message) error {
	msg.Sender = strings.TrimSpace(msg.Sender)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Content = strings.TrimSpace(msg.Content)
	if strings.TrimSpace(msg.Subject) == "" {
		msg.Subject = DefaultContactSubject
	}
	if msg.Source == "" {
		msg.Source = model.SourceSite
	}
	msg.Status = model.MessageUnread
	if err := model.Validate(msg); err != nil {
		return err
	}
	return s.repo.Create(ctx, msg)
}

func (s *contactServiceImpl) List(ctx context.Context, q string) ([]*model.Message, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Message, 0, len(all))
	for _, m := range all {
		if model.MatchesQuery(q, m.Sender, m.Email, m.Subject, m.Content) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Update changes the status of a contact message.
func (s *contactServiceImpl) Update(ctx context.Context, id string, upd model.MessageUpdate) (*model.Message, error) {
	if err := model.Validate(upd); err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, id, upd.Status)
}

func (s *contactServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
