package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

// NewsletterService manages newsletter subscribers.
type NewsletterService interface {
	// Subscribe adds email to the list. A duplicate yields ErrAlreadySubscribed.
	Subscribe(ctx context.Context, name, email, source string) (*model.Subscriber, error)
	List(ctx context.Context, q string) ([]*model.Subscriber, error)
	SetStatus(ctx context.Context, id, status string) (*model.Subscriber, error)
	Delete(ctx context.Context, id string) error
}

// NewsletterServiceImpl は NewsletterService の実装
type NewsletterServiceImpl struct {
	repo repository.SubscriberRepository
}

func NewNewsletterService(repo repository.SubscriberRepository) NewsletterService {
	return &NewsletterServiceImpl{repo: repo}
}

func (s *NewsletterServiceImpl) Subscribe(ctx context.Context, name, email, source string) (*model.Subscriber, error) {
	if source == "" {
		source = model.SourceSite
	}
	sub := &model.Subscriber{
		Name:   strings.TrimSpace(name),
		Email:  strings.ToLower(strings.TrimSpace(email)),
		Status: model.SubscriberActive,
		Source: source,
	}
	if err := model.Validate(sub); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		if repository.IsUniqueViolation(err) {
			slog.Info("newsletter duplicate subscription", "email", sub.Email)
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return sub, nil
}

func (s *NewsletterServiceImpl) List(ctx context.Context, q string) ([]*model.Subscriber, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Subscriber, 0, len(all))
	for _, sub := range all {
		if model.MatchesQuery(q, sub.Email, sub.Name) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *NewsletterServiceImpl) SetStatus(ctx context.Context, id, status string) (*model.Subscriber, error) {
	if status != model.SubscriberActive && status != model.SubscriberUnsubscribed {
		return nil, &model.ValidationError{Field: "status", Rule: "oneof"}
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *NewsletterServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
