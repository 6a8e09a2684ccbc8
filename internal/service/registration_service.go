package service

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

// RegistrationService is the admin view of registrations.
type RegistrationService interface {
	List(ctx context.Context, q string) ([]*model.Registration, error)
	SetStatus(ctx context.Context, id, status string) (*model.Registration, error)
}

// RegistrationServiceImpl は RegistrationService の実装
type RegistrationServiceImpl struct {
	repo repository.RegistrationRepository
}

func NewRegistrationService(repo repository.RegistrationRepository) RegistrationService {
	return &RegistrationServiceImpl{repo: repo}
}

func (s *RegistrationServiceImpl) List(ctx context.Context, q string) ([]*model.Registration, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Registration, 0, len(all))
	for _, r := range all {
		if model.MatchesQuery(q, r.UserName, r.Email, r.EventName) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RegistrationServiceImpl) SetStatus(ctx context.Context, id, status string) (*model.Registration, error) {
	switch status {
	case model.RegistrationPending, model.RegistrationConfirmed, model.RegistrationCancelled:
	default:
		return nil, &model.ValidationError{Field: "status", Rule: "oneof"}
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
