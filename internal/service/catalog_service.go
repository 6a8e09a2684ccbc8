package service

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

// CalendarService manages the public calendar entries.
type CalendarService interface {
	List(ctx context.Context, q string) ([]*model.CalendarEntry, error)
	Save(ctx context.Context, c *model.CalendarEntry) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// CalendarServiceImpl は CalendarService の実装
type CalendarServiceImpl struct {
	repo repository.CalendarRepository
}

func NewCalendarService(repo repository.CalendarRepository) CalendarService {
	return &CalendarServiceImpl{repo: repo}
}

func (s *CalendarServiceImpl) List(ctx context.Context, q string) ([]*model.CalendarEntry, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.CalendarEntry, 0, len(all))
	for _, c := range all {
		if model.MatchesQuery(q, c.EventName, c.Month, c.Year) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CalendarServiceImpl) Save(ctx context.Context, c *model.CalendarEntry) error {
	if err := model.Validate(c); err != nil {
		return err
	}
	if c.ID == "" {
		return s.repo.Create(ctx, c)
	}
	return s.repo.Update(ctx, c)
}

func (s *CalendarServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *CalendarServiceImpl) Reorder(ctx context.Context, ids []string) error {
	return reorderIDs(ctx, ids, s.repo.Reorder)
}

// PartnerService manages partners.
type PartnerService interface {
	ListActive(ctx context.Context) ([]*model.Partner, error)
	List(ctx context.Context, q string) ([]*model.Partner, error)
	Save(ctx context.Context, p *model.Partner) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// PartnerServiceImpl は PartnerService の実装
type PartnerServiceImpl struct {
	repo repository.PartnerRepository
}

func NewPartnerService(repo repository.PartnerRepository) PartnerService {
	return &PartnerServiceImpl{repo: repo}
}

func (s *PartnerServiceImpl) ListActive(ctx context.Context) ([]*model.Partner, error) {
	return s.repo.List(ctx, true)
}

func (s *PartnerServiceImpl) List(ctx context.Context, q string) ([]*model.Partner, error) {
	all, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Partner, 0, len(all))
	for _, p := range all {
		if model.MatchesQuery(q, p.Name, p.Category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PartnerServiceImpl) Save(ctx context.Context, p *model.Partner) error {
	if err := model.Validate(p); err != nil {
		return err
	}
	if p.ID == "" {
		return s.repo.Create(ctx, p)
	}
	return s.repo.Update(ctx, p)
}

func (s *PartnerServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *PartnerServiceImpl) Reorder(ctx context.Context, ids []string) error {
	return reorderIDs(ctx, ids, s.repo.Reorder)
}

// FairService manages fairs.
type FairService interface {
	ListPublic(ctx context.Context, heroOnly bool) ([]*model.Fair, error)
	List(ctx context.Context, q string) ([]*model.Fair, error)
	Save(ctx context.Context, f *model.Fair) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// FairServiceImpl は FairService の実装
type FairServiceImpl struct {
	repo repository.FairRepository
}

func NewFairService(repo repository.FairRepository) FairService {
	return &FairServiceImpl{repo: repo}
}

func (s *FairServiceImpl) ListPublic(ctx context.Context, heroOnly bool) ([]*model.Fair, error) {
	return s.repo.List(ctx, heroOnly)
}

func (s *FairServiceImpl) List(ctx context.Context, q string) ([]*model.Fair, error) {
	all, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Fair, 0, len(all))
	for _, f := range all {
		if model.MatchesQuery(q, f.Name, f.FullName) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *FairServiceImpl) Save(ctx context.Context, f *model.Fair) error {
	if err := model.Validate(f); err != nil {
		return err
	}
	if f.ID == "" {
		return s.repo.Create(ctx, f)
	}
	return s.repo.Update(ctx, f)
}

func (s *FairServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *FairServiceImpl) Reorder(ctx context.Context, ids []string) error {
	return reorderIDs(ctx, ids, s.repo.Reorder)
}

// reorderIDs rejects empty and duplicate ids before calling apply.
func reorderIDs(ctx context.Context, ids []string, apply func(context.Context, []string) error) error {
	if len(ids) == 0 {
		return &model.ValidationError{Field: "ids", Rule: "required"}
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			return &model.ValidationError{Field: "ids", Rule: "unique"}
		}
		seen[id] = true
	}
	return apply(ctx, ids)
}
