package service

import (
	"context"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

// EventService は イベントのビジネスロジック
type EventService interface {
	ListPublished(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	GetPublished(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, q string) ([]*model.Event, error)
	Get(ctx context.Context, id string) (*model.Event, error)
	// Save inserts e when it has no ID and updates it otherwise.
	Save(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id string) error
}

// EventServiceImpl は EventService の実装
type EventServiceImpl struct {
	repo repository.EventRepository
}

// NewEventService は EventServiceImpl を生成する
func NewEventService(repo repository.EventRepository) EventService {
	return &EventServiceImpl{repo: repo}
}

func (s *EventServiceImpl) ListPublished(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	return s.repo.ListPublished(ctx, filter)
}

// GetPublished hides drafts behind ErrNotFound.
func (s *EventServiceImpl) GetPublished(ctx context.Context, id string) (*model.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != model.StatusPublished {
		return nil, repository.ErrNotFound
	}
	return e, nil
}

func (s *EventServiceImpl) List(ctx context.Context, q string) ([]*model.Event, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Event, 0, len(all))
	for _, e := range all {
		if model.MatchesQuery(q, e.Title, e.Location, e.Category) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *EventServiceImpl) Get(ctx context.Context, id string) (*model.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventServiceImpl) Save(ctx context.Context, e *model.Event) error {
	if e.Status == "" {
		e.Status = model.StatusDraft
	}
	if err := model.Validate(e); err != nil {
		return err
	}
	if e.ID == "" {
		return s.repo.Create(ctx, e)
	}
	return s.repo.Update(ctx, e)
}

func (s *EventServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// NewsService は ニュース記事のビジネスロジック
type NewsService interface {
	ListPublished(ctx context.Context) ([]*model.NewsArticle, error)
	GetPublished(ctx context.Context, id string) (*model.NewsArticle, error)
	List(ctx context.Context, q string) ([]*model.NewsArticle, error)
	Get(ctx context.Context, id string) (*model.NewsArticle, error)
	Save(ctx context.Context, n *model.NewsArticle) error
	Delete(ctx context.Context, id string) error
}

// NewsServiceImpl は NewsService の実装
type NewsServiceImpl struct {
	repo repository.NewsRepository
}

// NewNewsService は NewsServiceImpl を生成する
func NewNewsService(repo repository.NewsRepository) NewsService {
	return &NewsServiceImpl{repo: repo}
}

func (s *NewsServiceImpl) ListPublished(ctx context.Context) ([]*model.NewsArticle, error) {
	return s.repo.ListPublished(ctx)
}

func (s *NewsServiceImpl) GetPublished(ctx context.Context, id string) (*model.NewsArticle, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != model.StatusPublished {
		return nil, repository.ErrNotFound
	}
	return n, nil
}

func (s *NewsServiceImpl) List(ctx context.Context, q string) ([]*model.NewsArticle, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.NewsArticle, 0, len(all))
	for _, n := range all {
		if model.MatchesQuery(q, n.Title, n.Author, n.Summary) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *NewsServiceImpl) Get(ctx context.Context, id string) (*model.NewsArticle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *NewsServiceImpl) Save(ctx context.Context, n *model.NewsArticle) error {
	if n.Status == "" {
		n.Status = model.StatusDraft
	}
	if err := model.Validate(n); err != nil {
		return err
	}
	if n.ID == "" {
		return s.repo.Create(ctx, n)
	}
	return s.repo.Update(ctx, n)
}

func (s *NewsServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
