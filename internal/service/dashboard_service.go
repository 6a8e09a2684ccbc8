package service

import (
	"context"
	"strings"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

const minSearchTerm = 2

// SearchService runs the public site search.
type SearchService interface {
	Search(ctx context.Context, term string) (*model.SearchResult, error)
}

type searchServiceImpl struct {
	repo repository.SearchRepository
}

func NewSearchService(repo repository.SearchRepository) SearchService {
	return &searchServiceImpl{repo: repo}
}

// Search returns empty groups for terms shorter than two characters.
func (s *searchServiceImpl) Search(ctx context.Context, term string) (*model.SearchResult, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < minSearchTerm {
		return &model.SearchResult{Events: []model.SearchHit{}, News: []model.SearchHit{}}, nil
	}
	return s.repo.Search(ctx, term)
}

// StatsService serves the admin dashboard counters.
type StatsService interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

type statsServiceImpl struct {
	repo repository.StatsRepository
}

func NewStatsService(repo repository.StatsRepository) StatsService {
	return &statsServiceImpl{repo: repo}
}

func (s *statsServiceImpl) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	return s.repo.Dashboard(ctx)
}
