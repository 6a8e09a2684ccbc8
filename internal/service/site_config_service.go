package service

import (
	"context"
	"encoding/json"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
)

var knownConfigKeys = map[string]bool{
	model.ConfigContactInfo:  true,
	model.ConfigAboutInfo:    true,
	model.ConfigCalendarFile: true,
}

// SiteConfigService reads and replaces site configuration documents.
type SiteConfigService interface {
	// Get returns nil, nil when nothing is stored under key.
	Get(ctx context.Context, key string) (*model.SiteConfig, error)
	Put(ctx context.Context, key string, value json.RawMessage) (*model.SiteConfig, error)
}

// SiteConfigServiceImpl は SiteConfigService の実装
type SiteConfigServiceImpl struct {
	repo repository.SiteConfigRepository
}

func NewSiteConfigService(repo repository.SiteConfigRepository) SiteConfigService {
	return &SiteConfigServiceImpl{repo: repo}
}

func (s *SiteConfigServiceImpl) Get(ctx context.Context, key string) (*model.SiteConfig, error) {
	if !knownConfigKeys[key] {
		return nil, ErrUnknownConfigKey
	}
	return s.repo.Get(ctx, key)
}

// Put replaces the whole document; values are never merged.
func (s *SiteConfigServiceImpl) Put(ctx context.Context, key string, value json.RawMessage) (*model.SiteConfig, error) {
	if !knownConfigKeys[key] {
		return nil, ErrUnknownConfigKey
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, &model.ValidationError{Field: "value", Rule: "json"}
	}
	return s.repo.Upsert(ctx, key, value)
}
