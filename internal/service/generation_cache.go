package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizmaster/internal/cache"
	"quizmaster/internal/domain"
	"quizmaster/internal/dto"
	"quizmaster/internal/logger"

	"go.uber.org/zap"
)

// ErrGenerationListNotCached is returned by Get on a cache miss.
var ErrGenerationListNotCached = errors.New("generation list not found in cache")

// GenerationListCache caches each owner's generation list as JSON.
type GenerationListCache interface {
	Get(ctx context.Context, ownerID string) ([]dto.GenerationSummary, error)
	Put(ctx context.Context, ownerID string, list []dto.GenerationSummary) error
	Invalidate(ctx context.Context, ownerID string) error
}

type generationListCacheImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewGenerationListCache returns a no-op cache when c is nil, so the service
// works without Redis.
func NewGenerationListCache(c domain.Cache, ttl time.Duration) GenerationListCache {
	if c == nil {
		logger.Get().Warn("GenerationListCache initialized with nil cache. Lists will always be read from the database.")
		return noopGenerationListCache{}
	}
	return &generationListCacheImpl{cache: c, ttl: ttl}
}

func (s *generationListCacheImpl) Get(ctx context.Context, ownerID string) ([]dto.GenerationSummary, error) {
	key := cache.GenerationListKey(ownerID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrGenerationListNotCached
		}
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get generation list from cache for key %s", key), err)
	}
	if data == "" {
		return nil, ErrGenerationListNotCached
	}

	var list []dto.GenerationSummary
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal generation list for key %s", key), err)
	}
	logger.Get().Debug("Generation list cache hit", zap.String("key", key), zap.Int("count", len(list)))
	return list, nil
}

func (s *generationListCacheImpl) Put(ctx context.Context, ownerID string, list []dto.GenerationSummary) error {
	if list == nil {
		list = []dto.GenerationSummary{}
	}
	key := cache.GenerationListKey(ownerID)
	data, err := json.Marshal(list)
	if err != nil {
		return domain.NewInternalError("failed to marshal generation list for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to set generation list to cache for key %s", key), err)
	}
	return nil
}

func (s *generationListCacheImpl) Invalidate(ctx context.Context, ownerID string) error {
	key := cache.GenerationListKey(ownerID)
	if err := s.cache.Delete(ctx, key); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to invalidate generation list for key %s", key), err)
	}
	return nil
}

type noopGenerationListCache struct{}

func (noopGenerationListCache) Get(context.Context, string) ([]dto.GenerationSummary, error) {
	return nil, ErrGenerationListNotCached
}

func (noopGenerationListCache) Put(context.Context, string, []dto.GenerationSummary) error {
	return nil
}

func (noopGenerationListCache) Invalidate(context.Context, string) error {
	return nil
}
