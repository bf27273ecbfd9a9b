package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kgabrunepark/suspension-api/internal/models"
	appErrors "github.com/kgabrunepark/suspension-api/pkg/errors"
)

type summaryRepository interface {
	CountByStatus(ctx context.Context) (*models.StatusSummary, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardService serves the status summary behind the dashboard's tab
// badges, cached in Redis because every dashboard visit asks for it.
type DashboardService struct {
	repo   summaryRepository
	cache  summaryCache
	logger *zap.Logger
	ttl    time.Duration
}

// NewDashboardService constructs the service. cache may be nil.
func NewDashboardService(repo summaryRepository, cache summaryCache, logger *zap.Logger, ttl time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger, ttl: ttl}
}

// Summary returns per-status record counts, from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*models.StatusSummary, error) {
	if s.cache != nil {
		var cached models.StatusSummary
		err := s.cache.Get(ctx, summaryCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("summary cache read failed", zap.Error(err))
		}
	}

	summary, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count suspensions")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summaryCacheKey, summary, s.ttl); err != nil {
			s.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}

	return summary, nil
}
