package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aesong/academy-api/internal/dto"
	"github.com/aesong/academy-api/internal/models"
	appErrors "github.com/aesong/academy-api/pkg/errors"
)

const holidayDatesCacheKey = "holidays:dates"

type holidayStore interface {
	Create(ctx context.Context, holiday *models.Holiday) error
	List(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error)
	ListDates(ctx context.Context) ([]time.Time, error)
	Delete(ctx context.Context, id string) error
}

// HolidayService manages the closure calendar consumed by the scheduler.
// Dates are cached since every synthesis run reads the full set.
type HolidayService struct {
	repo      holidayStore
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHolidayService constructs the service.
func NewHolidayService(repo holidayStore, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *HolidayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &HolidayService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validator.New(),
		logger:    logger,
	}
}

// Create registers a closure day and invalidates the cached date set.
func (s *HolidayService) Create(ctx context.Context, req dto.CreateHolidayRequest) (*models.Holiday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid holiday date")
	}

	holiday := &models.Holiday{Date: date, Name: req.Name}
	if err := s.repo.Create(ctx, holiday); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create holiday")
	}
	s.invalidate(ctx)
	return holiday, nil
}

// List returns holidays within an optional window.
func (s *HolidayService) List(ctx context.Context, query dto.HolidayListQuery) ([]models.Holiday, error) {
	filter := models.HolidayFilter{}
	if query.From != "" {
		from, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid from date")
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid to date")
		}
		filter.To = &to
	}

	holidays, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list holidays")
	}
	return holidays, nil
}

// Dates returns every closure date, served from cache when possible.
func (s *HolidayService) Dates(ctx context.Context) ([]time.Time, error) {
	var cached []time.Time
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, holidayDatesCacheKey, &cached)
		if err == nil && hit {
			return cached, nil
		}
	}

	dates, err := s.repo.ListDates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holiday dates")
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, holidayDatesCacheKey, dates, s.cacheTTL)
	}
	return dates, nil
}

// Delete removes a closure day and invalidates the cached date set.
func (s *HolidayService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete holiday")
	}
	s.invalidate(ctx)
	return nil
}

func (s *HolidayService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "holidays:*"); err != nil {
		s.logger.Warn("holiday cache invalidation failed", zap.Error(err))
	}
}
