package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/catalog/models"
)

const listFlightKey = "experiences"

// Результаты обращения к кешу для метрик
const (
	cacheHit      = "hit"
	cacheMiss     = "miss"
	cacheError    = "error"
	cacheDisabled = "disabled"
)

// Service сервис каталога впечатлений
// Список берется из кеша, при промахе из БД; параллельные промахи
// схлопываются в один запрос к БД
type Service struct {
	repo    ExperienceRepository
	cache   ExperienceCache
	metrics Metrics
	logger  Logger
	group   singleflight.Group
}

// NewService создает новый экземпляр сервиса каталога
// cache может быть nil, тогда каждый запрос идет в БД
func NewService(repo ExperienceRepository, cache ExperienceCache, metrics Metrics, logger Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// ListExperiences возвращает все впечатления, новые первыми
func (s *Service) ListExperiences(ctx context.Context) (*models.ExperienceListResponse, error) {
	v, err, shared := s.group.Do(listFlightKey, func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}

	list := v.([]*domain.Experience)
	if shared {
		s.logger.Info("ListExperiences: shared result of concurrent load, %d items", len(list))
	}

	return models.FromDomainExperienceList(list), nil
}

func (s *Service) load(ctx context.Context) ([]*domain.Experience, error) {
	if s.cache == nil {
		s.observe(cacheDisabled)
		return s.fetch(ctx)
	}

	list, ok, err := s.cache.GetList(ctx)
	switch {
	case err != nil:
		s.observe(cacheError)
		s.logger.Warn("ListExperiences: cache read failed, falling back to db: %v", err)
	case ok:
		s.observe(cacheHit)
		return list, nil
	default:
		s.observe(cacheMiss)
	}

	list, err = s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetList(ctx, list); err != nil {
		s.logger.Warn("ListExperiences: cache write failed: %v", err)
	}

	return list, nil
}

func (s *Service) fetch(ctx context.Context) ([]*domain.Experience, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("ListExperiences: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListExperiences - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListExperiences: loaded %d experiences from db", len(list))
	return list, nil
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveCatalogCache(result)
	}
}
