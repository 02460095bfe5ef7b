package stats

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/antonkh/eventory/internal/pkg/apperrors"
)

type hitStore interface {
	Save(ctx context.Context, hit *EndpointHit) (*EndpointHit, error)
	GetStats(ctx context.Context, query StatsQuery) ([]ViewStats, error)
}

// Service defines the interface for telemetry operations
type Service interface {
	RecordHit(ctx context.Context, req *EndpointHitRequest) (*EndpointHit, error)
	GetStats(ctx context.Context, query StatsQuery) ([]ViewStats, error)
}

// serviceImpl implements Service
type serviceImpl struct {
	hitRepo hitStore
	logger  zerolog.Logger
}

// NewService creates a new telemetry Service
func NewService(hitRepo hitStore, logger zerolog.Logger) Service {
	return &serviceImpl{
		hitRepo: hitRepo,
		logger:  logger,
	}
}

// RecordHit stores one endpoint hit
func (s *serviceImpl) RecordHit(ctx context.Context, req *EndpointHitRequest) (*EndpointHit, error) {
	hit := &EndpointHit{
		App:       req.App,
		URI:       req.URI,
		IP:        req.IP,
		Timestamp: req.Timestamp.Time(),
	}

	saved, err := s.hitRepo.Save(ctx, hit)
	if err != nil {
		s.logger.Error().Err(err).Str("uri", req.URI).Msg("Failed to save endpoint hit")
		return nil, err
	}

	s.logger.Debug().Str("app", saved.App).Str("uri", saved.URI).Msg("Endpoint hit recorded")
	return saved, nil
}

// GetStats answers the aggregation query. A window that ends before it starts
// is rejected.
func (s *serviceImpl) GetStats(ctx context.Context, query StatsQuery) ([]ViewStats, error) {
	if query.End.Before(query.Start) {
		return nil, apperrors.NewBadRequestError("end must not be before start")
	}

	stats, err := s.hitRepo.GetStats(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to aggregate stats")
		return nil, err
	}

	return stats, nil
}
