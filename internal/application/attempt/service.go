package attempt

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/lantern-hub/lantern/internal/domain/attempt"
)

// Service answers attempt history queries.
type Service struct {
	repo   domain.Repository
	logger zerolog.Logger
}

// NewService creates an attempt history service.
func NewService(repo domain.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "attempt").Logger(),
	}
}

// ListForUser returns the user's attempts, most recent first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Record, error) {
	records, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*domain.Record{}
	}
	return records, nil
}
