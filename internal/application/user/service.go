package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/lantern-hub/lantern/internal/domain/user"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAdminAccount  = errors.New("admin accounts cannot be deleted")
	ErrHasWonRiddles = errors.New("user has won riddles and cannot be deleted")
)

// Service handles user management.
type Service struct {
	repo   domain.Repository
	logger zerolog.Logger
}

// NewService creates a user service.
func NewService(repo domain.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// EnsureAdmin creates the administrator account when it does not exist yet.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	existing, err := s.repo.GetAdminByUsername(ctx, domain.NormalizeUsername(username))
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	u, err := domain.NewAdmin(username, password)
	if err != nil {
		return false, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return false, err
	}
	s.logger.Info().Str("user_id", u.UserID.String()).Str("username", u.Username).Msg("admin account created")
	return true, nil
}

// ListInput selects one page of participants.
type ListInput struct {
	Keyword string
	Limit   int
	Offset  int
}

// ListParticipants returns participants matching the keyword and the total.
func (s *Service) ListParticipants(ctx context.Context, input ListInput) ([]*domain.User, int, error) {
	role := domain.RoleParticipant
	filter := domain.Filter{Role: &role}
	if kw := strings.TrimSpace(input.Keyword); kw != "" {
		filter.Keyword = &kw
	}
	return s.repo.List(ctx, filter, input.Limit, input.Offset)
}

// DeleteParticipant removes a participant with their attempts and sessions.
// Riddle winners are kept so a recorded win never loses its user.
func (s *Service) DeleteParticipant(ctx context.Context, userID uuid.UUID) error {
	deleted, err := s.repo.DeleteParticipant(ctx, userID)
	if err != nil {
		return err
	}
	if deleted {
		s.logger.Info().Str("user_id", userID.String()).Msg("participant deleted")
		return nil
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	switch {
	case u == nil:
		return ErrNotFound
	case u.IsAdmin():
		return ErrAdminAccount
	default:
		return ErrHasWonRiddles
	}
}
