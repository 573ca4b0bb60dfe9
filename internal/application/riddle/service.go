package riddle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/lantern-hub/lantern/internal/domain/riddle"
)

var ErrNotFound = errors.New("riddle not found")

// Service handles riddle authoring and the participant feed.
type Service struct {
	repo   domain.Repository
	logger zerolog.Logger
}

// NewService creates a riddle service.
func NewService(repo domain.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "riddle").Logger(),
	}
}

// Input is the editable content of a riddle.
type Input struct {
	Question string
	Answer   string
	Options  []string
	Remark   *string
}

func (s *Service) Create(ctx context.Context, input Input) (*domain.Riddle, error) {
	r, err := domain.New(input.Question, input.Answer, input.Options, trimRemark(input.Remark))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info().Str("riddle_id", r.RiddleID.String()).Msg("riddle created")
	return r, nil
}

// Update rewrites the content of a riddle. Solved state is never touched.
func (s *Service) Update(ctx context.Context, riddleID uuid.UUID, input Input) (*domain.Riddle, error) {
	r, err := s.repo.GetByID(ctx, riddleID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	updated, err := domain.New(input.Question, input.Answer, input.Options, trimRemark(input.Remark))
	if err != nil {
		return nil, err
	}
	r.Question = updated.Question
	r.Answer = updated.Answer
	r.Options = updated.Options
	r.Remark = updated.Remark
	r.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateContent(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info().Str("riddle_id", r.RiddleID.String()).Msg("riddle updated")
	return r, nil
}

func (s *Service) Delete(ctx context.Context, riddleID uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, riddleID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.logger.Info().Str("riddle_id", riddleID.String()).Msg("riddle deleted")
	return nil
}

// Get returns a riddle with its winner, if any.
func (s *Service) Get(ctx context.Context, riddleID uuid.UUID) (*domain.WithWinner, error) {
	r, err := s.repo.GetWithWinner(ctx, riddleID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

// ListInput selects one page of the admin listing.
type ListInput struct {
	Keyword string
	Solved  *bool
	Limit   int
	Offset  int
}

func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.WithWinner, int, error) {
	filter := domain.Filter{Solved: input.Solved}
	if kw := strings.TrimSpace(input.Keyword); kw != "" {
		filter.Keyword = &kw
	}
	return s.repo.List(ctx, filter, input.Limit, input.Offset)
}

// Feed returns unsolved riddles, skipping the ones the client already holds.
func (s *Service) Feed(ctx context.Context, exclude []uuid.UUID, limit, offset int) ([]*domain.Riddle, error) {
	items, err := s.repo.ListUnsolved(ctx, exclude, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list unsolved: %w", err)
	}
	if items == nil {
		items = []*domain.Riddle{}
	}
	return items, nil
}

func trimRemark(remark *string) *string {
	if remark == nil {
		return nil
	}
	v := strings.TrimSpace(*remark)
	if v == "" {
		return nil
	}
	return &v
}
