package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/lantern-hub/lantern/internal/domain/activity"
)

// Defaults describe the window synthesized when none has been configured.
type Defaults struct {
	Name     string
	Duration time.Duration
}

// Service is the contest window gate and its admin configuration.
type Service struct {
	repo     domain.Repository
	defaults Defaults
	now      func() time.Time
	logger   zerolog.Logger
}

// NewService creates an activity service.
func NewService(repo domain.Repository, defaults Defaults, logger zerolog.Logger) *Service {
	if defaults.Name == "" {
		defaults.Name = "元宵猜灯谜"
	}
	if defaults.Duration <= 0 {
		defaults.Duration = 24 * time.Hour
	}
	return &Service{
		repo:     repo,
		defaults: defaults,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With().Str("service", "activity").Logger(),
	}
}

// Current returns the stored window, persisting a default one starting now
// if none exists. Concurrent callers converge on whichever insert landed first.
func (s *Service) Current(ctx context.Context) (*domain.Window, error) {
	return s.currentAt(ctx, s.now())
}

// currentAt is Current with the default window starting at now.
func (s *Service) currentAt(ctx context.Context, now time.Time) (*domain.Window, error) {
	w, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}
	start := now.UTC()
	def, err := domain.NewWindow(s.defaults.Name, start, start.Add(s.defaults.Duration))
	if err != nil {
		return nil, err
	}
	w, err = s.repo.CreateIfAbsent(ctx, def)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("name", w.Name).
		Time("start_time", w.StartTime).
		Time("end_time", w.EndTime).
		Msg("default activity window created")
	return w, nil
}

// Phase re-reads the window and evaluates it at now.
func (s *Service) Phase(ctx context.Context, now time.Time) (domain.Phase, error) {
	w, err := s.currentAt(ctx, now)
	if err != nil {
		return "", err
	}
	return w.PhaseAt(now), nil
}

// Status is the window together with its phase at the time of the call.
type Status struct {
	Window *domain.Window `json:"activity"`
	Phase  domain.Phase   `json:"phase"`
}

// Status returns the current window and phase.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	w, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &Status{Window: w, Phase: w.PhaseAt(s.now())}, nil
}

// UpdateInput replaces the contest window.
type UpdateInput struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
}

// Update validates and stores a new window.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Window, error) {
	w, err := domain.NewWindow(input.Name, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("save activity: %w", err)
	}
	s.logger.Info().
		Str("name", saved.Name).
		Time("start_time", saved.StartTime).
		Time("end_time", saved.EndTime).
		Msg("activity window updated")
	return saved, nil
}
