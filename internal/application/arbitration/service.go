package arbitration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainActivity "github.com/lantern-hub/lantern/internal/domain/activity"
	domainAttempt "github.com/lantern-hub/lantern/internal/domain/attempt"
	"github.com/lantern-hub/lantern/internal/domain/notification"
	domainRiddle "github.com/lantern-hub/lantern/internal/domain/riddle"
	domainUser "github.com/lantern-hub/lantern/internal/domain/user"
)

// Outcome is the expected, non-fault result of a submission.
type Outcome string

const (
	OutcomeWin              Outcome = "WIN"
	OutcomeWrongAnswer      Outcome = "WRONG_ANSWER"
	OutcomeAlreadyAttempted Outcome = "ALREADY_ATTEMPTED"
	OutcomeLostRace         Outcome = "LOST_RACE"
	OutcomeContestNotActive Outcome = "CONTEST_NOT_ACTIVE"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrRiddleNotFound = errors.New("riddle not found")
	ErrUserNotFound   = errors.New("user not found")
)

// StorageError marks a failed read or write against the durable store.
// Submissions that fail this way are safe to retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageFailure reports whether err carries a StorageError.
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// Gate reports the contest phase for a given instant. Implementations must
// read the window from the store on every call.
type Gate interface {
	Phase(ctx context.Context, now time.Time) (domainActivity.Phase, error)
}

// Broadcaster delivers a confirmed win to connected observers.
type Broadcaster interface {
	RiddleSolved(ctx context.Context, ev notification.RiddleSolved) error
}

// SubmitInput is a single answer submission.
type SubmitInput struct {
	UserID   uuid.UUID
	RiddleID uuid.UUID
	Answer   string
}

// Result is returned for every expected outcome.
type Result struct {
	Outcome     Outcome   `json:"outcome"`
	RiddleID    uuid.UUID `json:"riddleId"`
	Correct     bool      `json:"correct"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// Service arbitrates concurrent submissions. It keeps no state of its own;
// the attempt ledger's uniqueness constraint and the riddle store's
// conditional update decide every race.
type Service struct {
	gate        Gate
	riddleRepo  domainRiddle.Repository
	attemptRepo domainAttempt.Repository
	userRepo    domainUser.Repository
	broadcaster Broadcaster
	now         func() time.Time
	logger      zerolog.Logger
}

// NewService creates an arbitration service.
func NewService(
	gate Gate,
	riddleRepo domainRiddle.Repository,
	attemptRepo domainAttempt.Repository,
	userRepo domainUser.Repository,
	broadcaster Broadcaster,
	logger zerolog.Logger,
) *Service {
	return &Service{
		gate:        gate,
		riddleRepo:  riddleRepo,
		attemptRepo: attemptRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger.With().Str("service", "arbitration").Logger(),
	}
}

// Submit runs one submission through the gate, the ledger and the winning
// transition. Expected outcomes come back in Result; errors are either input
// errors or a *StorageError.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*Result, error) {
	if input.UserID == uuid.Nil || input.RiddleID == uuid.Nil {
		return nil, fmt.Errorf("%w: user and riddle are required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Answer) == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	now := s.now()
	log := s.logger.With().
		Str("user_id", input.UserID.String()).
		Str("riddle_id", input.RiddleID.String()).
		Logger()

	phase, err := s.gate.Phase(ctx, now)
	if err != nil {
		return nil, s.storageFailure(log, "activity gate", err)
	}
	if phase != domainActivity.PhaseActive {
		log.Debug().Str("phase", string(phase)).Msg("submission outside contest window")
		return &Result{Outcome: OutcomeContestNotActive, RiddleID: input.RiddleID, AttemptedAt: now}, nil
	}

	r, err := s.riddleRepo.GetByID(ctx, input.RiddleID)
	if err != nil {
		return nil, s.storageFailure(log, "load riddle", err)
	}
	if r == nil {
		return nil, ErrRiddleNotFound
	}
	u, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, s.storageFailure(log, "load user", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	correct := r.Matches(input.Answer)
	a := domainAttempt.New(input.UserID, input.RiddleID, correct, now)
	recorded, err := s.attemptRepo.Record(ctx, a)
	if err != nil {
		return nil, s.storageFailure(log, "record attempt", err)
	}
	result := &Result{RiddleID: input.RiddleID, Correct: correct, AttemptedAt: a.AttemptedAt}
	if recorded == domainAttempt.RecordDuplicate {
		return s.resume(ctx, log, r, u, result)
	}
	if !correct {
		log.Debug().Msg("wrong answer")
		result.Outcome = OutcomeWrongAnswer
		return result, nil
	}
	return s.decide(ctx, log, r, u, result, false)
}

// resume handles a submission whose (user, riddle) slot is already taken.
// A stored correct attempt whose winning update never landed, because the
// earlier call failed or died after the insert, is decided now; anything
// else is reported as ALREADY_ATTEMPTED.
func (s *Service) resume(ctx context.Context, log zerolog.Logger, r *domainRiddle.Riddle, u *domainUser.User, result *Result) (*Result, error) {
	result.Outcome = OutcomeAlreadyAttempted
	result.Correct = false
	if r.Solved {
		log.Debug().Msg("duplicate attempt")
		return result, nil
	}
	prior, err := s.attemptRepo.Get(ctx, u.UserID, r.RiddleID)
	if err != nil {
		return nil, s.storageFailure(log, "load attempt", err)
	}
	if prior == nil || !prior.Correct {
		log.Debug().Msg("duplicate attempt")
		return result, nil
	}
	log.Info().Msg("resuming undecided correct attempt")
	result.Correct = true
	result.AttemptedAt = prior.AttemptedAt
	return s.decide(ctx, log, r, u, result, true)
}

// decide runs the conditional winning update for a recorded correct attempt.
// When the update affects no row the riddle is re-read: if the winner is
// already this user, a concurrent call for the same attempt won it.
func (s *Service) decide(ctx context.Context, log zerolog.Logger, r *domainRiddle.Riddle, u *domainUser.User, result *Result, resumed bool) (*Result, error) {
	won, err := s.riddleRepo.MarkSolved(ctx, r.RiddleID, u.UserID, result.AttemptedAt)
	if err != nil {
		return nil, s.storageFailure(log, "mark solved", err)
	}
	if won {
		log.Info().Msg("riddle solved")
		result.Outcome = OutcomeWin
		s.announce(ctx, log, r, u, result.AttemptedAt)
		return result, nil
	}

	current, err := s.riddleRepo.GetByID(ctx, r.RiddleID)
	if err != nil {
		return nil, s.storageFailure(log, "reload riddle", err)
	}
	if current != nil && current.WinnerID != nil && *current.WinnerID == u.UserID {
		if resumed {
			result.Outcome = OutcomeAlreadyAttempted
			result.Correct = false
		} else {
			result.Outcome = OutcomeWin
		}
		return result, nil
	}
	log.Info().Msg("correct answer lost race")
	result.Outcome = OutcomeLostRace
	return result, nil
}

func (s *Service) announce(ctx context.Context, log zerolog.Logger, r *domainRiddle.Riddle, u *domainUser.User, at time.Time) {
	if s.broadcaster == nil {
		return
	}
	ev := notification.RiddleSolved{
		RiddleID:     r.RiddleID,
		WinnerID:     u.UserID,
		WinnerName:   u.Username,
		WinnerAvatar: u.AvatarRef(),
		SolvedAt:     at,
	}
	if err := s.broadcaster.RiddleSolved(ctx, ev); err != nil {
		log.Warn().Err(err).Msg("failed to broadcast riddle solved")
	}
}

func (s *Service) storageFailure(log zerolog.Logger, op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("storage failure")
	return &StorageError{Op: op, Err: err}
}
