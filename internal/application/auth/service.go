package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog"

	domainSession "github.com/lantern-hub/lantern/internal/domain/session"
	domainUser "github.com/lantern-hub/lantern/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user is disabled")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Service handles authentication.
type Service struct {
	userRepo    domainUser.Repository
	sessionRepo domainSession.Repository
	sessionTTL  time.Duration
	now         func() time.Time
	logger      zerolog.Logger
}

// NewService creates an auth service.
func NewService(userRepo domainUser.Repository, sessionRepo domainSession.Repository, sessionTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger.With().Str("service", "auth").Logger(),
	}
}

// LoginResult contains login response.
type LoginResult struct {
	User    *domainUser.User
	Session *domainSession.Session
	Token   string
}

// SignIn registers a new participant under displayName and opens a session.
// Every call creates a fresh identity.
func (s *Service) SignIn(ctx context.Context, displayName string, avatar *string, userAgent, ipAddress *string) (*LoginResult, error) {
	u, err := domainUser.NewParticipant(displayName, avatar)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	res, err := s.openSession(ctx, u, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.UserID.String()).Str("user_code", u.UserCode).Msg("participant signed in")
	return res, nil
}

// AdminLogin authenticates an administrator and creates a session.
func (s *Service) AdminLogin(ctx context.Context, username, password string, userAgent, ipAddress *string) (*LoginResult, error) {
	username = domainUser.NormalizeUsername(username)
	u, err := s.userRepo.GetAdminByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, ErrUserDisabled
	}
	if !domainUser.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	res, err := s.openSession(ctx, u, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.UserID.String()).Msg("admin login")
	return res, nil
}

func (s *Service) openSession(ctx context.Context, u *domainUser.User, userAgent, ipAddress *string) (*LoginResult, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	sess := domainSession.New(u.UserID, hashToken(token), s.sessionTTL, userAgent, ipAddress)
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Session: sess, Token: token}, nil
}

// Authenticate validates a session token and returns the user. Unknown,
// expired or disabled sessions yield ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*domainUser.User, *domainSession.Session, error) {
	if token == "" {
		return nil, nil, ErrUnauthenticated
	}
	sess, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, ErrUnauthenticated
	}
	if sess.IsExpired(s.now()) {
		_ = s.sessionRepo.DeleteByID(ctx, sess.SessionID)
		return nil, nil, ErrUnauthenticated
	}
	u, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil || !u.IsActive() {
		return nil, nil, ErrUnauthenticated
	}
	_ = s.sessionRepo.UpdateLastSeen(ctx, sess.SessionID)
	return u, sess, nil
}

// Logout deletes a session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.DeleteByTokenHash(ctx, hashToken(token))
}

// SweepExpired removes expired sessions.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int("count", n).Msg("expired sessions removed")
	}
	return n, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
