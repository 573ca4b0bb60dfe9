package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lantern-hub/lantern/internal/domain/session"
)

// lastSeenResolution bounds how often a busy session rewrites last_seen_at.
const lastSeenResolution = time.Minute

const sessionColumns = `id, session_id, token_hash, user_id, created_at, expires_at, last_seen_at, user_agent, ip_address`

// SessionRepository implements session.Repository.
type SessionRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO sessions (session_id, token_hash, user_id, created_at, expires_at, last_seen_at, user_agent, ip_address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, s.SessionID, s.TokenHash, s.UserID, s.CreatedAt, s.ExpiresAt, s.LastSeenAt, s.UserAgent, s.IPAddress).Scan(&s.ID)
}

// GetByTokenHash returns nil when no session carries the hash. Expired rows
// are still returned so the caller can delete them.
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*session.Session, error) {
	var (
		s         session.Session
		lastSeen  *time.Time
		userAgent *string
		ipAddress *string
	)
	err := r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE token_hash=$1`, tokenHash).
		Scan(&s.ID, &s.SessionID, &s.TokenHash, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &lastSeen, &userAgent, &ipAddress)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.LastSeenAt, s.UserAgent, s.IPAddress = lastSeen, userAgent, ipAddress
	return &s, nil
}

func (r *SessionRepository) DeleteByID(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE session_id=$1`, sessionID)
	return err
}

func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash=$1`, tokenHash)
	return err
}

// UpdateLastSeen is a no-op when the session was seen within lastSeenResolution.
func (r *SessionRepository) UpdateLastSeen(ctx context.Context, sessionID uuid.UUID) error {
	now := r.now()
	_, err := r.pool.Exec(ctx, `
		UPDATE sessions SET last_seen_at=$1
		WHERE session_id=$2 AND (last_seen_at IS NULL OR last_seen_at < $3)
	`, now, sessionID, now.Add(-lastSeenResolution))
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
