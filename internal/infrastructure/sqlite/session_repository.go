package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/lantern-hub/lantern/internal/domain/session"
)

// SessionRepository implements session.Repository.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions
		(session_id, token_hash, user_id, created_at, expires_at, last_seen_at, user_agent, ip_address)
		VALUES (?,?,?,?,?,?,?,?)
	`, s.SessionID, s.TokenHash, s.UserID, toNanos(s.CreatedAt), toNanos(s.ExpiresAt), nullableNanos(s.LastSeenAt), s.UserAgent, s.IPAddress)
	if err != nil {
		return err
	}
	s.ID, err = res.LastInsertId()
	return err
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*session.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, token_hash, user_id, created_at, expires_at, last_seen_at, user_agent, ip_address
		FROM sessions WHERE token_hash=?
	`, tokenHash)
	var s session.Session
	var createdAt, expiresAt int64
	var lastSeen sql.NullInt64
	var userAgent, ipAddress sql.NullString
	if err := row.Scan(&s.ID, &s.SessionID, &s.TokenHash, &s.UserID, &createdAt, &expiresAt, &lastSeen, &userAgent, &ipAddress); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	s.CreatedAt = fromNanos(createdAt)
	s.ExpiresAt = fromNanos(expiresAt)
	s.LastSeenAt = timePtr(lastSeen)
	if userAgent.Valid {
		s.UserAgent = &userAgent.String
	}
	if ipAddress.Valid {
		s.IPAddress = &ipAddress.String
	}
	return &s, nil
}

func (r *SessionRepository) DeleteByID(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id=?`, sessionID)
	return err
}

func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash=?`, tokenHash)
	return err
}

// UpdateLastSeen skips sessions seen within the last minute.
func (r *SessionRepository) UpdateLastSeen(ctx context.Context, sessionID uuid.UUID) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET last_seen_at=?
		WHERE session_id=? AND (last_seen_at IS NULL OR last_seen_at < ?)
	`, toNanos(now), sessionID, toNanos(now.Add(-time.Minute)))
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, toNanos(time.Now()))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
