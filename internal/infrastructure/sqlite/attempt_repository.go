package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lantern-hub/lantern/internal/domain/attempt"
)

// AttemptRepository implements attempt.Repository.
type AttemptRepository struct {
	db *sql.DB
}

func NewAttemptRepository(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Record inserts the attempt; the UNIQUE (user_id, riddle_id) constraint
// leaves a repeated pair with zero affected rows.
func (r *AttemptRepository) Record(ctx context.Context, a *attempt.Attempt) (attempt.RecordResult, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO attempts (attempt_id, user_id, riddle_id, correct, attempted_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT (user_id, riddle_id) DO NOTHING
	`, a.AttemptID, a.UserID, a.RiddleID, a.Correct, toNanos(a.AttemptedAt))
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return attempt.RecordDuplicate, nil
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return "", err
	}
	return attempt.RecordAccepted, nil
}

func (r *AttemptRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*attempt.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.attempt_id, a.user_id, a.riddle_id, a.correct, a.attempted_at,
		       rd.question, rd.answer, COALESCE(rd.winner_id = a.user_id, 0)
		FROM attempts a
		JOIN riddles rd ON rd.riddle_id = a.riddle_id
		WHERE a.user_id=?
		ORDER BY a.attempted_at DESC, a.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := []*attempt.Record{}
	for rows.Next() {
		var rec attempt.Record
		var attemptedAt int64
		if err := rows.Scan(&rec.ID, &rec.AttemptID, &rec.UserID, &rec.RiddleID, &rec.Correct, &attemptedAt,
			&rec.RiddleQuestion, &rec.RiddleAnswer, &rec.Won); err != nil {
			return nil, err
		}
		rec.AttemptedAt = fromNanos(attemptedAt)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *AttemptRepository) Get(ctx context.Context, userID, riddleID uuid.UUID) (*attempt.Attempt, error) {
	var a attempt.Attempt
	var attemptedAt int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, attempt_id, user_id, riddle_id, correct, attempted_at
		FROM attempts WHERE user_id=? AND riddle_id=?
	`, userID, riddleID).Scan(&a.ID, &a.AttemptID, &a.UserID, &a.RiddleID, &a.Correct, &attemptedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.AttemptedAt = fromNanos(attemptedAt)
	return &a, nil
}
