package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lantern-hub/lantern/internal/domain/attempt"
)

// AttemptRepository implements attempt.Repository.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Record inserts the attempt. The (user_id, riddle_id) unique constraint
// turns a concurrent or repeated insert into zero affected rows.
func (r *AttemptRepository) Record(ctx context.Context, a *attempt.Attempt) (attempt.RecordResult, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO attempts (attempt_id, user_id, riddle_id, correct, attempted_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id, riddle_id) DO NOTHING
		RETURNING id
	`, a.AttemptID, a.UserID, a.RiddleID, a.Correct, a.AttemptedAt).Scan(&a.ID)
	if err == pgx.ErrNoRows {
		return attempt.RecordDuplicate, nil
	}
	if err != nil {
		return "", err
	}
	return attempt.RecordAccepted, nil
}

func (r *AttemptRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*attempt.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.attempt_id, a.user_id, a.riddle_id, a.correct, a.attempted_at,
		       rd.question, rd.answer, COALESCE(rd.winner_id = a.user_id, false)
		FROM attempts a
		JOIN riddles rd ON rd.riddle_id = a.riddle_id
		WHERE a.user_id=$1
		ORDER BY a.attempted_at DESC, a.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := []*attempt.Record{}
	for rows.Next() {
		var rec attempt.Record
		if err := rows.Scan(&rec.ID, &rec.AttemptID, &rec.UserID, &rec.RiddleID, &rec.Correct, &rec.AttemptedAt,
			&rec.RiddleQuestion, &rec.RiddleAnswer, &rec.Won); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *AttemptRepository) Get(ctx context.Context, userID, riddleID uuid.UUID) (*attempt.Attempt, error) {
	var a attempt.Attempt
	err := r.pool.QueryRow(ctx, `
		SELECT id, attempt_id, user_id, riddle_id, correct, attempted_at
		FROM attempts WHERE user_id=$1 AND riddle_id=$2
	`, userID, riddleID).Scan(&a.ID, &a.AttemptID, &a.UserID, &a.RiddleID, &a.Correct, &a.AttemptedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
