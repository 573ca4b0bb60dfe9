package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lantern-hub/lantern/internal/domain/riddle"
)

const riddleColumns = `r.id, r.riddle_id, r.question, r.remark, r.options, r.answer, r.solved, r.winner_id, r.solved_at, r.created_at, r.updated_at`

// RiddleRepository implements riddle.Repository.
type RiddleRepository struct {
	pool *pgxpool.Pool
}

func NewRiddleRepository(pool *pgxpool.Pool) *RiddleRepository {
	return &RiddleRepository{pool: pool}
}

func (r *RiddleRepository) Create(ctx context.Context, rd *riddle.Riddle) error {
	options, err := json.Marshal(rd.Options)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO riddles
		(riddle_id, question, remark, options, answer, solved, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,false,$6,$7)
		RETURNING id
	`, rd.RiddleID, rd.Question, rd.Remark, options, rd.Answer, rd.CreatedAt, rd.UpdatedAt).Scan(&rd.ID)
}

func (r *RiddleRepository) UpdateContent(ctx context.Context, rd *riddle.Riddle) error {
	options, err := json.Marshal(rd.Options)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE riddles
		SET question=$1, remark=$2, options=$3, answer=$4, updated_at=$5
		WHERE riddle_id=$6
	`, rd.Question, rd.Remark, options, rd.Answer, rd.UpdatedAt, rd.RiddleID)
	return err
}

func (r *RiddleRepository) Delete(ctx context.Context, riddleID uuid.UUID) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM riddles WHERE riddle_id=$1`, riddleID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *RiddleRepository) GetByID(ctx context.Context, riddleID uuid.UUID) (*riddle.Riddle, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+riddleColumns+` FROM riddles r WHERE r.riddle_id=$1`, riddleID)
	return scanRiddle(row)
}

func (r *RiddleRepository) GetWithWinner(ctx context.Context, riddleID uuid.UUID) (*riddle.WithWinner, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+riddleColumns+`, u.username, u.avatar
		FROM riddles r LEFT JOIN users u ON u.user_id = r.winner_id
		WHERE r.riddle_id=$1
	`, riddleID)
	return scanRiddleWithWinner(row)
}

func (r *RiddleRepository) List(ctx context.Context, filter riddle.Filter, limit, offset int) ([]*riddle.WithWinner, int, error) {
	var where whereClause
	if filter.Keyword != nil {
		where.add(`(r.question ILIKE ? OR r.answer ILIKE ?)`, likePattern(*filter.Keyword), likePattern(*filter.Keyword))
	}
	if filter.Solved != nil {
		where.add("r.solved=?", *filter.Solved)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM riddles r`+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageSQL, args := where.page(limit, offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+riddleColumns+`, u.username, u.avatar
		FROM riddles r LEFT JOIN users u ON u.user_id = r.winner_id`+
		where.String()+` ORDER BY r.created_at DESC, r.id DESC`+pageSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := []*riddle.WithWinner{}
	for rows.Next() {
		item, err := scanRiddleWithWinner(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *RiddleRepository) ListUnsolved(ctx context.Context, exclude []uuid.UUID, limit, offset int) ([]*riddle.Riddle, error) {
	var where whereClause
	where.add("NOT r.solved")
	if len(exclude) > 0 {
		where.add("NOT (r.riddle_id = ANY(?))", exclude)
	}
	pageSQL, args := where.page(limit, offset)
	rows, err := r.pool.Query(ctx, `SELECT `+riddleColumns+` FROM riddles r`+where.String()+` ORDER BY r.created_at, r.id`+pageSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*riddle.Riddle{}
	for rows.Next() {
		item, err := scanRiddle(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkSolved performs the winning transition as one conditional UPDATE. The
// row lock taken by the first writer makes concurrent writers re-evaluate
// "solved = false" after it commits, so at most one sees a row affected.
func (r *RiddleRepository) MarkSolved(ctx context.Context, riddleID, winnerID uuid.UUID, solvedAt time.Time) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE riddles
		SET solved=true, winner_id=$1, solved_at=$2, updated_at=$2
		WHERE riddle_id=$3 AND solved=false
	`, winnerID, solvedAt, riddleID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func scanRiddleInto(row pgx.Row, rd *riddle.Riddle, extra ...interface{}) error {
	var remark *string
	var options []byte
	var winnerID *uuid.UUID
	var solvedAt *time.Time
	dest := []interface{}{&rd.ID, &rd.RiddleID, &rd.Question, &remark, &options, &rd.Answer, &rd.Solved, &winnerID, &solvedAt, &rd.CreatedAt, &rd.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	rd.Remark = remark
	rd.WinnerID = winnerID
	rd.SolvedAt = solvedAt
	rd.Options = []string{}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &rd.Options); err != nil {
			return err
		}
	}
	return nil
}

func scanRiddle(row pgx.Row) (*riddle.Riddle, error) {
	var rd riddle.Riddle
	if err := scanRiddleInto(row, &rd); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rd, nil
}

func scanRiddleWithWinner(row pgx.Row) (*riddle.WithWinner, error) {
	var rd riddle.WithWinner
	var winnerName, winnerAvatar *string
	if err := scanRiddleInto(row, &rd.Riddle, &winnerName, &winnerAvatar); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rd.WinnerName = winnerName
	rd.WinnerAvatar = winnerAvatar
	return &rd, nil
}
