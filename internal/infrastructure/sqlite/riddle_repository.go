package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/lantern-hub/lantern/internal/domain/riddle"
)

const riddleColumns = `r.id, r.riddle_id, r.question, r.remark, r.options, r.answer, r.solved, r.winner_id, r.solved_at, r.created_at, r.updated_at`

// RiddleRepository implements riddle.Repository.
type RiddleRepository struct {
	db *sql.DB
}

func NewRiddleRepository(db *sql.DB) *RiddleRepository {
	return &RiddleRepository{db: db}
}

func (r *RiddleRepository) Create(ctx context.Context, rd *riddle.Riddle) error {
	options, err := json.Marshal(rd.Options)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO riddles
		(riddle_id, question, remark, options, answer, solved, created_at, updated_at)
		VALUES (?,?,?,?,?,0,?,?)
	`, rd.RiddleID, rd.Question, rd.Remark, string(options), rd.Answer, toNanos(rd.CreatedAt), toNanos(rd.UpdatedAt))
	if err != nil {
		return err
	}
	rd.ID, err = res.LastInsertId()
	return err
}

func (r *RiddleRepository) UpdateContent(ctx context.Context, rd *riddle.Riddle) error {
	options, err := json.Marshal(rd.Options)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE riddles SET question=?, remark=?, options=?, answer=?, updated_at=?
		WHERE riddle_id=?
	`, rd.Question, rd.Remark, string(options), rd.Answer, toNanos(rd.UpdatedAt), rd.RiddleID)
	return err
}

func (r *RiddleRepository) Delete(ctx context.Context, riddleID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM riddles WHERE riddle_id=?`, riddleID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *RiddleRepository) GetByID(ctx context.Context, riddleID uuid.UUID) (*riddle.Riddle, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+riddleColumns+` FROM riddles r WHERE r.riddle_id=?`, riddleID)
	return scanRiddle(row)
}

func (r *RiddleRepository) GetWithWinner(ctx context.Context, riddleID uuid.UUID) (*riddle.WithWinner, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+riddleColumns+`, u.username, u.avatar
		FROM riddles r LEFT JOIN users u ON u.user_id = r.winner_id
		WHERE r.riddle_id=?
	`, riddleID)
	return scanRiddleWithWinner(row)
}

func (r *RiddleRepository) List(ctx context.Context, filter riddle.Filter, limit, offset int) ([]*riddle.WithWinner, int, error) {
	var where whereClause
	if filter.Keyword != nil {
		p := likePattern(*filter.Keyword)
		where.add(`(r.question LIKE ? ESCAPE '\' OR r.answer LIKE ? ESCAPE '\')`, p, p)
	}
	if filter.Solved != nil {
		where.add("r.solved=?", *filter.Solved)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM riddles r`+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageSQL, args := where.page(limit, offset)
	rows, err := r.db.QueryContext(ctx, `
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
	where.add("r.solved=0")
	if len(exclude) > 0 {
		args := make([]interface{}, len(exclude))
		for i, id := range exclude {
			args[i] = id
		}
		where.add("r.riddle_id NOT IN ("+placeholders(len(exclude))+")", args...)
	}
	pageSQL, args := where.page(limit, offset)
	rows, err := r.db.QueryContext(ctx, `SELECT `+riddleColumns+` FROM riddles r`+where.String()+` ORDER BY r.created_at, r.id`+pageSQL, args...)
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

// MarkSolved performs the winning transition as one conditional UPDATE; the
// affected row count is the verdict.
func (r *RiddleRepository) MarkSolved(ctx context.Context, riddleID, winnerID uuid.UUID, solvedAt time.Time) (bool, error) {
	at := toNanos(solvedAt)
	res, err := r.db.ExecContext(ctx, `
		UPDATE riddles SET solved=1, winner_id=?, solved_at=?, updated_at=?
		WHERE riddle_id=? AND solved=0
	`, winnerID, at, at, riddleID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanRiddleInto(row rowScanner, rd *riddle.Riddle, extra ...interface{}) error {
	var remark sql.NullString
	var options string
	var winnerID uuid.NullUUID
	var solvedAt sql.NullInt64
	var createdAt, updatedAt int64
	dest := []interface{}{&rd.ID, &rd.RiddleID, &rd.Question, &remark, &options, &rd.Answer, &rd.Solved, &winnerID, &solvedAt, &createdAt, &updatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	if remark.Valid {
		rd.Remark = &remark.String
	}
	if winnerID.Valid {
		id := winnerID.UUID
		rd.WinnerID = &id
	}
	rd.SolvedAt = timePtr(solvedAt)
	rd.CreatedAt = fromNanos(createdAt)
	rd.UpdatedAt = fromNanos(updatedAt)
	rd.Options = []string{}
	if options != "" {
		if err := json.Unmarshal([]byte(options), &rd.Options); err != nil {
			return err
		}
	}
	return nil
}

func scanRiddle(row rowScanner) (*riddle.Riddle, error) {
	var rd riddle.Riddle
	if err := scanRiddleInto(row, &rd); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rd, nil
}

func scanRiddleWithWinner(row rowScanner) (*riddle.WithWinner, error) {
	var rd riddle.WithWinner
	var winnerName, winnerAvatar sql.NullString
	if err := scanRiddleInto(row, &rd.Riddle, &winnerName, &winnerAvatar); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if winnerName.Valid {
		rd.WinnerName = &winnerName.String
	}
	if winnerAvatar.Valid {
		rd.WinnerAvatar = &winnerAvatar.String
	}
	return &rd, nil
}
