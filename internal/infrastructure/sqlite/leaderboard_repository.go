package sqlite

import (
	"context"
	"database/sql"

	"github.com/lantern-hub/lantern/internal/domain/leaderboard"
)

const (
	leaderboardFrom   = ` FROM riddles r JOIN users u ON u.user_id = r.winner_id`
	leaderboardSelect = `SELECT r.riddle_id, r.question, r.answer, r.winner_id, u.username, u.avatar, r.solved_at` + leaderboardFrom
)

// LeaderboardRepository implements leaderboard.Repository.
type LeaderboardRepository struct {
	db *sql.DB
}

func NewLeaderboardRepository(db *sql.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func leaderboardWhere(filter leaderboard.Filter) *whereClause {
	where := &whereClause{}
	where.add("r.solved=1")
	if filter.Keyword != nil {
		p := likePattern(*filter.Keyword)
		where.add(`(u.username LIKE ? ESCAPE '\' OR r.question LIKE ? ESCAPE '\' OR r.answer LIKE ? ESCAPE '\')`, p, p, p)
	}
	return where
}

func leaderboardOrder(filter leaderboard.Filter) string {
	if filter.Order == leaderboard.OrderDesc {
		return ` ORDER BY r.solved_at DESC, r.id DESC`
	}
	return ` ORDER BY r.solved_at ASC, r.id ASC`
}

func (r *LeaderboardRepository) List(ctx context.Context, filter leaderboard.Filter, limit, offset int) ([]*leaderboard.Entry, int, error) {
	where := leaderboardWhere(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+leaderboardFrom+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	pageSQL, args := where.page(limit, offset)
	entries, err := r.query(ctx, leaderboardSelect+where.String()+leaderboardOrder(filter)+pageSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *LeaderboardRepository) ListAll(ctx context.Context, filter leaderboard.Filter) ([]*leaderboard.Entry, error) {
	where := leaderboardWhere(filter)
	return r.query(ctx, leaderboardSelect+where.String()+leaderboardOrder(filter), where.args...)
}

func (r *LeaderboardRepository) Standings(ctx context.Context, limit int) ([]*leaderboard.Standing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.user_id, u.username, u.avatar, COUNT(*) AS wins, MAX(r.solved_at) AS last_solved_at
		FROM riddles r JOIN users u ON u.user_id = r.winner_id
		WHERE r.solved=1
		GROUP BY u.user_id, u.username, u.avatar
		ORDER BY wins DESC, last_solved_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	standings := []*leaderboard.Standing{}
	for rows.Next() {
		var s leaderboard.Standing
		var avatar sql.NullString
		var last int64
		if err := rows.Scan(&s.UserID, &s.Username, &avatar, &s.Wins, &last); err != nil {
			return nil, err
		}
		if avatar.Valid {
			s.Avatar = &avatar.String
		}
		s.LastSolvedAt = fromNanos(last)
		standings = append(standings, &s)
	}
	return standings, rows.Err()
}

func (r *LeaderboardRepository) query(ctx context.Context, query string, args ...interface{}) ([]*leaderboard.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := []*leaderboard.Entry{}
	for rows.Next() {
		var e leaderboard.Entry
		var avatar sql.NullString
		var solvedAt int64
		if err := rows.Scan(&e.RiddleID, &e.Question, &e.Answer, &e.WinnerID, &e.WinnerName, &avatar, &solvedAt); err != nil {
			return nil, err
		}
		if avatar.Valid {
			e.WinnerAvatar = &avatar.String
		}
		e.SolvedAt = fromNanos(solvedAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
