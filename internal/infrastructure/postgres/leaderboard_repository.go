package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lantern-hub/lantern/internal/domain/leaderboard"
)

const leaderboardSelect = `
	SELECT r.riddle_id, r.question, r.answer, r.winner_id, u.username, u.avatar, r.solved_at
	FROM riddles r JOIN users u ON u.user_id = r.winner_id`

// LeaderboardRepository implements leaderboard.Repository.
type LeaderboardRepository struct {
	pool *pgxpool.Pool
}

func NewLeaderboardRepository(pool *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{pool: pool}
}

func leaderboardWhere(filter leaderboard.Filter) *whereClause {
	where := &whereClause{}
	where.add("r.solved")
	if filter.Keyword != nil {
		p := likePattern(*filter.Keyword)
		where.add(`(u.username ILIKE ? OR r.question ILIKE ? OR r.answer ILIKE ?)`, p, p, p)
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
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM riddles r JOIN users u ON u.user_id = r.winner_id`+where.String(), where.args...).Scan(&total); err != nil {
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
	rows, err := r.pool.Query(ctx, `
		SELECT u.user_id, u.username, u.avatar, COUNT(*) AS wins, MAX(r.solved_at) AS last_solved_at
		FROM riddles r JOIN users u ON u.user_id = r.winner_id
		WHERE r.solved
		GROUP BY u.user_id, u.username, u.avatar
		ORDER BY wins DESC, last_solved_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	standings := []*leaderboard.Standing{}
	for rows.Next() {
		var s leaderboard.Standing
		if err := rows.Scan(&s.UserID, &s.Username, &s.Avatar, &s.Wins, &s.LastSolvedAt); err != nil {
			return nil, err
		}
		standings = append(standings, &s)
	}
	return standings, rows.Err()
}

func (r *LeaderboardRepository) query(ctx context.Context, sql string, args ...interface{}) ([]*leaderboard.Entry, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := []*leaderboard.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*leaderboard.Entry, error) {
	var e leaderboard.Entry
	if err := row.Scan(&e.RiddleID, &e.Question, &e.Answer, &e.WinnerID, &e.WinnerName, &e.WinnerAvatar, &e.SolvedAt); err != nil {
		return nil, err
	}
	e.SolvedAt = e.SolvedAt.UTC()
	return &e, nil
}
