package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lantern-hub/lantern/internal/domain/user"
)

const userColumns = `id, user_id, username, user_code, avatar, password_hash, role, status, created_at, updated_at`

// UserRepository implements user.Repository.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO users
		(user_id, username, user_code, avatar, password_hash, role, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, u.UserID, u.Username, u.UserCode, u.Avatar, u.PasswordHash, u.Role, u.Status, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1`, userID)
	return scanUser(row)
}

func (r *UserRepository) GetAdminByUsername(ctx context.Context, username string) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1 AND role=$2`, username, user.RoleAdmin)
	return scanUser(row)
}

func (r *UserRepository) DeleteParticipant(ctx context.Context, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM users u
		WHERE u.user_id=$1 AND u.role=$2
		  AND NOT EXISTS (SELECT 1 FROM riddles r WHERE r.winner_id=u.user_id)
	`, userID, user.RoleParticipant)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) List(ctx context.Context, filter user.Filter, limit, offset int) ([]*user.User, int, error) {
	var where whereClause
	if filter.Role != nil {
		where.add("role=?", *filter.Role)
	}
	if filter.Keyword != nil {
		where.add(`(username ILIKE ? OR user_code ILIKE ?)`, likePattern(*filter.Keyword), likePattern(*filter.Keyword))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageSQL, args := where.page(limit, offset)
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users`+where.String()+` ORDER BY created_at DESC, id DESC`+pageSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	users := []*user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var avatar *string
	if err := row.Scan(&u.ID, &u.UserID, &u.Username, &u.UserCode, &avatar, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.Avatar = avatar
	return &u, nil
}
