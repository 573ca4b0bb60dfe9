package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lantern-hub/lantern/internal/domain/user"
)

const userColumns = `id, user_id, username, user_code, avatar, password_hash, role, status, created_at, updated_at`

// UserRepository implements user.Repository.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users
		(user_id, username, user_code, avatar, password_hash, role, status, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)
	`, u.UserID, u.Username, u.UserCode, u.Avatar, u.PasswordHash, u.Role, u.Status, toNanos(u.CreatedAt), toNanos(u.UpdatedAt))
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=?`, userID)
	return scanUser(row)
}

func (r *UserRepository) GetAdminByUsername(ctx context.Context, username string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username=? AND role=?`, username, user.RoleAdmin)
	return scanUser(row)
}

func (r *UserRepository) DeleteParticipant(ctx context.Context, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM users
		WHERE user_id=? AND role=?
		  AND NOT EXISTS (SELECT 1 FROM riddles WHERE winner_id=users.user_id)
	`, userID, user.RoleParticipant)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *UserRepository) List(ctx context.Context, filter user.Filter, limit, offset int) ([]*user.User, int, error) {
	var where whereClause
	if filter.Role != nil {
		where.add("role=?", *filter.Role)
	}
	if filter.Keyword != nil {
		p := likePattern(*filter.Keyword)
		where.add(`(username LIKE ? ESCAPE '\' OR user_code LIKE ? ESCAPE '\')`, p, p)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where.String(), where.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageSQL, args := where.page(limit, offset)
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`+where.String()+` ORDER BY created_at DESC, id DESC`+pageSQL, args...)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var avatar sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(&u.ID, &u.UserID, &u.Username, &u.UserCode, &avatar, &u.PasswordHash, &u.Role, &u.Status, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if avatar.Valid {
		u.Avatar = &avatar.String
	}
	u.CreatedAt = fromNanos(createdAt)
	u.UpdatedAt = fromNanos(updatedAt)
	return &u, nil
}
