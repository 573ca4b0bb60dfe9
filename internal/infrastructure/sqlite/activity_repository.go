package sqlite

import (
	"context"
	"database/sql"

	"github.com/lantern-hub/lantern/internal/domain/activity"
)

const activityRowID = 1

// ActivityRepository implements activity.Repository.
type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Get(ctx context.Context) (*activity.Window, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, start_time, end_time, updated_at FROM activity WHERE id=?`, activityRowID)
	var w activity.Window
	var start, end, updated int64
	if err := row.Scan(&w.ID, &w.Name, &start, &end, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	w.StartTime = fromNanos(start)
	w.EndTime = fromNanos(end)
	w.UpdatedAt = fromNanos(updated)
	return &w, nil
}

func (r *ActivityRepository) CreateIfAbsent(ctx context.Context, w *activity.Window) (*activity.Window, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO activity (id, name, start_time, end_time, updated_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT (id) DO NOTHING
	`, activityRowID, w.Name, toNanos(w.StartTime), toNanos(w.EndTime), toNanos(w.UpdatedAt)); err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

func (r *ActivityRepository) Save(ctx context.Context, w *activity.Window) (*activity.Window, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO activity (id, name, start_time, end_time, updated_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE
		SET name=excluded.name, start_time=excluded.start_time, end_time=excluded.end_time, updated_at=excluded.updated_at
	`, activityRowID, w.Name, toNanos(w.StartTime), toNanos(w.EndTime), toNanos(w.UpdatedAt)); err != nil {
		return nil, err
	}
	return r.Get(ctx)
}
