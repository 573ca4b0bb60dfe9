package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lantern-hub/lantern/internal/domain/activity"
)

// activityRowID pins the single activity row.
const activityRowID = 1

// ActivityRepository implements activity.Repository.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Get(ctx context.Context) (*activity.Window, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, start_time, end_time, updated_at FROM activity WHERE id=$1`, activityRowID)
	return scanWindow(row)
}

func (r *ActivityRepository) CreateIfAbsent(ctx context.Context, w *activity.Window) (*activity.Window, error) {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO activity (id, name, start_time, end_time, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO NOTHING
	`, activityRowID, w.Name, w.StartTime, w.EndTime, w.UpdatedAt); err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

func (r *ActivityRepository) Save(ctx context.Context, w *activity.Window) (*activity.Window, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activity (id, name, start_time, end_time, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE
		SET name=EXCLUDED.name, start_time=EXCLUDED.start_time, end_time=EXCLUDED.end_time, updated_at=EXCLUDED.updated_at
		RETURNING id, name, start_time, end_time, updated_at
	`, activityRowID, w.Name, w.StartTime, w.EndTime, w.UpdatedAt)
	return scanWindow(row)
}

func scanWindow(row pgx.Row) (*activity.Window, error) {
	var w activity.Window
	if err := row.Scan(&w.ID, &w.Name, &w.StartTime, &w.EndTime, &w.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	w.StartTime = w.StartTime.UTC()
	w.EndTime = w.EndTime.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return &w, nil
}
