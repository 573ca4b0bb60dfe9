package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       TEXT    NOT NULL UNIQUE,
    username      TEXT    NOT NULL,
    user_code     TEXT    NOT NULL UNIQUE,
    avatar        TEXT,
    password_hash TEXT    NOT NULL DEFAULT '',
    role          TEXT    NOT NULL,
    status        TEXT    NOT NULL,
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_admin_username_idx ON users (username) WHERE role = 'ADMIN';

CREATE TABLE IF NOT EXISTS sessions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id   TEXT    NOT NULL UNIQUE,
    token_hash   TEXT    NOT NULL UNIQUE,
    user_id      TEXT    NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
    created_at   INTEGER NOT NULL,
    expires_at   INTEGER NOT NULL,
    last_seen_at INTEGER,
    user_agent   TEXT,
    ip_address   TEXT
);
CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);

CREATE TABLE IF NOT EXISTS riddles (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    riddle_id  TEXT    NOT NULL UNIQUE,
    question   TEXT    NOT NULL,
    remark     TEXT,
    options    TEXT    NOT NULL DEFAULT '[]',
    answer     TEXT    NOT NULL,
    solved     INTEGER NOT NULL DEFAULT 0,
    winner_id  TEXT REFERENCES users (user_id),
    solved_at  INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    CHECK ((solved = 1 AND winner_id IS NOT NULL AND solved_at IS NOT NULL)
        OR (solved = 0 AND winner_id IS NULL AND solved_at IS NULL))
);

CREATE TABLE IF NOT EXISTS attempts (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    attempt_id   TEXT    NOT NULL UNIQUE,
    user_id      TEXT    NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
    riddle_id    TEXT    NOT NULL REFERENCES riddles (riddle_id) ON DELETE CASCADE,
    correct      INTEGER NOT NULL,
    attempted_at INTEGER NOT NULL,
    UNIQUE (user_id, riddle_id)
);
CREATE INDEX IF NOT EXISTS attempts_user_time_idx ON attempts (user_id, attempted_at DESC);

CREATE TABLE IF NOT EXISTS activity (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    name       TEXT    NOT NULL,
    start_time INTEGER NOT NULL,
    end_time   INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    CHECK (end_time > start_time)
);
`

// Open opens (creating if needed) the database at path and applies the
// schema. Writes are serialized through a single connection; the winning
// transition and the attempt uniqueness still rely on SQLite's own
// conditional UPDATE and UNIQUE constraint.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return db, nil
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func nullableNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toNanos(*t), Valid: true}
}

func timePtr(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

// whereClause accumulates predicates joined with AND.
type whereClause struct {
	parts []string
	args  []interface{}
}

func (w *whereClause) add(cond string, args ...interface{}) {
	w.parts = append(w.parts, cond)
	w.args = append(w.args, args...)
}

func (w *whereClause) String() string {
	if len(w.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.parts, " AND ")
}

func (w *whereClause) page(limit, offset int) (string, []interface{}) {
	return " LIMIT ? OFFSET ?", append(append([]interface{}{}, w.args...), limit, offset)
}

func likePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(keyword) + "%"
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
