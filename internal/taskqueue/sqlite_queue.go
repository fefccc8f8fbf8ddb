package taskqueue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/petrijr/parwork/pkg/api"
)

// SQLiteQueue is a persistent task queue implementation backed by SQLite.
// It is safe for concurrent use for our purposes, using simple FIFO semantics
// based on an auto-incrementing id.
//
// The caller is responsible for importing the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteQueue struct {
	db           *sql.DB
	pollInterval time.Duration
}

// NewSQLiteQueue initializes the tasks table in the given DB and returns a new queue.
func NewSQLiteQueue(db *sql.DB) (*SQLiteQueue, error) {
	q := &SQLiteQueue{
		db:           db,
		pollInterval: 20 * time.Millisecond,
	}
	if err := q.initSchema(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *SQLiteQueue) initSchema() error {
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS parwork_tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			bindings BLOB,
			enqueued_at INTEGER NOT NULL
		);
	`)
	return err
}

// Ensure SQLiteQueue implements Queue.
var _ Queue = (*SQLiteQueue)(nil)

func (q *SQLiteQueue) Enqueue(ctx context.Context, t Task) error {
	bindings, err := encodeBindings(t.Record.Bindings)
	if err != nil {
		return err
	}

	enqueuedAt := t.EnqueuedAt
	if enqueuedAt.IsZero() {
		enqueuedAt = time.Now()
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO parwork_tasks (task_id, kind, bindings, enqueued_at)
		VALUES (?, ?, ?, ?)`,
		t.ID,
		string(t.Record.Kind),
		bindings,
		enqueuedAt.UnixNano(),
	)
	return err
}

func (q *SQLiteQueue) Dequeue(ctx context.Context) (*Task, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tx, err := q.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}

		var (
			id          int64
			taskID      string
			kind        string
			bindings    []byte
			enqueuedInt int64
		)

		row := tx.QueryRowContext(ctx, `
			SELECT id, task_id, kind, bindings, enqueued_at
			FROM parwork_tasks
			ORDER BY id
			LIMIT 1`)
		err = row.Scan(&id, &taskID, &kind, &bindings, &enqueuedInt)
		if err != nil {
			_ = tx.Rollback()
			if errors.Is(err, sql.ErrNoRows) {
				// Nothing available: sleep a bit and retry.
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(q.pollInterval):
					continue
				}
			}
			return nil, err
		}

		// Delete the row we just claimed.
		if _, err := tx.ExecContext(ctx, `DELETE FROM parwork_tasks WHERE id = ?`, id); err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		if err := tx.Commit(); err != nil {
			return nil, err
		}

		decoded, err := decodeBindings(bindings)
		if err != nil {
			return nil, fmt.Errorf("%w: task %s: %v", ErrCorruptTask, taskID, err)
		}

		return &Task{
			ID: taskID,
			Record: api.TaskRecord{
				ID:       taskID,
				Kind:     api.TaskKind(kind),
				Bindings: decoded,
			},
			EnqueuedAt: time.Unix(0, enqueuedInt),
		}, nil
	}
}

func (q *SQLiteQueue) Len() int {
	var n int
	err := q.db.QueryRow(`SELECT COUNT(*) FROM parwork_tasks`).Scan(&n)
	if err != nil {
		return 0
	}
	return n
}
