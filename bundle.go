package parwork

import (
	"database/sql"

	"github.com/petrijr/parwork/internal/taskqueue"
)

// WorkerBundle wires a durable task queue to a LocalRunner whose workers
// consume from it.
//
// For now, we only provide a SQLite-backed bundle.
type WorkerBundle struct {
	Runner *LocalRunner

	// queue is kept unexported; callers submit through Runner.
	queue *taskqueue.SQLiteQueue
}

// NewSQLiteBundle constructs a durable Queue + LocalRunner combo on the
// provided *sql.DB. Tasks submitted but not yet executed survive a process
// restart and are picked up by the next bundle opened on the same database.
//
// Typical usage:
//
//	db, _ := sql.Open("sqlite", "file:parwork.db?_journal=WAL")
//	bundle, err := parwork.NewSQLiteBundle(db, bodies, parwork.WorkerConfig{})
//	_ = bundle.Runner.Start(ctx)
func NewSQLiteBundle(db *sql.DB, bodies []Body, cfg WorkerConfig) (*WorkerBundle, error) {
	q, err := taskqueue.NewSQLiteQueue(db)
	if err != nil {
		return nil, err
	}

	return &WorkerBundle{
		Runner: NewLocalRunner(q, bodies, cfg),
		queue:  q,
	}, nil
}

// Backlog returns the number of tasks stored but not yet taken by a worker.
func (b *WorkerBundle) Backlog() int {
	return b.queue.Len()
}
