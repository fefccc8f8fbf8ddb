package remote

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/petrijr/parwork/internal/taskqueue"
	"github.com/petrijr/parwork/pkg/api"
	"github.com/petrijr/parwork/pkg/worker"
)

// ErrNotConfigured is returned by Run before Configure succeeded.
var ErrNotConfigured = errors.New("remote: mapper not configured")

// Mapper turns a Descriptor into a running worker inside a remote process.
type Mapper struct {
	registry *Registry
	deferred *worker.Deferred
	logger   *zap.Logger

	worker *worker.Worker
}

// NewMapper returns a Mapper resolving block names through reg. The worker
// it configures uses cfg for monitoring and logging.
func NewMapper(reg *Registry, cfg worker.Config) *Mapper {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{
		registry: reg,
		deferred: worker.NewDeferred(cfg),
		logger:   logger,
	}
}

// Configure resolves desc against the registry and binds the worker. It can
// succeed only once per Mapper; a failed resolution leaves the Mapper
// unconfigured so a corrected descriptor can be applied.
func (m *Mapper) Configure(desc Descriptor, ec api.ExecutionContext) (*worker.Worker, error) {
	blocks, err := m.registry.Resolve(desc.Blocks)
	if err != nil {
		return nil, err
	}

	w, err := m.deferred.Bind(desc.WorkerID, api.Body{
		Blocks:    blocks,
		Variables: api.Env(desc.Variables).Clone(),
		Context:   ec,
	})
	if err != nil {
		return nil, err
	}
	m.worker = w

	m.logger.Info("worker_configured",
		zap.Int64("worker_id", desc.WorkerID),
		zap.Strings("blocks", desc.Blocks),
	)
	return w, nil
}

// Worker returns the configured worker, or nil before Configure.
func (m *Mapper) Worker() *worker.Worker { return m.worker }

// Run executes tasks from q until ctx is cancelled or a task fails.
// Cancellation ends Run with a nil error; a task failure is returned.
func (m *Mapper) Run(ctx context.Context, q taskqueue.Queue) error {
	if m.worker == nil {
		return ErrNotConfigured
	}

	d := worker.NewDriver(m.worker, q)
	for {
		processed, err := d.ProcessOne(ctx)
		if err != nil {
			if !processed && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("remote worker %d: %w", m.worker.ID(), err)
		}
	}
}
