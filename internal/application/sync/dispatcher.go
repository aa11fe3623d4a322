package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/inventory"
	"go.uber.org/zap"
)

// DispatcherConfig holds configuration for the sync dispatcher
type DispatcherConfig struct {
	BatchSize    int
	PollInterval time.Duration
	CallTimeout  time.Duration
}

// DefaultDispatcherConfig returns default configuration
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		BatchSize:    50,
		PollInterval: 5 * time.Second,
		CallTimeout:  10 * time.Second,
	}
}

// Dispatcher drains due sync tasks in the background and pushes each stock
// adjustment to the POS. Tasks are claimed atomically so concurrent
// dispatchers never double-send, and every POS call runs under its own
// timeout so one slow call cannot stall the batch.
type Dispatcher struct {
	tasks    inventory.SyncTaskRepository
	syncLogs inventory.SyncLogRepository
	pos      inventory.PosClient
	policy   RetryPolicy
	config   DispatcherConfig
	logger   *zap.Logger

	cancel context.CancelFunc
	wg     stdsync.WaitGroup
}

// NewDispatcher creates a new sync dispatcher
func NewDispatcher(
	tasks inventory.SyncTaskRepository,
	syncLogs inventory.SyncLogRepository,
	pos inventory.PosClient,
	policy RetryPolicy,
	config DispatcherConfig,
	logger *zap.Logger,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		tasks:    tasks,
		syncLogs: syncLogs,
		pos:      pos,
		policy:   policy,
		config:   config,
		logger:   logger,
	}
}

// Start starts the background dispatch loop
func (d *Dispatcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.dispatchLoop(ctx)

	d.logger.Info("sync dispatcher started",
		zap.Int("batch_size", d.config.BatchSize),
		zap.Duration("poll_interval", d.config.PollInterval),
		zap.Duration("call_timeout", d.config.CallTimeout),
	)
	return nil
}

// Stop gracefully stops the dispatcher
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("sync dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) dispatchLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.ProcessDue(ctx)
		}
	}
}

// ProcessDue claims and dispatches one batch of due tasks. Exposed so tests
// and manual triggers can drain the queue without the ticker.
func (d *Dispatcher) ProcessDue(ctx context.Context) {
	due, err := d.tasks.FindDue(ctx, time.Now(), d.config.BatchSize)
	if err != nil {
		d.logger.Error("failed to find due sync tasks", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	ids := make([]uuid.UUID, len(due))
	for i, t := range due {
		ids[i] = t.ID
	}

	claimed, err := d.tasks.MarkRunning(ctx, ids)
	if err != nil {
		d.logger.Error("failed to claim sync tasks", zap.Error(err))
		return
	}

	for _, task := range claimed {
		d.dispatch(ctx, task)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, task *inventory.SyncTask) {
	callCtx, cancel := context.WithTimeout(ctx, d.config.CallTimeout)
	response, err := d.pos.AdjustStock(callCtx, task.EposProductID, task.Quantity, task.OrderReference)
	cancel()

	if err != nil {
		d.failTask(ctx, task, err.Error(), response)
		return
	}

	task.MarkSucceeded()
	if err := d.tasks.Update(ctx, task); err != nil {
		d.logger.Error("failed to update sync task",
			zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}
	d.settleLog(ctx, task, func(entry *inventory.SyncLogEntry) {
		newStock := entry.OldStock - entry.Quantity
		if newStock < 0 {
			newStock = 0
		}
		entry.MarkSuccess(newStock, response)
	})

	d.logger.Info("stock adjustment pushed to POS",
		zap.String("task_id", task.ID.String()),
		zap.String("epos_product_id", task.EposProductID),
		zap.String("order_reference", task.OrderReference),
		zap.Int("quantity", task.Quantity),
		zap.Int("attempt", task.Attempts),
	)
}

func (d *Dispatcher) failTask(ctx context.Context, task *inventory.SyncTask, errMsg string, response []byte) {
	// Exhaustion follows the dispatcher's configured policy, not the value
	// stamped at scheduling time.
	if d.policy.MaxAttempts > 0 {
		task.MaxAttempts = d.policy.MaxAttempts
	}
	task.MarkFailed(errMsg, d.policy.NextRunAt(time.Now(), task.Attempts))
	if err := d.tasks.Update(ctx, task); err != nil {
		d.logger.Error("failed to update sync task",
			zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}

	if task.Status == inventory.SyncTaskStatusFailed {
		d.logger.Warn("sync task exhausted its attempts",
			zap.String("task_id", task.ID.String()),
			zap.String("epos_product_id", task.EposProductID),
			zap.String("order_reference", task.OrderReference),
			zap.Int("attempts", task.Attempts),
			zap.String("last_error", errMsg),
		)
		d.settleLog(ctx, task, func(entry *inventory.SyncLogEntry) {
			entry.MarkFailed(errMsg, response)
		})
		return
	}

	d.appendFailedAttempt(ctx, task, errMsg, response)

	d.logger.Warn("sync task rescheduled",
		zap.String("task_id", task.ID.String()),
		zap.Int("attempt", task.Attempts),
		zap.Time("next_run_at", task.NextRunAt),
		zap.String("error", errMsg),
	)
}

// appendFailedAttempt records a rescheduled attempt as its own failed log
// row. The pending row stays in place and is settled by the final attempt,
// so the trail ends up with one row per attempt.
func (d *Dispatcher) appendFailedAttempt(ctx context.Context, task *inventory.SyncTask, errMsg string, response []byte) {
	if task.SyncLogID == nil {
		return
	}
	pending, err := d.syncLogs.FindByID(ctx, *task.SyncLogID)
	if err != nil {
		d.logger.Error("failed to load sync log entry",
			zap.String("sync_log_id", task.SyncLogID.String()), zap.Error(err))
		return
	}
	attempt := pending.FailedAttempt(errMsg, response)
	if err := d.syncLogs.Save(ctx, attempt); err != nil {
		d.logger.Error("failed to record failed sync attempt",
			zap.String("sync_log_id", pending.ID.String()), zap.Error(err))
	}
}

// settleLog moves the task's pending log row to a terminal status on success
// or on the final attempt.
func (d *Dispatcher) settleLog(ctx context.Context, task *inventory.SyncTask, apply func(*inventory.SyncLogEntry)) {
	if task.SyncLogID == nil {
		return
	}
	entry, err := d.syncLogs.FindByID(ctx, *task.SyncLogID)
	if err != nil {
		d.logger.Error("failed to load sync log entry",
			zap.String("sync_log_id", task.SyncLogID.String()), zap.Error(err))
		return
	}
	apply(entry)
	if err := d.syncLogs.Save(ctx, entry); err != nil {
		d.logger.Error("failed to update sync log entry",
			zap.String("sync_log_id", entry.ID.String()), zap.Error(err))
	}
}
