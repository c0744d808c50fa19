package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/hibiken/asynq"
)

// Worker consumes job messages from the primary queue. Processing is
// idempotent under at-least-once delivery: the lease lock absorbs duplicate
// deliveries and the conditional PENDING→PROCESSING store transition is the
// secondary guard for lease races.
//
// The lease asymmetry is load-bearing. On failure the lease is released so
// the broker's redelivery can re-acquire it; on a terminal outcome it is
// extended to the success horizon as a consumed marker. Swapping either half
// makes duplicates retry forever or never retry.
type Worker struct {
	tasks      ports.ExportTaskRepository
	locker     ports.TaskLocker
	exporters  Exporters
	successTTL time.Duration
	log        *logger.Logger
}

func NewWorker(tasks ports.ExportTaskRepository, locker ports.TaskLocker, exporters Exporters, successTTL time.Duration, log *logger.Logger) *Worker {
	return &Worker{
		tasks:      tasks,
		locker:     locker,
		exporters:  exporters,
		successTTL: successTTL,
		log:        log,
	}
}

var _ asynq.Handler = (*Worker)(nil)

func (w *Worker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var msg domain.JobMessage
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		// Malformed payloads cannot reference a task row; retrying is useless.
		w.log.Errorw("export_message_malformed", "error", err)
		return nil
	}

	w.log.Infow("export_message_received", "task_id", msg.TaskID, "task_type", msg.TaskType)

	acquired, err := w.locker.Acquire(ctx, msg.TaskID)
	if err != nil {
		return fmt.Errorf("acquire lease for task %d: %w", msg.TaskID, err)
	}
	if !acquired {
		// Duplicate or concurrent delivery. Ack and drop.
		w.log.Infow("export_lock_busy", "task_id", msg.TaskID)
		return nil
	}

	task, err := w.tasks.GetByID(ctx, msg.TaskID)
	if err != nil {
		return w.fail(ctx, msg.TaskID, fmt.Errorf("load task %d: %w", msg.TaskID, err))
	}

	if task.Status != domain.TaskStatusPending {
		// Already in flight or finished; the lease window lapsed at some
		// point but the row is authoritative.
		w.log.Infow("export_task_not_pending", "task_id", task.ID, "status", task.Status)
		return nil
	}

	exporter, ok := w.exporters[task.TaskType]
	if !ok {
		// Configuration/data error, never transient. Fail the row directly
		// and ack so the channel does not waste its retry budget.
		w.log.Warnw("export_task_type_unsupported", "task_id", task.ID, "task_type", task.TaskType)
		if _, err := w.tasks.MarkFailed(ctx, task.ID, fmt.Sprintf("unsupported task type: %s", task.TaskType)); err != nil {
			return w.fail(ctx, task.ID, fmt.Errorf("mark task %d failed: %w", task.ID, err))
		}
		w.markConsumed(ctx, task.ID)
		return nil
	}

	marked, err := w.tasks.MarkProcessing(ctx, task.ID)
	if err != nil {
		return w.fail(ctx, task.ID, fmt.Errorf("mark task %d processing: %w", task.ID, err))
	}
	if !marked {
		w.log.Infow("export_task_already_claimed", "task_id", task.ID)
		return nil
	}

	filePath, err := exporter.Export(ctx, task.Params)
	if err != nil {
		return w.failClaimed(ctx, task.ID, fmt.Errorf("run %s export for task %d: %w", task.TaskType, task.ID, err))
	}

	if err := w.tasks.MarkSuccess(ctx, task.ID, filePath); err != nil {
		return w.failClaimed(ctx, task.ID, fmt.Errorf("mark task %d success: %w", task.ID, err))
	}
	w.markConsumed(ctx, task.ID)

	w.log.Infow("export_task_done", "task_id", task.ID, "task_type", task.TaskType, "file_path", filePath)
	return nil
}

// failClaimed unwinds a PROCESSING claim after a transient failure. The
// revert is the explicit scope boundary around the check-and-claim sequence:
// without it the next redelivery would be absorbed by the status re-check and
// the row would be stuck in PROCESSING.
func (w *Worker) failClaimed(ctx context.Context, taskID int64, err error) error {
	if _, revErr := w.tasks.RevertToPending(ctx, taskID); revErr != nil {
		w.log.Errorw("export_task_revert_failed", "task_id", taskID, "error", revErr)
	}
	return w.fail(ctx, taskID, err)
}

// fail releases the lease so a redelivery can re-acquire it, then propagates
// the error to the channel. The task row is left non-terminal on purpose:
// only the dead-letter path writes FAILED for transient errors.
func (w *Worker) fail(ctx context.Context, taskID int64, err error) error {
	w.log.Errorw("export_task_failed", "task_id", taskID, "error", err)
	if relErr := w.locker.Release(ctx, taskID); relErr != nil {
		w.log.Errorw("export_lock_release_failed_on_error", "task_id", taskID, "error", relErr)
	}
	return err
}

// markConsumed stretches the lease to the success horizon so redeliveries of
// a finished task are dropped at the lease check. Best effort: the status
// re-check still catches them if this write is lost.
func (w *Worker) markConsumed(ctx context.Context, taskID int64) {
	if err := w.locker.Extend(ctx, taskID, w.successTTL); err != nil {
		w.log.Warnw("export_lock_extend_failed", "task_id", taskID, "error", err)
	}
}
