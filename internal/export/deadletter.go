package export

import (
	"context"
	"encoding/json"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/hibiken/asynq"
)

// DeadLetterMessage is the fixed operator-facing text written to tasks whose
// retries are exhausted. Internal error detail stays in the logs.
const DeadLetterMessage = "export failed after repeated retries due to a system or data problem; please contact an administrator"

// DeadLetterHandler consumes the dead-letter queue and terminally fails the
// referenced task. It resolves everything locally and never re-queues.
type DeadLetterHandler struct {
	tasks ports.ExportTaskRepository
	log   *logger.Logger
}

func NewDeadLetterHandler(tasks ports.ExportTaskRepository, log *logger.Logger) *DeadLetterHandler {
	return &DeadLetterHandler{tasks: tasks, log: log}
}

var _ asynq.Handler = (*DeadLetterHandler)(nil)

func (h *DeadLetterHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var msg domain.JobMessage
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		h.log.Errorw("export_dead_letter_malformed", "error", err)
		return nil
	}

	// Alert hook: error level so the message is picked up by log alerting.
	h.log.Errorw("export_dead_letter_received", "task_id", msg.TaskID, "task_type", msg.TaskType)

	marked, err := h.tasks.MarkFailed(ctx, msg.TaskID, DeadLetterMessage)
	if err != nil {
		h.log.Errorw("export_dead_letter_mark_failed", "task_id", msg.TaskID, "error", err)
		return nil
	}
	if !marked {
		// Missing row or already terminal; nothing left to do.
		h.log.Infow("export_dead_letter_noop", "task_id", msg.TaskID)
		return nil
	}

	h.log.Infow("export_dead_letter_task_failed", "task_id", msg.TaskID)
	return nil
}
