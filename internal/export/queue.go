// Package export implements the asynchronous bulk-export pipeline: a producer
// that records an ExportTask row and publishes a pointer message, an
// idempotent worker that executes the type-specific export behind a Redis
// lease, and a dead-letter consumer that terminally fails tasks whose
// redelivery budget is exhausted.
package export

import (
	"context"
	"encoding/json"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/hibiken/asynq"
)

// Queue topology. The primary queue carries export jobs with a bounded retry
// budget; once the budget is exhausted the payload is republished to the
// dead-letter queue, which is consumed only by the DeadLetterHandler.
const (
	TypeExportTask = "export:task"
	TypeExportDead = "export:dead"

	QueueExports     = "exports"
	QueueExportsDead = "exports_dead"
)

// Publisher writes job messages to the broker. It implements
// ports.ExportPublisher for the submission side and carries the dead-letter
// republish used by the server's error handler.
type Publisher struct {
	client   *asynq.Client
	maxRetry int
	log      *logger.Logger
}

func NewPublisher(redisOpt asynq.RedisClientOpt, maxRetry int, log *logger.Logger) *Publisher {
	return &Publisher{
		client:   asynq.NewClient(redisOpt),
		maxRetry: maxRetry,
		log:      log,
	}
}

var _ ports.ExportPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, msg domain.JobMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeExportTask, payload)
	info, err := p.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueExports),
		asynq.MaxRetry(p.maxRetry),
	)
	if err != nil {
		p.log.Errorw("export_publish_failed", "task_id", msg.TaskID, "error", err)
		return err
	}
	p.log.Infow("export_publish_ok", "task_id", msg.TaskID, "queue", info.Queue, "message_id", info.ID)
	return nil
}

// publishDead moves an exhausted payload to the dead-letter queue. No retry
// budget there: the consumer resolves everything locally.
func (p *Publisher) publishDead(ctx context.Context, payload []byte) error {
	task := asynq.NewTask(TypeExportDead, payload)
	_, err := p.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueExportsDead),
		asynq.MaxRetry(0),
	)
	return err
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
