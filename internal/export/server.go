package export

import (
	"context"
	"time"

	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/hibiken/asynq"
)

// ServerConfig wires the consumer side of the pipeline.
type ServerConfig struct {
	RedisOpt    asynq.RedisClientOpt
	Concurrency int
	// RetryDelay overrides asynq's exponential backoff when set. Tests use a
	// short fixed delay to exercise the full retry budget quickly.
	RetryDelay time.Duration
	// Publisher republishes exhausted payloads to the dead-letter queue.
	Publisher *Publisher
	Logger    *logger.Logger
}

// NewServer builds the asynq server consuming both queues. Manual-ack
// semantics are asynq's: a handler error schedules a redelivery, a nil return
// acks. Routing to the dead-letter queue happens in the error handler once
// the retry budget is spent, so the worker itself never decides terminality
// for transient failures.
func NewServer(cfg ServerConfig) *asynq.Server {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	asynqCfg := asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueExports:     5,
			QueueExportsDead: 1,
		},
		ErrorHandler: deadLetterRouter(cfg.Publisher, cfg.Logger),
		Logger:       cfg.Logger.SugaredLogger,
	}
	if cfg.RetryDelay > 0 {
		delay := cfg.RetryDelay
		asynqCfg.RetryDelayFunc = func(n int, e error, t *asynq.Task) time.Duration {
			return delay
		}
	}

	return asynq.NewServer(cfg.RedisOpt, asynqCfg)
}

// NewMux registers the primary worker and the dead-letter consumer.
func NewMux(worker *Worker, deadLetter *DeadLetterHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeExportTask, worker)
	mux.Handle(TypeExportDead, deadLetter)
	return mux
}

func deadLetterRouter(pub *Publisher, log *logger.Logger) asynq.ErrorHandlerFunc {
	return func(ctx context.Context, task *asynq.Task, err error) {
		if task.Type() != TypeExportTask {
			return
		}
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		if retried < maxRetry {
			return
		}
		// Final attempt failed: the primary queue is done with this message.
		log.Errorw("export_retry_budget_exhausted", "task_type", task.Type(), "retried", retried, "error", err)
		if pubErr := pub.publishDead(ctx, task.Payload()); pubErr != nil {
			log.Errorw("export_dead_letter_publish_failed", "error", pubErr)
		}
	}
}
