package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "export:task:lock:"

// Locker implements the per-task lease on a shared Redis instance. A held key
// means the task is being handled or finished recently; the TTL doubles as
// the crash-failure detector, so it must exceed the worst-case export time.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func New(client *redis.Client, ttl time.Duration, log *logger.Logger) *Locker {
	return &Locker{client: client, ttl: ttl, log: log}
}

var _ ports.TaskLocker = (*Locker)(nil)

func lockKey(taskID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, taskID)
}

func (l *Locker) Acquire(ctx context.Context, taskID int64) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(taskID), "1", l.ttl).Result()
	if err != nil {
		l.log.Errorw("export_lock_acquire_failed", "task_id", taskID, "error", err)
		return false, err
	}
	return ok, nil
}

func (l *Locker) Extend(ctx context.Context, taskID int64, ttl time.Duration) error {
	if err := l.client.Expire(ctx, lockKey(taskID), ttl).Err(); err != nil {
		l.log.Errorw("export_lock_extend_failed", "task_id", taskID, "error", err)
		return err
	}
	return nil
}

func (l *Locker) Release(ctx context.Context, taskID int64) error {
	if err := l.client.Del(ctx, lockKey(taskID)).Err(); err != nil {
		l.log.Errorw("export_lock_release_failed", "task_id", taskID, "error", err)
		return err
	}
	return nil
}
