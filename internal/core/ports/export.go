package ports

import (
	"context"
	"time"

	"github.com/empmgmt/backend/internal/domain"
)

// TaskLocker is the cross-instance lease that deduplicates deliveries of the
// same task id. Acquire is set-if-absent with the processing TTL; Extend
// stretches a held lease (used as a consumed marker after success); Release
// drops it so a legitimate retry can re-acquire.
type TaskLocker interface {
	Acquire(ctx context.Context, taskID int64) (bool, error)
	Extend(ctx context.Context, taskID int64, ttl time.Duration) error
	Release(ctx context.Context, taskID int64) error
}

// ExportPublisher hands a job message to the primary queue. The task row must
// already exist when this is called.
type ExportPublisher interface {
	Publish(ctx context.Context, msg domain.JobMessage) error
}

// WorkbookWriter renders tabular data into a spreadsheet artifact on disk.
type WorkbookWriter interface {
	WriteWorkbook(path, sheet string, headers []string, rows [][]any) error
}
