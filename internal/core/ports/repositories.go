package ports

import (
	"context"

	"github.com/empmgmt/backend/internal/domain"
)

type EmployeeFilter struct {
	Name       string
	Department string
	Position   string
	Page       int
	PageSize   int
}

type UserFilter struct {
	Role       string
	Department string
	Page       int
	PageSize   int
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id uint) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, int64, error)
	FindForExport(ctx context.Context, department, position string) ([]domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id uint) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error)
	FindForExport(ctx context.Context, role, department string) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
}

// ExportTaskRepository persists export job records. Status transitions are
// conditional single-row updates: a transition whose precondition no longer
// holds reports false instead of overwriting a terminal status.
type ExportTaskRepository interface {
	Create(ctx context.Context, task *domain.ExportTask) error
	GetByID(ctx context.Context, id int64) (*domain.ExportTask, error)
	// MarkProcessing moves PENDING to PROCESSING. Returns false when the row
	// is not PENDING anymore.
	MarkProcessing(ctx context.Context, id int64) (bool, error)
	// MarkSuccess moves PROCESSING to SUCCESS and records the artifact path.
	MarkSuccess(ctx context.Context, id int64, filePath string) error
	// RevertToPending undoes a PROCESSING claim after a transient failure so
	// the next redelivery can run the job again. The explicit counterpart of
	// a transaction rollback around the check-and-claim sequence.
	RevertToPending(ctx context.Context, id int64) (bool, error)
	// MarkFailed forces a non-terminal row to FAILED. Returns false when the
	// row was already terminal.
	MarkFailed(ctx context.Context, id int64, errorMsg string) (bool, error)
}
