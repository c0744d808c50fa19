package ports

import (
	"context"

	"github.com/empmgmt/backend/internal/domain"
)

type CreateEmployeeInput struct {
	Name       string
	Gender     string
	Age        int
	Department string
	Position   string
	HireDate   string
	Salary     float64
	ActorID    int64
}

type UpdateEmployeeInput struct {
	Name       *string
	Gender     *string
	Age        *int
	Department *string
	Position   *string
	Salary     *float64
	ActorID    int64
}

type CreateUserInput struct {
	Username   string
	Password   string
	Email      string
	Role       string
	Department string
	EmployeeID *uint
}

type UpdateUserInput struct {
	Email      *string
	Role       *string
	Department *string
	Enabled    *bool
}

type EmployeeService interface {
	CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error)
	GetEmployee(ctx context.Context, id uint) (*domain.Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, int64, error)
	UpdateEmployee(ctx context.Context, id uint, input UpdateEmployeeInput) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id uint) error
}

type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id uint) (*domain.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, int64, error)
	UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// ExportTaskService is the producer side of the export pipeline plus the
// read-only status/artifact surface. Submission is fire-and-forget: it
// returns the task id immediately and the outcome is observed by polling.
type ExportTaskService interface {
	SubmitEmployeeExport(ctx context.Context, params domain.EmployeeExportParams, userID int64) (int64, error)
	SubmitUserExport(ctx context.Context, params domain.UserExportParams, userID int64) (int64, error)
	GetTask(ctx context.Context, taskID int64) (*domain.ExportTask, error)
	// ResolveArtifact returns the task when its artifact is downloadable.
	// Fails with ErrTaskNotFinished or ErrArtifactMissing otherwise.
	ResolveArtifact(ctx context.Context, taskID int64) (*domain.ExportTask, error)
}
