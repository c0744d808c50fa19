package domain

import (
	"time"

	"gorm.io/gorm"
)

// ==================== ENUMS ====================

type TaskType string

const (
	TaskTypeEmployeeExport TaskType = "EMPLOYEE_EXPORT"
	TaskTypeUserExport     TaskType = "USER_EXPORT"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusSuccess    TaskStatus = "SUCCESS"
	TaskStatusFailed     TaskStatus = "FAILED"
)

// Terminal reports whether the status can never change again.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusFailed
}

type UserRole string

const (
	UserRoleSuperAdmin UserRole = "SUPER_ADMIN"
	UserRoleManager    UserRole = "MANAGER"
	UserRoleEmployee   UserRole = "EMPLOYEE"
)

// ==================== ENTITIES ====================

// ExportTask is the durable record of one export job. The row is the single
// source of truth for job status; queue messages only point at it.
type ExportTask struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TaskType TaskType   `gorm:"size:50;not null" json:"task_type"`
	Params   string     `gorm:"type:jsonb;not null" json:"params"`
	Status   TaskStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	FilePath string     `gorm:"size:500" json:"file_path,omitempty"`
	ErrorMsg string     `gorm:"type:text" json:"error_msg,omitempty"`

	CreatedBy int64 `gorm:"index" json:"created_by"`
}

func (ExportTask) TableName() string {
	return "export_tasks"
}

type Employee struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name       string     `gorm:"size:255;not null" json:"name"`
	Gender     string     `gorm:"size:10" json:"gender"`
	Age        int        `json:"age"`
	Department string     `gorm:"size:100;index" json:"department"`
	Position   string     `gorm:"size:100" json:"position"`
	HireDate   *time.Time `json:"hire_date,omitempty"`
	Salary     float64    `gorm:"type:numeric(12,2)" json:"salary"`

	CreatedBy int64 `json:"created_by"`
	UpdatedBy int64 `json:"updated_by"`
}

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Username     string   `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Email        string   `gorm:"size:255" json:"email"`
	Role         UserRole `gorm:"size:50;not null;default:'EMPLOYEE';index" json:"role"`
	Department   string   `gorm:"size:100;index" json:"department"`
	Enabled      bool     `gorm:"default:true" json:"enabled"`

	// Optional link to the employee record behind this account.
	EmployeeID *uint     `gorm:"index" json:"employee_id,omitempty"`
	Employee   *Employee `gorm:"constraint:OnDelete:SET NULL" json:"employee,omitempty"`
}

func (User) TableName() string {
	return "user_accounts"
}
