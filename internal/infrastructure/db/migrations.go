package db

import (
	"github.com/empmgmt/backend/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Employee{},
		&domain.User{},
		&domain.ExportTask{},
	)
	if err != nil {
		return err
	}

	return createCustomIndexes(db)
}

func createCustomIndexes(db *gorm.DB) error {
	// Workers poll tasks by status; provenance lookups filter by creator.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_export_tasks_status_created
		ON export_tasks (status, created_at)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_employees_department
		ON employees (department)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		return err
	}

	return nil
}
