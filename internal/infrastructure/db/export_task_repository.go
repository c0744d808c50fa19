package db

import (
	"context"
	"time"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type exportTaskRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExportTaskRepository(db *gorm.DB, log *logger.Logger) ports.ExportTaskRepository {
	return &exportTaskRepository{db: db, log: log}
}

func (r *exportTaskRepository) Create(ctx context.Context, task *domain.ExportTask) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.Errorw("export_task_repo_create_failed", "task_type", task.TaskType, "error", err)
		return err
	}
	r.log.Infow("export_task_repo_create_ok", "id", task.ID, "task_type", task.TaskType)
	return nil
}

func (r *exportTaskRepository) GetByID(ctx context.Context, id int64) (*domain.ExportTask, error) {
	var task domain.ExportTask
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		r.log.Errorw("export_task_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &task, nil
}

// MarkProcessing is the second serialization guard behind the lease: the
// WHERE clause makes the PENDING precondition and the write one atomic
// statement, so a raced duplicate observes zero affected rows.
func (r *exportTaskRepository) MarkProcessing(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.ExportTask{}).
		Where("id = ? AND status = ?", id, domain.TaskStatusPending).
		Updates(map[string]any{
			"status":     domain.TaskStatusProcessing,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.log.Errorw("export_task_repo_mark_processing_failed", "id", id, "error", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *exportTaskRepository) MarkSuccess(ctx context.Context, id int64, filePath string) error {
	result := r.db.WithContext(ctx).Model(&domain.ExportTask{}).
		Where("id = ? AND status = ?", id, domain.TaskStatusProcessing).
		Updates(map[string]any{
			"status":     domain.TaskStatusSuccess,
			"file_path":  filePath,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.log.Errorw("export_task_repo_mark_success_failed", "id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.log.Warnw("export_task_repo_mark_success_skipped", "id", id)
		return gorm.ErrRecordNotFound
	}
	r.log.Infow("export_task_repo_mark_success_ok", "id", id, "file_path", filePath)
	return nil
}

func (r *exportTaskRepository) RevertToPending(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.ExportTask{}).
		Where("id = ? AND status = ?", id, domain.TaskStatusProcessing).
		Updates(map[string]any{
			"status":     domain.TaskStatusPending,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.log.Errorw("export_task_repo_revert_failed", "id", id, "error", result.Error)
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		r.log.Infow("export_task_repo_revert_ok", "id", id)
	}
	return result.RowsAffected > 0, nil
}

func (r *exportTaskRepository) MarkFailed(ctx context.Context, id int64, errorMsg string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.ExportTask{}).
		Where("id = ? AND status NOT IN ?", id, []domain.TaskStatus{domain.TaskStatusSuccess, domain.TaskStatusFailed}).
		Updates(map[string]any{
			"status":     domain.TaskStatusFailed,
			"error_msg":  errorMsg,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		r.log.Errorw("export_task_repo_mark_failed_failed", "id", id, "error", result.Error)
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		// Already terminal; the dead-letter path treats this as a no-op.
		return false, nil
	}
	r.log.Infow("export_task_repo_mark_failed_ok", "id", id)
	return true, nil
}
