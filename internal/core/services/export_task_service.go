package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// ExportTaskService is the producer side of the export pipeline. Submission
// persists the task row first and only then publishes the pointer message, so
// a worker can always find the row behind a message it receives.
type ExportTaskService struct {
	tasks     ports.ExportTaskRepository
	publisher ports.ExportPublisher
	log       *logger.Logger
}

type ExportTaskServiceConfig struct {
	Tasks     ports.ExportTaskRepository
	Publisher ports.ExportPublisher
	Logger    *logger.Logger
}

func NewExportTaskService(cfg ExportTaskServiceConfig) *ExportTaskService {
	return &ExportTaskService{
		tasks:     cfg.Tasks,
		publisher: cfg.Publisher,
		log:       cfg.Logger,
	}
}

var _ ports.ExportTaskService = (*ExportTaskService)(nil)

func (s *ExportTaskService) SubmitEmployeeExport(ctx context.Context, params domain.EmployeeExportParams, userID int64) (int64, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("encode employee export params: %w", err)
	}
	return s.submit(ctx, domain.TaskTypeEmployeeExport, string(payload), userID)
}

func (s *ExportTaskService) SubmitUserExport(ctx context.Context, params domain.UserExportParams, userID int64) (int64, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("encode user export params: %w", err)
	}
	return s.submit(ctx, domain.TaskTypeUserExport, string(payload), userID)
}

func (s *ExportTaskService) submit(ctx context.Context, taskType domain.TaskType, paramsJSON string, userID int64) (int64, error) {
	task := &domain.ExportTask{
		TaskType:  taskType,
		Params:    paramsJSON,
		Status:    domain.TaskStatusPending,
		CreatedBy: userID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return 0, fmt.Errorf("persist export task: %w", err)
	}

	msg := domain.JobMessage{
		TaskID:     task.ID,
		TaskType:   task.TaskType,
		ParamsJSON: task.Params,
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		// The row is now stranded in PENDING with no message behind it.
		// Deliberately not rolled back; see DESIGN.md on the outbox decision.
		s.log.Errorw("export_submit_stranded", "task_id", task.ID, "task_type", taskType, "error", err)
		return 0, fmt.Errorf("publish export task %d: %w", task.ID, err)
	}

	s.log.Infow("export_submit_ok", "task_id", task.ID, "task_type", taskType, "created_by", userID)
	return task.ID, nil
}

func (s *ExportTaskService) GetTask(ctx context.Context, taskID int64) (*domain.ExportTask, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *ExportTaskService) ResolveArtifact(ctx context.Context, taskID int64) (*domain.ExportTask, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.TaskStatusSuccess {
		return nil, ErrTaskNotFinished
	}
	if _, err := os.Stat(task.FilePath); err != nil {
		s.log.Warnw("export_artifact_missing", "task_id", taskID, "file_path", task.FilePath)
		return nil, ErrArtifactMissing
	}
	return task, nil
}
