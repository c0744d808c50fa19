package handlers

import (
	"errors"
	"path/filepath"
	"strconv"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/core/services"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/empmgmt/backend/internal/transport/http/dto"
	"github.com/gofiber/fiber/v2"
)

type ExportTaskHandler struct {
	service ports.ExportTaskService
	logger  *logger.Logger
}

func NewExportTaskHandler(service ports.ExportTaskService, logger *logger.Logger) *ExportTaskHandler {
	return &ExportTaskHandler{service: service, logger: logger}
}

// actorID pulls the submitting identity resolved by the auth layer upstream.
func actorID(c *fiber.Ctx) int64 {
	id, err := strconv.ParseInt(c.Get("X-User-ID"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (h *ExportTaskHandler) SubmitEmployeeExport(c *fiber.Ctx) error {
	var req dto.EmployeeExportRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("export_submit_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	params := domain.EmployeeExportParams{
		Department: req.Department,
		Position:   req.Position,
	}
	taskID, err := h.service.SubmitEmployeeExport(c.Context(), params, actorID(c))
	if err != nil {
		h.logger.Errorw("export_submit_failed", "task_type", domain.TaskTypeEmployeeExport, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to submit export task",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.SubmitExportResponse{TaskID: taskID})
}

func (h *ExportTaskHandler) SubmitUserExport(c *fiber.Ctx) error {
	var req dto.UserExportRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("export_submit_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	params := domain.UserExportParams{
		Role:       req.Role,
		Department: req.Department,
	}
	taskID, err := h.service.SubmitUserExport(c.Context(), params, actorID(c))
	if err != nil {
		h.logger.Errorw("export_submit_failed", "task_type", domain.TaskTypeUserExport, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "failed to submit export task",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.SubmitExportResponse{TaskID: taskID})
}

func (h *ExportTaskHandler) GetTask(c *fiber.Ctx) error {
	taskID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid task id",
		})
	}

	task, err := h.service.GetTask(c.Context(), taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "export task not found",
			})
		}
		h.logger.Errorw("export_task_get_failed", "task_id", taskID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(task)
}

func (h *ExportTaskHandler) Download(c *fiber.Ctx) error {
	taskID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid task id",
		})
	}

	task, err := h.service.ResolveArtifact(c.Context(), taskID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "export task not found",
			})
		case errors.Is(err, services.ErrTaskNotFinished):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: "export task is not finished yet",
			})
		case errors.Is(err, services.ErrArtifactMissing):
			return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{
				Error: "export file is missing, please resubmit the export",
			})
		default:
			h.logger.Errorw("export_download_failed", "task_id", taskID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
	}

	h.logger.Infow("export_download_ok", "task_id", taskID, "file_path", task.FilePath)
	return c.Download(task.FilePath, filepath.Base(task.FilePath))
}
