package handlers

import (
	"errors"
	"strconv"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/core/services"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/empmgmt/backend/internal/transport/http/dto"
	"github.com/gofiber/fiber/v2"
)

type EmployeeHandler struct {
	service ports.EmployeeService
	logger  *logger.Logger
}

func NewEmployeeHandler(service ports.EmployeeService, logger *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: service, logger: logger}
}

func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("employee_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.logger.Warnw("employee_create_validation_failed", "details", errs)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	input := ports.CreateEmployeeInput{
		Name:       req.Name,
		Gender:     req.Gender,
		Age:        req.Age,
		Department: req.Department,
		Position:   req.Position,
		HireDate:   req.HireDate,
		Salary:     req.Salary,
		ActorID:    actorID(c),
	}

	employee, err := h.service.CreateEmployee(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Errorw("employee_create_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	h.logger.Infow("employee_create_success", "id", employee.ID, "name", employee.Name)
	return c.Status(fiber.StatusCreated).JSON(employee)
}

func (h *EmployeeHandler) ListEmployees(c *fiber.Ctx) error {
	filter := ports.EmployeeFilter{
		Name:       c.Query("name"),
		Department: c.Query("department"),
		Position:   c.Query("position"),
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 20),
	}

	employees, total, err := h.service.ListEmployees(c.Context(), filter)
	if err != nil {
		h.logger.Errorw("employee_list_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(dto.PageResponse[domain.Employee]{
		Items:    employees,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid employee id",
		})
	}

	employee, err := h.service.GetEmployee(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "employee not found",
			})
		}
		h.logger.Errorw("employee_get_failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(employee)
}

func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid employee id",
		})
	}

	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	input := ports.UpdateEmployeeInput{
		Name:       req.Name,
		Gender:     req.Gender,
		Age:        req.Age,
		Department: req.Department,
		Position:   req.Position,
		Salary:     req.Salary,
		ActorID:    actorID(c),
	}

	employee, err := h.service.UpdateEmployee(c.Context(), uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmployeeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "employee not found",
			})
		case errors.Is(err, services.ErrEmployeeInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		default:
			h.logger.Errorw("employee_update_failed", "id", id, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
	}

	return c.JSON(employee)
}

func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid employee id",
		})
	}

	if err := h.service.DeleteEmployee(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "employee not found",
			})
		}
		h.logger.Errorw("employee_delete_failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
