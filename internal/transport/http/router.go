package http

import (
	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/core/services"
	"github.com/empmgmt/backend/internal/infrastructure/db"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/empmgmt/backend/internal/transport/http/handlers"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB        *gorm.DB
	Logger    *logger.Logger
	Publisher ports.ExportPublisher
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	employeeRepo := db.NewEmployeeRepository(cfg.DB, cfg.Logger)
	userRepo := db.NewUserRepository(cfg.DB, cfg.Logger)
	taskRepo := db.NewExportTaskRepository(cfg.DB, cfg.Logger)

	employeeService := services.NewEmployeeService(employeeRepo, cfg.Logger)
	userService := services.NewUserService(userRepo, cfg.Logger)
	exportService := services.NewExportTaskService(services.ExportTaskServiceConfig{
		Tasks:     taskRepo,
		Publisher: cfg.Publisher,
		Logger:    cfg.Logger,
	})

	employeeHandler := handlers.NewEmployeeHandler(employeeService, cfg.Logger)
	userHandler := handlers.NewUserHandler(userService, cfg.Logger)
	exportHandler := handlers.NewExportTaskHandler(exportService, cfg.Logger)

	api := app.Group("/api")

	employees := api.Group("/employees")
	employees.Post("/", employeeHandler.CreateEmployee)
	employees.Get("/", employeeHandler.ListEmployees)
	employees.Get("/:id", employeeHandler.GetEmployee)
	employees.Put("/:id", employeeHandler.UpdateEmployee)
	employees.Delete("/:id", employeeHandler.DeleteEmployee)

	users := api.Group("/users")
	users.Post("/", userHandler.CreateUser)
	users.Get("/", userHandler.ListUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	exports := api.Group("/export-tasks")
	exports.Post("/employees", exportHandler.SubmitEmployeeExport)
	exports.Post("/users", exportHandler.SubmitUserExport)
	exports.Get("/:id", exportHandler.GetTask)
	exports.Get("/:id/download", exportHandler.Download)
}
