package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
)

// UserExporter renders user accounts matching the filter params into a
// spreadsheet artifact.
type UserExporter struct {
	users  ports.UserRepository
	writer ports.WorkbookWriter
	dir    string
	log    *logger.Logger
}

func NewUserExporter(users ports.UserRepository, writer ports.WorkbookWriter, dir string, log *logger.Logger) *UserExporter {
	return &UserExporter{users: users, writer: writer, dir: dir, log: log}
}

func (e *UserExporter) Export(ctx context.Context, paramsJSON string) (string, error) {
	var params domain.UserExportParams
	if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
		return "", fmt.Errorf("decode user export params: %w", err)
	}

	users, err := e.users.FindForExport(ctx, params.Role, params.Department)
	if err != nil {
		return "", fmt.Errorf("query users: %w", err)
	}

	headers := []string{"ID", "Username", "Email", "Role", "Department", "Employee ID", "Enabled", "Created At", "Updated At"}
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		employeeID := ""
		if u.EmployeeID != nil {
			employeeID = fmt.Sprintf("%d", *u.EmployeeID)
		}
		enabled := "disabled"
		if u.Enabled {
			enabled = "enabled"
		}
		rows = append(rows, []any{
			u.ID,
			u.Username,
			u.Email,
			string(u.Role),
			u.Department,
			employeeID,
			enabled,
			u.CreatedAt.Format(time.RFC3339),
			u.UpdatedAt.Format(time.RFC3339),
		})
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := artifactPath(e.dir, "users")
	if err := e.writer.WriteWorkbook(path, "Users", headers, rows); err != nil {
		return "", fmt.Errorf("write user workbook: %w", err)
	}

	e.log.Infow("export_users_written", "path", path, "rows", len(rows))
	return path, nil
}
