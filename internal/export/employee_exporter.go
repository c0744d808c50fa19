package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
)

const fileNameTimeLayout = "20060102_150405"

// artifactPath builds a collision-free artifact location under dir.
func artifactPath(dir, prefix string) string {
	name := fmt.Sprintf("%s_%s_%s.xlsx", prefix, time.Now().Format(fileNameTimeLayout), uuid.New().String()[:8])
	return filepath.Join(dir, name)
}

// EmployeeExporter renders active employees matching the filter params into a
// spreadsheet artifact.
type EmployeeExporter struct {
	employees ports.EmployeeRepository
	writer    ports.WorkbookWriter
	dir       string
	log       *logger.Logger
}

func NewEmployeeExporter(employees ports.EmployeeRepository, writer ports.WorkbookWriter, dir string, log *logger.Logger) *EmployeeExporter {
	return &EmployeeExporter{employees: employees, writer: writer, dir: dir, log: log}
}

func (e *EmployeeExporter) Export(ctx context.Context, paramsJSON string) (string, error) {
	var params domain.EmployeeExportParams
	if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
		return "", fmt.Errorf("decode employee export params: %w", err)
	}

	employees, err := e.employees.FindForExport(ctx, params.Department, params.Position)
	if err != nil {
		return "", fmt.Errorf("query employees: %w", err)
	}

	headers := []string{"ID", "Name", "Gender", "Age", "Department", "Position", "Hire Date", "Salary", "Created At", "Updated At"}
	rows := make([][]any, 0, len(employees))
	for _, emp := range employees {
		hireDate := ""
		if emp.HireDate != nil {
			hireDate = emp.HireDate.Format("2006-01-02")
		}
		rows = append(rows, []any{
			emp.ID,
			emp.Name,
			emp.Gender,
			emp.Age,
			emp.Department,
			emp.Position,
			hireDate,
			emp.Salary,
			emp.CreatedAt.Format(time.RFC3339),
			emp.UpdatedAt.Format(time.RFC3339),
		})
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := artifactPath(e.dir, "employees")
	if err := e.writer.WriteWorkbook(path, "Employees", headers, rows); err != nil {
		return "", fmt.Errorf("write employee workbook: %w", err)
	}

	e.log.Infow("export_employees_written", "path", path, "rows", len(rows))
	return path, nil
}
