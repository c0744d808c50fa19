package db

import (
	"context"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type employeeRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmployeeRepository(db *gorm.DB, log *logger.Logger) ports.EmployeeRepository {
	return &employeeRepository{db: db, log: log}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	if err := r.db.WithContext(ctx).Create(employee).Error; err != nil {
		r.log.Errorw("employee_repo_create_failed", "name", employee.Name, "error", err)
		return err
	}
	r.log.Infow("employee_repo_create_ok", "id", employee.ID, "name", employee.Name)
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		r.log.Errorw("employee_repo_get_failed", "id", id, "error", err)
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter ports.EmployeeFilter) ([]domain.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Employee{})
	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Errorw("employee_repo_count_failed", "error", err)
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var employees []domain.Employee
	if err := query.Order("id").Find(&employees).Error; err != nil {
		r.log.Errorw("employee_repo_list_failed", "error", err)
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepository) FindForExport(ctx context.Context, department, position string) ([]domain.Employee, error) {
	query := r.db.WithContext(ctx).Model(&domain.Employee{})
	if department != "" {
		query = query.Where("department = ?", department)
	}
	if position != "" {
		query = query.Where("position = ?", position)
	}

	var employees []domain.Employee
	if err := query.Order("id").Find(&employees).Error; err != nil {
		r.log.Errorw("employee_repo_export_query_failed", "department", department, "position", position, "error", err)
		return nil, err
	}
	r.log.Infow("employee_repo_export_query_ok", "department", department, "position", position, "count", len(employees))
	return employees, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	if err := r.db.WithContext(ctx).Save(employee).Error; err != nil {
		r.log.Errorw("employee_repo_update_failed", "id", employee.ID, "error", err)
		return err
	}
	r.log.Infow("employee_repo_update_ok", "id", employee.ID)
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Employee{}, id).Error; err != nil {
		r.log.Errorw("employee_repo_delete_failed", "id", id, "error", err)
		return err
	}
	r.log.Infow("employee_repo_delete_ok", "id", id)
	return nil
}
