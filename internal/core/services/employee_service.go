package services

import (
	"context"
	"errors"
	"time"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type employeeService struct {
	repo ports.EmployeeRepository
	log  *logger.Logger
}

func NewEmployeeService(repo ports.EmployeeRepository, log *logger.Logger) ports.EmployeeService {
	return &employeeService{repo: repo, log: log}
}

func (s *employeeService) CreateEmployee(ctx context.Context, input ports.CreateEmployeeInput) (*domain.Employee, error) {
	if input.Name == "" {
		return nil, ErrEmployeeInvalidInput
	}

	employee := &domain.Employee{
		Name:       input.Name,
		Gender:     input.Gender,
		Age:        input.Age,
		Department: input.Department,
		Position:   input.Position,
		Salary:     input.Salary,
		CreatedBy:  input.ActorID,
		UpdatedBy:  input.ActorID,
	}
	if input.HireDate != "" {
		hireDate, err := time.Parse("2006-01-02", input.HireDate)
		if err != nil {
			return nil, ErrEmployeeInvalidInput
		}
		employee.HireDate = &hireDate
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id uint) (*domain.Employee, error) {
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, filter ports.EmployeeFilter) ([]domain.Employee, int64, error) {
	if filter.PageSize <= 0 || filter.PageSize > 200 {
		filter.PageSize = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id uint, input ports.UpdateEmployeeInput) (*domain.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrEmployeeInvalidInput
		}
		employee.Name = *input.Name
	}
	if input.Gender != nil {
		employee.Gender = *input.Gender
	}
	if input.Age != nil {
		employee.Age = *input.Age
	}
	if input.Department != nil {
		employee.Department = *input.Department
	}
	if input.Position != nil {
		employee.Position = *input.Position
	}
	if input.Salary != nil {
		employee.Salary = *input.Salary
	}
	employee.UpdatedBy = input.ActorID

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id uint) error {
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
