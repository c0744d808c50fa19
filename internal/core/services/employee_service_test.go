package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/empmgmt/backend/internal/core/ports"
	"github.com/empmgmt/backend/internal/domain"
	"github.com/empmgmt/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type memEmployeeRepo struct {
	mu        sync.Mutex
	employees map[uint]*domain.Employee
	seq       uint
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{employees: make(map[uint]*domain.Employee)}
}

func (r *memEmployeeRepo) Create(ctx context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	employee.ID = r.seq
	copied := *employee
	r.employees[employee.ID] = &copied
	return nil
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, id uint) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	employee, ok := r.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *employee
	return &copied, nil
}

func (r *memEmployeeRepo) List(ctx context.Context, filter ports.EmployeeFilter) ([]domain.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Employee
	for _, emp := range r.employees {
		out = append(out, *emp)
	}
	return out, int64(len(out)), nil
}

func (r *memEmployeeRepo) FindForExport(ctx context.Context, department, position string) ([]domain.Employee, error) {
	return nil, errors.New("not implemented")
}

func (r *memEmployeeRepo) Update(ctx context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[employee.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *employee
	r.employees[employee.ID] = &copied
	return nil
}

func (r *memEmployeeRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.employees, id)
	return nil
}

func TestEmployeeService_CreateValidation(t *testing.T) {
	svc := NewEmployeeService(newMemEmployeeRepo(), logger.Nop())

	_, err := svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{})
	if !errors.Is(err, ErrEmployeeInvalidInput) {
		t.Fatalf("empty name: want ErrEmployeeInvalidInput got %v", err)
	}

	_, err = svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{Name: "Dana", HireDate: "01/02/2024"})
	if !errors.Is(err, ErrEmployeeInvalidInput) {
		t.Fatalf("bad hire date: want ErrEmployeeInvalidInput got %v", err)
	}

	employee, err := svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{
		Name:       "Dana Kim",
		Department: "Sales",
		Position:   "Account Executive",
		HireDate:   "2024-03-15",
		Salary:     70000,
		ActorID:    9,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if employee.ID == 0 {
		t.Fatal("created employee must get an id")
	}
	if employee.HireDate == nil || employee.HireDate.Format("2006-01-02") != "2024-03-15" {
		t.Fatalf("hire date not parsed: %v", employee.HireDate)
	}
	if employee.CreatedBy != 9 || employee.UpdatedBy != 9 {
		t.Fatalf("actor id not recorded: created_by=%d updated_by=%d", employee.CreatedBy, employee.UpdatedBy)
	}
}

func TestEmployeeService_UpdatePartial(t *testing.T) {
	repo := newMemEmployeeRepo()
	svc := NewEmployeeService(repo, logger.Nop())

	created, err := svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{
		Name:       "Evan Ross",
		Department: "Engineering",
		Position:   "Backend Engineer",
		Salary:     90000,
	})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	newDept := "Platform"
	updated, err := svc.UpdateEmployee(context.Background(), created.ID, ports.UpdateEmployeeInput{
		Department: &newDept,
		ActorID:    3,
	})
	if err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	if updated.Department != "Platform" {
		t.Fatalf("want department=Platform got %s", updated.Department)
	}
	if updated.Name != "Evan Ross" || updated.Salary != 90000 {
		t.Fatal("untouched fields must be preserved")
	}
	if updated.UpdatedBy != 3 {
		t.Fatalf("want updated_by=3 got %d", updated.UpdatedBy)
	}

	empty := ""
	if _, err := svc.UpdateEmployee(context.Background(), created.ID, ports.UpdateEmployeeInput{Name: &empty}); !errors.Is(err, ErrEmployeeInvalidInput) {
		t.Fatalf("blank name: want ErrEmployeeInvalidInput got %v", err)
	}

	if _, err := svc.UpdateEmployee(context.Background(), 999, ports.UpdateEmployeeInput{}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("missing employee: want ErrEmployeeNotFound got %v", err)
	}
}

func TestEmployeeService_Delete(t *testing.T) {
	repo := newMemEmployeeRepo()
	svc := NewEmployeeService(repo, logger.Nop())

	created, err := svc.CreateEmployee(context.Background(), ports.CreateEmployeeInput{Name: "Faye"})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if err := svc.DeleteEmployee(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if _, err := svc.GetEmployee(context.Background(), created.ID); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("want ErrEmployeeNotFound got %v", err)
	}
	if err := svc.DeleteEmployee(context.Background(), created.ID); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("double delete: want ErrEmployeeNotFound got %v", err)
	}
}
