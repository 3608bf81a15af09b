package memory

import (
	"context"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) checkUnique(e employee.Employee) error {
	for _, other := range r.s.employees {
		if other.ID == e.ID {
			continue
		}
		if other.EmployeeCode == e.EmployeeCode {
			return employee.ErrEmployeeCodeExists
		}
		if strings.EqualFold(other.Email, e.Email) {
			return employee.ErrEmailExists
		}
	}
	return nil
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	if newEmployee.ID == "" {
		newEmployee.ID = newID()
	}
	if err := r.checkUnique(newEmployee); err != nil {
		return employee.Employee{}, err
	}
	newEmployee.Email = strings.ToLower(newEmployee.Email)
	stamp(&newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	r.s.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) GetByCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	for _, e := range r.s.employees {
		if strings.EqualFold(e.EmployeeCode, employeeCode) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func matchEmployee(e employee.Employee, f employee.EmployeeFilter) bool {
	if f.Department != nil && string(e.Department) != *f.Department {
		return false
	}
	if f.Position != nil && string(e.Position) != *f.Position {
		return false
	}
	if f.Status != nil && string(e.EmploymentStatus) != *f.Status {
		return false
	}
	if f.Search != nil && *f.Search != "" {
		q := *f.Search
		if !containsFold(e.FirstName, q) && !containsFold(e.LastName, q) &&
			!containsFold(e.Email, q) && !containsFold(e.EmployeeCode, q) {
			return false
		}
	}
	return true
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	matched := make([]employee.Employee, 0)
	for _, e := range r.s.employees {
		if matchEmployee(e, filter) {
			matched = append(matched, e)
		}
	}

	cmp := func(a, b employee.Employee) int { return strings.Compare(a.FirstName, b.FirstName) }
	switch filter.SortBy {
	case "last_name":
		cmp = func(a, b employee.Employee) int { return strings.Compare(a.LastName, b.LastName) }
	case "employee_code":
		cmp = func(a, b employee.Employee) int { return strings.Compare(a.EmployeeCode, b.EmployeeCode) }
	case "hire_date":
		cmp = func(a, b employee.Employee) int { return a.HireDate.Compare(b.HireDate) }
	case "salary":
		cmp = func(a, b employee.Employee) int { return a.Salary.Cmp(b.Salary) }
	case "created_at":
		cmp = func(a, b employee.Employee) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
	sortBy(matched, strings.EqualFold(filter.SortOrder, "desc"), cmp, func(e employee.Employee) string { return e.ID })

	total := int64(len(matched))
	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	existing, ok := r.s.employees[e.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if err := r.checkUnique(e); err != nil {
		return employee.Employee{}, err
	}
	e.Email = strings.ToLower(e.Email)
	e.EmployeeCode = existing.EmployeeCode
	e.CreatedAt = existing.CreatedAt
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now()
	}
	r.s.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, ok := r.s.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.s.employees, id)
	return nil
}
