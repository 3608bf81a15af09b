package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, employee_code, user_id, first_name, last_name, email, phone, date_of_birth,
	gender, address, position, department, hire_date, salary, salary_type, employment_status,
	emergency_contact, is_active, notes, created_at, updated_at`

func scanEmployee(row scanner) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployeeCode, &e.UserID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.DateOfBirth,
		&e.Gender, &e.Address, &e.Position, &e.Department, &e.HireDate, &e.Salary, &e.SalaryType, &e.EmploymentStatus,
		&e.EmergencyContact, &e.IsActive, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func employeeConflict(err error) error {
	constraint, ok := isUniqueViolation(err)
	if !ok {
		return nil
	}
	if constraint == "employees_email_key" {
		return employee.ErrEmailExists
	}
	return employee.ErrEmployeeCodeExists
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.Must(uuid.NewV7()).String()
	}
	if newEmployee.CreatedAt.IsZero() {
		newEmployee.CreatedAt = time.Now()
	}
	if newEmployee.UpdatedAt.IsZero() {
		newEmployee.UpdatedAt = newEmployee.CreatedAt
	}

	query := `
		INSERT INTO employees (
			id, employee_code, user_id, first_name, last_name, email, phone, date_of_birth,
			gender, address, position, department, hire_date, salary, salary_type, employment_status,
			emergency_contact, is_active, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING ` + employeeColumns

	e := newEmployee
	created, err := scanEmployee(q.QueryRow(ctx, query,
		e.ID, e.EmployeeCode, e.UserID, e.FirstName, e.LastName, strings.ToLower(e.Email), e.Phone, e.DateOfBirth,
		e.Gender, e.Address, e.Position, e.Department, e.HireDate, e.Salary, e.SalaryType, e.EmploymentStatus,
		e.EmergencyContact, e.IsActive, e.Notes, e.CreatedAt, e.UpdatedAt,
	))
	if err != nil {
		if conflict := employeeConflict(err); conflict != nil {
			return employee.Employee{}, conflict
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return e, nil
}

// GetByCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE UPPER(employee_code) = UPPER($1)`, employeeCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Department != nil && *filter.Department != "" {
		baseWhere += fmt.Sprintf(" AND department = $%d", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Position != nil && *filter.Position != "" {
		baseWhere += fmt.Sprintf(" AND position = $%d", argIdx)
		args = append(args, *filter.Position)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND employment_status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR employee_code ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	// Build ORDER BY
	orderByField := "first_name"
	switch filter.SortBy {
	case "last_name", "employee_code", "hire_date", "salary", "created_at":
		orderByField = filter.SortBy
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY %s %s, id %s`,
		employeeColumns, baseWhere, orderByField, sortOrder, sortOrder)
	if filter.Limit > 0 {
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (max(filter.Page, 1)-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, total, nil
}

// Update implements employee.EmployeeRepository. The employee code is never
// written.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now()
	}

	query := `
		UPDATE employees
		SET user_id = $1, first_name = $2, last_name = $3, email = $4, phone = $5, date_of_birth = $6,
			gender = $7, address = $8, position = $9, department = $10, hire_date = $11, salary = $12,
			salary_type = $13, employment_status = $14, emergency_contact = $15, is_active = $16,
			notes = $17, updated_at = $18
		WHERE id = $19
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		e.UserID, e.FirstName, e.LastName, strings.ToLower(e.Email), e.Phone, e.DateOfBirth,
		e.Gender, e.Address, e.Position, e.Department, e.HireDate, e.Salary,
		e.SalaryType, e.EmploymentStatus, e.EmergencyContact, e.IsActive,
		e.Notes, e.UpdatedAt, e.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if conflict := employeeConflict(err); conflict != nil {
			return employee.Employee{}, conflict
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
