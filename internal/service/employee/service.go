package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sequence"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/aquaclean/aquaclean-backend-go/internal/service/statistics"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	sequenceRepo sequence.SequenceRepository
	loc          *time.Location
	now          func() time.Time
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	sequenceRepo sequence.SequenceRepository,
	loc *time.Location,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		sequenceRepo: sequenceRepo,
		loc:          loc,
		now:          time.Now,
	}
}

func roleForPosition(p employee.Position) user.Role {
	if p == employee.PositionManager {
		return user.RoleManager
	}
	return user.RoleEmployee
}

// parseDay reads a YYYY-MM-DD value as midnight in the business timezone.
func (s *EmployeeServiceImpl) parseDay(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return t, nil
}

// Create implements employee.EmployeeService. The employee and its login
// account are created together.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().In(s.loc)
	newEmployee := employee.Employee{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            req.Phone,
		Address:          req.Address,
		Position:         employee.Position(req.Position),
		Department:       employee.Department(req.Department),
		HireDate:         time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc),
		Salary:           req.Salary,
		SalaryType:       employee.SalaryType(req.SalaryType),
		EmploymentStatus: employee.EmploymentStatusActive,
		EmergencyContact: req.EmergencyContact,
		IsActive:         true,
		Notes:            req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if newEmployee.Address.Country == "" {
		newEmployee.Address.Country = employee.DefaultCountry
	}
	if req.DateOfBirth != nil {
		dob, err := s.parseDay("date_of_birth", *req.DateOfBirth)
		if err != nil {
			return employee.Employee{}, err
		}
		newEmployee.DateOfBirth = &dob
	}
	if req.Gender != nil {
		g := employee.Gender(*req.Gender)
		newEmployee.Gender = &g
	}
	if req.HireDate != nil {
		if newEmployee.HireDate, err = s.parseDay("hire_date", *req.HireDate); err != nil {
			return employee.Employee{}, err
		}
	}

	var created employee.Employee
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		seq, err := s.sequenceRepo.Next(ctx, employee.CodeScope(now.Year()))
		if err != nil {
			return fmt.Errorf("failed to allocate employee code: %w", err)
		}
		newEmployee.EmployeeCode = employee.FormatCode(now.Year(), seq)

		created, err = s.employeeRepo.Create(ctx, newEmployee)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}

		account, err := s.userRepo.Create(ctx, user.User{
			Email:        created.Email,
			PasswordHash: string(hash),
			Role:         roleForPosition(created.Position),
			FirstName:    created.FirstName,
			LastName:     created.LastName,
			EmployeeID:   &created.ID,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("failed to create user account: %w", err)
		}

		created.UserID = &account.ID
		created, err = s.employeeRepo.Update(ctx, created)
		if err != nil {
			return fmt.Errorf("failed to link user account: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode)
	return created, nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Employees:  employees,
	}, nil
}

// syncAccount copies name, email and active flag onto the linked user.
func (s *EmployeeServiceImpl) syncAccount(ctx context.Context, emp employee.Employee, now time.Time) error {
	if emp.UserID == nil {
		return nil
	}
	account, err := s.userRepo.GetByID(ctx, *emp.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Warn("linked user account missing", "employee_id", emp.ID, "user_id", *emp.UserID)
			return nil
		}
		return err
	}
	account.FirstName = emp.FirstName
	account.LastName = emp.LastName
	account.Email = emp.Email
	account.IsActive = emp.IsActive
	account.UpdatedAt = now
	_, err = s.userRepo.Update(ctx, account)
	return err
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	var updated employee.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if err := req.Apply(&emp, s.loc); err != nil {
			return err
		}
		now := s.now()
		emp.UpdatedAt = now

		updated, err = s.employeeRepo.Update(ctx, emp)
		if err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		if err := s.syncAccount(ctx, updated, now); err != nil {
			return fmt.Errorf("failed to update user account: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}

// UpdateStatus implements employee.EmployeeService. Terminated and resigned
// employees lose their active flag and their login.
func (s *EmployeeServiceImpl) UpdateStatus(ctx context.Context, req employee.UpdateStatusRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	var updated employee.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		status := employee.EmploymentStatus(req.EmploymentStatus)
		if emp.EmploymentStatus == status {
			return employee.ErrStatusUnchanged
		}
		emp.EmploymentStatus = status
		switch {
		case status.Deactivates():
			emp.IsActive = false
		case status == employee.EmploymentStatusActive:
			emp.IsActive = true
		}
		if req.Reason != "" {
			note := fmt.Sprintf("Status changed to %s: %s", status, req.Reason)
			if emp.Notes != "" {
				note = emp.Notes + "\n" + note
			}
			emp.Notes = note
		}
		now := s.now()
		emp.UpdatedAt = now

		updated, err = s.employeeRepo.Update(ctx, emp)
		if err != nil {
			return fmt.Errorf("failed to update employee status: %w", err)
		}
		if err := s.syncAccount(ctx, updated, now); err != nil {
			return fmt.Errorf("failed to update user account: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}

	slog.Info("employee status changed", "employee_id", updated.ID, "status", updated.EmploymentStatus)
	return updated, nil
}

// Delete implements employee.EmployeeService. The linked user account is
// removed in the same transaction.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string, actorEmployeeID *string) error {
	if actorEmployeeID != nil && *actorEmployeeID == id {
		return employee.ErrCannotDeleteSelf
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.employeeRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		if emp.UserID == nil {
			return nil
		}
		if err := s.userRepo.Delete(ctx, *emp.UserID); err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("failed to delete user account: %w", err)
		}
		return nil
	})
}

// GetStatistics implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetStatistics(ctx context.Context) (employee.Statistics, error) {
	employees, _, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return employee.Statistics{}, fmt.Errorf("failed to list employees: %w", err)
	}
	return statistics.Employees(employees), nil
}
