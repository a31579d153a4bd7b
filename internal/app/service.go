package app

import (
	"context"

	"payroll-ledger/internal/auth"
	"payroll-ledger/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
//
// Adapters authenticate and authorize a caller through Authenticate and
// Authorize before invoking any other operation.
type ApplicationService interface {
	// ── Access control ──

	// Authenticate resolves an Authorization header value to a principal.
	Authenticate(ctx context.Context, authorization string) (*auth.Principal, error)

	// Authorize fails with Forbidden when the principal may not perform op.
	Authorize(p *auth.Principal, op auth.Operation) error

	// Login exchanges a username and password for a 24h bearer token.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Register creates a user. caller is nil for anonymous registration,
	// which can only create the user role.
	Register(ctx context.Context, req RegisterRequest, caller *auth.Principal) (*UserResult, error)

	// GetUser returns user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)

	// BootstrapAdmin creates the first admin when the username is free.
	BootstrapAdmin(ctx context.Context, username, password string) (bool, error)

	// ── Departments ──

	CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*core.Department, error)
	UpdateDepartment(ctx context.Context, code string, req UpdateDepartmentRequest) (*core.Department, error)
	// DeleteDepartment fails with Conflict while employees reference the department.
	DeleteDepartment(ctx context.Context, code string) error
	GetDepartment(ctx context.Context, code string) (*core.DepartmentDetail, error)
	ListDepartments(ctx context.Context) (*DepartmentListResult, error)

	// ── Employees ──

	// CreateEmployee allocates an EMP#### number when req.Number is empty.
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*core.EmployeeView, error)
	UpdateEmployee(ctx context.Context, number string, req UpdateEmployeeRequest) (*core.EmployeeView, error)
	DeleteEmployee(ctx context.Context, number string) error
	GetEmployee(ctx context.Context, number string) (*core.EmployeeView, error)
	// ListEmployees optionally filters by department code (empty means all).
	ListEmployees(ctx context.Context, departmentCode string) (*EmployeeListResult, error)

	// ── Salaries ──

	CreateSalary(ctx context.Context, req CreateSalaryRequest) (*core.SalaryView, error)
	UpdateSalary(ctx context.Context, id string, req UpdateSalaryRequest) (*core.SalaryView, error)
	DeleteSalary(ctx context.Context, id string) error
	GetSalary(ctx context.Context, id string) (*core.SalaryView, error)
	ListSalaries(ctx context.Context, filter core.SalaryFilter) (*SalaryListResult, error)

	// ── Reports ──

	// PayrollReport lists the salary rows for one month and year.
	PayrollReport(ctx context.Context, month, year string) (*core.PayrollReport, error)

	// DepartmentSummary aggregates employees and salaries per department for a year.
	DepartmentSummary(ctx context.Context, year string) (*core.DepartmentSummaryReport, error)
}
