package app

import (
	"context"

	"payroll-ledger/internal/auth"
	"payroll-ledger/internal/core"
	"payroll-ledger/internal/logger"
)

type appService struct {
	departments core.DepartmentService
	employees   core.EmployeeService
	salaries    core.SalaryService
	reports     core.ReportingService
	users       core.UserService
	gate        *auth.Gate
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	departments core.DepartmentService,
	employees core.EmployeeService,
	salaries core.SalaryService,
	reports core.ReportingService,
	users core.UserService,
	gate *auth.Gate,
) ApplicationService {
	return &appService{
		departments: departments,
		employees:   employees,
		salaries:    salaries,
		reports:     reports,
		users:       users,
		gate:        gate,
	}
}

// ── Access control ───────────────────────────────────────────────────────────

func (s *appService) Authenticate(ctx context.Context, authorization string) (*auth.Principal, error) {
	return s.gate.Authenticate(ctx, authorization)
}

func (s *appService) Authorize(p *auth.Principal, op auth.Operation) error {
	return s.gate.Authorize(p, op)
}

func (s *appService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	cred, err := s.gate.IssueCredential(ctx, username, password)
	if err != nil {
		logger.FromContext(ctx).Warn().Str("username", username).Str("kind", string(core.KindOf(err))).Msg("login failed")
		return nil, err
	}
	logger.FromContext(ctx).Info().Int("user_id", cred.Principal.ID).Msg("login succeeded")
	return &LoginResult{
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt,
		User:      userResult(cred.Principal),
	}, nil
}

func (s *appService) Register(ctx context.Context, req RegisterRequest, caller *auth.Principal) (*UserResult, error) {
	p, err := s.gate.Register(ctx, auth.RegisterInput{Username: req.Username, Password: req.Password, Role: req.Role}, caller)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info().Int("user_id", p.ID).Str("role", string(p.Role)).Msg("user registered")
	res := userResult(*p)
	return &res, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (s *appService) BootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	created, err := s.gate.BootstrapAdmin(ctx, username, password)
	if err != nil {
		return false, err
	}
	if created {
		logger.FromContext(ctx).Info().Str("username", username).Msg("bootstrap admin created")
	}
	return created, nil
}

func userResult(p auth.Principal) UserResult {
	return UserResult{ID: p.ID, Username: p.Username, Role: p.Role}
}

// ── Departments ──────────────────────────────────────────────────────────────

func (s *appService) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*core.Department, error) {
	d, err := s.departments.CreateDepartment(ctx, req.input())
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info().Str("department_code", d.Code).Msg("department created")
	return d, nil
}

func (s *appService) UpdateDepartment(ctx context.Context, code string, req UpdateDepartmentRequest) (*core.Department, error) {
	return s.departments.UpdateDepartment(ctx, code, req.patch())
}

func (s *appService) DeleteDepartment(ctx context.Context, code string) error {
	if err := s.departments.DeleteDepartment(ctx, code); err != nil {
		return err
	}
	logger.FromContext(ctx).Info().Str("department_code", code).Msg("department deleted")
	return nil
}

func (s *appService) GetDepartment(ctx context.Context, code string) (*core.DepartmentDetail, error) {
	return s.departments.GetDepartment(ctx, code)
}

func (s *appService) ListDepartments(ctx context.Context) (*DepartmentListResult, error) {
	departments, err := s.departments.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	return &DepartmentListResult{Departments: departments}, nil
}

// ── Employees ────────────────────────────────────────────────────────────────

func (s *appService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*core.EmployeeView, error) {
	e, err := s.employees.CreateEmployee(ctx, req.input())
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info().Str("employee_number", e.Number).Str("department_code", e.DepartmentCode).Msg("employee created")
	return e, nil
}

func (s *appService) UpdateEmployee(ctx context.Context, number string, req UpdateEmployeeRequest) (*core.EmployeeView, error) {
	return s.employees.UpdateEmployee(ctx, number, req.patch())
}

func (s *appService) DeleteEmployee(ctx context.Context, number string) error {
	if err := s.employees.DeleteEmployee(ctx, number); err != nil {
		return err
	}
	logger.FromContext(ctx).Info().Str("employee_number", number).Msg("employee deleted")
	return nil
}

func (s *appService) GetEmployee(ctx context.Context, number string) (*core.EmployeeView, error) {
	return s.employees.GetEmployee(ctx, number)
}

func (s *appService) ListEmployees(ctx context.Context, departmentCode string) (*EmployeeListResult, error) {
	employees, err := s.employees.ListEmployees(ctx, core.EmployeeFilter{DepartmentCode: departmentCode})
	if err != nil {
		return nil, err
	}
	return &EmployeeListResult{Employees: employees}, nil
}

// ── Salaries ─────────────────────────────────────────────────────────────────

func (s *appService) CreateSalary(ctx context.Context, req CreateSalaryRequest) (*core.SalaryView, error) {
	sal, err := s.salaries.CreateSalary(ctx, req.input())
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info().
		Str("salary_id", sal.ID).
		Str("employee_number", sal.EmployeeNumber).
		Str("period", string(sal.Month)+" "+sal.Year).
		Msg("salary recorded")
	return sal, nil
}

func (s *appService) UpdateSalary(ctx context.Context, id string, req UpdateSalaryRequest) (*core.SalaryView, error) {
	return s.salaries.UpdateSalary(ctx, id, req.patch())
}

func (s *appService) DeleteSalary(ctx context.Context, id string) error {
	if err := s.salaries.DeleteSalary(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info().Str("salary_id", id).Msg("salary deleted")
	return nil
}

func (s *appService) GetSalary(ctx context.Context, id string) (*core.SalaryView, error) {
	return s.salaries.GetSalary(ctx, id)
}

func (s *appService) ListSalaries(ctx context.Context, filter core.SalaryFilter) (*SalaryListResult, error) {
	salaries, err := s.salaries.ListSalaries(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &SalaryListResult{Salaries: salaries}, nil
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (s *appService) PayrollReport(ctx context.Context, month, year string) (*core.PayrollReport, error) {
	return s.reports.PayrollReport(ctx, month, year)
}

func (s *appService) DepartmentSummary(ctx context.Context, year string) (*core.DepartmentSummaryReport, error) {
	return s.reports.DepartmentSummary(ctx, year)
}
