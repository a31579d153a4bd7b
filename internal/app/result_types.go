package app

import (
	"time"

	"payroll-ledger/internal/core"
)

// DepartmentListResult is returned by ListDepartments.
type DepartmentListResult struct {
	Departments []core.Department `json:"departments"`
}

// EmployeeListResult is returned by ListEmployees.
type EmployeeListResult struct {
	Employees []core.EmployeeView `json:"employees"`
}

// SalaryListResult is returned by ListSalaries.
type SalaryListResult struct {
	Salaries []core.SalaryView `json:"salaries"`
}

// UserResult is the public profile of a user.
type UserResult struct {
	ID       int       `json:"id"`
	Username string    `json:"username"`
	Role     core.Role `json:"role"`
}

// LoginResult is returned by Login.
type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      UserResult `json:"user"`
}
