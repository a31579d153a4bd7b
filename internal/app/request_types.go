package app

import (
	"github.com/shopspring/decimal"

	"payroll-ledger/internal/core"
)

// CreateDepartmentRequest is the input for creating a department.
type CreateDepartmentRequest struct {
	Code        string
	Name        string
	GrossSalary decimal.Decimal
}

// UpdateDepartmentRequest carries the fields to change; nil means unchanged.
type UpdateDepartmentRequest struct {
	Name        *string
	GrossSalary *decimal.Decimal
}

// CreateEmployeeRequest is the input for creating an employee.
// Number is optional.
type CreateEmployeeRequest struct {
	Number         string
	FirstName      string
	LastName       string
	Position       string
	Address        string
	Telephone      string
	Gender         string
	HiredDate      string // YYYY-MM-DD
	DepartmentCode string
}

// UpdateEmployeeRequest carries the fields to change; nil means unchanged.
type UpdateEmployeeRequest struct {
	FirstName      *string
	LastName       *string
	Position       *string
	Address        *string
	Telephone      *string
	Gender         *string
	HiredDate      *string
	DepartmentCode *string
}

// CreateSalaryRequest is the input for recording a salary. There is no
// net salary field; it is always derived.
type CreateSalaryRequest struct {
	EmployeeNumber string
	GrossSalary    decimal.Decimal
	TotalDeduction decimal.Decimal
	Month          string
	Year           string
}

// UpdateSalaryRequest carries the fields to change; nil means unchanged.
type UpdateSalaryRequest struct {
	EmployeeNumber *string
	GrossSalary    *decimal.Decimal
	TotalDeduction *decimal.Decimal
	Month          *string
	Year           *string
}

// RegisterRequest is the input for creating a user. Role defaults to "user".
type RegisterRequest struct {
	Username string
	Password string
	Role     string
}

func (r CreateDepartmentRequest) input() core.DepartmentInput {
	return core.DepartmentInput{Code: r.Code, Name: r.Name, GrossSalary: r.GrossSalary}
}

func (r UpdateDepartmentRequest) patch() core.DepartmentPatch {
	return core.DepartmentPatch{Name: r.Name, GrossSalary: r.GrossSalary}
}

func (r CreateEmployeeRequest) input() core.EmployeeInput {
	return core.EmployeeInput{
		Number:         r.Number,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Position:       r.Position,
		Address:        r.Address,
		Telephone:      r.Telephone,
		Gender:         r.Gender,
		HiredDate:      r.HiredDate,
		DepartmentCode: r.DepartmentCode,
	}
}

func (r UpdateEmployeeRequest) patch() core.EmployeePatch {
	return core.EmployeePatch{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Position:       r.Position,
		Address:        r.Address,
		Telephone:      r.Telephone,
		Gender:         r.Gender,
		HiredDate:      r.HiredDate,
		DepartmentCode: r.DepartmentCode,
	}
}

func (r CreateSalaryRequest) input() core.SalaryInput {
	return core.SalaryInput{
		EmployeeNumber: r.EmployeeNumber,
		GrossSalary:    r.GrossSalary,
		TotalDeduction: r.TotalDeduction,
		Month:          r.Month,
		Year:           r.Year,
	}
}

func (r UpdateSalaryRequest) patch() core.SalaryPatch {
	return core.SalaryPatch{
		EmployeeNumber: r.EmployeeNumber,
		GrossSalary:    r.GrossSalary,
		TotalDeduction: r.TotalDeduction,
		Month:          r.Month,
		Year:           r.Year,
	}
}
