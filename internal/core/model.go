package core

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Month is a reporting period month, stored by its English name.
type Month string

const (
	January   Month = "January"
	February  Month = "February"
	March     Month = "March"
	April     Month = "April"
	May       Month = "May"
	June      Month = "June"
	July      Month = "July"
	August    Month = "August"
	September Month = "September"
	October   Month = "October"
	November  Month = "November"
	December  Month = "December"
)

// Months lists the valid months in calendar order.
var Months = []Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

// ParseMonth accepts a month name in any letter case.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Errorf(KindInvalidInput, "month is required")
	}
	for _, m := range Months {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", Errorf(KindInvalidInput, "invalid month %q", s)
}

// ParseYear accepts exactly four digits.
func ParseYear(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Errorf(KindInvalidInput, "year is required")
	}
	if len(s) != 4 || strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
		return "", Errorf(KindInvalidInput, "invalid year %q: expected four digits", s)
	}
	return s, nil
}

type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

// ParseGender accepts M, F, male or female in any letter case.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return Male, nil
	case "f", "female":
		return Female, nil
	case "":
		return "", Errorf(KindInvalidInput, "gender is required")
	}
	return "", Errorf(KindInvalidInput, "invalid gender %q: expected M or F", s)
}

// maxAmount is the largest value NUMERIC(10,2) can hold.
var maxAmount = decimal.RequireFromString("99999999.99")

// validateAmount rejects negative and out-of-range amounts and rounds to cents.
func validateAmount(field string, d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return d, Errorf(KindInvalidInput, "%s must not be negative", field)
	}
	d = d.Round(2)
	if d.GreaterThan(maxAmount) {
		return d, Errorf(KindInvalidInput, "%s exceeds %s", field, maxAmount.StringFixed(2))
	}
	return d, nil
}

func requireText(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", Errorf(KindInvalidInput, "%s is required", field)
	}
	return v, nil
}

// ── Department ───────────────────────────────────────────────────────────────

type Department struct {
	Code        string          `json:"department_code"`
	Name        string          `json:"department_name"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DepartmentDetail is a department together with the employees that reference it.
type DepartmentDetail struct {
	Department
	Employees []EmployeeSummary `json:"employees"`
}

type EmployeeSummary struct {
	Number    string `json:"employee_number"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

type DepartmentInput struct {
	Code        string
	Name        string
	GrossSalary decimal.Decimal
}

func (in DepartmentInput) normalize() (DepartmentInput, error) {
	var err error
	if in.Code, err = requireText("department_code", in.Code); err != nil {
		return in, err
	}
	if in.Name, err = requireText("department_name", in.Name); err != nil {
		return in, err
	}
	if in.GrossSalary, err = validateAmount("gross_salary", in.GrossSalary); err != nil {
		return in, err
	}
	return in, nil
}

// DepartmentPatch lists the updatable department fields; nil means unchanged.
type DepartmentPatch struct {
	Name        *string
	GrossSalary *decimal.Decimal
}

func (p DepartmentPatch) normalize() (DepartmentPatch, error) {
	if p.Name != nil {
		v, err := requireText("department_name", *p.Name)
		if err != nil {
			return p, err
		}
		p.Name = &v
	}
	if p.GrossSalary != nil {
		v, err := validateAmount("gross_salary", *p.GrossSalary)
		if err != nil {
			return p, err
		}
		p.GrossSalary = &v
	}
	return p, nil
}

// ── Employee ─────────────────────────────────────────────────────────────────

type Employee struct {
	Number         string    `json:"employee_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Position       string    `json:"position"`
	Address        string    `json:"address"`
	Telephone      string    `json:"telephone"`
	Gender         Gender    `json:"gender"`
	HiredDate      string    `json:"hired_date"` // YYYY-MM-DD
	DepartmentCode string    `json:"department_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EmployeeView is an employee joined with its department's display name.
type EmployeeView struct {
	Employee
	DepartmentName string `json:"department_name"`
}

// EmployeeInput creates an employee. An empty Number asks the store to allocate one.
type EmployeeInput struct {
	Number         string
	FirstName      string
	LastName       string
	Position       string
	Address        string
	Telephone      string
	Gender         string
	HiredDate      string
	DepartmentCode string
}

type normalizedEmployee struct {
	Number         string
	FirstName      string
	LastName       string
	Position       string
	Address        string
	Telephone      string
	Gender         Gender
	HiredDate      string
	DepartmentCode string
}

func (in EmployeeInput) normalize() (normalizedEmployee, error) {
	var out normalizedEmployee
	var err error
	out.Number = strings.TrimSpace(in.Number)
	fields := []struct {
		name string
		src  string
		dst  *string
	}{
		{"first_name", in.FirstName, &out.FirstName},
		{"last_name", in.LastName, &out.LastName},
		{"position", in.Position, &out.Position},
		{"address", in.Address, &out.Address},
		{"telephone", in.Telephone, &out.Telephone},
		{"department_code", in.DepartmentCode, &out.DepartmentCode},
	}
	for _, f := range fields {
		if *f.dst, err = requireText(f.name, f.src); err != nil {
			return out, err
		}
	}
	if out.Gender, err = ParseGender(in.Gender); err != nil {
		return out, err
	}
	if out.HiredDate, err = ParseDate("hired_date", in.HiredDate); err != nil {
		return out, err
	}
	return out, nil
}

// EmployeePatch lists the updatable employee fields; nil means unchanged.
type EmployeePatch struct {
	FirstName      *string
	LastName       *string
	Position       *string
	Address        *string
	Telephone      *string
	Gender         *string
	HiredDate      *string
	DepartmentCode *string
}

func (p EmployeePatch) normalize() (EmployeePatch, error) {
	texts := []struct {
		name string
		ptr  **string
	}{
		{"first_name", &p.FirstName},
		{"last_name", &p.LastName},
		{"position", &p.Position},
		{"address", &p.Address},
		{"telephone", &p.Telephone},
		{"department_code", &p.DepartmentCode},
	}
	for _, f := range texts {
		if *f.ptr == nil {
			continue
		}
		v, err := requireText(f.name, **f.ptr)
		if err != nil {
			return p, err
		}
		*f.ptr = &v
	}
	if p.Gender != nil {
		g, err := ParseGender(*p.Gender)
		if err != nil {
			return p, err
		}
		v := string(g)
		p.Gender = &v
	}
	if p.HiredDate != nil {
		d, err := ParseDate("hired_date", *p.HiredDate)
		if err != nil {
			return p, err
		}
		p.HiredDate = &d
	}
	return p, nil
}

type EmployeeFilter struct {
	DepartmentCode string
}

// ParseDate accepts YYYY-MM-DD, or an RFC 3339 timestamp whose date part is used.
func ParseDate(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Errorf(KindInvalidInput, "%s is required", field)
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Format(time.DateOnly), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.DateOnly), nil
	}
	return "", Errorf(KindInvalidInput, "invalid %s %q: expected YYYY-MM-DD", field, s)
}

// ── Salary ───────────────────────────────────────────────────────────────────

type Salary struct {
	ID             string          `json:"salary_id"`
	EmployeeNumber string          `json:"employee_number"`
	GrossSalary    decimal.Decimal `json:"gross_salary"`
	TotalDeduction decimal.Decimal `json:"total_deduction"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	Month          Month           `json:"month"`
	Year           string          `json:"year"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SalaryView is a salary joined with its employee's and department's display attributes.
type SalaryView struct {
	Salary
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Position       string `json:"position"`
	DepartmentName string `json:"department_name"`
}

// SalaryInput creates a salary record. Net salary is always derived.
type SalaryInput struct {
	EmployeeNumber string
	GrossSalary    decimal.Decimal
	TotalDeduction decimal.Decimal
	Month          string
	Year           string
}

type normalizedSalary struct {
	EmployeeNumber string
	GrossSalary    decimal.Decimal
	TotalDeduction decimal.Decimal
	Month          Month
	Year           string
}

func (in SalaryInput) normalize() (normalizedSalary, error) {
	var out normalizedSalary
	var err error
	if out.EmployeeNumber, err = requireText("employee_number", in.EmployeeNumber); err != nil {
		return out, err
	}
	if out.GrossSalary, err = validateAmount("gross_salary", in.GrossSalary); err != nil {
		return out, err
	}
	if out.TotalDeduction, err = validateAmount("total_deduction", in.TotalDeduction); err != nil {
		return out, err
	}
	if out.Month, err = ParseMonth(in.Month); err != nil {
		return out, err
	}
	if out.Year, err = ParseYear(in.Year); err != nil {
		return out, err
	}
	return out, nil
}

// SalaryPatch lists the updatable salary fields; nil means unchanged.
// There is no net salary field: net is recomputed from the merged amounts.
type SalaryPatch struct {
	EmployeeNumber *string
	GrossSalary    *decimal.Decimal
	TotalDeduction *decimal.Decimal
	Month          *string
	Year           *string
}

func (p SalaryPatch) normalize() (SalaryPatch, error) {
	if p.EmployeeNumber != nil {
		v, err := requireText("employee_number", *p.EmployeeNumber)
		if err != nil {
			return p, err
		}
		p.EmployeeNumber = &v
	}
	if p.GrossSalary != nil {
		v, err := validateAmount("gross_salary", *p.GrossSalary)
		if err != nil {
			return p, err
		}
		p.GrossSalary = &v
	}
	if p.TotalDeduction != nil {
		v, err := validateAmount("total_deduction", *p.TotalDeduction)
		if err != nil {
			return p, err
		}
		p.TotalDeduction = &v
	}
	if p.Month != nil {
		m, err := ParseMonth(*p.Month)
		if err != nil {
			return p, err
		}
		v := string(m)
		p.Month = &v
	}
	if p.Year != nil {
		v, err := ParseYear(*p.Year)
		if err != nil {
			return p, err
		}
		p.Year = &v
	}
	return p, nil
}

// SalaryFilter narrows ListSalaries. Empty fields are ignored.
type SalaryFilter struct {
	EmployeeNumber string
	Month          string
	Year           string
}
