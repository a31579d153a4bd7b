package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// PayrollLine is one salary row of a payroll report, with the employee's name
// and position and the name of the department the employee currently belongs to.
type PayrollLine struct {
	SalaryID       string          `json:"salary_id"`
	EmployeeNumber string          `json:"employee_number"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Position       string          `json:"position"`
	DepartmentName string          `json:"department_name"`
	NetSalary      decimal.Decimal `json:"net_salary"`
}

// PayrollReport lists every salary row recorded for one (month, year) period.
// Lines holds exactly one entry per matching salary row; duplicate period
// entries for the same employee are reported individually.
type PayrollReport struct {
	Month    Month           `json:"month"`
	Year     string          `json:"year"`
	Lines    []PayrollLine   `json:"lines"`
	Count    int             `json:"count"`
	TotalNet decimal.Decimal `json:"total_net"`
}

// DepartmentSummaryLine aggregates one department for a year.
// EmployeeCount counts every employee in the department, whether or not they
// have salary rows in the year. The totals sum only salary rows of that year.
type DepartmentSummaryLine struct {
	DepartmentCode   string          `json:"department_code"`
	DepartmentName   string          `json:"department_name"`
	EmployeeCount    int             `json:"employee_count"`
	TotalGrossSalary decimal.Decimal `json:"total_gross_salary"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
}

// DepartmentSummaryReport has one line per department, including departments
// with no employees, ordered by department code.
type DepartmentSummaryReport struct {
	Year           string                  `json:"year"`
	Lines          []DepartmentSummaryLine `json:"lines"`
	TotalEmployees int                     `json:"total_employees"`
	TotalGross     decimal.Decimal         `json:"total_gross_salary"`
	TotalNet       decimal.Decimal         `json:"total_net_salary"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only reporting queries over payroll data.
// It performs no writes.
type ReportingService interface {
	// PayrollReport returns the salary rows matching both month and year,
	// joined through each employee to their department. Rows are ordered by
	// department name, last name, first name, then creation time.
	// Either parameter missing or malformed yields InvalidInput.
	PayrollReport(ctx context.Context, month, year string) (*PayrollReport, error)

	// DepartmentSummary groups Department → Employee → Salary(year) with left
	// outer joins. Sums default to zero when a department has no salary rows
	// in the year. A missing or malformed year yields InvalidInput.
	DepartmentSummary(ctx context.Context, year string) (*DepartmentSummaryReport, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	db DB
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(db DB) ReportingService {
	return &reportingService{db: db}
}

// ── PayrollReport ─────────────────────────────────────────────────────────────

func (s *reportingService) PayrollReport(ctx context.Context, month, year string) (*PayrollReport, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	y, err := ParseYear(year)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT s.salary_id::text, e.employee_number, e.first_name, e.last_name, e.position,
		       d.department_name, s.net_salary
		FROM salaries s
		JOIN employees e ON e.employee_number = s.employee_number
		JOIN departments d ON d.department_code = e.department_code
		WHERE s.month = $1 AND s.year = $2
		ORDER BY d.department_name, e.last_name, e.first_name, s.created_at
	`, string(m), y)
	if err != nil {
		return nil, classifyStorageError(err, "query payroll report")
	}
	defer rows.Close()

	lines := []PayrollLine{}
	for rows.Next() {
		var l PayrollLine
		if err := rows.Scan(&l.SalaryID, &l.EmployeeNumber, &l.FirstName, &l.LastName,
			&l.Position, &l.DepartmentName, &l.NetSalary); err != nil {
			return nil, classifyStorageError(err, "scan payroll line")
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageError(err, "iterate payroll report")
	}

	count, total := PayrollTotals(lines)
	return &PayrollReport{Month: m, Year: y, Lines: lines, Count: count, TotalNet: total}, nil
}

// PayrollTotals returns the row count and total net salary of a payroll report.
func PayrollTotals(lines []PayrollLine) (int, decimal.Decimal) {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.NetSalary)
	}
	return len(lines), total
}

// ── DepartmentSummary ─────────────────────────────────────────────────────────

func (s *reportingService) DepartmentSummary(ctx context.Context, year string) (*DepartmentSummaryReport, error) {
	y, err := ParseYear(year)
	if err != nil {
		return nil, err
	}

	// The year filter sits in the salary join condition, not in WHERE, so
	// departments and employees without salaries in the year are kept.
	rows, err := s.db.Query(ctx, `
		SELECT d.department_code, d.department_name,
		       COUNT(DISTINCT e.employee_number),
		       COALESCE(SUM(s.gross_salary), 0),
		       COALESCE(SUM(s.net_salary), 0)
		FROM departments d
		LEFT JOIN employees e ON e.department_code = d.department_code
		LEFT JOIN salaries s ON s.employee_number = e.employee_number AND s.year = $1
		GROUP BY d.department_code, d.department_name
		ORDER BY d.department_code
	`, y)
	if err != nil {
		return nil, classifyStorageError(err, "query department summary")
	}
	defer rows.Close()

	report := &DepartmentSummaryReport{
		Year:       y,
		Lines:      []DepartmentSummaryLine{},
		TotalGross: decimal.Zero,
		TotalNet:   decimal.Zero,
	}
	for rows.Next() {
		var l DepartmentSummaryLine
		if err := rows.Scan(&l.DepartmentCode, &l.DepartmentName, &l.EmployeeCount,
			&l.TotalGrossSalary, &l.TotalNetSalary); err != nil {
			return nil, classifyStorageError(err, "scan department summary line")
		}
		report.Lines = append(report.Lines, l)
		report.TotalEmployees += l.EmployeeCount
		report.TotalGross = report.TotalGross.Add(l.TotalGrossSalary)
		report.TotalNet = report.TotalNet.Add(l.TotalNetSalary)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageError(err, "iterate department summary")
	}
	return report, nil
}
