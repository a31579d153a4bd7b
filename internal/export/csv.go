// Package export renders report rows as CSV or XLSX. It is pure formatting
// over what the reporting service returns.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"payroll-ledger/internal/core"
)

var (
	payrollHeader = []string{"Employee Number", "First Name", "Last Name", "Position", "Department", "Net Salary"}
	summaryHeader = []string{"Department Code", "Department", "Employees", "Total Gross Salary", "Total Net Salary"}
)

// PayrollFilename is the suggested download name for a payroll report.
func PayrollFilename(r *core.PayrollReport, ext string) string {
	return fmt.Sprintf("payroll_%s_%s.%s", r.Month, r.Year, ext)
}

// DepartmentSummaryFilename is the suggested download name for a department summary.
func DepartmentSummaryFilename(r *core.DepartmentSummaryReport, ext string) string {
	return fmt.Sprintf("department_summary_%s.%s", r.Year, ext)
}

// WritePayrollCSV writes one row per payroll line followed by a total row.
func WritePayrollCSV(w io.Writer, r *core.PayrollReport) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(payrollHeader)
	for _, l := range r.Lines {
		_ = cw.Write([]string{
			csvSafe(l.EmployeeNumber),
			csvSafe(l.FirstName),
			csvSafe(l.LastName),
			csvSafe(l.Position),
			csvSafe(l.DepartmentName),
			l.NetSalary.StringFixed(2),
		})
	}
	_ = cw.Write([]string{"Total", "", "", "", "", r.TotalNet.StringFixed(2)})
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write payroll csv: %w", err)
	}
	return nil
}

// WriteDepartmentSummaryCSV writes one row per department followed by a total row.
func WriteDepartmentSummaryCSV(w io.Writer, r *core.DepartmentSummaryReport) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(summaryHeader)
	for _, l := range r.Lines {
		_ = cw.Write([]string{
			csvSafe(l.DepartmentCode),
			csvSafe(l.DepartmentName),
			strconv.Itoa(l.EmployeeCount),
			l.TotalGrossSalary.StringFixed(2),
			l.TotalNetSalary.StringFixed(2),
		})
	}
	_ = cw.Write([]string{"Total", "", strconv.Itoa(r.TotalEmployees), r.TotalGross.StringFixed(2), r.TotalNet.StringFixed(2)})
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write department summary csv: %w", err)
	}
	return nil
}

// csvSafe prevents CSV formula injection by prefixing cells that begin with a
// formula trigger character with a single quote.
func csvSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
