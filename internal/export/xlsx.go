package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"payroll-ledger/internal/core"
)

const (
	payrollSheet = "Payroll"
	summarySheet = "Department Summary"
)

// WritePayrollXLSX writes the payroll report as a single-sheet workbook.
func WritePayrollXLSX(w io.Writer, r *core.PayrollReport) error {
	f, err := newWorkbook(payrollSheet, payrollHeader)
	if err != nil {
		return err
	}
	defer f.Close()

	row := 2
	for _, l := range r.Lines {
		net, _ := l.NetSalary.Float64()
		if err := setRow(f, payrollSheet, row, []any{
			l.EmployeeNumber, l.FirstName, l.LastName, l.Position, l.DepartmentName, net,
		}); err != nil {
			return err
		}
		row++
	}
	total, _ := r.TotalNet.Float64()
	if err := setRow(f, payrollSheet, row, []any{"Total", nil, nil, nil, nil, total}); err != nil {
		return err
	}
	if err := styleMoney(f, payrollSheet, "F", row); err != nil {
		return err
	}
	return writeWorkbook(f, w)
}

// WriteDepartmentSummaryXLSX writes the department summary as a single-sheet workbook.
func WriteDepartmentSummaryXLSX(w io.Writer, r *core.DepartmentSummaryReport) error {
	f, err := newWorkbook(summarySheet, summaryHeader)
	if err != nil {
		return err
	}
	defer f.Close()

	row := 2
	for _, l := range r.Lines {
		gross, _ := l.TotalGrossSalary.Float64()
		net, _ := l.TotalNetSalary.Float64()
		if err := setRow(f, summarySheet, row, []any{
			l.DepartmentCode, l.DepartmentName, l.EmployeeCount, gross, net,
		}); err != nil {
			return err
		}
		row++
	}
	gross, _ := r.TotalGross.Float64()
	net, _ := r.TotalNet.Float64()
	if err := setRow(f, summarySheet, row, []any{"Total", nil, r.TotalEmployees, gross, net}); err != nil {
		return err
	}
	if err := styleMoney(f, summarySheet, "D", row); err != nil {
		return err
	}
	if err := styleMoney(f, summarySheet, "E", row); err != nil {
		return err
	}
	return writeWorkbook(f, w)
}

func newWorkbook(sheet string, header []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := setRow(f, sheet, 1, cells); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// styleMoney applies a two-decimal number format to col from row 2 to lastRow.
func styleMoney(f *excelize.File, sheet, col string, lastRow int) error {
	format := "#,##0.00"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, lastRow), style)
}

func writeWorkbook(f *excelize.File, w io.Writer) error {
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
