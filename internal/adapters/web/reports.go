package web

import (
	"bytes"
	"fmt"
	"net/http"

	"payroll-ledger/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// payrollReport handles GET /api/reports/payroll?month=&year=[&format=csv|xlsx].
func (h *Handler) payrollReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if !validFormat(format) {
		writeError(w, r, fmt.Sprintf("unsupported format %q", format), "INVALID_INPUT", http.StatusBadRequest)
		return
	}

	report, err := h.svc.PayrollReport(r.Context(), q.Get("month"), q.Get("year"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch format {
	case "csv":
		writeDownload(w, r, "text/csv", export.PayrollFilename(report, "csv"), func(buf *bytes.Buffer) error {
			return export.WritePayrollCSV(buf, report)
		})
	case "xlsx":
		writeDownload(w, r, xlsxContentType, export.PayrollFilename(report, "xlsx"), func(buf *bytes.Buffer) error {
			return export.WritePayrollXLSX(buf, report)
		})
	default:
		writeJSON(w, report)
	}
}

// departmentSummary handles GET /api/reports/department-summary?year=[&format=csv|xlsx].
func (h *Handler) departmentSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if !validFormat(format) {
		writeError(w, r, fmt.Sprintf("unsupported format %q", format), "INVALID_INPUT", http.StatusBadRequest)
		return
	}

	report, err := h.svc.DepartmentSummary(r.Context(), q.Get("year"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch format {
	case "csv":
		writeDownload(w, r, "text/csv", export.DepartmentSummaryFilename(report, "csv"), func(buf *bytes.Buffer) error {
			return export.WriteDepartmentSummaryCSV(buf, report)
		})
	case "xlsx":
		writeDownload(w, r, xlsxContentType, export.DepartmentSummaryFilename(report, "xlsx"), func(buf *bytes.Buffer) error {
			return export.WriteDepartmentSummaryXLSX(buf, report)
		})
	default:
		writeJSON(w, report)
	}
}

func validFormat(f string) bool {
	return f == "" || f == "json" || f == "csv" || f == "xlsx"
}

// writeDownload renders into a buffer first so a rendering failure can still
// produce a JSON error instead of a truncated file.
func writeDownload(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, _ = w.Write(buf.Bytes())
}
