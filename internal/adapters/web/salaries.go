package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"payroll-ledger/internal/app"
	"payroll-ledger/internal/core"
)

// salaryRequest has no net_salary field; a caller-supplied net is ignored.
type salaryRequest struct {
	EmployeeNumber *string          `json:"employee_number"`
	GrossSalary    *decimal.Decimal `json:"gross_salary"`
	TotalDeduction *decimal.Decimal `json:"total_deduction"`
	Month          *string          `json:"month"`
	Year           *string          `json:"year"`
}

// listSalaries handles GET /api/salaries?employee=&month=&year=.
func (h *Handler) listSalaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.ListSalaries(r.Context(), core.SalaryFilter{
		EmployeeNumber: q.Get("employee"),
		Month:          q.Get("month"),
		Year:           q.Get("year"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// createSalary handles POST /api/salaries.
func (h *Handler) createSalary(w http.ResponseWriter, r *http.Request) {
	var req salaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.GrossSalary == nil {
		missingField(w, r, "gross_salary")
		return
	}

	in := app.CreateSalaryRequest{
		EmployeeNumber: deref(req.EmployeeNumber),
		GrossSalary:    *req.GrossSalary,
		Month:          deref(req.Month),
		Year:           deref(req.Year),
	}
	if req.TotalDeduction != nil {
		in.TotalDeduction = *req.TotalDeduction
	}
	s, err := h.svc.CreateSalary(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeStatusJSON(w, http.StatusCreated, s)
}

// getSalary handles GET /api/salaries/{id}.
func (h *Handler) getSalary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetSalary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// updateSalary handles PUT /api/salaries/{id}. Net salary is recomputed.
func (h *Handler) updateSalary(w http.ResponseWriter, r *http.Request) {
	var req salaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s, err := h.svc.UpdateSalary(r.Context(), chi.URLParam(r, "id"), app.UpdateSalaryRequest{
		EmployeeNumber: req.EmployeeNumber,
		GrossSalary:    req.GrossSalary,
		TotalDeduction: req.TotalDeduction,
		Month:          req.Month,
		Year:           req.Year,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// deleteSalary handles DELETE /api/salaries/{id}.
func (h *Handler) deleteSalary(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSalary(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
