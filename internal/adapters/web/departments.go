package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"payroll-ledger/internal/app"
)

type departmentRequest struct {
	DepartmentCode string           `json:"department_code"`
	DepartmentName *string          `json:"department_name"`
	GrossSalary    *decimal.Decimal `json:"gross_salary"`
}

// listDepartments handles GET /api/departments.
func (h *Handler) listDepartments(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListDepartments(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// createDepartment handles POST /api/departments.
func (h *Handler) createDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DepartmentName == nil {
		missingField(w, r, "department_name")
		return
	}

	in := app.CreateDepartmentRequest{Code: req.DepartmentCode, Name: *req.DepartmentName}
	if req.GrossSalary != nil {
		in.GrossSalary = *req.GrossSalary
	}
	d, err := h.svc.CreateDepartment(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeStatusJSON(w, http.StatusCreated, d)
}

// getDepartment handles GET /api/departments/{code}.
func (h *Handler) getDepartment(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDepartment(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, d)
}

// updateDepartment handles PUT /api/departments/{code}. Absent fields are unchanged.
func (h *Handler) updateDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.UpdateDepartment(r.Context(), chi.URLParam(r, "code"), app.UpdateDepartmentRequest{
		Name:        req.DepartmentName,
		GrossSalary: req.GrossSalary,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, d)
}

// deleteDepartment handles DELETE /api/departments/{code}.
func (h *Handler) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDepartment(r.Context(), chi.URLParam(r, "code")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
