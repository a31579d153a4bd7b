package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"payroll-ledger/internal/app"
)

type employeeRequest struct {
	EmployeeNumber string  `json:"employee_number"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Position       *string `json:"position"`
	Address        *string `json:"address"`
	Telephone      *string `json:"telephone"`
	Gender         *string `json:"gender"`
	HiredDate      *string `json:"hired_date"`
	DepartmentCode *string `json:"department_code"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// listEmployees handles GET /api/employees?department=.
func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListEmployees(r.Context(), r.URL.Query().Get("department"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// createEmployee handles POST /api/employees. employee_number is optional.
func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.svc.CreateEmployee(r.Context(), app.CreateEmployeeRequest{
		Number:         req.EmployeeNumber,
		FirstName:      deref(req.FirstName),
		LastName:       deref(req.LastName),
		Position:       deref(req.Position),
		Address:        deref(req.Address),
		Telephone:      deref(req.Telephone),
		Gender:         deref(req.Gender),
		HiredDate:      deref(req.HiredDate),
		DepartmentCode: deref(req.DepartmentCode),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeStatusJSON(w, http.StatusCreated, e)
}

// getEmployee handles GET /api/employees/{number}.
func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.GetEmployee(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, e)
}

// updateEmployee handles PUT /api/employees/{number}. Absent fields are unchanged.
func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.svc.UpdateEmployee(r.Context(), chi.URLParam(r, "number"), app.UpdateEmployeeRequest{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Position:       req.Position,
		Address:        req.Address,
		Telephone:      req.Telephone,
		Gender:         req.Gender,
		HiredDate:      req.HiredDate,
		DepartmentCode: req.DepartmentCode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, e)
}

// deleteEmployee handles DELETE /api/employees/{number}. Salaries go with the employee.
func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEmployee(r.Context(), chi.URLParam(r, "number")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
