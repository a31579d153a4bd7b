package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"payroll-ledger/internal/app"
	"payroll-ledger/internal/auth"
)

// Config carries the adapter settings taken from the process configuration.
type Config struct {
	AllowedOrigins string
	RequestTimeout time.Duration
	// Ping reports storage health for /api/health. Nil skips the check.
	Ping func(ctx context.Context) error
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
	ping   func(ctx context.Context) error
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, cfg Config) http.Handler {
	h := &Handler{svc: svc, ping: cfg.Ping}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(Timeout(cfg.RequestTimeout))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public API) ─────────────────────────────────────────────────────
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/register", h.register)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.With(h.authorize(auth.OpProfileRead)).Get("/api/auth/me", h.me)

		r.Route("/api/departments", func(r chi.Router) {
			r.With(h.authorize(auth.OpDepartmentRead)).Get("/", h.listDepartments)
			r.With(h.authorize(auth.OpDepartmentCreate)).Post("/", h.createDepartment)
			r.With(h.authorize(auth.OpDepartmentRead)).Get("/{code}", h.getDepartment)
			r.With(h.authorize(auth.OpDepartmentUpdate)).Put("/{code}", h.updateDepartment)
			r.With(h.authorize(auth.OpDepartmentDelete)).Delete("/{code}", h.deleteDepartment)
		})

		r.Route("/api/employees", func(r chi.Router) {
			r.With(h.authorize(auth.OpEmployeeRead)).Get("/", h.listEmployees)
			r.With(h.authorize(auth.OpEmployeeCreate)).Post("/", h.createEmployee)
			r.With(h.authorize(auth.OpEmployeeRead)).Get("/{number}", h.getEmployee)
			r.With(h.authorize(auth.OpEmployeeUpdate)).Put("/{number}", h.updateEmployee)
			r.With(h.authorize(auth.OpEmployeeDelete)).Delete("/{number}", h.deleteEmployee)
		})

		r.Route("/api/salaries", func(r chi.Router) {
			r.With(h.authorize(auth.OpSalaryRead)).Get("/", h.listSalaries)
			r.With(h.authorize(auth.OpSalaryCreate)).Post("/", h.createSalary)
			r.With(h.authorize(auth.OpSalaryRead)).Get("/{id}", h.getSalary)
			r.With(h.authorize(auth.OpSalaryUpdate)).Put("/{id}", h.updateSalary)
			r.With(h.authorize(auth.OpSalaryDelete)).Delete("/{id}", h.deleteSalary)
		})

		r.With(h.authorize(auth.OpReportPayroll)).Get("/api/reports/payroll", h.payrollReport)
		r.With(h.authorize(auth.OpReportDepartmentSummary)).Get("/api/reports/department-summary", h.departmentSummary)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "route not found", "NOT_FOUND", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
	})

	h.router = r
	return r
}

// health returns service status, and storage status when a ping is configured.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status   string `json:"status"`
		Database string `json:"database,omitempty"`
	}

	if h.ping == nil {
		writeJSON(w, response{Status: "ok"})
		return
	}
	if err := h.ping(r.Context()); err != nil {
		writeStatusJSON(w, http.StatusServiceUnavailable, response{Status: "degraded", Database: "unavailable"})
		return
	}
	writeJSON(w, response{Status: "ok", Database: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "INVALID_INPUT", http.StatusBadRequest)
		return false
	}
	return true
}

// missingField writes a 400 for an absent required body field.
func missingField(w http.ResponseWriter, r *http.Request, field string) {
	writeError(w, r, field+" is required", "INVALID_INPUT", http.StatusBadRequest)
}
