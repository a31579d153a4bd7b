package web

import (
	"context"
	"net/http"
	"strings"

	"payroll-ledger/internal/app"
	"payroll-ledger/internal/auth"
)

type principalKey struct{}

// principalFromContext returns the authenticated principal stored in ctx, or nil.
func principalFromContext(ctx context.Context) *auth.Principal {
	v, _ := ctx.Value(principalKey{}).(*auth.Principal)
	return v
}

// RequireAuth is chi middleware that validates the Authorization bearer token and
// injects the principal into the request context. Returns 401 if the token is
// absent, invalid, expired, or names a user that no longer exists.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := h.svc.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authorize returns middleware that checks the principal against the policy entry for op.
func (h *Handler) authorize(op auth.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := h.svc.Authorize(principalFromContext(r.Context()), op); err != nil {
				writeServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, r, "username and password are required", "INVALID_INPUT", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// register handles POST /api/auth/register. An Authorization header is
// optional; when present it must be valid, and it is required to create an admin.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var caller *auth.Principal
	if header := r.Header.Get("Authorization"); header != "" {
		p, err := h.svc.Authenticate(r.Context(), header)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		caller = p
	}

	user, err := h.svc.Register(r.Context(), app.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	}, caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeStatusJSON(w, http.StatusCreated, user)
}

// me handles GET /api/auth/me.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	user, err := h.svc.GetUser(r.Context(), p.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, user)
}
