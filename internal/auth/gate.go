// Package auth is the access control gate: it authenticates bearer
// credentials, authorizes operations against a role policy, and issues
// and registers credentials.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"payroll-ledger/internal/core"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

// Principal is an authenticated identity.
type Principal struct {
	ID       int       `json:"id"`
	Username string    `json:"username"`
	Role     core.Role `json:"role"`
}

// Credential is a signed bearer token with the principal it identifies.
type Credential struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}

type RegisterInput struct {
	Username string
	Password string
	Role     string
}

// Gate authenticates callers and authorizes operations.
type Gate struct {
	users  core.UserService
	tokens *TokenIssuer
	policy Policy

	// bcryptCost is lowered in tests.
	bcryptCost int
}

// Option customises a Gate.
type Option func(*Gate)

// WithPolicy replaces the default policy.
func WithPolicy(p Policy) Option {
	return func(g *Gate) { g.policy = p }
}

// WithBcryptCost sets the hashing cost used by Register.
func WithBcryptCost(cost int) Option {
	return func(g *Gate) { g.bcryptCost = cost }
}

func NewGate(users core.UserService, tokens *TokenIssuer, opts ...Option) *Gate {
	g := &Gate{users: users, tokens: tokens, policy: DefaultPolicy(), bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate resolves an Authorization header value to a principal.
// The role is read from the store, not from the token, so role changes
// apply to tokens already issued.
func (g *Gate) Authenticate(ctx context.Context, authorization string) (*Principal, error) {
	fields := strings.Fields(authorization)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return nil, core.Errorf(core.KindUnauthenticated, "missing or malformed bearer token")
	}

	claimed, err := g.tokens.Parse(fields[1])
	if err != nil {
		return nil, err
	}

	u, err := g.users.GetByID(ctx, claimed.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.Errorf(core.KindPrincipalNotFound, "user no longer exists")
		}
		return nil, err
	}
	return &Principal{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// Authorize fails with Forbidden when p's role is not allowed to perform op.
func (g *Gate) Authorize(p *Principal, op Operation) error {
	if p == nil {
		return core.Errorf(core.KindUnauthenticated, "authentication required")
	}
	if !g.policy.Allows(p.Role, op) {
		return core.Errorf(core.KindForbidden, "role %s may not perform %s", p.Role, op)
	}
	return nil
}

// Verify checks a username and password. An unknown user and a wrong
// password fail the same way.
func (g *Gate) Verify(ctx context.Context, username, password string) (*Principal, error) {
	u, err := g.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.Errorf(core.KindInvalidCredential, "invalid username or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, core.Errorf(core.KindInvalidCredential, "invalid username or password")
	}
	return &Principal{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// IssueCredential verifies the password and returns a token valid for TokenTTL.
func (g *Gate) IssueCredential(ctx context.Context, username, password string) (*Credential, error) {
	p, err := g.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	token, exp, err := g.tokens.Sign(*p)
	if err != nil {
		return nil, core.WrapError(core.KindInternal, err, "failed to issue credential")
	}
	return &Credential{Token: token, ExpiresAt: exp, Principal: *p}, nil
}

// Register creates a user. The role defaults to user; creating an admin
// requires an authenticated admin caller.
func (g *Gate) Register(ctx context.Context, in RegisterInput, caller *Principal) (*Principal, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, core.Errorf(core.KindInvalidInput, "username is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, core.Errorf(core.KindInvalidInput, "password must be at least %d characters", MinPasswordLength)
	}
	role, err := core.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if role == core.RoleAdmin {
		if caller == nil {
			return nil, core.Errorf(core.KindUnauthenticated, "creating an admin requires authentication")
		}
		if caller.Role != core.RoleAdmin {
			return nil, core.Errorf(core.KindForbidden, "only admins may create admins")
		}
	}
	return g.createUser(ctx, username, in.Password, role)
}

// BootstrapAdmin creates the first admin account when username is not taken.
// It reports whether a user was created.
func (g *Gate) BootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, core.Errorf(core.KindInvalidInput, "bootstrap admin username and password are required")
	}
	_, err := g.users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return false, err
	}
	if _, err := g.createUser(ctx, username, password, core.RoleAdmin); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (g *Gate) createUser(ctx context.Context, username, password string, role core.Role) (*Principal, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.bcryptCost)
	if err != nil {
		return nil, core.WrapError(core.KindInvalidInput, err, "failed to hash password")
	}
	u, err := g.users.CreateUser(ctx, username, string(hash), role)
	if err != nil {
		return nil, err
	}
	return &Principal{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}
