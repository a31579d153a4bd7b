package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"payroll-ledger/internal/auth"
	"payroll-ledger/internal/core"
)

type memUsers struct {
	mu    sync.Mutex
	next  int
	byID  map[int]*core.User
	names map[string]int
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.names[username]
	if !ok {
		return nil, core.Errorf(core.KindNotFound, "user %s not found", username)
	}
	return m.byID[id], nil
}

func (m *memUsers) GetByID(_ context.Context, id int) (*core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, core.Errorf(core.KindNotFound, "user %d not found", id)
	}
	return u, nil
}

func (m *memUsers) CreateUser(_ context.Context, username, hash string, role core.Role) (*core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.names[username]; ok {
		return nil, core.Errorf(core.KindDuplicateKey, "username %s already exists", username)
	}
	m.next++
	u := &core.User{ID: m.next, Username: username, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	m.byID[u.ID] = u
	m.names[username] = u.ID
	return u, nil
}

type stubDepartments struct {
	core.DepartmentService
	list []core.Department
}

func (s *stubDepartments) ListDepartments(context.Context) ([]core.Department, error) {
	return s.list, nil
}

type stubSalaries struct {
	core.SalaryService
	got core.SalaryInput
}

func (s *stubSalaries) CreateSalary(_ context.Context, in core.SalaryInput) (*core.SalaryView, error) {
	s.got = in
	return &core.SalaryView{Salary: core.Salary{
		ID:             "a",
		EmployeeNumber: in.EmployeeNumber,
		GrossSalary:    in.GrossSalary,
		TotalDeduction: in.TotalDeduction,
		NetSalary:      core.ComputeNet(in.GrossSalary, in.TotalDeduction),
		Month:          core.Month(in.Month),
		Year:           in.Year,
	}}, nil
}

func newTestApp(t *testing.T) (ApplicationService, *stubDepartments, *stubSalaries) {
	t.Helper()
	users := &memUsers{byID: map[int]*core.User{}, names: map[string]int{}}
	gate := auth.NewGate(users, auth.NewTokenIssuer("test-secret-that-is-long-enough-123"), auth.WithBcryptCost(bcrypt.MinCost))
	depts := &stubDepartments{}
	sals := &stubSalaries{}
	return NewAppService(depts, nil, sals, nil, users, gate), depts, sals
}

func TestAppService_LoginRoundTrip(t *testing.T) {
	svc, _, _ := newTestApp(t)
	ctx := context.Background()

	created, err := svc.BootstrapAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	login, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, login.User.Role)
	assert.WithinDuration(t, time.Now().Add(auth.TokenTTL), login.ExpiresAt, time.Minute)

	p, err := svc.Authenticate(ctx, "Bearer "+login.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", p.Username)
	require.NoError(t, svc.Authorize(p, auth.OpSalaryCreate))

	me, err := svc.GetUser(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, login.User, *me)

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.Equal(t, core.KindInvalidCredential, core.KindOf(err))
}

func TestAppService_Register(t *testing.T) {
	svc, _, _ := newTestApp(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{Username: "clerk", Password: "clerk123"}, nil)
	require.NoError(t, err)
	assert.Equal(t, core.RoleUser, u.Role)

	_, err = svc.Register(ctx, RegisterRequest{Username: "boss", Password: "boss1234", Role: "admin"}, nil)
	assert.Equal(t, core.KindUnauthenticated, core.KindOf(err))

	_, err = svc.Register(ctx, RegisterRequest{Username: "clerk", Password: "clerk123"}, nil)
	assert.Equal(t, core.KindDuplicateKey, core.KindOf(err))
}

func TestAppService_ListDepartmentsWraps(t *testing.T) {
	svc, depts, _ := newTestApp(t)
	depts.list = []core.Department{{Code: "IT", Name: "Information Technology"}}

	res, err := svc.ListDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Departments, 1)
	assert.Equal(t, "IT", res.Departments[0].Code)
}

func TestAppService_CreateSalaryPassesAmounts(t *testing.T) {
	svc, _, sals := newTestApp(t)

	s, err := svc.CreateSalary(context.Background(), CreateSalaryRequest{
		EmployeeNumber: "EMP0001",
		GrossSalary:    decimal.NewFromInt(5000),
		TotalDeduction: decimal.NewFromInt(1000),
		Month:          "January",
		Year:           "2024",
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP0001", sals.got.EmployeeNumber)
	assert.True(t, decimal.NewFromInt(4000).Equal(s.NetSalary))
}
