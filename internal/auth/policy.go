package auth

import (
	"slices"

	"payroll-ledger/internal/core"
)

// Operation names an action guarded by the gate.
type Operation string

const (
	OpDepartmentCreate Operation = "department:create"
	OpDepartmentUpdate Operation = "department:update"
	OpDepartmentDelete Operation = "department:delete"
	OpDepartmentRead   Operation = "department:read"

	OpEmployeeCreate Operation = "employee:create"
	OpEmployeeUpdate Operation = "employee:update"
	OpEmployeeDelete Operation = "employee:delete"
	OpEmployeeRead   Operation = "employee:read"

	OpSalaryCreate Operation = "salary:create"
	OpSalaryUpdate Operation = "salary:update"
	OpSalaryDelete Operation = "salary:delete"
	OpSalaryRead   Operation = "salary:read"

	OpReportPayroll           Operation = "report:payroll"
	OpReportDepartmentSummary Operation = "report:department-summary"

	OpProfileRead Operation = "profile:read"
)

// Operations lists every guarded operation.
var Operations = []Operation{
	OpDepartmentCreate, OpDepartmentUpdate, OpDepartmentDelete, OpDepartmentRead,
	OpEmployeeCreate, OpEmployeeUpdate, OpEmployeeDelete, OpEmployeeRead,
	OpSalaryCreate, OpSalaryUpdate, OpSalaryDelete, OpSalaryRead,
	OpReportPayroll, OpReportDepartmentSummary,
	OpProfileRead,
}

// Policy is a per-operation required-role table. Operations without an entry
// fall back to the default role set.
type Policy struct {
	entries  map[Operation][]core.Role
	fallback []core.Role
}

// DefaultPolicy grants every operation to any authenticated role.
func DefaultPolicy() Policy {
	all := []core.Role{core.RoleAdmin, core.RoleUser}
	p := Policy{entries: make(map[Operation][]core.Role, len(Operations)), fallback: all}
	for _, op := range Operations {
		p.entries[op] = all
	}
	return p
}

// With returns a copy of p in which op requires one of roles.
func (p Policy) With(op Operation, roles ...core.Role) Policy {
	entries := make(map[Operation][]core.Role, len(p.entries)+1)
	for k, v := range p.entries {
		entries[k] = v
	}
	entries[op] = slices.Clone(roles)
	return Policy{entries: entries, fallback: p.fallback}
}

// Roles returns the roles allowed to perform op.
func (p Policy) Roles(op Operation) []core.Role {
	if roles, ok := p.entries[op]; ok {
		return roles
	}
	return p.fallback
}

// Allows reports whether role may perform op.
func (p Policy) Allows(role core.Role, op Operation) bool {
	return slices.Contains(p.Roles(op), role)
}
