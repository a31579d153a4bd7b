package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// employeeNumberSequence is the id_sequences row backing generated employee numbers.
const employeeNumberSequence = "employee_number"

// maxNumberAttempts bounds the skip-ahead over numbers that were assigned by callers.
const maxNumberAttempts = 1000

// EmployeeService owns employee records. Employees must reference an
// existing department; deleting an employee also removes its salaries.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, in EmployeeInput) (*EmployeeView, error)
	UpdateEmployee(ctx context.Context, number string, patch EmployeePatch) (*EmployeeView, error)
	DeleteEmployee(ctx context.Context, number string) error
	GetEmployee(ctx context.Context, number string) (*EmployeeView, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeView, error)
}

type employeeService struct {
	db DB
}

func NewEmployeeService(db DB) EmployeeService {
	return &employeeService{db: db}
}

const employeeViewSelect = `
	SELECT e.employee_number, e.first_name, e.last_name, e.position, e.address, e.telephone,
	       e.gender, to_char(e.hired_date, 'YYYY-MM-DD'), e.department_code, e.created_at, e.updated_at,
	       d.department_name
	FROM employees e
	JOIN departments d ON d.department_code = e.department_code`

func scanEmployeeView(row pgx.Row) (*EmployeeView, error) {
	var v EmployeeView
	err := row.Scan(
		&v.Number, &v.FirstName, &v.LastName, &v.Position, &v.Address, &v.Telephone,
		&v.Gender, &v.HiredDate, &v.DepartmentCode, &v.CreatedAt, &v.UpdatedAt,
		&v.DepartmentName,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// departmentName resolves a department code, failing with ReferenceNotFound.
// FOR KEY SHARE blocks a concurrent delete of the department until commit.
func departmentName(ctx context.Context, q querier, code string, lock bool) (string, error) {
	sql := "SELECT department_name FROM departments WHERE department_code = $1"
	if lock {
		sql += " FOR KEY SHARE"
	}
	var name string
	if err := q.QueryRow(ctx, sql, code).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", Errorf(KindReferenceNotFound, "department %s does not exist", code)
		}
		return "", classifyStorageError(err, "resolve department")
	}
	return name, nil
}

// FormatEmployeeNumber renders a sequence value as EMP0001, EMP0002, ...
func FormatEmployeeNumber(n int64) string {
	return fmt.Sprintf("EMP%04d", n)
}

// nextEmployeeNumber reserves the next free generated number. The counter row
// is seeded from the current employee count and incremented atomically; the
// row lock it takes is held until the surrounding transaction ends.
func nextEmployeeNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		var n int64
		err := tx.QueryRow(ctx, `
			INSERT INTO id_sequences (name, last_number)
			VALUES ($1, (SELECT COUNT(*) + 1 FROM employees))
			ON CONFLICT (name)
			DO UPDATE SET last_number = id_sequences.last_number + 1
			RETURNING last_number
		`, employeeNumberSequence).Scan(&n)
		if err != nil {
			return "", classifyStorageError(err, "reserve employee number")
		}

		number := FormatEmployeeNumber(n)
		var taken bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM employees WHERE employee_number = $1)", number,
		).Scan(&taken); err != nil {
			return "", classifyStorageError(err, "check employee number")
		}
		if !taken {
			return number, nil
		}
	}
	return "", Errorf(KindConflict, "no free employee number after %d attempts", maxNumberAttempts)
}

func (s *employeeService) CreateEmployee(ctx context.Context, in EmployeeInput) (*EmployeeView, error) {
	e, err := in.normalize()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, classifyStorageError(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	deptName, err := departmentName(ctx, tx, e.DepartmentCode, true)
	if err != nil {
		return nil, err
	}

	if e.Number == "" {
		if e.Number, err = nextEmployeeNumber(ctx, tx); err != nil {
			return nil, err
		}
	}

	var v EmployeeView
	err = tx.QueryRow(ctx, `
		INSERT INTO employees (employee_number, first_name, last_name, position, address, telephone,
		                       gender, hired_date, department_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9)
		ON CONFLICT (employee_number) DO NOTHING
		RETURNING employee_number, first_name, last_name, position, address, telephone,
		          gender, to_char(hired_date, 'YYYY-MM-DD'), department_code, created_at, updated_at
	`, e.Number, e.FirstName, e.LastName, e.Position, e.Address, e.Telephone,
		string(e.Gender), e.HiredDate, e.DepartmentCode,
	).Scan(
		&v.Number, &v.FirstName, &v.LastName, &v.Position, &v.Address, &v.Telephone,
		&v.Gender, &v.HiredDate, &v.DepartmentCode, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindDuplicateKey, "employee %s already exists", e.Number)
		}
		return nil, classifyStorageError(err, "create employee")
	}
	v.DepartmentName = deptName

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyStorageError(err, "commit employee")
	}
	return &v, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, number string, patch EmployeePatch) (*EmployeeView, error) {
	patch, err := patch.normalize()
	if err != nil {
		return nil, err
	}

	if patch.DepartmentCode != nil {
		// The FK on employees.department_code backs this check up.
		if _, err := departmentName(ctx, s.db, *patch.DepartmentCode, false); err != nil {
			return nil, err
		}
	}

	v, err := scanEmployeeView(s.db.QueryRow(ctx, `
		WITH e AS (
			UPDATE employees
			SET first_name      = COALESCE($2::text, first_name),
			    last_name       = COALESCE($3::text, last_name),
			    position        = COALESCE($4::text, position),
			    address         = COALESCE($5::text, address),
			    telephone       = COALESCE($6::text, telephone),
			    gender          = COALESCE($7::text, gender),
			    hired_date      = COALESCE($8::date, hired_date),
			    department_code = COALESCE($9::text, department_code),
			    updated_at      = NOW()
			WHERE employee_number = $1
			RETURNING *
		)
		SELECT e.employee_number, e.first_name, e.last_name, e.position, e.address, e.telephone,
		       e.gender, to_char(e.hired_date, 'YYYY-MM-DD'), e.department_code, e.created_at, e.updated_at,
		       d.department_name
		FROM e
		JOIN departments d ON d.department_code = e.department_code
	`, number, patch.FirstName, patch.LastName, patch.Position, patch.Address, patch.Telephone,
		patch.Gender, patch.HiredDate, patch.DepartmentCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindNotFound, "employee %s not found", number)
		}
		return nil, classifyStorageError(err, "update employee")
	}
	return v, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, number string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM employees WHERE employee_number = $1", number)
	if err != nil {
		return classifyStorageError(err, "delete employee")
	}
	if tag.RowsAffected() == 0 {
		return Errorf(KindNotFound, "employee %s not found", number)
	}
	return nil
}

func (s *employeeService) GetEmployee(ctx context.Context, number string) (*EmployeeView, error) {
	v, err := scanEmployeeView(s.db.QueryRow(ctx, employeeViewSelect+" WHERE e.employee_number = $1", number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindNotFound, "employee %s not found", number)
		}
		return nil, classifyStorageError(err, "get employee")
	}
	return v, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeView, error) {
	q := employeeViewSelect + " WHERE 1=1"
	var args []any
	if filter.DepartmentCode != "" {
		args = append(args, filter.DepartmentCode)
		q += fmt.Sprintf(" AND e.department_code = $%d", len(args))
	}
	q += " ORDER BY e.employee_number"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, classifyStorageError(err, "query employees")
	}
	defer rows.Close()

	employees := []EmployeeView{}
	for rows.Next() {
		v, err := scanEmployeeView(rows)
		if err != nil {
			return nil, classifyStorageError(err, "scan employee")
		}
		employees = append(employees, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageError(err, "iterate employees")
	}
	return employees, nil
}
