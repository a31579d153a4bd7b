package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// DepartmentService owns department records and the guard that keeps a
// department alive while employees reference it.
type DepartmentService interface {
	CreateDepartment(ctx context.Context, in DepartmentInput) (*Department, error)
	UpdateDepartment(ctx context.Context, code string, patch DepartmentPatch) (*Department, error)
	DeleteDepartment(ctx context.Context, code string) error
	GetDepartment(ctx context.Context, code string) (*DepartmentDetail, error)
	ListDepartments(ctx context.Context) ([]Department, error)
}

type departmentService struct {
	db DB
}

func NewDepartmentService(db DB) DepartmentService {
	return &departmentService{db: db}
}

const departmentColumns = `department_code, department_name, gross_salary, created_at, updated_at`

func scanDepartment(row pgx.Row) (*Department, error) {
	var d Department
	if err := row.Scan(&d.Code, &d.Name, &d.GrossSalary, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *departmentService) CreateDepartment(ctx context.Context, in DepartmentInput) (*Department, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	// ON CONFLICT DO NOTHING RETURNING yields no row when the code is taken.
	d, err := scanDepartment(s.db.QueryRow(ctx, `
		INSERT INTO departments (department_code, department_name, gross_salary)
		VALUES ($1, $2, $3)
		ON CONFLICT (department_code) DO NOTHING
		RETURNING `+departmentColumns,
		in.Code, in.Name, in.GrossSalary))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindDuplicateKey, "department %s already exists", in.Code)
		}
		return nil, classifyStorageError(err, "create department")
	}
	return d, nil
}

func (s *departmentService) UpdateDepartment(ctx context.Context, code string, patch DepartmentPatch) (*Department, error) {
	patch, err := patch.normalize()
	if err != nil {
		return nil, err
	}

	d, err := scanDepartment(s.db.QueryRow(ctx, `
		UPDATE departments
		SET department_name = COALESCE($2::text, department_name),
		    gross_salary    = COALESCE($3::numeric, gross_salary),
		    updated_at      = NOW()
		WHERE department_code = $1
		RETURNING `+departmentColumns,
		code, patch.Name, patch.GrossSalary))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindNotFound, "department %s not found", code)
		}
		return nil, classifyStorageError(err, "update department")
	}
	return d, nil
}

func (s *departmentService) DeleteDepartment(ctx context.Context, code string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return classifyStorageError(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	// Lock the row so no employee can be attached between the count and the delete.
	var locked string
	err = tx.QueryRow(ctx,
		"SELECT department_code FROM departments WHERE department_code = $1 FOR UPDATE", code,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Errorf(KindNotFound, "department %s not found", code)
		}
		return classifyStorageError(err, "lock department")
	}

	var employees int
	if err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM employees WHERE department_code = $1", code,
	).Scan(&employees); err != nil {
		return classifyStorageError(err, "count department employees")
	}
	if employees > 0 {
		return Errorf(KindConflict, "department %s still has %d employee(s)", code, employees)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM departments WHERE department_code = $1", code); err != nil {
		if isForeignKeyViolation(err) {
			return WrapError(KindConflict, err, "department %s is still referenced", code)
		}
		return classifyStorageError(err, "delete department")
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyStorageError(err, "commit department delete")
	}
	return nil
}

func (s *departmentService) GetDepartment(ctx context.Context, code string) (*DepartmentDetail, error) {
	d, err := scanDepartment(s.db.QueryRow(ctx,
		"SELECT "+departmentColumns+" FROM departments WHERE department_code = $1", code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindNotFound, "department %s not found", code)
		}
		return nil, classifyStorageError(err, "get department")
	}

	rows, err := s.db.Query(ctx, `
		SELECT employee_number, first_name, last_name, position
		FROM employees
		WHERE department_code = $1
		ORDER BY employee_number
	`, code)
	if err != nil {
		return nil, classifyStorageError(err, "query department employees")
	}
	defer rows.Close()

	detail := &DepartmentDetail{Department: *d, Employees: []EmployeeSummary{}}
	for rows.Next() {
		var e EmployeeSummary
		if err := rows.Scan(&e.Number, &e.FirstName, &e.LastName, &e.Position); err != nil {
			return nil, classifyStorageError(err, "scan department employee")
		}
		detail.Employees = append(detail.Employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageError(err, "iterate department employees")
	}
	return detail, nil
}

func (s *departmentService) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.db.Query(ctx, "SELECT "+departmentColumns+" FROM departments ORDER BY department_code")
	if err != nil {
		return nil, classifyStorageError(err, "query departments")
	}
	defer rows.Close()

	departments := []Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, classifyStorageError(err, "scan department")
		}
		departments = append(departments, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageError(err, "iterate departments")
	}
	return departments, nil
}
