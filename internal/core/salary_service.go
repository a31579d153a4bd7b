package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SalaryService owns salary records. Net salary is derived by ComputeNet on
// every write and is never taken from the caller.
type SalaryService interface {
	CreateSalary(ctx context.Context, in SalaryInput) (*SalaryView, error)
	UpdateSalary(ctx context.Context, id string, patch SalaryPatch) (*SalaryView, error)
	DeleteSalary(ctx context.Context, id string) error
	GetSalary(ctx context.Context, id string) (*SalaryView, error)
	ListSalaries(ctx context.Context, filter SalaryFilter) ([]SalaryView, error)
}

type salaryService struct {
	db DB
}

func NewSalaryService(db DB) SalaryService {
	return &salaryService{db: db}
}

const salaryColumns = `salary_id::text, employee_number, gross_salary, total_deduction, net_salary,
	month, year, created_at, updated_at`

const salaryViewSelect = `
	SELECT s.salary_id::text, s.employee_number, s.gross_salary, s.total_deduction, s.net_salary,
	       s.month, s.year, s.created_at, s.updated_at,
	       e.first_name, e.last_name, e.position, d.department_name
	FROM salaries s
	JOIN employees e ON e.employee_number = s.employee_number
	JOIN departments d ON d.department_code = e.department_code`

func scanSalary(row pgx.Row) (*Salary, error) {
	var s Salary
	err := row.Scan(&s.ID, &s.EmployeeNumber, &s.GrossSalary, &s.TotalDeduction, &s.NetSalary,
		&s.Month, &s.Year, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSalaryView(row pgx.Row) (*SalaryView, error) {
	var v SalaryView
	err := row.Scan(&v.ID, &v.EmployeeNumber, &v.GrossSalary, &v.TotalDeduction, &v.NetSalary,
		&v.Month, &v.Year, &v.CreatedAt, &v.UpdatedAt,
		&v.FirstName, &v.LastName, &v.Position, &v.DepartmentName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseSalaryID rejects ids that are not UUIDs before they reach the store.
func parseSalaryID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", Errorf(KindInvalidInput, "invalid salary id %q", id)
	}
	return u.String(), nil
}

type employeeRef struct {
	FirstName      string
	LastName       string
	Position       string
	DepartmentName string
}

// resolveEmployee fails with ReferenceNotFound when the employee number is unknown.
func resolveEmployee(ctx context.Context, q querier, number string) (*employeeRef, error) {
	var ref employeeRef
	err := q.QueryRow(ctx, `
		SELECT e.first_name, e.last_name, e.position, d.department_name
		FROM employees e
		JOIN departments d ON d.department_code = e.department_code
		WHERE e.employee_number = $1
	`, number).Scan(&ref.FirstName, &ref.LastName, &ref.Position, &ref.DepartmentName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindReferenceNotFound, "employee %s does not exist", number)
		}
		return nil, classifyStorageError(err, "resolve employee")
	}
	return &ref, nil
}

func (s *salaryService) CreateSalary(ctx context.Context, in SalaryInput) (*SalaryView, error) {
	n, err := in.normalize()
	if err != nil {
		return nil, err
	}

	ref, err := resolveEmployee(ctx, s.db, n.EmployeeNumber)
	if err != nil {
		return nil, err
	}

	net := ComputeNet(n.GrossSalary, n.TotalDeduction)

	// The FK on salaries.employee_number catches an employee deleted since the check.
	sal, err := scanSalary(s.db.QueryRow(ctx, `
		INSERT INTO salaries (salary_id, employee_number, gross_salary, total_deduction, net_salary, month, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+salaryColumns,
		uuid.NewString(), n.EmployeeNumber, n.GrossSalary, n.TotalDeduction, net, string(n.Month), n.Year))
	if err != nil {
		return nil, classifyStorageError(err, "create salary")
	}

	return &SalaryView{
		Salary:         *sal,
		FirstName:      ref.FirstName,
		LastName:       ref.LastName,
		Position:       ref.Position,
		DepartmentName: ref.DepartmentName,
	}, nil
}

func (s *salaryService) UpdateSalary(ctx context.Context, id string, patch SalaryPatch) (*SalaryView, error) {
	id, err := parseSalaryID(id)
	if err != nil {
		return nil, err
	}
	patch, err = patch.normalize()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, classifyStorageError(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	stored, err := scanSalary(tx.QueryRow(ctx,
		"SELECT "+salaryColumns+" FROM salaries WHERE salary_id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindNotFound, "salary %s not found", id)
		}
		return nil, classifyStorageError(err, "load salary")
	}

	gross, deduction, net := ResolveNet(*stored, patch)

	employee := stored.EmployeeNumber
	if patch.EmployeeNumber != nil && *patch.EmployeeNumber != stored.EmployeeNumber {
		if _, err := resolveEmployee(ctx, tx, *patch.EmployeeNumber); err != nil {
			return nil, err
		}
		employee = *patch.EmployeeNumber
	}
	month := string(stored.Month)
	if patch.Month != nil {
		month = *patch.Month
	}
	year := stored.Year
	if patch.Year != nil {
		year = *patch.Year
	}

	if _, err := tx.Exec(ctx, `
		UPDATE salaries
		SET employee_number = $2, gross_salary = $3, total_deduction = $4, net_salary = $5,
		    month = $6, year = $7, updated_at = NOW()
		WHERE salary_id = $1
	`, id, employee, gross, deduction, net, month, year); err != nil {
		return nil, classifyStorageError(err, "update salary")
	}

	v, err := scanSalaryView(tx.QueryRow(ctx, salaryViewSelect+" WHERE s.salary_id = $1", id))
	if err != nil {
		return nil, classifyStorageError(err, "reload salary")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyStorageError(err, "commit salary update")
	}
	return v, nil
}

func (s *salaryService) DeleteSalary(ctx context.Context, id string) error {
	id, err := parseSalaryID(id)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, "DELETE FROM salaries WHERE salary_id = $1", id)
	if err != nil {
		return classifyStorageError(err, "delete salary")
	}
	if tag.RowsAffected() == 0 {
		return Errorf(KindNotFound, "salary %s not found", id)
	}
	return nil
}

func (s *salaryService) GetSalary(ctx context.Context, id string) (*SalaryView, error) {
	id, err := parseSalaryID(id)
	if err != nil {
		return nil, err
	}
	v, err := scanSalaryView(s.db.QueryRow(ctx, salaryViewSelect+" WHERE s.salary_id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindNotFound, "salary %s not found", id)
		}
		return nil, classifyStorageError(err, "get salary")
	}
	return v, nil
}

func (s *salaryService) ListSalaries(ctx context.Context, filter SalaryFilter) ([]SalaryView, error) {
	q := salaryViewSelect + " WHERE 1=1"
	var args []any

	if filter.EmployeeNumber != "" {
		args = append(args, filter.EmployeeNumber)
		q += fmt.Sprintf(" AND s.employee_number = $%d", len(args))
	}
	if filter.Month != "" {
		m, err := ParseMonth(filter.Month)
		if err != nil {
			return nil, err
		}
		args = append(args, string(m))
		q += fmt.Sprintf(" AND s.month = $%d", len(args))
	}
	if filter.Year != "" {
		y, err := ParseYear(filter.Year)
		if err != nil {
			return nil, err
		}
		args = append(args, y)
		q += fmt.Sprintf(" AND s.year = $%d", len(args))
	}
	q += " ORDER BY s.year DESC, s.created_at DESC"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, classifyStorageError(err, "query salaries")
	}
	defer rows.Close()

	salaries := []SalaryView{}
	for rows.Next() {
		v, err := scanSalaryView(rows)
		if err != nil {
			return nil, classifyStorageError(err, "scan salary")
		}
		salaries = append(salaries, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageError(err, "iterate salaries")
	}
	return salaries, nil
}
