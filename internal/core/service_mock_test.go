package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payroll-ledger/internal/core"
)

var testTime = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

const testSalaryID = "6f1c2a9e-3b4d-4f5a-8c7e-1d2b3c4d5e6f"

// decimalArg matches a decimal query argument by value, ignoring exponent.
type decimalArg string

func (a decimalArg) Match(v any) bool {
	d, ok := v.(decimal.Decimal)
	return ok && d.Equal(decimal.RequireFromString(string(a)))
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func departmentRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"department_code", "department_name", "gross_salary", "created_at", "updated_at"})
}

func employeeRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"employee_number", "first_name", "last_name", "position", "address", "telephone",
		"gender", "hired_date", "department_code", "created_at", "updated_at",
	})
}

func salaryRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"salary_id", "employee_number", "gross_salary", "total_deduction", "net_salary",
		"month", "year", "created_at", "updated_at",
	})
}

func salaryViewRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"salary_id", "employee_number", "gross_salary", "total_deduction", "net_salary",
		"month", "year", "created_at", "updated_at",
		"first_name", "last_name", "position", "department_name",
	})
}

// ── Departments ──────────────────────────────────────────────────────────────

func TestDepartmentService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     core.DepartmentInput
		mockSetup func(pgxmock.PgxPoolIface)
		wantKind  core.ErrorKind
	}{
		{
			name:  "created",
			input: core.DepartmentInput{Code: "IT", Name: "Information Technology", GrossSalary: dec("80000")},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO departments").
					WithArgs("IT", "Information Technology", decimalArg("80000")).
					WillReturnRows(departmentRows().AddRow("IT", "Information Technology", dec("80000"), testTime, testTime))
			},
		},
		{
			name:  "duplicate code",
			input: core.DepartmentInput{Code: "IT", Name: "Information Technology", GrossSalary: dec("80000")},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO departments").
					WithArgs("IT", "Information Technology", decimalArg("80000")).
					WillReturnError(pgx.ErrNoRows)
			},
			wantKind: core.KindDuplicateKey,
		},
		{
			name:      "empty name",
			input:     core.DepartmentInput{Code: "IT", GrossSalary: dec("80000")},
			mockSetup: func(pgxmock.PgxPoolIface) {},
			wantKind:  core.KindInvalidInput,
		},
		{
			name:      "negative gross",
			input:     core.DepartmentInput{Code: "IT", Name: "IT", GrossSalary: dec("-1")},
			mockSetup: func(pgxmock.PgxPoolIface) {},
			wantKind:  core.KindInvalidInput,
		},
		{
			name:  "connection lost",
			input: core.DepartmentInput{Code: "IT", Name: "Information Technology"},
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO departments").
					WithArgs("IT", "Information Technology", pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "08006", Message: "connection failure"})
			},
			wantKind: core.KindStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.mockSetup(mock)

			d, err := core.NewDepartmentService(mock).CreateDepartment(context.Background(), tt.input)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, core.KindOf(err))
				assert.Nil(t, d)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "IT", d.Code)
				assert.True(t, d.GrossSalary.Equal(dec("80000")))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDepartmentService_UpdateNotFound(t *testing.T) {
	mock := newMock(t)
	name := "Tech"
	mock.ExpectQuery("UPDATE departments").
		WithArgs("NOPE", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := core.NewDepartmentService(mock).UpdateDepartment(context.Background(), "NOPE", core.DepartmentPatch{Name: &name})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(pgxmock.PgxPoolIface)
		wantKind  core.ErrorKind
	}{
		{
			name: "no employees",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT department_code FROM departments").WithArgs("IT").
					WillReturnRows(pgxmock.NewRows([]string{"department_code"}).AddRow("IT"))
				mock.ExpectQuery("SELECT COUNT").WithArgs("IT").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectExec("DELETE FROM departments").WithArgs("IT").
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "employees still reference it",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT department_code FROM departments").WithArgs("IT").
					WillReturnRows(pgxmock.NewRows([]string{"department_code"}).AddRow("IT"))
				mock.ExpectQuery("SELECT COUNT").WithArgs("IT").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
				mock.ExpectRollback()
			},
			wantKind: core.KindConflict,
		},
		{
			name: "missing",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT department_code FROM departments").WithArgs("IT").
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectRollback()
			},
			wantKind: core.KindNotFound,
		},
		{
			name: "foreign key backstop",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT department_code FROM departments").WithArgs("IT").
					WillReturnRows(pgxmock.NewRows([]string{"department_code"}).AddRow("IT"))
				mock.ExpectQuery("SELECT COUNT").WithArgs("IT").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectExec("DELETE FROM departments").WithArgs("IT").
					WillReturnError(&pgconn.PgError{Code: "23503"})
				mock.ExpectRollback()
			},
			wantKind: core.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.mockSetup(mock)

			err := core.NewDepartmentService(mock).DeleteDepartment(context.Background(), "IT")
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, core.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDepartmentService_GetIncludesEmployees(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM departments WHERE department_code").WithArgs("IT").
		WillReturnRows(departmentRows().AddRow("IT", "Information Technology", dec("80000"), testTime, testTime))
	mock.ExpectQuery("FROM employees").WithArgs("IT").
		WillReturnRows(pgxmock.NewRows([]string{"employee_number", "first_name", "last_name", "position"}).
			AddRow("EMP0001", "John", "Doe", "IT Manager").
			AddRow("EMP0005", "David", "Kim", "Software Developer"))

	d, err := core.NewDepartmentService(mock).GetDepartment(context.Background(), "IT")
	require.NoError(t, err)
	assert.Equal(t, "Information Technology", d.Name)
	require.Len(t, d.Employees, 2)
	assert.Equal(t, "EMP0005", d.Employees[1].Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Employees ────────────────────────────────────────────────────────────────

func johnDoe() core.EmployeeInput {
	return core.EmployeeInput{
		FirstName: "John", LastName: "Doe", Position: "IT Manager",
		Address: "Kigali, Rwanda", Telephone: "+250 789 123 456",
		Gender: "M", HiredDate: "2020-01-15", DepartmentCode: "IT",
	}
}

func expectEmployeeInsert(mock pgxmock.PgxPoolIface, number string) {
	mock.ExpectQuery(`(?s)INSERT INTO employees.*RETURNING .*to_char\(hired_date, 'YYYY-MM-DD'\)`).
		WithArgs(number, "John", "Doe", "IT Manager", "Kigali, Rwanda", "+250 789 123 456", "M", "2020-01-15", "IT").
		WillReturnRows(employeeRows().AddRow(number, "John", "Doe", "IT Manager", "Kigali, Rwanda",
			"+250 789 123 456", core.Male, "2020-01-15", "IT", testTime, testTime))
}

func TestEmployeeService_CreateGeneratesNumber(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT department_name FROM departments").WithArgs("IT").
		WillReturnRows(pgxmock.NewRows([]string{"department_name"}).AddRow("Information Technology"))
	mock.ExpectQuery("INSERT INTO id_sequences").WithArgs("employee_number").
		WillReturnRows(pgxmock.NewRows([]string{"last_number"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("EMP0001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO id_sequences").WithArgs("employee_number").
		WillReturnRows(pgxmock.NewRows([]string{"last_number"}).AddRow(int64(2)))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("EMP0002").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	expectEmployeeInsert(mock, "EMP0002")
	mock.ExpectCommit()

	e, err := core.NewEmployeeService(mock).CreateEmployee(context.Background(), johnDoe())
	require.NoError(t, err)
	assert.Equal(t, "EMP0002", e.Number)
	assert.Equal(t, "Information Technology", e.DepartmentName)
	assert.Equal(t, core.Male, e.Gender)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeService_CreateWithCallerNumber(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT department_name FROM departments").WithArgs("IT").
		WillReturnRows(pgxmock.NewRows([]string{"department_name"}).AddRow("Information Technology"))
	expectEmployeeInsert(mock, "E-42")
	mock.ExpectCommit()

	in := johnDoe()
	in.Number = "E-42"
	e, err := core.NewEmployeeService(mock).CreateEmployee(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "E-42", e.Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeService_CreateFailures(t *testing.T) {
	t.Run("unknown department", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT department_name FROM departments").WithArgs("IT").
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		_, err := core.NewEmployeeService(mock).CreateEmployee(context.Background(), johnDoe())
		assert.ErrorIs(t, err, core.ErrReferenceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate number", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT department_name FROM departments").WithArgs("IT").
			WillReturnRows(pgxmock.NewRows([]string{"department_name"}).AddRow("Information Technology"))
		mock.ExpectQuery("INSERT INTO employees").
			WithArgs("EMP0001", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		in := johnDoe()
		in.Number = "EMP0001"
		_, err := core.NewEmployeeService(mock).CreateEmployee(context.Background(), in)
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing field", func(t *testing.T) {
		mock := newMock(t)
		in := johnDoe()
		in.Position = ""
		_, err := core.NewEmployeeService(mock).CreateEmployee(context.Background(), in)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEmployeeService_UpdateUnknownDepartment(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT department_name FROM departments").WithArgs("NOPE").
		WillReturnError(pgx.ErrNoRows)

	code := "NOPE"
	_, err := core.NewEmployeeService(mock).UpdateEmployee(context.Background(), "EMP0001", core.EmployeePatch{DepartmentCode: &code})
	assert.ErrorIs(t, err, core.ErrReferenceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeService_Delete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("DELETE FROM employees").WithArgs("EMP0001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM employees").WithArgs("EMP0009").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	svc := core.NewEmployeeService(mock)
	assert.NoError(t, svc.DeleteEmployee(context.Background(), "EMP0001"))
	assert.ErrorIs(t, svc.DeleteEmployee(context.Background(), "EMP0009"), core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Salaries ─────────────────────────────────────────────────────────────────

func TestSalaryService_CreateDerivesNet(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM employees e").WithArgs("EMP0001").
		WillReturnRows(pgxmock.NewRows([]string{"first_name", "last_name", "position", "department_name"}).
			AddRow("John", "Doe", "IT Manager", "Information Technology"))
	mock.ExpectQuery("INSERT INTO salaries").
		WithArgs(pgxmock.AnyArg(), "EMP0001", decimalArg("9000"), decimalArg("1800"), decimalArg("7200"), "January", "2024").
		WillReturnRows(salaryRows().AddRow(testSalaryID, "EMP0001", dec("9000"), dec("1800"), dec("7200"),
			core.January, "2024", testTime, testTime))

	s, err := core.NewSalaryService(mock).CreateSalary(context.Background(), core.SalaryInput{
		EmployeeNumber: "EMP0001",
		GrossSalary:    dec("9000"),
		TotalDeduction: dec("1800"),
		Month:          "January",
		Year:           "2024",
	})
	require.NoError(t, err)
	assert.True(t, s.NetSalary.Equal(dec("7200")))
	assert.Equal(t, "Information Technology", s.DepartmentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryService_CreateUnknownEmployee(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM employees e").WithArgs("EMP0404").WillReturnError(pgx.ErrNoRows)

	_, err := core.NewSalaryService(mock).CreateSalary(context.Background(), core.SalaryInput{
		EmployeeNumber: "EMP0404", GrossSalary: dec("1000"), Month: "May", Year: "2024",
	})
	assert.ErrorIs(t, err, core.ErrReferenceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryService_UpdateRecomputesNet(t *testing.T) {
	tests := []struct {
		name      string
		patch     core.SalaryPatch
		gross     string
		deduction string
		net       string
	}{
		{"deduction only", core.SalaryPatch{TotalDeduction: decPtr("2000")}, "9000", "2000", "7000"},
		{"gross only", core.SalaryPatch{GrossSalary: decPtr("10000")}, "10000", "1800", "8200"},
		{"both", core.SalaryPatch{GrossSalary: decPtr("10000"), TotalDeduction: decPtr("500")}, "10000", "500", "9500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectBegin()
			mock.ExpectQuery("FROM salaries WHERE salary_id").WithArgs(testSalaryID).
				WillReturnRows(salaryRows().AddRow(testSalaryID, "EMP0001", dec("9000"), dec("1800"), dec("7200"),
					core.January, "2024", testTime, testTime))
			mock.ExpectExec("UPDATE salaries").
				WithArgs(testSalaryID, "EMP0001", decimalArg(tt.gross), decimalArg(tt.deduction), decimalArg(tt.net), "January", "2024").
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			mock.ExpectQuery("FROM salaries s").WithArgs(testSalaryID).
				WillReturnRows(salaryViewRows().AddRow(testSalaryID, "EMP0001", dec(tt.gross), dec(tt.deduction), dec(tt.net),
					core.January, "2024", testTime, testTime, "John", "Doe", "IT Manager", "Information Technology"))
			mock.ExpectCommit()

			s, err := core.NewSalaryService(mock).UpdateSalary(context.Background(), testSalaryID, tt.patch)
			require.NoError(t, err)
			assert.True(t, s.NetSalary.Equal(dec(tt.net)))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSalaryService_UpdateToUnknownEmployee(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM salaries WHERE salary_id").WithArgs(testSalaryID).
		WillReturnRows(salaryRows().AddRow(testSalaryID, "EMP0001", dec("9000"), dec("1800"), dec("7200"),
			core.January, "2024", testTime, testTime))
	mock.ExpectQuery("FROM employees e").WithArgs("EMP0404").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	other := "EMP0404"
	_, err := core.NewSalaryService(mock).UpdateSalary(context.Background(), testSalaryID, core.SalaryPatch{EmployeeNumber: &other})
	assert.ErrorIs(t, err, core.ErrReferenceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryService_MalformedID(t *testing.T) {
	mock := newMock(t)
	svc := core.NewSalaryService(mock)

	_, err := svc.GetSalary(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.ErrorIs(t, svc.DeleteSalary(context.Background(), "42"), core.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryService_ListFilters(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`s\.employee_number = \$1 AND s\.month = \$2 AND s\.year = \$3`).
		WithArgs("EMP0001", "February", "2024").
		WillReturnRows(salaryViewRows())

	list, err := core.NewSalaryService(mock).ListSalaries(context.Background(),
		core.SalaryFilter{EmployeeNumber: "EMP0001", Month: "february", Year: "2024"})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// ── Reports ──────────────────────────────────────────────────────────────────

func TestReportingService_PayrollReport(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("WHERE s.month = \\$1 AND s.year = \\$2").WithArgs("January", "2024").
		WillReturnRows(pgxmock.NewRows([]string{"salary_id", "employee_number", "first_name", "last_name",
			"position", "department_name", "net_salary"}).
			AddRow(testSalaryID, "EMP0001", "John", "Doe", "IT Manager", "Information Technology", dec("7200")).
			AddRow("7f1c2a9e-3b4d-4f5a-8c7e-1d2b3c4d5e6f", "EMP0005", "David", "Kim", "Software Developer", "Information Technology", dec("6800")))

	r, err := core.NewReportingService(mock).PayrollReport(context.Background(), "january", "2024")
	require.NoError(t, err)
	assert.Equal(t, core.January, r.Month)
	assert.Equal(t, 2, r.Count)
	assert.True(t, r.TotalNet.Equal(dec("14000")))
	assert.Equal(t, "Information Technology", r.Lines[0].DepartmentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportingService_MissingParameters(t *testing.T) {
	mock := newMock(t)
	svc := core.NewReportingService(mock)

	_, err := svc.PayrollReport(context.Background(), "", "2024")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = svc.PayrollReport(context.Background(), "January", "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = svc.DepartmentSummary(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportingService_DepartmentSummary(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("LEFT JOIN salaries s").WithArgs("2024").
		WillReturnRows(pgxmock.NewRows([]string{"department_code", "department_name", "count", "gross", "net"}).
			AddRow("FIN", "Finance", 0, dec("0"), dec("0")).
			AddRow("IT", "Information Technology", 2, dec("17500"), dec("14000")).
			AddRow("MKT", "Marketing", 1, dec("0"), dec("0")))

	r, err := core.NewReportingService(mock).DepartmentSummary(context.Background(), "2024")
	require.NoError(t, err)
	require.Len(t, r.Lines, 3)
	assert.Equal(t, 1, r.Lines[2].EmployeeCount)
	assert.True(t, r.Lines[2].TotalGrossSalary.IsZero())
	assert.Equal(t, 3, r.TotalEmployees)
	assert.True(t, r.TotalNet.Equal(dec("14000")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Users ────────────────────────────────────────────────────────────────────

func TestUserService(t *testing.T) {
	mock := newMock(t)
	cols := []string{"id", "username", "password_hash", "role", "created_at"}
	mock.ExpectQuery("FROM users WHERE username").WithArgs("admin").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(1, "admin", "hash", core.RoleAdmin, testTime))
	mock.ExpectQuery("FROM users WHERE id").WithArgs(7).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO users").WithArgs("admin", "hash", "user").WillReturnError(pgx.ErrNoRows)

	svc := core.NewUserService(mock)
	u, err := svc.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, u.Role)

	_, err = svc.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.CreateUser(context.Background(), "admin", "hash", core.RoleUser)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}
