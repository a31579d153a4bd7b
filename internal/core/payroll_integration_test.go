package core_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"payroll-ledger/internal/core"
	"payroll-ledger/internal/db"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test to protect live database")
	}

	if err := db.MigrateUp(dbURL); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE salaries, employees, departments, users, id_sequences CASCADE;

		INSERT INTO departments (department_code, department_name, gross_salary) VALUES
		('IT', 'Information Technology', 80000),
		('HR', 'Human Resources', 65000);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func newJohnDoe(number string) core.EmployeeInput {
	return core.EmployeeInput{
		Number: number, FirstName: "John", LastName: "Doe", Position: "IT Manager",
		Address: "Kigali, Rwanda", Telephone: "+250 789 123 456",
		Gender: "M", HiredDate: "2020-01-15", DepartmentCode: "IT",
	}
}

func TestPayroll_EndToEnd(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	employees := core.NewEmployeeService(pool)
	salaries := core.NewSalaryService(pool)
	departments := core.NewDepartmentService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	// 1. Generated number starts at EMP0001
	emp, err := employees.CreateEmployee(ctx, newJohnDoe(""))
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if emp.Number != "EMP0001" {
		t.Fatalf("Expected EMP0001, got %s", emp.Number)
	}

	// 2. Salary net is derived
	sal, err := salaries.CreateSalary(ctx, core.SalaryInput{
		EmployeeNumber: emp.Number,
		GrossSalary:    dec("9000"),
		TotalDeduction: dec("1800"),
		Month:          "January",
		Year:           "2024",
	})
	if err != nil {
		t.Fatalf("CreateSalary failed: %v", err)
	}
	if !sal.NetSalary.Equal(dec("7200")) {
		t.Errorf("Expected net 7200, got %s", sal.NetSalary)
	}

	// 3. Payroll report has exactly one row with the department name resolved
	report, err := reports.PayrollReport(ctx, "January", "2024")
	if err != nil {
		t.Fatalf("PayrollReport failed: %v", err)
	}
	if len(report.Lines) != 1 {
		t.Fatalf("Expected 1 payroll line, got %d", len(report.Lines))
	}
	line := report.Lines[0]
	if line.DepartmentName != "Information Technology" || !line.NetSalary.Equal(dec("7200")) {
		t.Errorf("Unexpected payroll line: %+v", line)
	}

	// 4. Deduction-only update recomputes from stored gross
	deduction := dec("2000")
	sal, err = salaries.UpdateSalary(ctx, sal.ID, core.SalaryPatch{TotalDeduction: &deduction})
	if err != nil {
		t.Fatalf("UpdateSalary failed: %v", err)
	}
	if !sal.NetSalary.Equal(dec("7000")) {
		t.Errorf("Expected net 7000 after deduction update, got %s", sal.NetSalary)
	}

	// 5. Gross-only update recomputes from stored deduction
	gross := dec("9500")
	sal, err = salaries.UpdateSalary(ctx, sal.ID, core.SalaryPatch{GrossSalary: &gross})
	if err != nil {
		t.Fatalf("UpdateSalary failed: %v", err)
	}
	if !sal.NetSalary.Equal(dec("7500")) {
		t.Errorf("Expected net 7500 after gross update, got %s", sal.NetSalary)
	}

	// 6. Department delete is blocked while the employee references it
	err = departments.DeleteDepartment(ctx, "IT")
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("Expected Conflict deleting IT, got %v", err)
	}

	if err := employees.DeleteEmployee(ctx, emp.Number); err != nil {
		t.Fatalf("DeleteEmployee failed: %v", err)
	}
	if err := departments.DeleteDepartment(ctx, "IT"); err != nil {
		t.Fatalf("DeleteDepartment after employee removal failed: %v", err)
	}

	// 7. Salaries went with the employee
	if _, err := salaries.GetSalary(ctx, sal.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected salary removed with employee, got %v", err)
	}
}

func TestPayroll_ReferenceNotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	employees := core.NewEmployeeService(pool)
	salaries := core.NewSalaryService(pool)
	ctx := context.Background()

	in := newJohnDoe("")
	in.DepartmentCode = "NOPE"
	if _, err := employees.CreateEmployee(ctx, in); !errors.Is(err, core.ErrReferenceNotFound) {
		t.Fatalf("Expected ReferenceNotFound, got %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM employees").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no employee persisted, got %d", count)
	}

	_, err := salaries.CreateSalary(ctx, core.SalaryInput{
		EmployeeNumber: "EMP0404", GrossSalary: dec("1000"), Month: "January", Year: "2024",
	})
	if !errors.Is(err, core.ErrReferenceNotFound) {
		t.Fatalf("Expected ReferenceNotFound for salary, got %v", err)
	}
}

func TestPayroll_DuplicateKeys(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	_, err := core.NewDepartmentService(pool).CreateDepartment(ctx, core.DepartmentInput{
		Code: "IT", Name: "Duplicate", GrossSalary: dec("1"),
	})
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("Expected DuplicateKey for department, got %v", err)
	}

	employees := core.NewEmployeeService(pool)
	if _, err := employees.CreateEmployee(ctx, newJohnDoe("EMP0100")); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if _, err := employees.CreateEmployee(ctx, newJohnDoe("EMP0100")); !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("Expected DuplicateKey for employee, got %v", err)
	}
}

func TestPayroll_ConcurrentNumberGeneration(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	employees := core.NewEmployeeService(pool)
	ctx := context.Background()

	const n = 8
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emp, err := employees.CreateEmployee(ctx, newJohnDoe(""))
			if err != nil {
				t.Errorf("CreateEmployee failed: %v", err)
				return
			}
			numbers <- emp.Number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		if seen[num] {
			t.Errorf("Employee number %s issued twice", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Errorf("Expected %d distinct numbers, got %d", n, len(seen))
	}
}

func TestEmployee_HiredDateIgnoresDateStyle(t *testing.T) {
	seeded := setupTestDB(t)
	seeded.Close()

	ctx := context.Background()
	cfg, err := pgxpool.ParseConfig(os.Getenv("TEST_DATABASE_URL"))
	if err != nil {
		t.Fatalf("Failed to parse TEST_DATABASE_URL: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["datestyle"] = "SQL, DMY"
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect with DateStyle override: %v", err)
	}
	defer pool.Close()

	employees := core.NewEmployeeService(pool)

	created, err := employees.CreateEmployee(ctx, newJohnDoe("EMP0100"))
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if created.HiredDate != "2020-01-15" {
		t.Errorf("Create returned hired_date %q, want 2020-01-15", created.HiredDate)
	}

	got, err := employees.GetEmployee(ctx, "EMP0100")
	if err != nil {
		t.Fatalf("GetEmployee failed: %v", err)
	}
	if got.HiredDate != "2020-01-15" {
		t.Errorf("Get returned hired_date %q, want 2020-01-15", got.HiredDate)
	}

	position := "Platform Lead"
	updated, err := employees.UpdateEmployee(ctx, "EMP0100", core.EmployeePatch{Position: &position})
	if err != nil {
		t.Fatalf("UpdateEmployee failed: %v", err)
	}
	if updated.HiredDate != "2020-01-15" {
		t.Errorf("Update returned hired_date %q, want 2020-01-15", updated.HiredDate)
	}
}

func TestReporting_DepartmentSummary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	employees := core.NewEmployeeService(pool)
	salaries := core.NewSalaryService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	emp, err := employees.CreateEmployee(ctx, newJohnDoe(""))
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	inputs := []core.SalaryInput{
		{EmployeeNumber: emp.Number, GrossSalary: dec("9000"), TotalDeduction: dec("1800"), Month: "January", Year: "2024"},
		{EmployeeNumber: emp.Number, GrossSalary: dec("9000"), TotalDeduction: dec("1800"), Month: "February", Year: "2024"},
		// Duplicate period entries are kept and summed.
		{EmployeeNumber: emp.Number, GrossSalary: dec("100"), TotalDeduction: dec("0"), Month: "February", Year: "2024"},
		{EmployeeNumber: emp.Number, GrossSalary: dec("5000"), TotalDeduction: dec("500"), Month: "January", Year: "2023"},
	}
	for _, in := range inputs {
		if _, err := salaries.CreateSalary(ctx, in); err != nil {
			t.Fatalf("CreateSalary failed: %v", err)
		}
	}

	summary, err := reports.DepartmentSummary(ctx, "2024")
	if err != nil {
		t.Fatalf("DepartmentSummary failed: %v", err)
	}
	if len(summary.Lines) != 2 {
		t.Fatalf("Expected 2 departments, got %d", len(summary.Lines))
	}

	// Ordered by code: HR, IT
	hr, it := summary.Lines[0], summary.Lines[1]
	if hr.DepartmentCode != "HR" || hr.EmployeeCount != 0 || !hr.TotalGrossSalary.IsZero() {
		t.Errorf("Unexpected HR line: %+v", hr)
	}
	if it.EmployeeCount != 1 {
		t.Errorf("Expected 1 IT employee, got %d", it.EmployeeCount)
	}
	if !it.TotalGrossSalary.Equal(dec("18100")) || !it.TotalNetSalary.Equal(dec("14500")) {
		t.Errorf("Unexpected IT totals: gross %s net %s", it.TotalGrossSalary, it.TotalNetSalary)
	}

	// A year without salary rows keeps the employee count and zero sums.
	empty, err := reports.DepartmentSummary(ctx, "2030")
	if err != nil {
		t.Fatalf("DepartmentSummary failed: %v", err)
	}
	if empty.Lines[1].EmployeeCount != 1 || !empty.Lines[1].TotalNetSalary.IsZero() {
		t.Errorf("Unexpected 2030 IT line: %+v", empty.Lines[1])
	}

	payroll, err := reports.PayrollReport(ctx, "February", "2024")
	if err != nil {
		t.Fatalf("PayrollReport failed: %v", err)
	}
	if len(payroll.Lines) != 2 {
		t.Errorf("Expected one row per February salary, got %d", len(payroll.Lines))
	}
}
