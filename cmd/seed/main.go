// seed loads the sample payroll data: an admin account, four departments,
// five employees and two months of salaries for the current year.
// Records that already exist are left as they are, so it can be re-run.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"payroll-ledger/internal/app"
	"payroll-ledger/internal/auth"
	"payroll-ledger/internal/config"
	"payroll-ledger/internal/core"
	"payroll-ledger/internal/db"
	"payroll-ledger/internal/logger"
)

var departments = []app.CreateDepartmentRequest{
	{Code: "IT", Name: "Information Technology", GrossSalary: decimal.NewFromInt(80000)},
	{Code: "HR", Name: "Human Resources", GrossSalary: decimal.NewFromInt(65000)},
	{Code: "FIN", Name: "Finance", GrossSalary: decimal.NewFromInt(75000)},
	{Code: "MKT", Name: "Marketing", GrossSalary: decimal.NewFromInt(70000)},
}

var employees = []app.CreateEmployeeRequest{
	{Number: "EMP0001", FirstName: "John", LastName: "Doe", Position: "IT Manager", Address: "Kigali, Rwanda", Telephone: "+250 789 123 456", Gender: "M", HiredDate: "2020-01-15", DepartmentCode: "IT"},
	{Number: "EMP0002", FirstName: "Jane", LastName: "Smith", Position: "HR Specialist", Address: "Rubavu, Rwanda", Telephone: "+250 789 234 567", Gender: "F", HiredDate: "2021-03-10", DepartmentCode: "HR"},
	{Number: "EMP0003", FirstName: "Robert", LastName: "Johnson", Position: "Financial Analyst", Address: "Kigali, Rwanda", Telephone: "+250 789 345 678", Gender: "M", HiredDate: "2019-11-22", DepartmentCode: "FIN"},
	{Number: "EMP0004", FirstName: "Maria", LastName: "Garcia", Position: "Marketing Specialist", Address: "Rubavu, Rwanda", Telephone: "+250 789 456 789", Gender: "F", HiredDate: "2022-02-05", DepartmentCode: "MKT"},
	{Number: "EMP0005", FirstName: "David", LastName: "Kim", Position: "Software Developer", Address: "Kigali, Rwanda", Telephone: "+250 789 567 890", Gender: "M", HiredDate: "2021-07-15", DepartmentCode: "IT"},
}

// pay is gross and deduction per employee for each seeded month.
var pay = []struct {
	employee         string
	gross, deduction int64
}{
	{"EMP0001", 9000, 1800},
	{"EMP0002", 7000, 1400},
	{"EMP0003", 8000, 1600},
	{"EMP0004", 7500, 1500},
	{"EMP0005", 8500, 1700},
}

var months = []core.Month{core.January, core.February}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFilePath, os.Stdout)
	log := logger.Get()

	if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL})
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()

	users := core.NewUserService(pool)
	svc := app.NewAppService(
		core.NewDepartmentService(pool),
		core.NewEmployeeService(pool),
		core.NewSalaryService(pool),
		core.NewReportingService(pool),
		users,
		auth.NewGate(users, auth.NewTokenIssuer(cfg.JWTSecret)),
	)

	if err := seed(ctx, svc, strconv.Itoa(time.Now().Year())); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Msg("sample data seeded")
}

func seed(ctx context.Context, svc app.ApplicationService, year string) error {
	log := logger.FromContext(ctx)

	if _, err := svc.BootstrapAdmin(ctx, "admin", "admin123"); err != nil {
		return err
	}

	for _, d := range departments {
		if _, err := svc.CreateDepartment(ctx, d); skipExisting(err) != nil {
			return err
		}
	}
	log.Info().Int("count", len(departments)).Msg("departments ready")

	for _, e := range employees {
		if _, err := svc.CreateEmployee(ctx, e); skipExisting(err) != nil {
			return err
		}
	}
	log.Info().Int("count", len(employees)).Msg("employees ready")

	// Duplicate periods are legal, so existing rows are checked explicitly.
	created := 0
	for _, m := range months {
		for _, p := range pay {
			existing, err := svc.ListSalaries(ctx, core.SalaryFilter{EmployeeNumber: p.employee, Month: string(m), Year: year})
			if err != nil {
				return err
			}
			if len(existing.Salaries) > 0 {
				continue
			}
			if _, err := svc.CreateSalary(ctx, app.CreateSalaryRequest{
				EmployeeNumber: p.employee,
				GrossSalary:    decimal.NewFromInt(p.gross),
				TotalDeduction: decimal.NewFromInt(p.deduction),
				Month:          string(m),
				Year:           year,
			}); err != nil {
				return err
			}
			created++
		}
	}
	log.Info().Int("created", created).Str("year", year).Msg("salaries ready")
	return nil
}

func skipExisting(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil
	}
	return err
}
