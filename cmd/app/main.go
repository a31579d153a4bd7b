package main

import (
	"context"
	"fmt"
	"os"

	"payroll-ledger/internal/adapters/cli"
	"payroll-ledger/internal/app"
	"payroll-ledger/internal/auth"
	"payroll-ledger/internal/config"
	"payroll-ledger/internal/core"
	"payroll-ledger/internal/db"
	"payroll-ledger/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, cli.Usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// stdout carries command output, so logs go to stderr.
	logger.Init("warn", cfg.LogFilePath, os.Stderr)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: 1})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
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

	runner := &cli.Runner{
		Svc:      svc,
		Username: os.Getenv("PAYROLL_USERNAME"),
		Password: os.Getenv("PAYROLL_PASSWORD"),
		Out:      os.Stdout,
	}
	if err := runner.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		pool.Close()
		os.Exit(1)
	}
}
