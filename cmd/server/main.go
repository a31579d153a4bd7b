package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "payroll-ledger/internal/adapters/web"
	"payroll-ledger/internal/app"
	"payroll-ledger/internal/auth"
	"payroll-ledger/internal/config"
	"payroll-ledger/internal/core"
	"payroll-ledger/internal/db"
	"payroll-ledger/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFilePath, os.Stdout)
	log := logger.Get()

	if len(cfg.JWTSecret) < 32 {
		log.Warn().Msg("JWT_SECRET is shorter than 32 bytes")
	}

	if cfg.RunMigrations {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("migrations")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()

	users := core.NewUserService(pool)
	gate := auth.NewGate(users, auth.NewTokenIssuer(cfg.JWTSecret))
	svc := app.NewAppService(
		core.NewDepartmentService(pool),
		core.NewEmployeeService(pool),
		core.NewSalaryService(pool),
		core.NewReportingService(pool),
		users,
		gate,
	)

	if cfg.BootstrapAdminUsername != "" && cfg.BootstrapAdminPassword != "" {
		if _, err := svc.BootstrapAdmin(ctx, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword); err != nil {
			log.Fatal().Err(err).Msg("bootstrap admin")
		}
	}

	handler := webAdapter.NewHandler(svc, webAdapter.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Ping:           pool.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
