// migrate applies or rolls back the embedded schema migrations.
//
// Usage: go run ./cmd/migrate [up|down|version]
package main

import (
	"fmt"
	"os"

	"payroll-ledger/internal/config"
	"payroll-ledger/internal/db"
	"payroll-ledger/internal/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), "", os.Stderr)
	log := logger.Get()

	url, err := config.LoadDatabaseURL()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		if err := db.MigrateUp(url); err != nil {
			log.Fatal().Err(err).Msg("[UP]")
		}
	case "down":
		if err := db.MigrateDown(url); err != nil {
			log.Fatal().Err(err).Msg("[DOWN]")
		}
	case "version":
		version, dirty, err := db.MigrationVersion(url)
		if err != nil {
			log.Fatal().Err(err).Msg("[VERSION]")
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q; use up, down or version\n", cmd)
		os.Exit(2)
	}
}
