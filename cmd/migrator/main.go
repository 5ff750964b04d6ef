package main

import (
	"context"
	"log"

	"github.com/UnknownOlympus/employees/internal/config"
	"github.com/UnknownOlympus/employees/internal/repository"
)

func main() {
	cfg := config.MustLoad()
	if cfg.Storage.Driver != config.StoragePostgres {
		log.Fatalf("Migrations need the postgres storage driver, got %q", cfg.Storage.Driver)
	}

	dbpool, dbErr := repository.NewDatabase(context.Background(), cfg.Postgres.DSN())
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	if migrationErr := repository.Migrate(dbpool, cfg.Migrations.Dir); migrationErr != nil {
		log.Fatal(migrationErr) //nolint:gocritic // pool is closed by process exit
	}

	log.Println("✅ Migrations applied successfully")
}
