// Package main provides a CLI tool for running database migrations.
package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/iliyamo/transit-pass/internal/config"
	"github.com/iliyamo/transit-pass/internal/database"
)

func main() {
	action := flag.String("action", "up", "Migration action: up, down, version")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	databaseURL := cfg.DatabaseURL()

	switch *action {
	case "up":
		log.Println("Running migrations...")
		if err := database.RunMigrations(databaseURL, cfg.MigrationsPath); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")

	case "down":
		log.Println("Rolling back migration...")
		if err := database.RollbackMigrations(databaseURL, cfg.MigrationsPath); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Println("Migration rolled back successfully")

	case "version":
		version, dirty, err := database.MigrationVersion(databaseURL, cfg.MigrationsPath)
		if err != nil {
			log.Fatalf("Version lookup failed: %v", err)
		}
		log.Printf("Current migration version: %d (dirty: %v)", version, dirty)

	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}
