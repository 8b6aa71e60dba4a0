package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	databaseURL := flag.String("database", os.Getenv("DATABASE_URL"), "postgres connection URL (defaults to $DATABASE_URL)")
	source := flag.String("source", "db/migrations", "migrations directory")
	direction := flag.String("direction", "up", "up or down")
	flag.Parse()

	if *databaseURL == "" {
		log.Fatal("-database flag or DATABASE_URL is required")
	}

	if err := run(*databaseURL, *source, *direction); err != nil {
		log.Fatal(err)
	}
}

func run(databaseURL, source, direction string) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		return fmt.Errorf("unknown direction %q, want up or down", direction)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("schema already current, nothing to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("running %s migrations: %w", direction, err)
	}

	log.Printf("%s migrations applied", direction)
	return nil
}
