package dbmigrate

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Run applies a goose command (up, down, status) to dbURL using the
// migrations in migrationsDir. Callers should pass a direct connection for
// DDL commands; transaction-mode poolers break goose's session handling.
func Run(command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsDir
	}

	db, err := openAndPing(dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Run(command, db, migrationsDir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}

// openAndPing fails fast on unreachable databases instead of inside goose.
func openAndPing(dbURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
