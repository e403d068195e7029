// Package migrations applies the embedded schema for the configured driver.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql mysql/*.sql
var files embed.FS

// Up applies every pending migration. Already up-to-date is not an error.
// MySQL needs multiStatements=true in its DSN.
func Up(db *sql.DB, driver string) error {
	var (
		inst database.Driver
		err  error
	)
	switch driver {
	case "postgres":
		inst, err = migratepg.WithInstance(db, &migratepg.Config{})
	case "mysql":
		inst, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migration driver init failed: %w", err)
	}

	src, err := iofs.New(files, driver)
	if err != nil {
		return fmt.Errorf("migration source init failed: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, inst)
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}
