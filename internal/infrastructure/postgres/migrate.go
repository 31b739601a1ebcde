package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// MigrationsTable tabla donde golang-migrate guarda la versión aplicada.
const MigrationsTable = "schema_migrations"

// Migrator lo que Migrate usa de *migrate.Migrate.
type Migrator interface {
	Up() error
	Version() (version uint, dirty bool, err error)
}

// NewMigrator prepara golang-migrate sobre db con los scripts de dir, nombrados
// {versión}_{título}.up.sql / .down.sql.
func NewMigrator(db *sql.DB, dir fs.FS) (*migrate.Migrate, error) {
	src, err := iofs.New(dir, ".")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones: %w", err)
	}
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return nil, fmt.Errorf("driver de migraciones: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("crear migrador: %w", err)
	}
	return m, nil
}

// Migrate aplica las migraciones pendientes y devuelve la versión en la que queda la base.
// Sin cambios pendientes o sin scripts no es un error; una versión sucia sí.
func Migrate(m Migrator, log *logger.Logger) (uint, error) {
	if err := m.Up(); err != nil {
		var dirty migrate.ErrDirty
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			log.Info().Msg("sin migraciones nuevas")
		case errors.Is(err, os.ErrNotExist):
			log.Warn().Msg("no hay scripts de migración")
			return 0, nil
		case errors.As(err, &dirty):
			log.Error().Int("version", dirty.Version).Msg("base de datos en versión sucia")
			return uint(dirty.Version), fmt.Errorf("versión sucia %d: corrija el esquema y use force", dirty.Version)
		default:
			return 0, fmt.Errorf("aplicar migraciones: %w", err)
		}
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("leer versión: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("versión sucia %d", version)
	}
	log.Info().Uint("version", version).Msg("esquema actualizado")
	return version, nil
}
