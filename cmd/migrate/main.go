// migrate aplica con golang-migrate los scripts de la bitácora de envíos sobre la base
// configurada (DATABASE_URL o DB_HOST/DB_*). La versión aplicada queda en schema_migrations.
//
// Uso: go run ./cmd/migrate [directorio]
// Por defecto usa ./migrations.
package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-movimientos/pkg/config"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

func main() {
	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if !cfg.DB.Enabled() {
		fmt.Fprintln(os.Stderr, "Sin base de datos configurada: defina DATABASE_URL o DB_HOST")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	db, err := sql.Open("pgx", cfg.DB.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	m, err := postgres.NewMigrator(db, os.DirFS(dir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Preparar migraciones: %v\n", err)
		os.Exit(1)
	}

	version, err := postgres.Migrate(m, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migrar: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Esquema en la versión %d\n", version)
}
