package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator aplica las migraciones embebidas con goose sobre el pool de pgx.
type Migrator struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewMigrator abre un *sql.DB sobre el pool (driver pgx/stdlib) para goose.
func NewMigrator(pool *pgxpool.Pool, log zerolog.Logger) (*Migrator, error) {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose dialect: %w", err)
	}
	return &Migrator{db: stdlib.OpenDBFromPool(pool), log: log}, nil
}

// Close libera el *sql.DB (no cierra el pool).
func (m *Migrator) Close() error {
	return m.db.Close()
}

// Up aplica todas las migraciones pendientes.
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, migrationsDir); err != nil {
		if isNoMigrationErr(err) {
			m.log.Info().Msg("sin migraciones pendientes")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	m.log.Info().Msg("migraciones aplicadas")
	return nil
}

// UpTo aplica migraciones hasta version (inclusive).
func (m *Migrator) UpTo(ctx context.Context, version int64) error {
	if err := goose.UpToContext(ctx, m.db, migrationsDir, version); err != nil && !isNoMigrationErr(err) {
		return fmt.Errorf("migrate up to %d: %w", version, err)
	}
	return nil
}

// Down revierte steps migraciones (mínimo 1); all=true revierte todo.
func (m *Migrator) Down(ctx context.Context, steps int, all bool) error {
	if all {
		if err := goose.DownToContext(ctx, m.db, migrationsDir, 0); err != nil && !isNoMigrationErr(err) {
			return fmt.Errorf("migrate down: %w", err)
		}
		m.log.Info().Str("mode", "all").Msg("migraciones revertidas")
		return nil
	}
	if steps <= 0 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, m.db, migrationsDir); err != nil {
			if isNoMigrationErr(err) {
				break
			}
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	m.log.Info().Int("steps", steps).Msg("migraciones revertidas")
	return nil
}

// Status imprime el estado de cada migración en el log de goose.
func (m *Migrator) Status(ctx context.Context) error {
	return goose.StatusContext(ctx, m.db, migrationsDir)
}

// Version versión actual del esquema.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return goose.GetDBVersionContext(ctx, m.db)
}

func isNoMigrationErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, goose.ErrNoNextVersion) || errors.Is(err, goose.ErrNoMigrationFiles) {
		return true
	}
	return strings.Contains(err.Error(), "no migrations")
}

// gooseLogger adapta zerolog a goose.Logger.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msgf(strings.TrimSpace(format), v...)
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(strings.TrimSpace(format), v...)
}
