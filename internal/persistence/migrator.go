package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"

	_ "github.com/AkatukiSora/ace-analytics/internal/persistence/migrations"
)

// migrationsDir holds the SQL migrations; Go migrations register
// themselves from the migrations package.
const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrationSetupOnce sync.Once

func runMigrations(ctx context.Context, db *sql.DB) error {
	var setupErr error
	migrationSetupOnce.Do(func() {
		goose.SetBaseFS(migrationFS)
		goose.SetLogger(goose.NopLogger())
		setupErr = goose.SetDialect("sqlite3")
	})
	if setupErr != nil {
		return fmt.Errorf("setup goose: %w", setupErr)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if v, err := goose.GetDBVersionContext(ctx, db); err == nil {
		slog.Debug("hand store schema ready", "version", v)
	}
	return nil
}
