package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-widgy/internal/forms"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/goliatone/go-cms-widgy/internal/pages"
	"github.com/goliatone/go-cms-widgy/internal/runtimeconfig"
	"github.com/goliatone/go-cms-widgy/internal/versioning"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Models lists every table widgy owns, in creation order.
func Models() []any {
	return []any{
		(*nodes.Node)(nil),
		(*versioning.Tracker)(nil),
		(*versioning.Commit)(nil),
		(*pages.Page)(nil),
		(*forms.Submission)(nil),
	}
}

type index struct {
	model  any
	name   string
	column string
}

var indexes = []index{
	{model: (*versioning.Commit)(nil), name: "widgy_version_commits_root_idx", column: "root_node_id"},
	{model: (*versioning.Commit)(nil), name: "widgy_version_commits_tracker_idx", column: "tracker_id"},
	{model: (*versioning.Tracker)(nil), name: "widgy_version_trackers_working_copy_idx", column: "working_copy_id"},
	{model: (*pages.Page)(nil), name: "widgy_pages_tracker_idx", column: "tracker_id"},
	{model: (*forms.Submission)(nil), name: "widgy_form_submissions_form_idx", column: "form_node_id"},
}

// Open connects to the database described by cfg.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, runtimeconfig.ErrStorageDSNRequired
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Dialect)) {
	case "", DialectSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		// sqlite serialises writers; one connection keeps in-memory databases shared
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case DialectPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDialectUnknown, cfg.Dialect)
	}
}

// EnsureSchema creates missing tables and lookup indexes.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("storage: database is required")
	}
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	for _, idx := range indexes {
		_, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.column).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("storage: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
