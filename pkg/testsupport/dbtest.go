package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a shared-cache in-memory sqlite database.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	if name == "" {
		name = "widgy"
	}
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name))
}

// NewBunDB returns a bun handle over a fresh in-memory sqlite database with
// tables created for the supplied models. The database is closed when the
// test finishes.
func NewBunDB(tb testing.TB, models ...any) *bun.DB {
	tb.Helper()

	sqlDB, err := NewSQLiteMemoryDB(databaseName(tb.Name()))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	// a single connection keeps the shared in-memory database alive
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	tb.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			tb.Fatalf("create table %T: %v", model, err)
		}
	}
	return db
}

func databaseName(testName string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", "#", "_")
	return "widgy_" + replacer.Replace(testName)
}
