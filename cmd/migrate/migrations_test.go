package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
)

func testMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file lives in cmd/migrate/, so repo root is ../..
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")
}

func TestCollectMigrations_ParsesMigrationsDir(t *testing.T) {
	migrations, err := goose.CollectMigrations(testMigrationsDir(t), 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}
	if len(migrations) == 0 || migrations[0].Version != 1 {
		t.Fatalf("expected the books migration at version 1, got %v", migrations)
	}
}

func TestBooksMigration_Schema(t *testing.T) {
	b, err := os.ReadFile(filepath.Join(testMigrationsDir(t), "00001_create_books.sql"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// Compare with whitespace collapsed so column alignment can change.
	sql := strings.Join(strings.Fields(string(b)), " ")
	up, down, found := strings.Cut(sql, "-- +goose Down")
	if !found {
		t.Fatal("missing '-- +goose Down'")
	}

	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS books",
		"isbn VARCHAR(20) NOT NULL",
		"price NUMERIC(10, 2) NOT NULL",
		"stock_quantity INTEGER NOT NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS ix_books_isbn ON books (isbn)",
	} {
		if !strings.Contains(up, want) {
			t.Errorf("up migration missing %q", want)
		}
	}
	for _, want := range []string{"DROP INDEX IF EXISTS ix_books_isbn", "DROP TABLE IF EXISTS books"} {
		if !strings.Contains(down, want) {
			t.Errorf("down migration missing %q", want)
		}
	}
}
