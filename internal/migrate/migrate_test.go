package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestSQLiteUpDown(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "expenses.db")

	if err := Up(ctx, "sqlite", dsn); err != nil {
		t.Fatalf("Up: %v", err)
	}
	v, err := Version(ctx, "sqlite", dsn)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 1 {
		t.Errorf("version = %d, want 1", v)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO expenses (id, position, date, description, category, amount) VALUES (?, ?, ?, ?, ?, ?)`,
		"0b8f7c36-6d43-4a41-9a4d-8c3d6e8b87a1", 0, "2024-01-02 03:04:05", "Tea", "Food", "2.50",
	); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}

	// Up is idempotent.
	if err := Up(ctx, "sqlite", dsn); err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if err := Status(ctx, "sqlite", dsn); err != nil {
		t.Fatalf("Status: %v", err)
	}

	if err := Down(ctx, "sqlite", dsn); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if v, _ := Version(ctx, "sqlite", dsn); v != 0 {
		t.Errorf("version after Down = %d, want 0", v)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if err := Up(context.Background(), "mysql", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrationDir(t *testing.T) {
	cases := map[string]string{
		"sqlite":       "migrations/sqlite",
		"postgres":     "migrations/postgres",
		"postgrespool": "migrations/postgres",
	}
	for driver, want := range cases {
		if got := getMigrationDir(driver); got != want {
			t.Errorf("getMigrationDir(%q) = %q, want %q", driver, got, want)
		}
	}
}
