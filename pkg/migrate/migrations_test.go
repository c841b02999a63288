package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/multierr"
)

func TestEmbeddedMigrationsValidate(t *testing.T) {
	if err := ValidateEmbedded(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("validate on disk: %v", err)
	}

	entries, err := embedded.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 embedded migrations, got %d", len(entries))
	}
}

func TestMigrationsCoverStorefrontTables(t *testing.T) {
	checks := map[string][]string{
		"*_create_users_table.sql": {
			"CREATE TABLE IF NOT EXISTS users",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username",
		},
		"*_create_products_table.sql": {
			"CHECK (price > 0)",
			"CHECK (min_order_quantity > 0)",
			"DEFAULT 'General'",
		},
		"*_create_orders_table.sql": {
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_number",
			"'Out for Delivery'",
			"items JSONB NOT NULL",
		},
		"*_create_carts_table.sql": {
			"REFERENCES users(id) ON DELETE CASCADE",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_id",
		},
	}

	for pattern, subs := range checks {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil || len(matches) != 1 {
			t.Fatalf("expected one migration for %s, got %v (err=%v)", pattern, matches, err)
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read %s: %v", matches[0], err)
		}
		for _, sub := range subs {
			if !strings.Contains(string(data), sub) {
				t.Errorf("%s missing %q", matches[0], sub)
			}
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Product Tags!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_product_tags.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func TestCreateRefusesExistingVersion(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	if _, err := createAt(dir, "carts", at); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := createAt(dir, "carts", at); err == nil {
		t.Fatalf("expected second create with same stamp to fail")
	}
	if _, err := createAt(dir, "!!!", at); err == nil {
		t.Fatalf("expected empty slug to fail")
	}
}

func TestValidateFSReportsEveryProblem(t *testing.T) {
	fsys := fstest.MapFS{
		"m/orders.sql":                     {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"m/20250301090000_users.sql":       {Data: []byte("-- +goose Up\n")},
		"m/20250301090000_users_again.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"m/20250301090100_products.sql":    {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"m/README.md":                      {Data: []byte("ignored")},
	}
	err := ValidateFS(fsys, "m")
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	if got := len(multierr.Errors(err)); got != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", got, err)
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "orders.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected invalid filename error")
	}
}

func TestRunRequiresDB(t *testing.T) {
	if err := Run(context.Background(), nil, DefaultDir, "up"); err == nil {
		t.Fatalf("expected error without db")
	}
}
