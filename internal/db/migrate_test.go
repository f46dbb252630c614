package db_test

import (
	"io/fs"
	"strings"
	"testing"

	"jobmate/application-tracker/internal/db"
)

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(db.Migrations(), "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected embedded migrations")
	}

	for _, name := range files {
		body, err := fs.ReadFile(db.Migrations(), name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.Contains(string(body), "-- +goose Up") {
			t.Errorf("%s: missing goose Up annotation", name)
		}
		if !strings.Contains(string(body), "-- +goose Down") {
			t.Errorf("%s: missing goose Down annotation", name)
		}
	}
}
