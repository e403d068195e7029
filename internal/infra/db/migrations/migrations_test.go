package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedSchemasMatch(t *testing.T) {
	for _, dir := range []string{"postgres", "mysql"} {
		entries, err := fs.ReadDir(files, dir)
		if err != nil {
			t.Fatalf("%s: %v", dir, err)
		}
		if len(entries) != 2 {
			t.Fatalf("%s: expected up and down files, got %d", dir, len(entries))
		}
		up, err := fs.ReadFile(files, dir+"/000001_init.up.sql")
		if err != nil {
			t.Fatalf("%s: %v", dir, err)
		}
		for _, table := range []string{"users", "patients", "doctors", "ai_analyses", "final_decisions", "ai_failures"} {
			if !strings.Contains(string(up), "CREATE TABLE IF NOT EXISTS "+table+" (") {
				t.Fatalf("%s: missing table %s", dir, table)
			}
		}
	}
}

func TestUpRejectsUnknownDriver(t *testing.T) {
	if err := Up(nil, "sqlite"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
