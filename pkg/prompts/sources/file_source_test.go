package sources

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ilkoid/zveno-ai/pkg/prompts"
)

// TestFileSourceLoad verifies YAML loading and the not-found error.
func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	content := "template: \"Hi {name}\"\nvariables:\n  - name\n"
	if err := os.WriteFile(filepath.Join(dir, "hi.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	source := NewFileSource(dir)

	file, err := source.Load(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if file.Template != "Hi {name}" {
		t.Errorf("Template = %q", file.Template)
	}
	if len(file.Variables) != 1 || file.Variables[0] != "name" {
		t.Errorf("Variables = %v, want [name]", file.Variables)
	}

	_, err = source.Load(context.Background(), "missing")
	if !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

// TestDatabaseSourceLoad verifies loading templates from a SQL table.
func TestDatabaseSourceLoad(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	setup := []string{
		"CREATE TABLE prompts (id TEXT PRIMARY KEY, template TEXT, variables TEXT, metadata TEXT)",
		`INSERT INTO prompts VALUES ('greet', 'Hello {who}', '["who"]', NULL)`,
	}
	for _, stmt := range setup {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to execute %q: %v", stmt, err)
		}
	}

	source := NewDatabaseSource(db, "")

	file, err := source.Load(context.Background(), "greet")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if file.Template != "Hello {who}" {
		t.Errorf("Template = %q", file.Template)
	}
	if len(file.Variables) != 1 || file.Variables[0] != "who" {
		t.Errorf("Variables = %v, want [who]", file.Variables)
	}

	_, err = source.Load(context.Background(), "missing")
	if !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}
