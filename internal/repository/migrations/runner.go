package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

// Store is the backend-specific half of the migration runner. Each database
// package tracks applied files in its own schema_migrations table.
type Store interface {
	EnsureTable(ctx context.Context) error
	Applied(ctx context.Context) (map[string]bool, error)
	// Apply executes the file contents and records filename, atomically.
	Apply(ctx context.Context, filename, content string) error
}

// Run applies every .sql file in fsys that the store has not recorded yet,
// in lexical filename order.
func Run(ctx context.Context, store Store, fsys fs.FS) error {
	if err := store.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := store.Applied(ctx)
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	files, err := List(fsys)
	if err != nil {
		return fmt.Errorf("list migration files: %w", err)
	}

	for _, filename := range files {
		if applied[filename] {
			slog.Debug("migration already applied", "file", filename)
			continue
		}

		content, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", filename, err)
		}
		if err := store.Apply(ctx, filename, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filename, err)
		}
		slog.Info("migration applied", "file", filename)
	}

	return nil
}

// List returns the sorted names of the .sql files at the root of fsys.
func List(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
