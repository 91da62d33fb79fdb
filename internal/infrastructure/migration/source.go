package migration

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// List returns the base names of the migrations in source, in version order
func List(source fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	names := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), upSuffix); ok {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Validate checks that every up migration has a matching down migration and the reverse
func Validate(source fs.FS) error {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		if base, ok := strings.CutSuffix(name, upSuffix); ok {
			ups[base] = true
		} else if base, ok := strings.CutSuffix(name, downSuffix); ok {
			downs[base] = true
		}
	}

	if len(ups) == 0 {
		return fmt.Errorf("no migrations found")
	}
	for base := range ups {
		if !downs[base] {
			return fmt.Errorf("migration %s has no down file", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			return fmt.Errorf("migration %s has no up file", base)
		}
	}
	return nil
}
