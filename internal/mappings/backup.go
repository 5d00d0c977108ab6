package mappings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// backupKeep is how many timestamped backups are retained per file.
const backupKeep = 10

// Backup copies the file at path into a backups/ directory next to it,
// stamped with the current time, then rotates old copies. Runs before any
// mutation of a live mapping file so a restorable state always exists.
// A path that does not exist yet needs no backup.
func Backup(path string, now time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	dir := filepath.Join(filepath.Dir(path), "backups")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	base := filepath.Base(path)
	name := fmt.Sprintf("%s.%s.bak", base, now.Format("20060102_150405"))
	dest := filepath.Join(dir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	if err := rotateBackups(dir, base); err != nil {
		return "", err
	}
	return dest, nil
}

// rotateBackups drops the oldest backups of one file beyond the keep count.
// The timestamp format sorts lexically, so name order is age order.
func rotateBackups(dir, base string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("rotate backups in %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, base+".") && strings.HasSuffix(name, ".bak") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for len(names) > backupKeep {
		if err := os.Remove(filepath.Join(dir, names[0])); err != nil {
			return fmt.Errorf("rotate backups in %s: %w", dir, err)
		}
		names = names[1:]
	}
	return nil
}
