// Package archive rotates state files out of the way so the next run starts
// fresh while the old data stays on disk.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// now is replaced in tests
var now = time.Now

// ArchiveFile moves path into an "archive" directory next to it, named
// after the file with a timestamp, and returns the new location
func ArchiveFile(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", path)
	}

	archiveDir := filepath.Join(filepath.Dir(path), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, now().Format("20060102-150405"), ext))
	if _, err := os.Stat(archivePath); err == nil {
		// Same second; add microseconds to make it unique
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, now().Format("20060102-150405.000000"), ext))
	}

	if err := os.Rename(path, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", base, err)
	}

	// SQLite side files travel with the database
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(path + suffix); err == nil {
			if err := os.Rename(path+suffix, archivePath+suffix); err != nil {
				return archivePath, fmt.Errorf("failed to archive %s%s: %w", base, suffix, err)
			}
		}
	}

	return archivePath, nil
}
